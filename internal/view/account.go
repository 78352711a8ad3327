package view

import (
	"math"
	"strings"

	"github.com/Ari-Han-t/CAPS/internal/domain"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// NoTransactionsYet is the empty state of the account panel.
const NoTransactionsYet = "No transactions yet"

// SpendPercent is daily spend as a percentage of the limit, clamped to [0, 100].
// A zero limit reads as fully spent; negative or NaN spend reads as nothing spent.
func SpendPercent(dailySpend, dailyLimit float64) float64 {
	if math.IsNaN(dailySpend) || dailySpend < 0 {
		return 0
	}
	if dailyLimit == 0 {
		return 100
	}
	return clamp(dailySpend/dailyLimit*100, 0, 100)
}

// SpendLevel grades a spend percentage.
type SpendLevel string

const (
	SpendNormal   SpendLevel = "normal"
	SpendElevated SpendLevel = "elevated"
	SpendHigh     SpendLevel = "high"
)

// LevelForPercent grades p: above 80 is high, above 50 elevated.
func LevelForPercent(p float64) SpendLevel {
	switch {
	case p > 80:
		return SpendHigh
	case p > 50:
		return SpendElevated
	default:
		return SpendNormal
	}
}

// StatusIcon is the icon of a transaction status.
type StatusIcon string

const (
	IconSuccess    StatusIcon = "success"
	IconFailure    StatusIcon = "failure"
	IconInProgress StatusIcon = "in_progress"
	IconNeutral    StatusIcon = "neutral"
)

// IconForStatus resolves status case-insensitively; unknown statuses are neutral.
func IconForStatus(status string) StatusIcon {
	switch strings.ToLower(status) {
	case "completed", "success":
		return IconSuccess
	case "failed":
		return IconFailure
	case "pending", "executing":
		return IconInProgress
	default:
		return IconNeutral
	}
}

// AccountPanel is the display form of AccountProps.
type AccountPanel struct {
	Balance      string           `json:"balance"`
	SpendLine    string           `json:"spend_line"`
	SpendPercent float64          `json:"spend_percent"`
	SpendLevel   SpendLevel       `json:"spend_level"`
	Rows         []TransactionRow `json:"rows"`
	EmptyText    string           `json:"empty_text,omitempty"`
}

type TransactionRow struct {
	Merchant string     `json:"merchant"`
	Amount   string     `json:"amount"`
	Status   string     `json:"status"`
	Icon     StatusIcon `json:"icon"`
	Time     string     `json:"time"`
}

// NewAccountPanel derives the panel of p.
func NewAccountPanel(p domain.AccountProps) AccountPanel {
	pct := SpendPercent(p.DailySpend, p.DailyLimit)
	printer := message.NewPrinter(language.English)
	titler := cases.Title(language.English, cases.NoLower)
	panel := AccountPanel{
		Balance:      "₹" + printer.Sprint(number.Decimal(p.Balance, number.MaxFractionDigits(2))),
		SpendLine:    "₹" + plain(p.DailySpend) + " / ₹" + plain(p.DailyLimit),
		SpendPercent: pct,
		SpendLevel:   LevelForPercent(pct),
		Rows:         make([]TransactionRow, 0, len(p.Transactions)),
	}
	if len(p.Transactions) == 0 {
		panel.EmptyText = NoTransactionsYet
		return panel
	}
	for _, tx := range p.Transactions {
		panel.Rows = append(panel.Rows, TransactionRow{
			Merchant: tx.Merchant,
			Amount:   "-₹" + plain(tx.Amount),
			Status:   titler.String(tx.Status),
			Icon:     IconForStatus(tx.Status),
			Time:     FormatTime(tx.Timestamp),
		})
	}
	return panel
}
