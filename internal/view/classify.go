// Package view turns session data into display-ready structures. Everything
// here is pure: the same input and render time always yield the same output.
package view

import (
	"time"

	"github.com/Ari-Han-t/CAPS/internal/domain"
)

// FragmentKind identifies one block of a rendered system turn.
type FragmentKind string

const (
	FragmentHeader           FragmentKind = "header"
	FragmentMessage          FragmentKind = "message"
	FragmentPaymentDetails   FragmentKind = "payment_details"
	FragmentBalanceInquiry   FragmentKind = "balance_inquiry"
	FragmentHistory          FragmentKind = "history"
	FragmentExecutionSuccess FragmentKind = "execution_success"
	FragmentViolations       FragmentKind = "violations"
)

// SpendCap is the reference cap the balance fragment measures daily spend against.
const SpendCap = 2000.0

// UnknownMerchant is shown when a payment intent carries no merchant.
const UnknownMerchant = "Unknown"

// NoRecentTransactions is the empty state of the history fragment.
const NoRecentTransactions = "No recent transactions"

// Fragment is one display block. Exactly one payload pointer matching Kind is set.
type Fragment struct {
	Kind             FragmentKind      `json:"kind"`
	Header           *Header           `json:"header,omitempty"`
	Message          *Message          `json:"message,omitempty"`
	PaymentDetails   *PaymentDetails   `json:"payment_details,omitempty"`
	BalanceInquiry   *BalanceInquiry   `json:"balance_inquiry,omitempty"`
	History          *History          `json:"history,omitempty"`
	ExecutionSuccess *ExecutionSuccess `json:"execution_success,omitempty"`
	Violations       *Violations       `json:"violations,omitempty"`
}

type Header struct {
	Decision domain.PolicyDecision `json:"decision"`
	Tone     Tone                  `json:"tone"`
	Time     string                `json:"time"`
}

type Message struct {
	Text string `json:"text"`
}

type PaymentDetails struct {
	Merchant string `json:"merchant"`
	Amount   string `json:"amount"`
}

type BalanceInquiry struct {
	Balance      string  `json:"balance"`
	DailySpend   string  `json:"daily_spend"`
	SpendCap     float64 `json:"spend_cap"`
	SpendPercent float64 `json:"spend_percent"`
}

type History struct {
	Entries   []HistoryEntry `json:"entries"`
	EmptyText string         `json:"empty_text,omitempty"`
}

type HistoryEntry struct {
	Merchant string `json:"merchant"`
	Amount   string `json:"amount"`
	Date     string `json:"date"`
	State    string `json:"state"`
	Tone     Tone   `json:"tone"`
}

type ExecutionSuccess struct {
	ReferenceNumber string `json:"reference_number"`
	ExecutedAt      string `json:"executed_at"`
}

type Violations struct {
	Items []string `json:"items"`
}

// DecisionTone maps a policy decision to its header tone.
func DecisionTone(d domain.PolicyDecision) Tone {
	switch d {
	case domain.DecisionApprove:
		return TonePositive
	case domain.DecisionDeny:
		return ToneNegative
	default:
		return ToneCaution
	}
}

// Classify derives the ordered fragments of a command response. Header and
// Message are always present; every other fragment is added independently
// when its condition holds, so any combination may appear.
func Classify(resp *domain.CommandResponse, renderedAt time.Time) []Fragment {
	if resp == nil {
		resp = &domain.CommandResponse{}
	}

	out := []Fragment{
		{Kind: FragmentHeader, Header: &Header{
			Decision: resp.PolicyDecision,
			Tone:     DecisionTone(resp.PolicyDecision),
			Time:     renderedAt.Local().Format("15:04"),
		}},
		{Kind: FragmentMessage, Message: &Message{Text: resp.Message}},
	}

	intent := resp.IntentTypeOf()
	exec := resp.ExecutionResult

	if intent == domain.IntentPayment {
		out = append(out, Fragment{Kind: FragmentPaymentDetails, PaymentDetails: paymentDetails(resp.Intent)})
	}
	if intent == domain.IntentBalanceInquiry && exec != nil {
		out = append(out, Fragment{Kind: FragmentBalanceInquiry, BalanceInquiry: balanceInquiry(exec)})
	}
	if intent == domain.IntentTransactionHistory && exec != nil && exec.History != nil {
		out = append(out, Fragment{Kind: FragmentHistory, History: history(exec.History)})
	}
	if resp.Status == domain.StatusExecuted && exec != nil {
		out = append(out, Fragment{Kind: FragmentExecutionSuccess, ExecutionSuccess: &ExecutionSuccess{
			ReferenceNumber: exec.ReferenceNumber,
			ExecutedAt:      formatClockSeconds(exec.ExecutedAt),
		}})
	}
	if resp.PolicyDecision == domain.DecisionDeny && resp.RiskInfo != nil && len(resp.RiskInfo.Violations) > 0 {
		out = append(out, Fragment{Kind: FragmentViolations, Violations: &Violations{
			Items: append([]string(nil), resp.RiskInfo.Violations...),
		}})
	}

	return out
}

func paymentDetails(in *domain.Intent) *PaymentDetails {
	p := &PaymentDetails{Merchant: in.MerchantVPA}
	if p.Merchant == "" {
		p.Merchant = UnknownMerchant
	}
	if in.Amount != nil {
		p.Amount = plain(*in.Amount)
	}
	return p
}

func balanceInquiry(exec *domain.ExecutionResult) *BalanceInquiry {
	var balance, spend float64
	if exec.Balance != nil {
		balance = *exec.Balance
	}
	if exec.DailySpend != nil {
		spend = *exec.DailySpend
	}
	return &BalanceInquiry{
		Balance:      fixed2(balance),
		DailySpend:   fixed2(spend),
		SpendCap:     SpendCap,
		SpendPercent: SpendPercent(spend, SpendCap),
	}
}

func history(records []domain.TransactionRecord) *History {
	h := &History{Entries: make([]HistoryEntry, 0, len(records))}
	if len(records) == 0 {
		h.EmptyText = NoRecentTransactions
		return h
	}
	for _, r := range records {
		h.Entries = append(h.Entries, HistoryEntry{
			Merchant: r.MerchantVPA,
			Amount:   plain(r.Amount),
			Date:     formatDate(r.Timestamp),
			State:    r.State,
			Tone:     historyStateTone(r.State),
		})
	}
	return h
}

// historyStateTone matches the engine's lowercase states exactly.
func historyStateTone(state string) Tone {
	if state == "completed" || state == domain.StatusExecuted {
		return TonePositive
	}
	return ToneNegative
}

// Turn is a history item together with its fragments.
type Turn struct {
	domain.HistoryItem
	Fragments []Fragment `json:"fragments,omitempty"`
}

// RenderTurn classifies SYSTEM turns at their creation time so that the
// result is stable across repeated renders. Other turns carry no fragments.
func RenderTurn(item domain.HistoryItem) Turn {
	t := Turn{HistoryItem: item}
	if item.Kind == domain.TurnSystem && item.Response != nil {
		t.Fragments = Classify(item.Response, item.CreatedAt)
	}
	return t
}

// RenderTurns renders every item in order.
func RenderTurns(items []domain.HistoryItem) []Turn {
	out := make([]Turn, 0, len(items))
	for _, it := range items {
		out = append(out, RenderTurn(it))
	}
	return out
}
