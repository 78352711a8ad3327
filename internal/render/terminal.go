// Package render draws session turns and panels for a terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/Ari-Han-t/CAPS/internal/domain"
	"github.com/Ari-Han-t/CAPS/internal/view"

	"github.com/charmbracelet/lipgloss"
)

var toneColors = map[view.Tone]lipgloss.Color{
	view.TonePositive: lipgloss.Color("42"),
	view.ToneNegative: lipgloss.Color("196"),
	view.ToneCaution:  lipgloss.Color("208"),
	view.ToneNeutral:  lipgloss.Color("245"),
}

var levelColors = map[view.SpendLevel]lipgloss.Color{
	view.SpendNormal:   lipgloss.Color("42"),
	view.SpendElevated: lipgloss.Color("208"),
	view.SpendHigh:     lipgloss.Color("196"),
}

var (
	userStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("239")).Italic(true)
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("246")).Bold(true)
	barWidth    = 20
	toneDefault = lipgloss.Color("245")
)

func toneStyle(t view.Tone) lipgloss.Style {
	c, ok := toneColors[t]
	if !ok {
		c = toneDefault
	}
	return lipgloss.NewStyle().Foreground(c)
}

// Turn renders one history turn.
func Turn(t view.Turn) string {
	switch t.Kind {
	case domain.TurnUser:
		return userStyle.Render("You: ") + t.Text
	case domain.TurnError:
		return errorStyle.Render("! " + t.Text)
	}

	if len(t.Fragments) == 0 {
		return t.Text
	}
	lines := make([]string, 0, len(t.Fragments))
	for _, f := range t.Fragments {
		if s := Fragment(f); s != "" {
			lines = append(lines, s)
		}
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

// Fragment renders one block of a system turn.
func Fragment(f view.Fragment) string {
	switch f.Kind {
	case view.FragmentHeader:
		h := f.Header
		return toneStyle(h.Tone).Bold(true).Render(string(h.Decision)) + "  " + labelStyle.Render(h.Time)
	case view.FragmentMessage:
		return f.Message.Text
	case view.FragmentPaymentDetails:
		p := f.PaymentDetails
		line := labelStyle.Render("To ") + p.Merchant
		if p.Amount != "" {
			line += labelStyle.Render("  Amount ") + "₹" + p.Amount
		}
		return line
	case view.FragmentBalanceInquiry:
		b := f.BalanceInquiry
		level := view.LevelForPercent(b.SpendPercent)
		return labelStyle.Render("Balance ") + "₹" + b.Balance + "\n" +
			labelStyle.Render("Spent today ") + fmt.Sprintf("₹%s / ₹%.0f ", b.DailySpend, b.SpendCap) +
			bar(b.SpendPercent, levelColors[level])
	case view.FragmentHistory:
		return historyBlock(f.History)
	case view.FragmentExecutionSuccess:
		e := f.ExecutionSuccess
		return toneStyle(view.TonePositive).Render("Executed ") + e.ReferenceNumber + labelStyle.Render(" at "+e.ExecutedAt)
	case view.FragmentViolations:
		items := make([]string, 0, len(f.Violations.Items))
		for _, v := range f.Violations.Items {
			items = append(items, toneStyle(view.ToneNegative).Render("x ")+v)
		}
		return strings.Join(items, "\n")
	}
	return ""
}

func historyBlock(h *view.History) string {
	if len(h.Entries) == 0 {
		return mutedStyle.Render(h.EmptyText)
	}
	rows := make([]string, 0, len(h.Entries))
	for _, e := range h.Entries {
		rows = append(rows, fmt.Sprintf("%-24s %10s  %s  %s",
			e.Merchant, "₹"+e.Amount, labelStyle.Render(e.Date), toneStyle(e.Tone).Render(e.State)))
	}
	return strings.Join(rows, "\n")
}

func bar(percent float64, c lipgloss.Color) string {
	filled := int(percent / 100 * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	return lipgloss.NewStyle().Foreground(c).Render(strings.Repeat("█", filled)) +
		labelStyle.Render(strings.Repeat("░", barWidth-filled))
}

// Account renders the account panel.
func Account(p view.AccountPanel) string {
	lines := []string{
		titleStyle.Render("Account"),
		labelStyle.Render("Balance ") + p.Balance,
		labelStyle.Render("Daily spend ") + p.SpendLine + " " + bar(p.SpendPercent, levelColors[p.SpendLevel]),
	}
	if p.EmptyText != "" {
		lines = append(lines, mutedStyle.Render(p.EmptyText))
	}
	for _, r := range p.Rows {
		lines = append(lines, fmt.Sprintf("%-24s %10s  %s  %s", r.Merchant, r.Amount, r.Status, labelStyle.Render(r.Time)))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

// Fraud renders the fraud panel: network stats followed by one line per merchant.
func Fraud(stats *domain.FraudStats, cards []view.MerchantCard, degraded bool) string {
	lines := []string{titleStyle.Render("Community fraud intelligence")}
	if degraded {
		lines = append(lines, toneStyle(view.ToneCaution).Render("Fraud data unavailable"))
	}
	if stats != nil {
		lines = append(lines, labelStyle.Render(fmt.Sprintf("%d reports  %d merchants  %d flagged  %d safe",
			stats.TotalReports, stats.TotalMerchants, stats.FlaggedMerchants, stats.SafeMerchants)))
	}
	for _, c := range cards {
		badge := toneStyle(c.Style.Tone)
		if c.Style.Strong {
			badge = badge.Bold(true)
		}
		lines = append(lines, fmt.Sprintf("%-24s %s  %s  %s",
			c.MerchantVPA,
			badge.Render(strings.TrimSpace(c.BadgeEmoji+" "+c.BadgeLabel)),
			labelStyle.Render(fmt.Sprintf("scam %.1f%%  community %d%%", c.ScamRate, c.CommunityPercent)),
			toneStyle(c.RiskTone).Render(string(c.RiskState)),
		))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}
