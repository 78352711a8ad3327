package view_test

import (
	"testing"

	"github.com/Ari-Han-t/CAPS/internal/domain"
	"github.com/Ari-Han-t/CAPS/internal/view"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccountPanel_Rows(t *testing.T) {
	panel := view.NewAccountPanel(domain.AccountProps{
		Balance:    123456.789,
		DailySpend: 1700,
		DailyLimit: 2000,
		Transactions: []domain.Transaction{
			{Merchant: "tea@upi", Amount: 20, Status: "completed", Timestamp: "2024-01-01T10:30:00"},
			{Merchant: "bad@upi", Amount: 5.5, Status: "FAILED", Timestamp: "?"},
		},
	})

	assert.Equal(t, "₹123,456.79", panel.Balance)
	assert.Equal(t, "₹1700 / ₹2000", panel.SpendLine)
	assert.Equal(t, 85.0, panel.SpendPercent)
	assert.Equal(t, view.SpendHigh, panel.SpendLevel)
	assert.Empty(t, panel.EmptyText)

	require.Len(t, panel.Rows, 2)
	assert.Equal(t, view.TransactionRow{
		Merchant: "tea@upi", Amount: "-₹20", Status: "Completed", Icon: view.IconSuccess, Time: "10:30",
	}, panel.Rows[0])
	assert.Equal(t, "FAILED", panel.Rows[1].Status)
	assert.Equal(t, view.IconFailure, panel.Rows[1].Icon)
	assert.Equal(t, view.TimePlaceholder, panel.Rows[1].Time)
}

func TestNewAccountPanel_Empty(t *testing.T) {
	panel := view.NewAccountPanel(domain.AccountProps{DailyLimit: 2000})

	assert.Equal(t, view.NoTransactionsYet, panel.EmptyText)
	assert.NotNil(t, panel.Rows)
	assert.Empty(t, panel.Rows)
	assert.Equal(t, "₹0", panel.Balance)
	assert.Equal(t, view.SpendNormal, panel.SpendLevel)
}

func TestNewAccountPanel_StatusCapitalizesFirstLetterOnly(t *testing.T) {
	statuses := map[string]string{
		"pending":   "Pending",
		"PENDING":   "PENDING",
		"executing": "Executing",
		"inReview":  "InReview",
	}
	for in, want := range statuses {
		panel := view.NewAccountPanel(domain.AccountProps{
			DailyLimit:   2000,
			Transactions: []domain.Transaction{{Merchant: "m@upi", Amount: 1, Status: in}},
		})
		assert.Equal(t, want, panel.Rows[0].Status, in)
	}
}
