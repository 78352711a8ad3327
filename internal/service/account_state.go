package service

import (
	"sync"

	"github.com/Ari-Han-t/CAPS/internal/domain"
)

// AccountState keeps the account panel inputs fresh from executed commands.
type AccountState struct {
	mu    sync.RWMutex
	props domain.AccountProps
}

// NewAccountState starts with no balance, no spend and the given limit.
func NewAccountState(dailyLimit float64) *AccountState {
	return &AccountState{props: domain.AccountProps{
		Transactions: []domain.Transaction{},
		DailyLimit:   dailyLimit,
	}}
}

// Apply folds the account data carried by resp into the props and reports
// whether anything changed. Balance and daily spend are taken from any
// execution result; the transaction list only from a history answer.
func (s *AccountState) Apply(resp *domain.CommandResponse) bool {
	if resp == nil || resp.ExecutionResult == nil {
		return false
	}
	exec := resp.ExecutionResult

	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	if exec.Balance != nil {
		s.props.Balance = *exec.Balance
		changed = true
	}
	if exec.DailySpend != nil {
		s.props.DailySpend = *exec.DailySpend
		changed = true
	}
	if resp.IntentTypeOf() == domain.IntentTransactionHistory && exec.History != nil {
		txs := make([]domain.Transaction, 0, len(exec.History))
		for _, r := range exec.History {
			txs = append(txs, domain.Transaction{
				Merchant:  r.MerchantVPA,
				Amount:    r.Amount,
				Status:    r.State,
				Timestamp: r.Timestamp,
			})
		}
		s.props.Transactions = txs
		changed = true
	}
	return changed
}

// Props returns a copy of the current props.
func (s *AccountState) Props() domain.AccountProps {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p := s.props
	p.Transactions = append([]domain.Transaction{}, s.props.Transactions...)
	return p
}
