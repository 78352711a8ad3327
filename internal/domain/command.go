package domain

// ============================================================
// Command service request and response
// ============================================================

// PolicyDecision is the remote service's verdict on a parsed intent.
type PolicyDecision string

const (
	DecisionApprove PolicyDecision = "APPROVE"
	DecisionDeny    PolicyDecision = "DENY"
	DecisionReview  PolicyDecision = "REVIEW"
)

// IntentType is the classified purpose of a spoken command.
// The set is open: the service may return types this client does not render.
type IntentType string

const (
	IntentPayment            IntentType = "PAYMENT"
	IntentBalanceInquiry     IntentType = "BALANCE_INQUIRY"
	IntentTransactionHistory IntentType = "TRANSACTION_HISTORY"
)

// StatusExecuted is the response status of a command the engine carried out.
const StatusExecuted = "executed"

// CommandRequest is the payload sent to the command service.
type CommandRequest struct {
	Text string `json:"text"`
}

// CommandResponse is the structured answer of the command service.
type CommandResponse struct {
	PolicyDecision  PolicyDecision   `json:"policy_decision"`
	Message         string           `json:"message"`
	Intent          *Intent          `json:"intent,omitempty"`
	Status          string           `json:"status,omitempty"`
	ExecutionResult *ExecutionResult `json:"execution_result,omitempty"`
	RiskInfo        *RiskInfo        `json:"risk_info,omitempty"`
}

// Intent describes what the user asked for.
type Intent struct {
	IntentType  IntentType `json:"intent_type"`
	MerchantVPA string     `json:"merchant_vpa,omitempty"`
	Amount      *float64   `json:"amount,omitempty"`
}

// ExecutionResult carries whatever the engine produced when it ran the intent.
// Every field is optional; which ones are set depends on the intent.
type ExecutionResult struct {
	Balance         *float64            `json:"balance,omitempty"`
	DailySpend      *float64            `json:"daily_spend,omitempty"`
	History         []TransactionRecord `json:"history"` // nil = absent, empty = no transactions
	ReferenceNumber string              `json:"reference_number,omitempty"`
	ExecutedAt      string              `json:"executed_at,omitempty"`
}

// RiskInfo lists the policy rules a command violated.
type RiskInfo struct {
	Violations []string `json:"violations,omitempty"`
}

// TransactionRecord is one entry of the engine's transaction history.
type TransactionRecord struct {
	MerchantVPA string  `json:"merchant_vpa"`
	Amount      float64 `json:"amount"`
	State       string  `json:"state"`
	Timestamp   string  `json:"timestamp,omitempty"`
}

// IntentTypeOf returns the intent type of r, or "" when no intent was parsed.
func (r *CommandResponse) IntentTypeOf() IntentType {
	if r == nil || r.Intent == nil {
		return ""
	}
	return r.Intent.IntentType
}
