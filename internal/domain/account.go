package domain

// Transaction is the display form of a transaction in the account panel.
type Transaction struct {
	Merchant  string  `json:"merchant"`
	Amount    float64 `json:"amount"`
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
}

// AccountProps are the inputs of the account panel. They are replaced
// whenever an executed command reports fresher account data.
type AccountProps struct {
	Transactions []Transaction `json:"transactions"`
	Balance      float64       `json:"balance"`
	DailySpend   float64       `json:"daily_spend"`
	DailyLimit   float64       `json:"daily_limit"`
}
