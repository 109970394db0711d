package model

type Balance struct {
	UserID      string `json:"user_id"`
	Gold        uint64 `json:"gold"`
	Gems        uint64 `json:"gems"`
	Tokens      uint64 `json:"tokens"`
	LastUpdated string `json:"last_updated,omitempty"`
}

// CurrencyTransactionMetadata is stored as a map on every ledger record.
type CurrencyTransactionMetadata struct {
	EventID      string `json:"event_id,omitempty" structs:"event_id,omitempty" mapstructure:"event_id"`
	CycleNumber  int64  `json:"cycle_number" structs:"cycle_number" mapstructure:"cycle_number"`
	TicketNumber *int64 `json:"ticket_number,omitempty" structs:"ticket_number,omitempty" mapstructure:"ticket_number"`
}

type CurrencyTransaction struct {
	ID           string                      `json:"id"`
	Type         string                      `json:"type"`
	CurrencyType string                      `json:"currency_type"`
	Amount       int64                       `json:"amount"`
	BalanceAfter uint64                      `json:"balance_after"`
	Description  string                      `json:"description"`
	Metadata     CurrencyTransactionMetadata `json:"metadata"`
	Timestamp    string                      `json:"timestamp"`
}

type GetMyBalanceRequest struct{}

type GetMyBalanceResponse struct {
	Balance Balance `json:"balance"`
}

type GetMyCurrencyTransactionsRequest struct {
	CurrencyType string `json:"currency_type"`
	Offset       int    `json:"offset"`
	Limit        int    `json:"limit"`
}

type GetMyCurrencyTransactionsResponse struct {
	Transactions []CurrencyTransaction `json:"transactions"`
}
