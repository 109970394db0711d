package model

type Cycle struct {
	ID           string  `json:"id"`
	CycleNumber  int64   `json:"cycle_number"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
	EntryCost    uint64  `json:"entry_cost"`
	TotalEntries int64   `json:"total_entries"`
	PrizePool    uint64  `json:"prize_pool"`
	Status       string  `json:"status"`
	WinnerID     *string `json:"winner_id,omitempty"`
	WinnerTicket *int64  `json:"winner_ticket,omitempty"`
	RNGSeed      *string `json:"rng_seed,omitempty"`
	PrizeAmount  uint64  `json:"prize_amount,omitempty"`
	ProcessedAt  *string `json:"processed_at,omitempty"`
}

type CycleEntry struct {
	CycleID      string `json:"cycle_id"`
	UserID       string `json:"user_id"`
	TicketNumber int64  `json:"ticket_number"`
	EntryTime    string `json:"entry_time"`
	GoldPaid     uint64 `json:"gold_paid"`
}

type EnterCycleRequest struct {
	EventID        string `json:"event_id"`
	IdempotencyKey string `json:"idempotency_key"`
}

// EnterCycleResponse is either {success, ticket_number} for a new entry or
// {already_entered} for a retried idempotency key.
type EnterCycleResponse struct {
	Success        bool   `json:"success,omitempty"`
	TicketNumber   *int64 `json:"ticket_number,omitempty"`
	AlreadyEntered bool   `json:"already_entered,omitempty"`
}

type GetCurrentCycleRequest struct{}

type GetCurrentCycleResponse struct {
	Cycle Cycle `json:"cycle"`
}

type GetMyEntryRequest struct {
	EventID string `json:"event_id"`
}

type GetMyEntryResponse struct {
	Entry CycleEntry `json:"entry"`
}

type GetCycleHistoryRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetCycleHistoryResponse struct {
	Cycles []Cycle `json:"cycles"`
}

type GetServerTimeRequest struct{}

type GetServerTimeResponse struct {
	ServerTime int64 `json:"server_time"`
}

// CycleTickSummary describes one cycle transition.
type CycleTickSummary struct {
	PreviousEventID     string  `json:"previous_event_id"`
	PreviousCycleNumber int64   `json:"previous_cycle_number"`
	NextEventID         string  `json:"next_event_id"`
	NextCycleNumber     int64   `json:"next_cycle_number"`
	TotalEntries        int64   `json:"total_entries"`
	WinnerID            *string `json:"winner_id,omitempty"`
	WinnerTicket        *int64  `json:"winner_ticket,omitempty"`
	PrizeAmount         uint64  `json:"prize_amount"`
}

// CycleCompletedEvent is published after a transition is committed.
type CycleCompletedEvent struct {
	CycleTickSummary
	CompletedAt string `json:"completed_at"`
}
