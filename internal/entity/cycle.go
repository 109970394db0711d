package entity

import (
	"database/sql"
	"time"

	"github.com/questx-lab/lottery/pkg/enum"
)

type CycleStatus string

var (
	CycleStatusActive = enum.New(CycleStatus("active"))
	CycleStatusEnded  = enum.New(CycleStatus("ended"))
)

// LiveCycleSlot is the primary key of the only row in cycle_events. Entries
// and transitions lock this row.
const LiveCycleSlot = "current"

// CycleFields are the fields shared by the live cycle and its archived copy.
type CycleFields struct {
	StartTime    time.Time
	EndTime      time.Time
	EntryCost    uint64
	TotalEntries int64
	PrizePool    uint64
	Status       CycleStatus

	WinnerID     sql.NullString
	WinnerTicket sql.NullInt64
	RNGSeed      sql.NullString
	PrizeAmount  uint64
	ProcessedAt  sql.NullTime
}

type CycleEvent struct {
	Slot        string `gorm:"primaryKey;size:16"`
	ID          string `gorm:"uniqueIndex;size:36"`
	CycleNumber int64

	CycleFields
	UpdatedAt time.Time
}

type CycleHistory struct {
	ID          string `gorm:"primaryKey;size:36"`
	CycleNumber int64  `gorm:"uniqueIndex"`

	CycleFields
	ArchivedAt time.Time
}

// CycleEntry is scoped by its cycle, so entries left over from an ended
// cycle never collide with the next one.
type CycleEntry struct {
	CycleID        string `gorm:"primaryKey;size:36;uniqueIndex:idx_cycle_entries_ticket,priority:1;uniqueIndex:idx_cycle_entries_idempotency,priority:1"`
	UserID         string `gorm:"primaryKey;size:64"`
	TicketNumber   int64  `gorm:"uniqueIndex:idx_cycle_entries_ticket,priority:2"`
	IdempotencyKey string `gorm:"size:128;uniqueIndex:idx_cycle_entries_idempotency,priority:2"`
	EntryTime      time.Time
	GoldPaid       uint64
}
