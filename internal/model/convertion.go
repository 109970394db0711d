package model

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/questx-lab/lottery/internal/entity"
)

const DefaultTimeLayout string = time.RFC3339Nano

func ConvertCycle(event *entity.CycleEvent) Cycle {
	return convertCycleFields(event.ID, event.CycleNumber, &event.CycleFields)
}

func ConvertCycleHistory(history *entity.CycleHistory) Cycle {
	return convertCycleFields(history.ID, history.CycleNumber, &history.CycleFields)
}

func convertCycleFields(id string, cycleNumber int64, f *entity.CycleFields) Cycle {
	return Cycle{
		ID:           id,
		CycleNumber:  cycleNumber,
		StartTime:    f.StartTime.Format(DefaultTimeLayout),
		EndTime:      f.EndTime.Format(DefaultTimeLayout),
		EntryCost:    f.EntryCost,
		TotalEntries: f.TotalEntries,
		PrizePool:    f.PrizePool,
		Status:       string(f.Status),
		WinnerID:     ConvertNullString(f.WinnerID),
		WinnerTicket: ConvertNullInt64(f.WinnerTicket),
		RNGSeed:      ConvertNullString(f.RNGSeed),
		PrizeAmount:  f.PrizeAmount,
		ProcessedAt:  ConvertNullTime(f.ProcessedAt),
	}
}

func ConvertCycleEntry(entry *entity.CycleEntry) CycleEntry {
	return CycleEntry{
		CycleID:      entry.CycleID,
		UserID:       entry.UserID,
		TicketNumber: entry.TicketNumber,
		EntryTime:    entry.EntryTime.Format(DefaultTimeLayout),
		GoldPaid:     entry.GoldPaid,
	}
}

func ConvertBalance(balance *entity.UserBalance) Balance {
	result := Balance{
		UserID: balance.UserID,
		Gold:   balance.Gold,
		Gems:   balance.Gems,
		Tokens: balance.Tokens,
	}

	if !balance.LastUpdated.IsZero() {
		result.LastUpdated = balance.LastUpdated.Format(DefaultTimeLayout)
	}

	return result
}

func ConvertCurrencyTransaction(tx *entity.CurrencyTransaction) (CurrencyTransaction, error) {
	var metadata CurrencyTransactionMetadata
	if err := mapstructure.Decode(map[string]any(tx.Metadata), &metadata); err != nil {
		return CurrencyTransaction{}, err
	}

	return CurrencyTransaction{
		ID:           strconv.FormatInt(tx.ID, 10),
		Type:         string(tx.Type),
		CurrencyType: string(tx.CurrencyType),
		Amount:       tx.Amount,
		BalanceAfter: tx.BalanceAfter,
		Description:  tx.Description,
		Metadata:     metadata,
		Timestamp:    tx.Timestamp.Format(DefaultTimeLayout),
	}, nil
}

func ConvertNullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}

	return &s.String
}

func ConvertNullInt64(i sql.NullInt64) *int64 {
	if !i.Valid {
		return nil
	}

	return &i.Int64
}

func ConvertNullTime(t sql.NullTime) *string {
	if !t.Valid {
		return nil
	}

	s := t.Time.Format(DefaultTimeLayout)
	return &s
}
