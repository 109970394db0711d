package entity

import (
	"time"

	"github.com/questx-lab/lottery/pkg/enum"
)

type CurrencyType string

var (
	CurrencyGold   = enum.New(CurrencyType("gold"))
	CurrencyGems   = enum.New(CurrencyType("gems"))
	CurrencyTokens = enum.New(CurrencyType("tokens"))
)

type CurrencyTransactionType string

var (
	CurrencyTransactionSpend  = enum.New(CurrencyTransactionType("spend"))
	CurrencyTransactionReward = enum.New(CurrencyTransactionType("reward"))
)

type UserBalance struct {
	UserID      string `gorm:"primaryKey;size:64"`
	Gold        uint64
	Gems        uint64
	Tokens      uint64
	LastUpdated time.Time
}

func (b *UserBalance) Amount(currency CurrencyType) uint64 {
	switch currency {
	case CurrencyGold:
		return b.Gold
	case CurrencyGems:
		return b.Gems
	case CurrencyTokens:
		return b.Tokens
	}

	return 0
}

// CurrencyTransaction is append-only. Amount is negative for spends.
type CurrencyTransaction struct {
	SnowFlakeBase

	UserID       string `gorm:"index;size:64"`
	Type         CurrencyTransactionType
	CurrencyType CurrencyType
	Amount       int64
	BalanceAfter uint64
	Description  string
	Metadata     Map
	Timestamp    time.Time
}
