package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	err := os.WriteFile(path, []byte(`
Env = "staging"

[Cycle]
Duration = "30m"
EntryCost = 250
PayoutRatio = 0.6
`), 0600)
	require.NoError(t, err)

	t.Setenv("CYCLE_ENTRY_COST", "300")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "staging", cfg.Env)
	require.Equal(t, 30*time.Minute, cfg.Cycle.Duration)
	require.Equal(t, uint64(300), cfg.Cycle.EntryCost)
	require.Equal(t, 0.6, cfg.Cycle.PayoutRatio)
	require.Equal(t, "redis:6379", cfg.Redis.Addr)

	// Untouched values keep their defaults.
	require.Equal(t, 500, cfg.Cycle.EntryDeleteBatchSize)
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("CYCLE_DURATION", "not-a-duration")

	_, err := Load("")
	require.Error(t, err)
}

func TestConfigs_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Configs)
		wantErr bool
	}{
		{name: "default", mutate: func(cfg *Configs) {}},
		{name: "free cycle with full payout", mutate: func(cfg *Configs) {
			cfg.Cycle.EntryCost = 0
			cfg.Cycle.PayoutRatio = 1
		}},
		{name: "zero tick interval", mutate: func(cfg *Configs) { cfg.Cycle.TickInterval = 0 }, wantErr: true},
		{name: "negative tick interval", mutate: func(cfg *Configs) { cfg.Cycle.TickInterval = -time.Second }, wantErr: true},
		{name: "zero duration", mutate: func(cfg *Configs) { cfg.Cycle.Duration = 0 }, wantErr: true},
		{name: "negative payout ratio", mutate: func(cfg *Configs) { cfg.Cycle.PayoutRatio = -0.1 }, wantErr: true},
		{name: "payout ratio above one", mutate: func(cfg *Configs) { cfg.Cycle.PayoutRatio = 1.5 }, wantErr: true},
		{name: "zero batch size", mutate: func(cfg *Configs) { cfg.Cycle.EntryDeleteBatchSize = 0 }, wantErr: true},
		{name: "negative retries", mutate: func(cfg *Configs) { cfg.Cycle.MaxTransactionRetries = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestLoad_RejectsInvalidCycle(t *testing.T) {
	t.Setenv("CYCLE_TICK_INTERVAL", "0s")

	_, err := Load("")
	require.Error(t, err)

	t.Setenv("CYCLE_TICK_INTERVAL", "1m")
	t.Setenv("CYCLE_PAYOUT_RATIO", "1.2")

	_, err = Load("")
	require.Error(t, err)
}

func TestDatabaseConfigs_URLs(t *testing.T) {
	cfg := Configs{Database: DatabaseConfigs{
		Host: "db", Port: "3306", Database: "lottery", User: "u", Password: "p",
	}}

	// Called through a non-addressable value, the way the migration and
	// server loaders read it from the context.
	require.Equal(t, "mysql://u:p@tcp(db:3306)/lottery?multiStatements=true", func() Configs { return cfg }().Database.MigrationURL())
	require.Equal(t, "u:p@tcp(db:3306)/lottery?charset=utf8mb4&parseTime=True&loc=UTC", func() Configs { return cfg }().Database.ConnectionString())
}
