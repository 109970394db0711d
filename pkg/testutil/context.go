package testutil

import (
	"context"
	"time"

	"github.com/questx-lab/lottery/config"
	"github.com/questx-lab/lottery/migration"
	"github.com/questx-lab/lottery/pkg/logger"
	"github.com/questx-lab/lottery/pkg/xcontext"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func MockConfigs() config.Configs {
	cfg := config.Default()
	cfg.Auth.AccessToken = config.TokenConfigs{
		Name:       "access_token",
		Secret:     "secret",
		Expiration: time.Minute,
	}
	cfg.ApiServer.MaxLimit = 50
	cfg.ApiServer.DefaultLimit = 1
	cfg.Cycle.EntryCost = 100
	cfg.Cycle.PayoutRatio = 0.7
	cfg.Cycle.Duration = time.Hour
	cfg.Cycle.SnapshotBucket = "lottery"
	return cfg
}

// MockContext returns a context carrying test configs, a silent logger and a
// freshly migrated in-memory SQLite database. The database has a single
// connection, so transactions opened by concurrent goroutines serialize.
func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		panic(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, MockConfigs())
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithDB(ctx, db)

	if err := migration.AutoMigrate(ctx); err != nil {
		panic(err)
	}

	return ctx
}

func MockContextWithUserID(ctx context.Context, userID string) context.Context {
	return xcontext.WithRequestUserID(ctx, userID)
}
