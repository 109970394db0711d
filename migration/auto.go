package migration

import (
	"context"

	"github.com/questx-lab/lottery/internal/entity"
	"github.com/questx-lab/lottery/pkg/xcontext"
)

// AutoMigrate creates the tables from the entities directly. It is used by
// tests and local setups, deployments run Migrate instead.
func AutoMigrate(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&entity.CycleEvent{},
		&entity.CycleHistory{},
		&entity.CycleEntry{},
		&entity.UserBalance{},
		&entity.CurrencyTransaction{},
	)
}
