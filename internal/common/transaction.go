package common

import (
	"context"

	"github.com/questx-lab/lottery/pkg/dbutil"
	"github.com/questx-lab/lottery/pkg/xcontext"
)

// RunInTransaction runs fn inside a database transaction and commits it if fn
// succeeds. If ctx already carries a transaction, fn joins it. Otherwise the
// whole transaction is retried when it fails with a store conflict, at most
// Cycle.MaxTransactionRetries more times.
func RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if xcontext.InDBTransaction(ctx) {
		return fn(ctx)
	}

	retries := xcontext.Configs(ctx).Cycle.MaxTransactionRetries
	var err error
	for attempt := 0; attempt <= retries; attempt++ {
		err = runOnce(ctx, fn)
		if err == nil || !dbutil.IsRetryable(err) {
			return err
		}

		xcontext.Logger(ctx).Warnf("Transaction conflict, attempt %d: %v", attempt+1, err)
	}

	return err
}

func runOnce(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.RollbackDBTransaction(ctx)

	if err := xcontext.DB(ctx).Error; err != nil {
		return err
	}

	if err := fn(ctx); err != nil {
		return err
	}

	return xcontext.CommitDBTransaction(ctx)
}
