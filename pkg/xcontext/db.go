package xcontext

import (
	"context"

	"gorm.io/gorm"
)

type dbTransaction struct {
	tx     *gorm.DB
	closed bool
}

// DB returns the open transaction of ctx if any, otherwise the database set by
// WithDB.
func DB(ctx context.Context) *gorm.DB {
	if t, ok := ctx.Value(dbTransactionKey{}).(*dbTransaction); ok && !t.closed {
		return t.tx
	}

	db, _ := ctx.Value(dbKey{}).(*gorm.DB)
	return db
}

// InDBTransaction reports whether ctx carries an open transaction.
func InDBTransaction(ctx context.Context) bool {
	t, ok := ctx.Value(dbTransactionKey{}).(*dbTransaction)
	return ok && !t.closed
}

// WithDBTransaction begins a transaction. Every repository call made with the
// returned context runs inside it until CommitDBTransaction or
// RollbackDBTransaction is called.
func WithDBTransaction(ctx context.Context) context.Context {
	db, _ := ctx.Value(dbKey{}).(*gorm.DB)
	tx := db.WithContext(ctx).Begin()
	return context.WithValue(ctx, dbTransactionKey{}, &dbTransaction{tx: tx})
}

func CommitDBTransaction(ctx context.Context) error {
	t, ok := ctx.Value(dbTransactionKey{}).(*dbTransaction)
	if !ok || t.closed {
		return nil
	}

	t.closed = true
	return t.tx.Commit().Error
}

// RollbackDBTransaction is a no-op if the transaction was already committed,
// so it is safe to defer.
func RollbackDBTransaction(ctx context.Context) {
	t, ok := ctx.Value(dbTransactionKey{}).(*dbTransaction)
	if !ok || t.closed {
		return
	}

	t.closed = true
	t.tx.Rollback()
}
