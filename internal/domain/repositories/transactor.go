package repositories

import (
	"context"

	"gorm.io/gorm"
)

// TransactorContract runs a function inside a database transaction. All
// repository calls made with the context it passes to fn share that
// transaction, so one logical operation is applied atomically.
type TransactorContract interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type txKey struct{}

// GormTransactor implements TransactorContract on a *gorm.DB by stashing the
// transaction handle in the context.
type GormTransactor struct {
	db *gorm.DB
}

var _ TransactorContract = (*GormTransactor)(nil)

func NewGormTransactor(db *gorm.DB) *GormTransactor {
	return &GormTransactor{db: db}
}

func (t *GormTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// dbFromContext returns the transaction bound to ctx, or the fallback
// connection when the call is not running inside WithinTransaction.
func dbFromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback.WithContext(ctx)
}
