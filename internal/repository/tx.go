package repository

import (
	"context"

	"gorm.io/gorm"
)

// TxRunner runs a function inside a single database transaction. Every
// read-modify-write of booking or vehicle state goes through exactly one
// Transaction call; the row locks taken inside are held until it returns.
type TxRunner interface {
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type gormTxRunner struct {
	db *gorm.DB
}

func NewTxRunner(db *gorm.DB) TxRunner {
	return &gormTxRunner{db: db}
}

func (r *gormTxRunner) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}
