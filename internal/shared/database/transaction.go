package database

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// TxFunc runs inside a transaction. Returning an error rolls the transaction back.
type TxFunc func(tx *gorm.DB) error

// RunInTx opens a serializable transaction, runs fn and commits on success.
// Any error or panic from fn rolls everything back.
func RunInTx(ctx context.Context, db *gorm.DB, fn TxFunc) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(tx)
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
}
