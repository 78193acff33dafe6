package dbtx

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// Session returns a gorm handle scoped to ctx. When tx is non-nil every
// statement runs on that transaction, so repository writes commit or roll
// back together with the service's *sql.Tx.
func Session(ctx context.Context, db *gorm.DB, tx *sql.Tx) *gorm.DB {
	if tx == nil {
		return db.WithContext(ctx)
	}
	s := db.Session(&gorm.Session{Context: ctx, SkipDefaultTransaction: true})
	s.Statement.ConnPool = tx
	return s
}
