package postgres

import (
	"context"
	"database/sql"
	"fmt"

	txcontext "easel/pkg/platform/tx"
)

// Tx runs registry mutations inside a single serializable SQL transaction.
// Serializable isolation plus the count-guarded inserts in the store make the
// sequential-ID invariants hold even with competing writers.
type Tx struct {
	db *sql.DB
}

func NewTx(db *sql.DB) *Tx {
	return &Tx{db: db}
}

func (t *Tx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := t.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(txcontext.WithTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback after %w: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
