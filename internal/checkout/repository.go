package checkout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"myfood-be/internal/logger"
	"myfood-be/internal/slot"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ConfirmParams struct {
	OrderID     uint
	SlotID      uint
	ItemIDs     []uint
	TotalPrice  decimal.Decimal
	ConfirmedAt time.Time
}

type Repository interface {
	// Confirm moves a draft order to confirmed and takes one seat in the
	// slot, all or nothing.
	Confirm(ctx context.Context, p ConfirmParams) (*slot.Slot, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Confirm(ctx context.Context, p ConfirmParams) (*slot.Slot, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Confirm"),
		zap.Uint("order_id", p.OrderID),
		zap.Uint("slot_id", p.SlotID),
	)

	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("begin confirm: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// The order row is locked first. Concurrent item edits and a second
	// finalization of the same order queue behind it.
	res, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET slot_id = $2, total_price = $3, actual_date = $4
		WHERE id = $1 AND actual_date IS NULL
	`, p.OrderID, p.SlotID, p.TotalPrice, p.ConfirmedAt)
	if err != nil {
		log.Error("failed to confirm order row", zap.Error(err))
		return nil, fmt.Errorf("confirm order %d: %w", p.OrderID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, unconfirmableError(ctx, tx, p.OrderID)
	}

	current, err := lineItemIDs(ctx, tx, p.OrderID)
	if err != nil {
		return nil, err
	}
	if !sameIDs(current, p.ItemIDs) {
		log.Warn("line items changed while confirming",
			zap.Int("priced", len(p.ItemIDs)),
			zap.Int("current", len(current)),
		)
		return nil, errOrderChanged
	}

	reserved, err := slot.Reserve(ctx, tx, p.SlotID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit confirmation", zap.Error(err))
		return nil, fmt.Errorf("commit confirm: %w", err)
	}
	committed = true
	return reserved, nil
}

// unconfirmableError tells a missing order from one confirmed by someone
// else once the guarded update matched nothing.
func unconfirmableError(ctx context.Context, tx *sql.Tx, orderID uint) error {
	var confirmed bool
	err := tx.QueryRowContext(ctx,
		`SELECT actual_date IS NOT NULL FROM orders WHERE id = $1`, orderID,
	).Scan(&confirmed)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return ErrOrderNotFound
	case err != nil:
		return fmt.Errorf("check order %d: %w", orderID, err)
	case !confirmed:
		// Still a draft yet the update missed it: treat as a concurrent change.
		return errOrderChanged
	}
	return ErrAlreadyConfirmed
}

func lineItemIDs(ctx context.Context, tx *sql.Tx, orderID uint) ([]uint, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id FROM list_orders WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load line item ids: %w", err)
	}
	defer rows.Close()

	ids := make([]uint, 0)
	for rows.Next() {
		var id uint
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func sameIDs(a, b []uint) bool {
	if len(a) != len(b) {
		return false
	}
	x := append([]uint(nil), a...)
	y := append([]uint(nil), b...)
	sort.Slice(x, func(i, j int) bool { return x[i] < x[j] })
	sort.Slice(y, func(i, j int) bool { return y[i] < y[j] })
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}
