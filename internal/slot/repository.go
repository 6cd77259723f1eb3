package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Repository interface {
	List(ctx context.Context) ([]*Slot, error)
	GetByID(ctx context.Context, id uint) (*Slot, error)
	Create(ctx context.Context, in NewSlotInput) (*Slot, error)
	Reserve(ctx context.Context, id uint) (*Slot, error)
	ResetAll(ctx context.Context) (int64, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const slotColumns = "id, time, limit_slot, actual"

func scanSlot(row interface{ Scan(...any) error }) (*Slot, error) {
	var s Slot
	if err := row.Scan(&s.ID, &s.Time, &s.LimitSlot, &s.Actual); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) List(ctx context.Context) ([]*Slot, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+slotColumns+` FROM slots ORDER BY time, id`)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	slots := make([]*Slot, 0)
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Slot, error) {
	s, err := scanSlot(r.db.QueryRowContext(ctx, `SELECT `+slotColumns+` FROM slots WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get slot %d: %w", id, err)
	}
	return s, nil
}

func (r *repository) Create(ctx context.Context, in NewSlotInput) (*Slot, error) {
	s := &Slot{Time: in.Time, LimitSlot: in.LimitSlot}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO slots (time, limit_slot, actual)
		VALUES ($1, $2, 0)
		RETURNING id
	`, s.Time, s.LimitSlot).Scan(&s.ID)
	if err != nil {
		return nil, fmt.Errorf("create slot: %w", err)
	}
	return s, nil
}

func (r *repository) Reserve(ctx context.Context, id uint) (*Slot, error) {
	return Reserve(ctx, r.db, id)
}

// ResetAll zeroes every counter in one statement. Each touched row is
// locked like a reservation, so a reset waits for in-flight confirmations.
func (r *repository) ResetAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE slots SET actual = 0 WHERE actual <> 0`)
	if err != nil {
		return 0, fmt.Errorf("reset slots: %w", err)
	}
	return res.RowsAffected()
}

// Reserve takes one seat with a single conditional increment. It never
// lets actual pass limit_slot, whatever the number of concurrent callers.
func Reserve(ctx context.Context, q Querier, id uint) (*Slot, error) {
	s, err := scanSlot(q.QueryRowContext(ctx, `
		UPDATE slots
		SET actual = actual + 1
		WHERE id = $1 AND actual < limit_slot
		RETURNING `+slotColumns, id))
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("reserve slot %d: %w", id, err)
	}

	var exists bool
	if err := q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM slots WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check slot %d: %w", id, err)
	}
	if !exists {
		return nil, ErrSlotNotFound
	}
	return nil, ErrSlotFull
}
