package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"myfood-be/internal/catalog"
	"myfood-be/internal/logger"
	"myfood-be/internal/slot"
	"myfood-be/internal/user"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Repository interface {
	CreateDraft(ctx context.Context, userID uint) (*Order, error)
	GetOrder(ctx context.Context, id uint) (*Order, error)
	AddItem(ctx context.Context, orderID uint, ref Ref) (*LineItem, error)
	RemoveItem(ctx context.Context, orderID uint, ref Ref) error
	ListByUser(ctx context.Context, userID uint, page Page) ([]*Order, error)
	ListPending(ctx context.Context, page Page) ([]*Order, error)
	ListKitchenQueue(ctx context.Context) ([]*Order, error)
	ListConfirmedBetween(ctx context.Context, from, to time.Time) ([]*Order, error)
	MarkFulfilled(ctx context.Context, id uint) error
}

type repository struct {
	db      *sql.DB
	catalog catalog.Repository
}

// NewRepository needs the catalog to resolve line items into dishes and
// menus.
func NewRepository(db *sql.DB, catalogRepo catalog.Repository) Repository {
	return &repository{db: db, catalog: catalogRepo}
}

const orderSelect = `
	SELECT
		o.id, o.user_id, o.maked, o.actual_date, o.total_price,
		s.id, s.time, s.limit_slot, s.actual
	FROM orders o
	LEFT JOIN slots s ON s.id = o.slot_id`

const orderWithUserSelect = `
	SELECT
		o.id, o.user_id, o.maked, o.actual_date, o.total_price,
		s.id, s.time, s.limit_slot, s.actual,
		u.email, u.username, r.name
	FROM orders o
	LEFT JOIN slots s ON s.id = o.slot_id
	JOIN users u ON u.id = o.user_id
	JOIN roles r ON r.id = u.role_id`

type orderRow struct {
	o          Order
	actualDate sql.NullTime
	totalPrice decimal.NullDecimal
	slotID     sql.NullInt64
	slotTime   sql.NullString
	slotLimit  sql.NullInt64
	slotActual sql.NullInt64
}

func (r *orderRow) targets() []any {
	return []any{
		&r.o.ID, &r.o.UserID, &r.o.Maked, &r.actualDate, &r.totalPrice,
		&r.slotID, &r.slotTime, &r.slotLimit, &r.slotActual,
	}
}

func (r *orderRow) order() *Order {
	o := r.o
	if r.actualDate.Valid {
		c := &Confirmation{
			TotalPrice:  r.totalPrice.Decimal,
			ConfirmedAt: r.actualDate.Time,
		}
		if r.slotID.Valid {
			c.Slot = &slot.Slot{
				ID:        uint(r.slotID.Int64),
				Time:      r.slotTime.String,
				LimitSlot: int(r.slotLimit.Int64),
				Actual:    int(r.slotActual.Int64),
			}
		}
		o.Confirmation = c
	}
	return &o
}

func (r *repository) CreateDraft(ctx context.Context, userID uint) (*Order, error) {
	o := &Order{UserID: userID}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO orders (user_id, maked)
		VALUES ($1, FALSE)
		RETURNING id
	`, userID).Scan(&o.ID)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return o, nil
}

func (r *repository) GetOrder(ctx context.Context, id uint) (*Order, error) {
	var row orderRow
	err := r.db.QueryRowContext(ctx, orderSelect+` WHERE o.id = $1`, id).Scan(row.targets()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}

	o := row.order()
	items, err := r.loadItems(ctx, []uint{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	return o, nil
}

// AddItem inserts only while the order is still a draft. The order row is
// locked so a concurrent finalization either sees the item or rejects it.
func (r *repository) AddItem(ctx context.Context, orderID uint, ref Ref) (*LineItem, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}

	var id uint
	err := r.db.QueryRowContext(ctx, `
		WITH draft AS (
			SELECT id FROM orders
			WHERE id = $1 AND actual_date IS NULL
			FOR UPDATE
		)
		INSERT INTO list_orders (order_id, dish_id, menu_id)
		SELECT id, $2::integer, $3::integer FROM draft
		RETURNING id
	`, orderID, nullID(ref.DishID), nullID(ref.MenuID)).Scan(&id)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		if derr := r.draftError(ctx, orderID); derr != nil {
			return nil, derr
		}
		return nil, ErrOrderNotFound
	case err != nil:
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			if ref.DishID != 0 {
				return nil, catalog.ErrDishNotFound
			}
			return nil, catalog.ErrMenuNotFound
		}
		return nil, fmt.Errorf("add line item: %w", err)
	}

	return &LineItem{ID: id, OrderID: orderID}, nil
}

func (r *repository) RemoveItem(ctx context.Context, orderID uint, ref Ref) error {
	if err := ref.Validate(); err != nil {
		return err
	}

	column := "dish_id"
	target := ref.DishID
	if ref.MenuID != 0 {
		column = "menu_id"
		target = ref.MenuID
	}

	res, err := r.db.ExecContext(ctx, `
		DELETE FROM list_orders
		WHERE order_id = (
			SELECT id FROM orders WHERE id = $1 AND actual_date IS NULL FOR UPDATE
		) AND `+column+` = $2
	`, orderID, target)
	if err != nil {
		return fmt.Errorf("remove line item: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if err := r.draftError(ctx, orderID); err != nil {
		return err
	}
	return ErrLineItemNotFound
}

// draftError explains why a draft-only write touched nothing. It returns
// nil when the order exists and is still a draft.
func (r *repository) draftError(ctx context.Context, orderID uint) error {
	var confirmed bool
	err := r.db.QueryRowContext(ctx,
		`SELECT actual_date IS NOT NULL FROM orders WHERE id = $1`, orderID,
	).Scan(&confirmed)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return ErrOrderNotFound
	case err != nil:
		return fmt.Errorf("check order %d: %w", orderID, err)
	case confirmed:
		return ErrAlreadyConfirmed
	}
	return nil
}

func (r *repository) ListByUser(ctx context.Context, userID uint, page Page) ([]*Order, error) {
	page = page.Normalize()
	return r.queryOrders(ctx, orderSelect+`
		WHERE o.user_id = $1
		ORDER BY o.actual_date DESC NULLS LAST, o.id DESC
		LIMIT $2 OFFSET $3
	`, false, userID, page.Size, page.Offset())
}

func (r *repository) ListPending(ctx context.Context, page Page) ([]*Order, error) {
	page = page.Normalize()
	return r.queryOrders(ctx, orderSelect+`
		WHERE o.maked = FALSE
		ORDER BY o.id
		LIMIT $1 OFFSET $2
	`, false, page.Size, page.Offset())
}

// ListKitchenQueue returns confirmed, not yet cooked orders with their
// line items, earliest pickup first.
func (r *repository) ListKitchenQueue(ctx context.Context) ([]*Order, error) {
	orders, err := r.queryOrders(ctx, orderSelect+`
		WHERE o.maked = FALSE AND o.actual_date IS NOT NULL
		ORDER BY s.time, o.actual_date
	`, false)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		o.Items = items[o.ID]
	}
	return orders, nil
}

func (r *repository) ListConfirmedBetween(ctx context.Context, from, to time.Time) ([]*Order, error) {
	return r.queryOrders(ctx, orderWithUserSelect+`
		WHERE o.actual_date >= $1 AND o.actual_date < $2
		ORDER BY o.actual_date
	`, true, from, to)
}

// MarkFulfilled is idempotent: flagging an already cooked order again
// still matches the row.
func (r *repository) MarkFulfilled(ctx context.Context, id uint) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET maked = TRUE
		WHERE id = $1 AND actual_date IS NOT NULL
	`, id)
	if err != nil {
		return fmt.Errorf("mark order %d fulfilled: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	if err := r.draftError(ctx, id); err != nil {
		return err
	}
	return ErrNotConfirmed
}

func (r *repository) queryOrders(ctx context.Context, query string, withUser bool, args ...any) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*Order, 0)
	for rows.Next() {
		var (
			row  orderRow
			u    user.User
			dest = row.targets()
		)
		if withUser {
			dest = append(dest, &u.Email, &u.Username, &u.Role)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		o := row.order()
		if withUser {
			u.ID = o.UserID
			o.User = &u
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

type itemRow struct {
	id      uint
	orderID uint
	dishID  sql.NullInt64
	menuID  sql.NullInt64
}

// loadItems fetches line items of every order in one query and resolves
// their dishes and menus in two more.
func (r *repository) loadItems(ctx context.Context, orderIDs []uint) (map[uint][]LineItem, error) {
	out := make(map[uint][]LineItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return out, nil
	}

	ids := make([]int64, len(orderIDs))
	for i, id := range orderIDs {
		ids[i] = int64(id)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, dish_id, menu_id
		FROM list_orders
		WHERE order_id = ANY($1)
		ORDER BY id
	`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("load line items: %w", err)
	}
	defer rows.Close()

	var (
		raw     []itemRow
		dishIDs []uint
		menuIDs []uint
	)
	for rows.Next() {
		var it itemRow
		if err := rows.Scan(&it.id, &it.orderID, &it.dishID, &it.menuID); err != nil {
			return nil, err
		}
		if it.dishID.Valid == it.menuID.Valid {
			logger.FromCtx(ctx).Error("corrupt line item",
				zap.Uint("line_item_id", it.id),
				zap.Uint("order_id", it.orderID),
			)
			return nil, fmt.Errorf("line item %d: %w", it.id, ErrInvalidLineItem)
		}
		if it.dishID.Valid {
			dishIDs = append(dishIDs, uint(it.dishID.Int64))
		} else {
			menuIDs = append(menuIDs, uint(it.menuID.Int64))
		}
		raw = append(raw, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	dishes, err := r.catalog.GetDishesByIDs(ctx, dishIDs)
	if err != nil {
		return nil, err
	}
	menus, err := r.catalog.GetMenusByIDs(ctx, menuIDs)
	if err != nil {
		return nil, err
	}

	for _, it := range raw {
		li := LineItem{ID: it.id, OrderID: it.orderID}
		if it.dishID.Valid {
			d, ok := dishes[uint(it.dishID.Int64)]
			if !ok {
				return nil, fmt.Errorf("line item %d: %w", it.id, catalog.ErrDishNotFound)
			}
			li.Unit = DishUnit{Dish: d}
		} else {
			m, ok := menus[uint(it.menuID.Int64)]
			if !ok {
				return nil, fmt.Errorf("line item %d: %w", it.id, catalog.ErrMenuNotFound)
			}
			li.Unit = MenuUnit{Menu: m}
		}
		out[it.orderID] = append(out[it.orderID], li)
	}
	return out, nil
}

func nullID(id uint) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(id), Valid: id != 0}
}
