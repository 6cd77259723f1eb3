package order

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"myfood-be/internal/catalog"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCatalog serves the two batch lookups the order repository uses.
type stubCatalog struct {
	catalog.Repository
	dishes map[uint]*catalog.Dish
	menus  map[uint]*catalog.Menu
}

func (s *stubCatalog) GetDishesByIDs(ctx context.Context, ids []uint) (map[uint]*catalog.Dish, error) {
	out := map[uint]*catalog.Dish{}
	for _, id := range ids {
		if d, ok := s.dishes[id]; ok {
			out[id] = d
		}
	}
	return out, nil
}

func (s *stubCatalog) GetMenusByIDs(ctx context.Context, ids []uint) (map[uint]*catalog.Menu, error) {
	out := map[uint]*catalog.Menu{}
	for _, id := range ids {
		if m, ok := s.menus[id]; ok {
			out[id] = m
		}
	}
	return out, nil
}

var (
	orderCols = []string{"id", "user_id", "maked", "actual_date", "total_price", "s_id", "s_time", "s_limit", "s_actual"}
	itemCols  = []string{"id", "order_id", "dish_id", "menu_id"}
)

func newStubCatalog() *stubCatalog {
	return &stubCatalog{
		dishes: map[uint]*catalog.Dish{
			10: {ID: 10, Name: "Croquetas", Price: decimal.RequireFromString("5.00")},
		},
		menus: map[uint]*catalog.Menu{
			20: {ID: 20, Appetizer: &catalog.Dish{ID: 1, Price: decimal.NewFromInt(2)}},
		},
	}
}

func TestRepository_CreateDraft(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO orders \(user_id, maked\)`).
		WithArgs(uint(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	o, err := NewRepository(db, newStubCatalog()).CreateDraft(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, uint(1), o.ID)
	assert.False(t, o.IsConfirmed())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db, newStubCatalog())
	ctx := context.Background()

	t.Run("Draft with dish and menu", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM orders o LEFT JOIN slots s ON s.id = o.slot_id WHERE o.id = \$1`).
			WithArgs(uint(1)).
			WillReturnRows(sqlmock.NewRows(orderCols).AddRow(1, 3, false, nil, nil, nil, nil, nil, nil))
		mock.ExpectQuery(`SELECT id, order_id, dish_id, menu_id FROM list_orders WHERE order_id = ANY\(\$1\) ORDER BY id`).
			WithArgs(sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows(itemCols).
				AddRow(100, 1, 10, nil).
				AddRow(101, 1, nil, 20))

		o, err := repo.GetOrder(ctx, 1)
		require.NoError(t, err)
		assert.False(t, o.IsConfirmed())
		require.Len(t, o.Items, 2)
		assert.IsType(t, DishUnit{}, o.Items[0].Unit)
		assert.IsType(t, MenuUnit{}, o.Items[1].Unit)
		assert.Equal(t, []uint{100, 101}, o.ItemIDs())
	})

	t.Run("Confirmed", func(t *testing.T) {
		at := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
		mock.ExpectQuery(`SELECT .* FROM orders o`).
			WithArgs(uint(2)).
			WillReturnRows(sqlmock.NewRows(orderCols).AddRow(2, 3, false, at, "8.50", 1, "13:00", 2, 2))
		mock.ExpectQuery(`FROM list_orders`).
			WillReturnRows(sqlmock.NewRows(itemCols).AddRow(102, 2, 10, nil))

		o, err := repo.GetOrder(ctx, 2)
		require.NoError(t, err)
		require.True(t, o.IsConfirmed())
		assert.Equal(t, "13:00", o.Confirmation.Slot.Time)
		assert.True(t, decimal.RequireFromString("8.5").Equal(o.Confirmation.TotalPrice))
	})

	t.Run("Corrupt line item", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM orders o`).
			WithArgs(uint(3)).
			WillReturnRows(sqlmock.NewRows(orderCols).AddRow(3, 3, false, nil, nil, nil, nil, nil, nil))
		mock.ExpectQuery(`FROM list_orders`).
			WillReturnRows(sqlmock.NewRows(itemCols).AddRow(103, 3, 10, 20))

		_, err := repo.GetOrder(ctx, 3)
		assert.ErrorIs(t, err, ErrInvalidLineItem)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM orders o`).
			WithArgs(uint(4)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetOrder(ctx, 4)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_AddItem(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db, newStubCatalog())
	ctx := context.Background()
	insertSQL := `WITH draft AS \(\s*SELECT id FROM orders WHERE id = \$1 AND actual_date IS NULL FOR UPDATE\s*\) INSERT INTO list_orders`

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(insertSQL).
			WithArgs(uint(1), sql.NullInt64{Int64: 10, Valid: true}, sql.NullInt64{}).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(55))

		item, err := repo.AddItem(ctx, 1, DishRef(10))
		require.NoError(t, err)
		assert.Equal(t, uint(55), item.ID)
	})

	t.Run("Confirmed order", func(t *testing.T) {
		mock.ExpectQuery(insertSQL).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectQuery(`SELECT actual_date IS NOT NULL FROM orders WHERE id = \$1`).
			WithArgs(uint(1)).
			WillReturnRows(sqlmock.NewRows([]string{"confirmed"}).AddRow(true))

		_, err := repo.AddItem(ctx, 1, MenuRef(20))
		assert.ErrorIs(t, err, ErrAlreadyConfirmed)
	})

	t.Run("Missing order", func(t *testing.T) {
		mock.ExpectQuery(insertSQL).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectQuery(`SELECT actual_date IS NOT NULL FROM orders`).
			WithArgs(uint(9)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.AddItem(ctx, 9, DishRef(10))
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("Unknown menu", func(t *testing.T) {
		mock.ExpectQuery(insertSQL).
			WillReturnError(&pq.Error{Code: "23503"})

		_, err := repo.AddItem(ctx, 1, MenuRef(404))
		assert.ErrorIs(t, err, catalog.ErrMenuNotFound)
	})

	t.Run("Both references", func(t *testing.T) {
		_, err := repo.AddItem(ctx, 1, Ref{DishID: 1, MenuID: 2})
		assert.ErrorIs(t, err, ErrInvalidLineItem)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_RemoveItem(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db, newStubCatalog())
	ctx := context.Background()

	t.Run("Removes dish rows", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM list_orders WHERE order_id = \(\s*SELECT id FROM orders WHERE id = \$1 AND actual_date IS NULL FOR UPDATE\s*\) AND dish_id = \$2`).
			WithArgs(uint(1), uint(10)).
			WillReturnResult(sqlmock.NewResult(0, 2))

		assert.NoError(t, repo.RemoveItem(ctx, 1, DishRef(10)))
	})

	t.Run("Menu not in draft", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM list_orders .* AND menu_id = \$2`).
			WithArgs(uint(1), uint(20)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT actual_date IS NOT NULL FROM orders`).
			WithArgs(uint(1)).
			WillReturnRows(sqlmock.NewRows([]string{"confirmed"}).AddRow(false))

		assert.ErrorIs(t, repo.RemoveItem(ctx, 1, MenuRef(20)), ErrLineItemNotFound)
	})

	t.Run("Confirmed order", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM list_orders`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT actual_date IS NOT NULL FROM orders`).
			WillReturnRows(sqlmock.NewRows([]string{"confirmed"}).AddRow(true))

		assert.ErrorIs(t, repo.RemoveItem(ctx, 1, DishRef(10)), ErrAlreadyConfirmed)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT .* FROM orders o .* WHERE o.user_id = \$1 ORDER BY o.actual_date DESC NULLS LAST, o.id DESC LIMIT \$2 OFFSET \$3`).
		WithArgs(uint(3), 10, 0).
		WillReturnRows(sqlmock.NewRows(orderCols).
			AddRow(2, 3, true, at, "4.00", 1, "13:00", 2, 1).
			AddRow(5, 3, false, nil, nil, nil, nil, nil, nil))

	orders, err := NewRepository(db, newStubCatalog()).ListByUser(context.Background(), 3, Page{})
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.True(t, orders[0].IsConfirmed())
	assert.False(t, orders[1].IsConfirmed())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`WHERE o.maked = FALSE ORDER BY o.id LIMIT \$1 OFFSET \$2`).
		WithArgs(5, 5).
		WillReturnRows(sqlmock.NewRows(orderCols))

	orders, err := NewRepository(db, newStubCatalog()).ListPending(context.Background(), Page{Page: 1, Size: 5})
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListKitchenQueue(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`WHERE o.maked = FALSE AND o.actual_date IS NOT NULL ORDER BY s.time, o.actual_date`).
		WillReturnRows(sqlmock.NewRows(orderCols).AddRow(7, 3, false, at, "7.00", 1, "13:00", 2, 1))
	mock.ExpectQuery(`FROM list_orders WHERE order_id = ANY`).
		WillReturnRows(sqlmock.NewRows(itemCols).AddRow(1, 7, 10, nil).AddRow(2, 7, nil, 20))

	orders, err := NewRepository(db, newStubCatalog()).ListKitchenQueue(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Len(t, orders[0].Items, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListConfirmedBetween(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	from := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)
	cols := append(append([]string{}, orderCols...), "email", "username", "role")

	mock.ExpectQuery(`JOIN users u ON u.id = o.user_id .* WHERE o.actual_date >= \$1 AND o.actual_date < \$2`).
		WithArgs(from, to).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(2, 3, false, from.Add(13*time.Hour), "4.00", 1, "13:00", 2, 1, "ana@example.com", "ana", "USER"))

	orders, err := NewRepository(db, newStubCatalog()).ListConfirmedBetween(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.NotNil(t, orders[0].User)
	assert.Equal(t, uint(3), orders[0].User.ID)
	assert.Equal(t, "ana", orders[0].View().User.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_MarkFulfilled(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db, newStubCatalog())
	ctx := context.Background()
	updateSQL := `UPDATE orders SET maked = TRUE WHERE id = \$1 AND actual_date IS NOT NULL`

	t.Run("Twice is fine", func(t *testing.T) {
		mock.ExpectExec(updateSQL).WithArgs(uint(2)).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(updateSQL).WithArgs(uint(2)).WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.MarkFulfilled(ctx, 2))
		assert.NoError(t, repo.MarkFulfilled(ctx, 2))
	})

	t.Run("Draft", func(t *testing.T) {
		mock.ExpectExec(updateSQL).WithArgs(uint(5)).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT actual_date IS NOT NULL`).
			WithArgs(uint(5)).
			WillReturnRows(sqlmock.NewRows([]string{"confirmed"}).AddRow(false))

		assert.ErrorIs(t, repo.MarkFulfilled(ctx, 5), ErrNotConfirmed)
	})

	t.Run("Missing", func(t *testing.T) {
		mock.ExpectExec(updateSQL).WithArgs(uint(6)).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT actual_date IS NOT NULL`).
			WithArgs(uint(6)).
			WillReturnError(sql.ErrNoRows)

		assert.ErrorIs(t, repo.MarkFulfilled(ctx, 6), ErrOrderNotFound)
	})

	t.Run("DBError", func(t *testing.T) {
		mock.ExpectExec(updateSQL).WillReturnError(errors.New("boom"))
		assert.Error(t, repo.MarkFulfilled(ctx, 7))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
