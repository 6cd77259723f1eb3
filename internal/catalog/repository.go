package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"myfood-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

const pgForeignKeyViolation = "23503"

type Repository interface {
	GetDish(ctx context.Context, id uint) (*Dish, error)
	GetDishesByIDs(ctx context.Context, ids []uint) (map[uint]*Dish, error)
	FindDishByName(ctx context.Context, name string) (*Dish, error)
	ListDishes(ctx context.Context, filter DishFilter) ([]*Dish, error)
	CreateDish(ctx context.Context, in NewDishInput) (*Dish, error)
	SetDishVisibility(ctx context.Context, id uint, visible bool) error

	GetMenu(ctx context.Context, id uint) (*Menu, error)
	GetMenusByIDs(ctx context.Context, ids []uint) (map[uint]*Menu, error)
	ListMenus(ctx context.Context) ([]*Menu, error)
	CreateMenu(ctx context.Context, in NewMenuInput) (*Menu, error)
	SetMenuVisibility(ctx context.Context, id uint, visible bool) error

	ListDishesByAttribute(ctx context.Context, attr Attribute, onlyVisible bool) ([]*Dish, error)
	TagDish(ctx context.Context, dishID uint, attr Attribute) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetDish(ctx context.Context, id uint) (*Dish, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+dishColumns+` FROM dishes WHERE id = $1`, id)

	d, err := scanDish(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDishNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get dish %d: %w", id, err)
	}
	return d, nil
}

func (r *repository) GetDishesByIDs(ctx context.Context, ids []uint) (map[uint]*Dish, error) {
	out := make(map[uint]*Dish, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+dishColumns+` FROM dishes WHERE id = ANY($1)`,
		pq.Array(toInt64s(ids)),
	)
	if err != nil {
		return nil, fmt.Errorf("get dishes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		d, err := scanDish(rows)
		if err != nil {
			return nil, err
		}
		out[d.ID] = d
	}
	return out, rows.Err()
}

func (r *repository) FindDishByName(ctx context.Context, name string) (*Dish, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+dishColumns+` FROM dishes WHERE name = $1`, name)

	d, err := scanDish(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDishNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find dish by name: %w", err)
	}
	return d, nil
}

func (r *repository) ListDishes(ctx context.Context, filter DishFilter) ([]*Dish, error) {
	var (
		where []string
		args  []any
	)

	if filter.Category != nil {
		args = append(args, string(*filter.Category))
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Name != "" {
		args = append(args, "%"+filter.Name+"%")
		where = append(where, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if filter.OnlyVisible {
		where = append(where, "visible = TRUE")
	}

	query := `SELECT ` + dishColumns + ` FROM dishes`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id"

	return r.queryDishes(ctx, query, args...)
}

func (r *repository) CreateDish(ctx context.Context, in NewDishInput) (*Dish, error) {
	d := &Dish{
		Name:        in.Name,
		Description: in.Description,
		Image:       in.Image,
		Price:       in.Price,
		Category:    in.Category,
		Visible:     in.Visible,
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO dishes (name, description, image, price, category, visible)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, d.Name, d.Description, d.Image, d.Price, string(d.Category), d.Visible).Scan(&d.ID)
	if err != nil {
		return nil, fmt.Errorf("create dish: %w", err)
	}
	return d, nil
}

func (r *repository) SetDishVisibility(ctx context.Context, id uint, visible bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE dishes SET visible = $1 WHERE id = $2`, visible, id)
	if err != nil {
		return fmt.Errorf("update dish visibility: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrDishNotFound
	}
	return nil
}

func (r *repository) GetMenu(ctx context.Context, id uint) (*Menu, error) {
	m, err := scanMenu(r.db.QueryRowContext(ctx, menuSelect+` WHERE m.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMenuNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get menu %d: %w", id, err)
	}
	return m, nil
}

func (r *repository) GetMenusByIDs(ctx context.Context, ids []uint) (map[uint]*Menu, error) {
	out := make(map[uint]*Menu, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	menus, err := r.queryMenus(ctx, menuSelect+` WHERE m.id = ANY($1)`, pq.Array(toInt64s(ids)))
	if err != nil {
		return nil, err
	}
	for _, m := range menus {
		out[m.ID] = m
	}
	return out, nil
}

func (r *repository) ListMenus(ctx context.Context) ([]*Menu, error) {
	return r.queryMenus(ctx, menuSelect+` ORDER BY m.id`)
}

func (r *repository) CreateMenu(ctx context.Context, in NewMenuInput) (*Menu, error) {
	var id uint
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO menus (appetizer_id, first_id, second_id, dessert_id, visible)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, in.AppetizerID, in.FirstID, in.SecondID, in.DessertID, in.Visible).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgForeignKeyViolation {
			return nil, ErrDishNotFound
		}
		return nil, fmt.Errorf("create menu: %w", err)
	}
	return r.GetMenu(ctx, id)
}

func (r *repository) SetMenuVisibility(ctx context.Context, id uint, visible bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE menus SET visible = $1 WHERE id = $2`, visible, id)
	if err != nil {
		return fmt.Errorf("update menu visibility: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMenuNotFound
	}
	return nil
}

func (r *repository) ListDishesByAttribute(ctx context.Context, attr Attribute, onlyVisible bool) ([]*Dish, error) {
	query := `
		SELECT ` + qualifiedDishColumns("d") + `
		FROM dishes d
		JOIN atribut_dish_dishes ad ON ad.dish_id = d.id
		JOIN atribut_dish a ON a.id = ad.atribut_dish_id
		WHERE a.attribute = $1`
	if onlyVisible {
		query += ` AND d.visible = TRUE`
	}
	query += ` ORDER BY d.id`

	return r.queryDishes(ctx, query, string(attr))
}

func (r *repository) TagDish(ctx context.Context, dishID uint, attr Attribute) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "TagDish"),
		zap.Uint("dish_id", dishID),
		zap.String("attribute", string(attr)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var tagID uint
	err = tx.QueryRowContext(ctx, `
		INSERT INTO atribut_dish (attribute) VALUES ($1)
		ON CONFLICT (attribute) DO UPDATE SET attribute = EXCLUDED.attribute
		RETURNING id
	`, string(attr)).Scan(&tagID)
	if err != nil {
		log.Error("failed to upsert attribute", zap.Error(err))
		return fmt.Errorf("upsert attribute: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO atribut_dish_dishes (atribut_dish_id, dish_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, tagID, dishID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgForeignKeyViolation {
			return ErrDishNotFound
		}
		log.Error("failed to link attribute", zap.Error(err))
		return fmt.Errorf("link attribute: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func (r *repository) queryDishes(ctx context.Context, query string, args ...any) ([]*Dish, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query dishes: %w", err)
	}
	defer rows.Close()

	dishes := make([]*Dish, 0)
	for rows.Next() {
		d, err := scanDish(rows)
		if err != nil {
			return nil, err
		}
		dishes = append(dishes, d)
	}
	return dishes, rows.Err()
}

func (r *repository) queryMenus(ctx context.Context, query string, args ...any) ([]*Menu, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query menus: %w", err)
	}
	defer rows.Close()

	menus := make([]*Menu, 0)
	for rows.Next() {
		m, err := scanMenu(rows)
		if err != nil {
			return nil, err
		}
		menus = append(menus, m)
	}
	return menus, rows.Err()
}
