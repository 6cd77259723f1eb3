package catalog

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type rowScanner interface {
	Scan(dest ...any) error
}

const dishColumns = "id, name, description, image, price, category, visible"

func qualifiedDishColumns(alias string) string {
	cols := strings.Split(dishColumns, ", ")
	for i, c := range cols {
		cols[i] = fmt.Sprintf("%s.%s", alias, c)
	}
	return strings.Join(cols, ", ")
}

func scanDish(row rowScanner) (*Dish, error) {
	var (
		d     Dish
		image sql.NullString
	)
	if err := row.Scan(&d.ID, &d.Name, &d.Description, &image, &d.Price, &d.Category, &d.Visible); err != nil {
		return nil, err
	}
	d.Image = image.String
	return &d, nil
}

// nullDish receives one LEFT JOINed course of a menu row.
type nullDish struct {
	id          sql.NullInt64
	name        sql.NullString
	description sql.NullString
	image       sql.NullString
	price       decimal.NullDecimal
	category    sql.NullString
	visible     sql.NullBool
}

func (n *nullDish) targets() []any {
	return []any{&n.id, &n.name, &n.description, &n.image, &n.price, &n.category, &n.visible}
}

func (n *nullDish) dish() *Dish {
	if !n.id.Valid {
		return nil
	}
	return &Dish{
		ID:          uint(n.id.Int64),
		Name:        n.name.String,
		Description: n.description.String,
		Image:       n.image.String,
		Price:       n.price.Decimal,
		Category:    Category(n.category.String),
		Visible:     n.visible.Bool,
	}
}

var menuSelect = `
	SELECT
		m.id, m.visible,
		` + qualifiedDishColumns("a") + `,
		` + qualifiedDishColumns("f") + `,
		` + qualifiedDishColumns("s") + `,
		` + qualifiedDishColumns("d") + `
	FROM menus m
	LEFT JOIN dishes a ON a.id = m.appetizer_id
	LEFT JOIN dishes f ON f.id = m.first_id
	LEFT JOIN dishes s ON s.id = m.second_id
	LEFT JOIN dishes d ON d.id = m.dessert_id`

func scanMenu(row rowScanner) (*Menu, error) {
	var (
		m                              Menu
		appetizer, first, second, dess nullDish
	)
	dest := []any{&m.ID, &m.Visible}
	dest = append(dest, appetizer.targets()...)
	dest = append(dest, first.targets()...)
	dest = append(dest, second.targets()...)
	dest = append(dest, dess.targets()...)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	m.Appetizer = appetizer.dish()
	m.First = first.dish()
	m.Second = second.dish()
	m.Dessert = dess.dish()
	return &m, nil
}

func toInt64s(ids []uint) []int64 {
	out := make([]int64, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}
