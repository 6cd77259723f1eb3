package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryAppetizer Category = "APPETIZER"
	CategoryFirst     Category = "FIRST"
	CategorySecond    Category = "SECOND"
	CategoryDessert   Category = "DESSERT"
)

var AllCategories = []Category{
	CategoryAppetizer,
	CategoryFirst,
	CategorySecond,
	CategoryDessert,
}

func (c Category) IsValid() bool {
	switch c {
	case CategoryAppetizer, CategoryFirst, CategorySecond, CategoryDessert:
		return true
	}
	return false
}

func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", ErrInvalidCategory
	}
	return c, nil
}

type Attribute string

const (
	AttributeCeliac     Attribute = "CELIAC"
	AttributeLactose    Attribute = "LACTOSE"
	AttributeVegan      Attribute = "VEGAN"
	AttributeVegetarian Attribute = "VEGETARIAN"
	AttributeNuts       Attribute = "NUTS"
)

func (a Attribute) IsValid() bool {
	switch a {
	case AttributeCeliac, AttributeLactose, AttributeVegan, AttributeVegetarian, AttributeNuts:
		return true
	}
	return false
}

func ParseAttribute(s string) (Attribute, error) {
	a := Attribute(strings.ToUpper(strings.TrimSpace(s)))
	if !a.IsValid() {
		return "", ErrInvalidAttribute
	}
	return a, nil
}

type Dish struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Image       string          `json:"image,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Category    Category        `json:"category"`
	Visible     bool            `json:"visible"`
}

// Menu is a fixed four course composition. Any course may be unset on
// legacy rows, so every dish reference is nullable.
type Menu struct {
	ID        uint  `json:"id"`
	Appetizer *Dish `json:"appetizer"`
	First     *Dish `json:"first"`
	Second    *Dish `json:"second"`
	Dessert   *Dish `json:"dessert"`
	Visible   bool  `json:"visible"`
}

// Dishes returns the courses that are set, in serving order.
func (m *Menu) Dishes() []*Dish {
	if m == nil {
		return nil
	}
	out := make([]*Dish, 0, 4)
	for _, d := range []*Dish{m.Appetizer, m.First, m.Second, m.Dessert} {
		if d != nil {
			out = append(out, d)
		}
	}
	return out
}

// IsVisibleToUsers is computed on every read: the menu flag plus all
// four courses present and visible.
func (m *Menu) IsVisibleToUsers() bool {
	if m == nil || !m.Visible {
		return false
	}
	for _, d := range []*Dish{m.Appetizer, m.First, m.Second, m.Dessert} {
		if d == nil || !d.Visible {
			return false
		}
	}
	return true
}

type DishFilter struct {
	Category    *Category
	Name        string
	OnlyVisible bool
}

type NewDishInput struct {
	Name        string
	Description string
	Image       string
	Price       decimal.Decimal
	Category    Category
	Visible     bool
}

type NewMenuInput struct {
	AppetizerID uint
	FirstID     uint
	SecondID    uint
	DessertID   uint
	Visible     bool
}
