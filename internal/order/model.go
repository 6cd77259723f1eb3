package order

import (
	"time"

	"myfood-be/internal/catalog"
	"myfood-be/internal/slot"
	"myfood-be/internal/user"

	"github.com/shopspring/decimal"
)

// Unit is what one line item orders. Only DishUnit and MenuUnit exist, so
// an item referencing both or neither cannot be built.
type Unit interface {
	// Dishes lists the dishes the kitchen prepares for this unit.
	Dishes() []*catalog.Dish
	unit()
}

type DishUnit struct {
	Dish *catalog.Dish
}

func (u DishUnit) Dishes() []*catalog.Dish {
	if u.Dish == nil {
		return nil
	}
	return []*catalog.Dish{u.Dish}
}

func (DishUnit) unit() {}

type MenuUnit struct {
	Menu *catalog.Menu
}

func (u MenuUnit) Dishes() []*catalog.Dish {
	return u.Menu.Dishes()
}

func (MenuUnit) unit() {}

type LineItem struct {
	ID      uint
	OrderID uint
	Unit    Unit
}

// Ref addresses the target of a line item by id. Exactly one field is set.
type Ref struct {
	DishID uint
	MenuID uint
}

func DishRef(id uint) Ref { return Ref{DishID: id} }
func MenuRef(id uint) Ref { return Ref{MenuID: id} }

func (r Ref) Validate() error {
	if (r.DishID == 0) == (r.MenuID == 0) {
		return ErrInvalidLineItem
	}
	return nil
}

// Confirmation holds what finalization records. An order without one is
// a draft.
type Confirmation struct {
	Slot        *slot.Slot
	TotalPrice  decimal.Decimal
	ConfirmedAt time.Time
}

type Order struct {
	ID           uint
	UserID       uint
	User         *user.User
	Maked        bool
	Confirmation *Confirmation
	Items        []LineItem
}

func (o *Order) IsConfirmed() bool {
	return o.Confirmation != nil
}

func (o *Order) ItemIDs() []uint {
	ids := make([]uint, len(o.Items))
	for i, it := range o.Items {
		ids[i] = it.ID
	}
	return ids
}

// View is the public projection of an order. It never carries user
// credentials.
type View struct {
	ID         uint             `json:"id"`
	Maked      bool             `json:"maked"`
	Slot       *slot.Slot       `json:"slot"`
	TotalPrice *decimal.Decimal `json:"totalPrice"`
	ActualDate *time.Time       `json:"actualDate"`
	User       *user.PublicUser `json:"user,omitempty"`
}

func (o *Order) View() *View {
	v := &View{
		ID:    o.ID,
		Maked: o.Maked,
		User:  o.User.Public(),
	}
	if c := o.Confirmation; c != nil {
		price := c.TotalPrice
		at := c.ConfirmedAt
		v.Slot = c.Slot
		v.TotalPrice = &price
		v.ActualDate = &at
	}
	return v
}

func Views(orders []*Order) []*View {
	out := make([]*View, len(orders))
	for i, o := range orders {
		out[i] = o.View()
	}
	return out
}

// KitchenTicket is what the chef sees: when to have it ready and which
// dishes to cook, menus already expanded.
type KitchenTicket struct {
	OrderID     uint            `json:"orderId"`
	SlotTime    string          `json:"slotTime"`
	ConfirmedAt time.Time       `json:"confirmedAt"`
	Dishes      []*catalog.Dish `json:"dishes"`
}

type Page struct {
	Page int
	Size int
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

func (p Page) Normalize() Page {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

func (p Page) Offset() int {
	return p.Page * p.Size
}
