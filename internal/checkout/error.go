package checkout

import (
	"errors"

	"myfood-be/internal/catalog"
	"myfood-be/internal/order"
	"myfood-be/internal/slot"
)

var (
	ErrOrderNotFound    = order.ErrOrderNotFound
	ErrAlreadyConfirmed = order.ErrAlreadyConfirmed
	ErrEmptyOrder       = errors.New("order must have at least one line item")
	ErrSlotNotFound     = slot.ErrSlotNotFound
	ErrSlotFull         = slot.ErrSlotFull
	ErrNegativePrice    = errors.New("total price must not be negative")

	// errOrderChanged means line items moved between pricing and the
	// confirming transaction. Finalize retries on it.
	errOrderChanged = errors.New("order line items changed during confirmation")
)

const (
	ReasonOrderNotFound    = "ORDER_NOT_FOUND"
	ReasonAlreadyConfirmed = "ALREADY_CONFIRMED"
	ReasonEmptyOrder       = "EMPTY_ORDER"
	ReasonSlotNotFound     = "SLOT_NOT_FOUND"
	ReasonSlotFull         = "SLOT_FULL"
	ReasonInvalidLineItem  = "INVALID_LINE_ITEM"
	ReasonDishNotFound     = "DISH_NOT_FOUND"
	ReasonMenuNotFound     = "MENU_NOT_FOUND"
	ReasonInvalidPrice     = "INVALID_PRICE"
	ReasonInternal         = "INTERNAL"
)

var reasons = []struct {
	err    error
	reason string
}{
	{ErrOrderNotFound, ReasonOrderNotFound},
	{ErrAlreadyConfirmed, ReasonAlreadyConfirmed},
	{ErrEmptyOrder, ReasonEmptyOrder},
	{ErrSlotNotFound, ReasonSlotNotFound},
	{ErrSlotFull, ReasonSlotFull},
	{order.ErrInvalidLineItem, ReasonInvalidLineItem},
	{catalog.ErrDishNotFound, ReasonDishNotFound},
	{catalog.ErrMenuNotFound, ReasonMenuNotFound},
	{ErrNegativePrice, ReasonInvalidPrice},
}

// ReasonOf maps a finalization failure to its machine readable reason.
// Anything outside the taxonomy is INTERNAL.
func ReasonOf(err error) string {
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.reason
		}
	}
	return ReasonInternal
}
