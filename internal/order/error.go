package order

import "errors"

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrAlreadyConfirmed = errors.New("order is already confirmed")
	ErrNotConfirmed     = errors.New("order is not confirmed")
	ErrInvalidLineItem  = errors.New("line item must reference exactly one dish or menu")
	ErrLineItemNotFound = errors.New("line item not found")
)

var ErrInvalidDate = errors.New("invalid calendar date")
