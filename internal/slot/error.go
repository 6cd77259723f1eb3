package slot

import "errors"

var (
	ErrSlotNotFound = errors.New("slot not found")
	ErrSlotFull     = errors.New("slot is full")
	ErrInvalidTime  = errors.New("slot time must be HH:MM")
	ErrInvalidLimit = errors.New("slot limit must not be negative")
)
