package events

import "time"

type OrderConfirmed struct {
	OrderID     uint      `json:"orderId"`
	UserID      uint      `json:"userId"`
	SlotID      uint      `json:"slotId"`
	SlotTime    string    `json:"slotTime"`
	TotalPrice  string    `json:"totalPrice"`
	ConfirmedAt time.Time `json:"confirmedAt"`
}

type OrderFulfilled struct {
	OrderID uint      `json:"orderId"`
	At      time.Time `json:"at"`
}

type SlotsReset struct {
	At time.Time `json:"at"`
}
