package checkout

import (
	"context"
	"errors"
	"strings"
	"time"

	"myfood-be/internal/clock"
	"myfood-be/internal/events"
	"myfood-be/internal/logger"
	"myfood-be/internal/metrics"
	"myfood-be/internal/order"
	"myfood-be/internal/pricing"
	"myfood-be/internal/slot"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	DefaultTimeout = 5 * time.Second
	maxAttempts    = 3
	priceScale     = 2
)

type Service interface {
	// Finalize confirms a draft order against a slot. Preconditions are
	// checked in this order and the first failure is returned:
	// ErrOrderNotFound, ErrAlreadyConfirmed, ErrEmptyOrder,
	// ErrSlotNotFound, ErrSlotFull.
	Finalize(ctx context.Context, orderID, slotID uint) (*order.View, error)

	// FinalizeWithPrice is Finalize with a staff supplied total instead of
	// the computed one.
	FinalizeWithPrice(ctx context.Context, orderID, slotID uint, price decimal.Decimal) (*order.View, error)
}

type Options struct {
	Timeout time.Duration
}

type service struct {
	orders    order.Repository
	slots     slot.Repository
	repo      Repository
	publisher events.Publisher
	clock     clock.Clock
	metrics   *metrics.Registry
	timeout   time.Duration
}

func NewService(
	orders order.Repository,
	slots slot.Repository,
	repo Repository,
	publisher events.Publisher,
	c clock.Clock,
	m *metrics.Registry,
	opts Options,
) Service {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if m == nil {
		m = metrics.NewRegistry()
	}
	return &service{
		orders:    orders,
		slots:     slots,
		repo:      repo,
		publisher: publisher,
		clock:     c,
		metrics:   m,
		timeout:   opts.Timeout,
	}
}

func (s *service) Finalize(ctx context.Context, orderID, slotID uint) (*order.View, error) {
	return s.finalize(ctx, orderID, slotID, nil)
}

func (s *service) FinalizeWithPrice(ctx context.Context, orderID, slotID uint, price decimal.Decimal) (*order.View, error) {
	if price.IsNegative() {
		return nil, ErrNegativePrice
	}
	return s.finalize(ctx, orderID, slotID, &price)
}

func (s *service) finalize(ctx context.Context, orderID, slotID uint, override *decimal.Decimal) (*order.View, error) {
	timer := metrics.StartTimer()
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Finalize"),
		zap.Uint("order_id", orderID),
		zap.Uint("slot_id", slotID),
	)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		o   *order.Order
		err error
	)
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		o, err = s.finalizeOnce(ctx, orderID, slotID, override)
		if !errors.Is(err, errOrderChanged) {
			break
		}
		log.Info("retrying finalization", zap.Int("attempt", attempt))
	}

	if err != nil {
		reason := ReasonOf(err)
		s.metrics.Counter("finalize_rejected_" + strings.ToLower(reason)).Inc()
		if reason == ReasonInternal {
			log.Error("finalization failed", zap.Error(err), zap.Duration("duration", timer.Duration()))
		} else {
			log.Info("finalization rejected", zap.String("reason", reason))
		}
		return nil, err
	}

	s.metrics.Counter("finalize_success").Inc()
	c := o.Confirmation
	log.Info("order confirmed",
		zap.String("total_price", c.TotalPrice.String()),
		zap.Time("confirmed_at", c.ConfirmedAt),
		zap.Int("slot_actual", c.Slot.Actual),
		zap.Duration("duration", timer.Duration()),
	)

	err = s.publisher.Publish(ctx, events.TopicOrderConfirmed, events.OrderConfirmed{
		OrderID:     o.ID,
		UserID:      o.UserID,
		SlotID:      c.Slot.ID,
		SlotTime:    c.Slot.Time,
		TotalPrice:  c.TotalPrice.String(),
		ConfirmedAt: c.ConfirmedAt,
	})
	if err != nil {
		log.Error("failed to publish confirmation", zap.Error(err))
	}

	return o.View(), nil
}

func (s *service) finalizeOnce(ctx context.Context, orderID, slotID uint, override *decimal.Decimal) (*order.Order, error) {
	o, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.IsConfirmed() {
		return nil, ErrAlreadyConfirmed
	}
	if len(o.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	sl, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if !sl.HasCapacity() {
		return nil, ErrSlotFull
	}

	price := pricing.CalculateTotalPrice(o.Items)
	if override != nil {
		price = *override
	}
	// orders.total_price is NUMERIC(10, 2); round here so the response
	// matches the stored value.
	price = price.Round(priceScale)
	now := s.clock.Now()

	reserved, err := s.repo.Confirm(ctx, ConfirmParams{
		OrderID:     o.ID,
		SlotID:      sl.ID,
		ItemIDs:     o.ItemIDs(),
		TotalPrice:  price,
		ConfirmedAt: now,
	})
	if err != nil {
		return nil, err
	}

	o.Confirmation = &order.Confirmation{
		Slot:        reserved,
		TotalPrice:  price,
		ConfirmedAt: now,
	}
	return o, nil
}
