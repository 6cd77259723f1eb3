package order

import (
	"context"
	"time"

	"myfood-be/internal/catalog"
	"myfood-be/internal/clock"
	"myfood-be/internal/events"
	"myfood-be/internal/logger"
	"myfood-be/internal/user"

	"go.uber.org/zap"
)

type Service interface {
	CreateDraft(ctx context.Context, userID uint) (*Order, error)
	AddDish(ctx context.Context, orderID, dishID uint) (*LineItem, error)
	AddMenu(ctx context.Context, orderID, menuID uint) (*LineItem, error)
	RemoveDish(ctx context.Context, orderID, dishID uint) error
	RemoveMenu(ctx context.Context, orderID, menuID uint) error
	Get(ctx context.Context, id uint) (*Order, error)
	ListForUser(ctx context.Context, userID uint, page Page) ([]*Order, error)
	ListPending(ctx context.Context, page Page) ([]*Order, error)
	KitchenQueue(ctx context.Context) ([]*KitchenTicket, error)
	ListByDate(ctx context.Context, year int, month time.Month, day int) ([]*Order, error)
	MarkFulfilled(ctx context.Context, id uint) error
}

type service struct {
	repo      Repository
	users     user.Repository
	catalog   catalog.Repository
	publisher events.Publisher
	clock     clock.Clock
}

func NewService(
	repo Repository,
	users user.Repository,
	catalogRepo catalog.Repository,
	publisher events.Publisher,
	c clock.Clock,
) Service {
	return &service{
		repo:      repo,
		users:     users,
		catalog:   catalogRepo,
		publisher: publisher,
		clock:     c,
	}
}

func (s *service) CreateDraft(ctx context.Context, userID uint) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateDraft"),
		zap.Uint("user_id", userID),
	)

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		log.Warn("cannot open order for user", zap.Error(err))
		return nil, err
	}

	o, err := s.repo.CreateDraft(ctx, userID)
	if err != nil {
		log.Error("failed to create draft order", zap.Error(err))
		return nil, err
	}

	log.Info("draft order created", zap.Uint("order_id", o.ID))
	return o, nil
}

func (s *service) AddDish(ctx context.Context, orderID, dishID uint) (*LineItem, error) {
	d, err := s.catalog.GetDish(ctx, dishID)
	if err != nil {
		return nil, err
	}

	item, err := s.addItem(ctx, orderID, DishRef(dishID))
	if err != nil {
		return nil, err
	}
	item.Unit = DishUnit{Dish: d}
	return item, nil
}

func (s *service) AddMenu(ctx context.Context, orderID, menuID uint) (*LineItem, error) {
	m, err := s.catalog.GetMenu(ctx, menuID)
	if err != nil {
		return nil, err
	}

	item, err := s.addItem(ctx, orderID, MenuRef(menuID))
	if err != nil {
		return nil, err
	}
	item.Unit = MenuUnit{Menu: m}
	return item, nil
}

func (s *service) addItem(ctx context.Context, orderID uint, ref Ref) (*LineItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AddItem"),
		zap.Uint("order_id", orderID),
		zap.Uint("dish_id", ref.DishID),
		zap.Uint("menu_id", ref.MenuID),
	)

	item, err := s.repo.AddItem(ctx, orderID, ref)
	if err != nil {
		log.Warn("line item rejected", zap.Error(err))
		return nil, err
	}

	log.Info("line item added", zap.Uint("line_item_id", item.ID))
	return item, nil
}

func (s *service) RemoveDish(ctx context.Context, orderID, dishID uint) error {
	return s.removeItem(ctx, orderID, DishRef(dishID))
}

func (s *service) RemoveMenu(ctx context.Context, orderID, menuID uint) error {
	return s.removeItem(ctx, orderID, MenuRef(menuID))
}

func (s *service) removeItem(ctx context.Context, orderID uint, ref Ref) error {
	if err := s.repo.RemoveItem(ctx, orderID, ref); err != nil {
		logger.FromCtx(ctx).Warn("line item removal rejected",
			zap.Uint("order_id", orderID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) Get(ctx context.Context, id uint) (*Order, error) {
	return s.repo.GetOrder(ctx, id)
}

func (s *service) ListForUser(ctx context.Context, userID uint, page Page) ([]*Order, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.ListByUser(ctx, userID, page)
}

func (s *service) ListPending(ctx context.Context, page Page) ([]*Order, error) {
	return s.repo.ListPending(ctx, page)
}

func (s *service) KitchenQueue(ctx context.Context) ([]*KitchenTicket, error) {
	orders, err := s.repo.ListKitchenQueue(ctx)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to load kitchen queue", zap.Error(err))
		return nil, err
	}

	tickets := make([]*KitchenTicket, 0, len(orders))
	for _, o := range orders {
		t := &KitchenTicket{OrderID: o.ID}
		if c := o.Confirmation; c != nil {
			t.ConfirmedAt = c.ConfirmedAt
			if c.Slot != nil {
				t.SlotTime = c.Slot.Time
			}
		}
		for _, it := range o.Items {
			t.Dishes = append(t.Dishes, it.Unit.Dishes()...)
		}
		tickets = append(tickets, t)
	}
	return tickets, nil
}

// ListByDate returns orders confirmed on the given facility calendar day.
func (s *service) ListByDate(ctx context.Context, year int, month time.Month, day int) ([]*Order, error) {
	loc := s.clock.Now().Location()
	from := time.Date(year, month, day, 0, 0, 0, 0, loc)
	if from.Year() != year || from.Month() != month || from.Day() != day {
		return nil, ErrInvalidDate
	}
	return s.repo.ListConfirmedBetween(ctx, from, from.AddDate(0, 0, 1))
}

func (s *service) MarkFulfilled(ctx context.Context, id uint) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "MarkFulfilled"),
		zap.Uint("order_id", id),
	)

	if err := s.repo.MarkFulfilled(ctx, id); err != nil {
		log.Warn("cannot mark order fulfilled", zap.Error(err))
		return err
	}

	err := s.publisher.Publish(ctx, events.TopicOrderFulfilled, events.OrderFulfilled{
		OrderID: id,
		At:      s.clock.Now(),
	})
	if err != nil {
		log.Error("failed to publish fulfilled event", zap.Error(err))
	}

	log.Info("order fulfilled")
	return nil
}
