package httpapi

import (
	"context"
	"time"

	"myfood-be/internal/catalog"
	"myfood-be/internal/checkout"
	"myfood-be/internal/order"
	"myfood-be/internal/slot"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockCatalog struct {
	catalog.Service
	mock.Mock
}

func (m *MockCatalog) VisibleDishesByCategory(ctx context.Context, c catalog.Category) ([]*catalog.Dish, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Dish), args.Error(1)
}

func (m *MockCatalog) CreateDish(ctx context.Context, in catalog.NewDishInput) (*catalog.Dish, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Dish), args.Error(1)
}

func (m *MockCatalog) SetMenuVisibility(ctx context.Context, id uint, visible bool) error {
	return m.Called(ctx, id, visible).Error(0)
}

type MockSlots struct {
	slot.Service
	mock.Mock
}

func (m *MockSlots) AvailableForBooking(ctx context.Context) ([]*slot.Slot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*slot.Slot), args.Error(1)
}

func (m *MockSlots) Create(ctx context.Context, in slot.NewSlotInput) (*slot.Slot, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*slot.Slot), args.Error(1)
}

type MockOrders struct {
	order.Service
	mock.Mock
}

func (m *MockOrders) Get(ctx context.Context, id uint) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrders) CreateDraft(ctx context.Context, userID uint) (*order.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrders) AddDish(ctx context.Context, orderID, dishID uint) (*order.LineItem, error) {
	args := m.Called(ctx, orderID, dishID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.LineItem), args.Error(1)
}

func (m *MockOrders) ListForUser(ctx context.Context, userID uint, page order.Page) ([]*order.Order, error) {
	args := m.Called(ctx, userID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrders) KitchenQueue(ctx context.Context) ([]*order.KitchenTicket, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.KitchenTicket), args.Error(1)
}

func (m *MockOrders) ListByDate(ctx context.Context, year int, month time.Month, day int) ([]*order.Order, error) {
	args := m.Called(ctx, year, month, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrders) MarkFulfilled(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

type MockCheckout struct {
	mock.Mock
}

func (m *MockCheckout) Finalize(ctx context.Context, orderID, slotID uint) (*order.View, error) {
	args := m.Called(ctx, orderID, slotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.View), args.Error(1)
}

func (m *MockCheckout) FinalizeWithPrice(ctx context.Context, orderID, slotID uint, price decimal.Decimal) (*order.View, error) {
	args := m.Called(ctx, orderID, slotID, price)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.View), args.Error(1)
}

var _ checkout.Service = (*MockCheckout)(nil)

type MockResetter struct {
	mock.Mock
}

func (m *MockResetter) RunReset(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
