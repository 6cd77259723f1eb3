package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"myfood-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	GetDish(ctx context.Context, id uint) (*Dish, error)
	GetMenu(ctx context.Context, id uint) (*Menu, error)
	FindDishByName(ctx context.Context, name string) (*Dish, error)
	ListDishes(ctx context.Context) ([]*Dish, error)
	ListMenus(ctx context.Context) ([]*Menu, error)

	VisibleDishes(ctx context.Context) ([]*Dish, error)
	VisibleDishesByCategory(ctx context.Context, category Category) ([]*Dish, error)
	VisibleMenus(ctx context.Context) ([]*Menu, error)
	DishesWithAttribute(ctx context.Context, attr Attribute, onlyVisible bool) ([]*Dish, error)

	CreateDish(ctx context.Context, in NewDishInput) (*Dish, error)
	CreateMenu(ctx context.Context, in NewMenuInput) (*Menu, error)
	SetDishVisibility(ctx context.Context, id uint, visible bool) error
	SetMenuVisibility(ctx context.Context, id uint, visible bool) error
	TagDish(ctx context.Context, dishID uint, attr Attribute) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetDish(ctx context.Context, id uint) (*Dish, error) {
	return s.repo.GetDish(ctx, id)
}

func (s *service) GetMenu(ctx context.Context, id uint) (*Menu, error) {
	return s.repo.GetMenu(ctx, id)
}

func (s *service) FindDishByName(ctx context.Context, name string) (*Dish, error) {
	return s.repo.FindDishByName(ctx, strings.TrimSpace(name))
}

func (s *service) ListDishes(ctx context.Context) ([]*Dish, error) {
	return s.repo.ListDishes(ctx, DishFilter{})
}

func (s *service) ListMenus(ctx context.Context) ([]*Menu, error) {
	return s.repo.ListMenus(ctx)
}

func (s *service) VisibleDishes(ctx context.Context) ([]*Dish, error) {
	return s.repo.ListDishes(ctx, DishFilter{OnlyVisible: true})
}

func (s *service) VisibleDishesByCategory(ctx context.Context, category Category) ([]*Dish, error) {
	if !category.IsValid() {
		return nil, ErrInvalidCategory
	}
	return s.repo.ListDishes(ctx, DishFilter{Category: &category, OnlyVisible: true})
}

// VisibleMenus loads every menu with its courses and keeps the ones a
// customer may see right now.
func (s *service) VisibleMenus(ctx context.Context) ([]*Menu, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "VisibleMenus"),
	)

	menus, err := s.repo.ListMenus(ctx)
	if err != nil {
		log.Error("failed to list menus", zap.Error(err))
		return nil, err
	}

	visible := make([]*Menu, 0, len(menus))
	for _, m := range menus {
		if m.IsVisibleToUsers() {
			visible = append(visible, m)
		}
	}

	log.Debug("visible menus resolved",
		zap.Int("total", len(menus)),
		zap.Int("visible", len(visible)),
	)
	return visible, nil
}

func (s *service) DishesWithAttribute(ctx context.Context, attr Attribute, onlyVisible bool) ([]*Dish, error) {
	if !attr.IsValid() {
		return nil, ErrInvalidAttribute
	}
	return s.repo.ListDishesByAttribute(ctx, attr, onlyVisible)
}

func (s *service) CreateDish(ctx context.Context, in NewDishInput) (*Dish, error) {
	start := time.Now()
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateDish"),
	)

	in.Name = strings.TrimSpace(in.Name)
	switch {
	case in.Name == "":
		return nil, ErrEmptyName
	case in.Price.IsNegative():
		return nil, ErrNegativePrice
	case !in.Category.IsValid():
		return nil, ErrInvalidCategory
	}

	d, err := s.repo.CreateDish(ctx, in)
	if err != nil {
		log.Error("failed to create dish", zap.Error(err))
		return nil, err
	}

	log.Info("dish created",
		zap.Uint("dish_id", d.ID),
		zap.String("price", d.Price.StringFixed(2)),
		zap.Duration("duration", time.Since(start)),
	)
	return d, nil
}

func (s *service) CreateMenu(ctx context.Context, in NewMenuInput) (*Menu, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateMenu"),
	)

	ids := []uint{in.AppetizerID, in.FirstID, in.SecondID, in.DessertID}
	for _, id := range ids {
		if id == 0 {
			return nil, ErrMissingCourse
		}
	}

	found, err := s.repo.GetDishesByIDs(ctx, ids)
	if err != nil {
		log.Error("failed to load menu courses", zap.Error(err))
		return nil, err
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			log.Warn("menu course not found", zap.Uint("dish_id", id))
			return nil, ErrMissingCourse
		}
	}

	m, err := s.repo.CreateMenu(ctx, in)
	if err != nil {
		if errors.Is(err, ErrDishNotFound) {
			return nil, ErrMissingCourse
		}
		log.Error("failed to create menu", zap.Error(err))
		return nil, err
	}

	log.Info("menu created", zap.Uint("menu_id", m.ID))
	return m, nil
}

func (s *service) SetDishVisibility(ctx context.Context, id uint, visible bool) error {
	if err := s.repo.SetDishVisibility(ctx, id, visible); err != nil {
		return err
	}
	logger.FromCtx(ctx).Info("dish visibility changed",
		zap.Uint("dish_id", id),
		zap.Bool("visible", visible),
	)
	return nil
}

func (s *service) SetMenuVisibility(ctx context.Context, id uint, visible bool) error {
	if err := s.repo.SetMenuVisibility(ctx, id, visible); err != nil {
		return err
	}
	logger.FromCtx(ctx).Info("menu visibility changed",
		zap.Uint("menu_id", id),
		zap.Bool("visible", visible),
	)
	return nil
}

func (s *service) TagDish(ctx context.Context, dishID uint, attr Attribute) error {
	if !attr.IsValid() {
		return ErrInvalidAttribute
	}
	return s.repo.TagDish(ctx, dishID, attr)
}
