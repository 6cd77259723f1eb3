package slot

import (
	"context"
	"time"

	"myfood-be/internal/clock"
	"myfood-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context) ([]*Slot, error)
	Get(ctx context.Context, id uint) (*Slot, error)
	AvailableForBooking(ctx context.Context) ([]*Slot, error)
	Reserve(ctx context.Context, id uint) (*Slot, error)
	ResetAll(ctx context.Context) error
	Create(ctx context.Context, in NewSlotInput) (*Slot, error)
}

type service struct {
	repo  Repository
	clock clock.Clock
}

func NewService(repo Repository, c clock.Clock) Service {
	return &service{repo: repo, clock: c}
}

func (s *service) List(ctx context.Context) ([]*Slot, error) {
	return s.repo.List(ctx)
}

func (s *service) Get(ctx context.Context, id uint) (*Slot, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) AvailableForBooking(ctx context.Context) ([]*Slot, error) {
	now := s.clock.Now()
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AvailableForBooking"),
		zap.String("now", now.Format("15:04")),
	)

	slots, err := s.repo.List(ctx)
	if err != nil {
		log.Error("failed to list slots", zap.Error(err))
		return nil, err
	}

	available := make([]*Slot, 0, len(slots))
	for _, sl := range slots {
		if IsBookable(sl, now) {
			available = append(available, sl)
		}
	}

	log.Debug("available slots", zap.Int("count", len(available)))
	return available, nil
}

func (s *service) Reserve(ctx context.Context, id uint) (*Slot, error) {
	sl, err := s.repo.Reserve(ctx, id)
	if err != nil {
		logger.FromCtx(ctx).Info("slot reservation rejected",
			zap.Uint("slot_id", id),
			zap.Error(err),
		)
		return nil, err
	}
	return sl, nil
}

func (s *service) ResetAll(ctx context.Context) error {
	start := time.Now()
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ResetAll"),
	)

	n, err := s.repo.ResetAll(ctx)
	if err != nil {
		log.Error("slot reset failed", zap.Error(err))
		return err
	}

	log.Info("slots reset",
		zap.Int64("touched", n),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

func (s *service) Create(ctx context.Context, in NewSlotInput) (*Slot, error) {
	if _, _, err := ParseTime(in.Time); err != nil {
		return nil, err
	}
	if in.LimitSlot < 0 {
		return nil, ErrInvalidLimit
	}
	return s.repo.Create(ctx, in)
}
