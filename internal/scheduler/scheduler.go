// Package scheduler runs the daily slot reset on a cron schedule evaluated
// in the facility time zone.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"myfood-be/internal/clock"
	"myfood-be/internal/events"
	"myfood-be/internal/logger"
	"myfood-be/internal/metrics"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const DefaultResetTimeout = 30 * time.Second

// Resetter is implemented by slot.Service.
type Resetter interface {
	ResetAll(ctx context.Context) error
}

type Scheduler struct {
	cron      *cron.Cron
	schedule  cron.Schedule
	loc       *time.Location
	resetter  Resetter
	publisher events.Publisher
	clock     clock.Clock
	metrics   *metrics.Registry
	timeout   time.Duration
}

func New(
	spec string,
	loc *time.Location,
	resetter Resetter,
	publisher events.Publisher,
	c clock.Clock,
	m *metrics.Registry,
) (*Scheduler, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("parse reset schedule %q: %w", spec, err)
	}
	if loc == nil {
		loc = time.Local
	}
	if m == nil {
		m = metrics.NewRegistry()
	}

	cl := cronLogger{log: logger.L().Named("cron").Sugar()}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		schedule:  schedule,
		loc:       loc,
		resetter:  resetter,
		publisher: publisher,
		clock:     c,
		metrics:   m,
		timeout:   DefaultResetTimeout,
	}
	s.cron.Schedule(schedule, cron.FuncJob(func() {
		_ = s.RunReset(context.Background())
	}))
	return s, nil
}

func (s *Scheduler) Start() {
	logger.L().Info("slot reset scheduler started",
		zap.String("zone", s.loc.String()),
		zap.Time("next_run", s.NextAfter(s.clock.Now())),
	)
	s.cron.Start()
}

// Stop prevents further runs and waits for a running reset to finish or
// ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		logger.L().Warn("slot reset still running at shutdown")
	}
}

// NextAfter reports when the reset fires next after t, in the facility zone.
func (s *Scheduler) NextAfter(t time.Time) time.Time {
	return s.schedule.Next(t.In(s.loc))
}

// RunReset zeroes every slot counter once. The cron job calls it; admins
// can trigger it by hand too.
func (s *Scheduler) RunReset(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "scheduler"),
		zap.String("method", "RunReset"),
	)

	if err := s.resetter.ResetAll(ctx); err != nil {
		s.metrics.Counter("slot_reset_failures").Inc()
		log.Error("daily slot reset failed", zap.Error(err))
		return err
	}
	s.metrics.Counter("slot_resets").Inc()

	at := s.clock.Now()
	if err := s.publisher.Publish(ctx, events.TopicSlotsReset, events.SlotsReset{At: at}); err != nil {
		log.Error("failed to publish slot reset", zap.Error(err))
	}
	log.Info("daily slot reset done", zap.Time("at", at))
	return nil
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
