package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"myfood-be/internal/catalog"
	"myfood-be/internal/checkout"
	"myfood-be/internal/clock"
	"myfood-be/internal/config"
	"myfood-be/internal/db"
	"myfood-be/internal/events"
	"myfood-be/internal/httpapi"
	"myfood-be/internal/logger"
	"myfood-be/internal/metrics"
	"myfood-be/internal/middleware"
	"myfood-be/internal/order"
	"myfood-be/internal/scheduler"
	"myfood-be/internal/slot"
	"myfood-be/internal/user"

	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

var (
	initDBFunc      = db.InitDB
	newPublisher    = events.New
	startServerFunc = func(srv *http.Server) error {
		return srv.ListenAndServe()
	}
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

type server struct {
	handler   http.Handler
	scheduler *scheduler.Scheduler
	limiter   *middleware.RateLimiter
}

func newServer(cfg *config.Config, database *sql.DB, publisher events.Publisher, loc *time.Location) (*server, error) {
	c := clock.New(loc)
	m := metrics.NewRegistry()

	catalogRepo := catalog.NewRepository(database)
	slotRepo := slot.NewRepository(database)
	userRepo := user.NewRepository(database)
	orderRepo := order.NewRepository(database, catalogRepo)

	slotSvc := slot.NewService(slotRepo, c)
	checkoutSvc := checkout.NewService(
		orderRepo,
		slotRepo,
		checkout.NewRepository(database),
		publisher,
		c,
		m,
		checkout.Options{Timeout: cfg.DBQueryTimeout},
	)

	sched, err := scheduler.New(cfg.SlotResetCron, loc, slotSvc, publisher, c, m)
	if err != nil {
		return nil, err
	}

	checks := map[string]httpapi.HealthCheck{"database": database.PingContext}
	if p, ok := publisher.(events.Pinger); ok {
		checks["queue"] = p.Ping
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	api := httpapi.New(httpapi.Deps{
		Catalog:  catalog.NewService(catalogRepo),
		Slots:    slotSvc,
		Orders:   order.NewService(orderRepo, userRepo, catalogRepo, publisher, c),
		Checkout: checkoutSvc,
		Resetter: sched,
		Metrics:  m,
		Checks:   checks,
	})

	return &server{
		handler:   api.Routes([]byte(cfg.JWTSecret), limiter),
		scheduler: sched,
		limiter:   limiter,
	}, nil
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	l := logger.L()

	loc, err := clock.LoadFacilityZone(cfg.FacilityTZ)
	if err != nil {
		return err
	}

	database := initDBFunc(cfg)
	defer database.Close()

	publisher, err := newPublisher(cfg.RabbitMQURL)
	if err != nil {
		l.Warn("event broker unavailable, events disabled", zap.Error(err))
		publisher = events.Noop{}
	}
	defer publisher.Close()

	s, err := newServer(cfg, database, publisher, loc)
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.scheduler.Start()
	go s.limiter.RunCleanup(ctx)

	srv := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      s.handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  time.Minute,
	}

	serveErr := make(chan error, 1)
	go func() {
		l.Info("server started", zap.String("addr", srv.Addr), zap.String("env", cfg.AppEnv))
		serveErr <- startServerFunc(srv)
	}()

	select {
	case err := <-serveErr:
		stop()
		s.scheduler.Stop(context.Background())
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		l.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.scheduler.Stop(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	l.Info("server stopped")
	return nil
}
