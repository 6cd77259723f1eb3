package httpapi

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const healthTimeout = 3 * time.Second

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

func (a *API) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	var (
		mu       sync.Mutex
		services = make(map[string]string, len(a.checks))
	)
	g, gctx := errgroup.WithContext(ctx)
	for name, check := range a.checks {
		name, check := name, check
		g.Go(func() error {
			status := "ok"
			if err := check(gctx); err != nil {
				status = "error"
			}
			mu.Lock()
			services[name] = status
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	resp := HealthResponse{Status: "healthy", Timestamp: time.Now(), Services: services}
	code := http.StatusOK
	for _, s := range services {
		if s != "ok" {
			resp.Status = "unhealthy"
			code = http.StatusServiceUnavailable
		}
	}
	jsonResponse(w, code, resp)
}

func (a *API) metricsHandler(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, a.metrics.Snapshot())
}
