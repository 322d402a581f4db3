package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/ndelvaux/handleforge/internal/httpserver/deps"
	"github.com/ndelvaux/handleforge/internal/logger"
)

type readyzResponse struct {
	Ready bool              `json:"ready"`
	Deps  map[string]string `json:"deps,omitempty"`
}

// Readyz reports readiness: the service can take traffic only when both the
// availability cache and the persistent store answer.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := map[string]string{"redis": "ok", "sqlite": "ok"}
		ready := true

		if err := d.Cache.Ping(ctx); err != nil {
			d.Logger.Warn("readiness: redis unreachable", logger.Error(err))
			status["redis"] = err.Error()
			ready = false
		}
		if err := d.Store.Ping(ctx); err != nil {
			d.Logger.Warn("readiness: sqlite unreachable", logger.Error(err))
			status["sqlite"] = err.Error()
			ready = false
		}

		code := http.StatusOK
		if !ready {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, readyzResponse{Ready: ready, Deps: status})
	}
}
