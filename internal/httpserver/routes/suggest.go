package routes

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ndelvaux/handleforge/internal/httpserver/deps"
	"github.com/ndelvaux/handleforge/internal/httpserver/handlers"
	"github.com/ndelvaux/handleforge/internal/httpserver/mw"
)

func init() { Register(registerSuggest) }

func registerSuggest(r chi.Router, d deps.Deps) {
	// A resolution run is expensive for the authority; the bucket is small
	// on purpose.
	limited := r.With(mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.RateLimitBurst,
		RefillPerIPPerMin: d.RateLimitPerMin,
		MaxEntries:        4096,
		SweepInterval:     time.Minute,
		IdleTTL:           15 * time.Minute,
		TrustProxy:        d.TrustProxy,
	}))
	limited.Post("/api/suggest", handlers.Suggest(d))
}
