package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/ndelvaux/handleforge/internal/httpserver/deps"
	"github.com/ndelvaux/handleforge/internal/httpserver/handlers"
)

func init() { Register(registerHistory) }

func registerHistory(r chi.Router, d deps.Deps) {
	r.Get("/api/history", handlers.History(d))
}
