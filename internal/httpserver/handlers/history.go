package handlers

import (
	"net/http"
	"strconv"

	"github.com/ndelvaux/handleforge/internal/httpserver/deps"
	"github.com/ndelvaux/handleforge/internal/logger"
	sqlitestore "github.com/ndelvaux/handleforge/internal/store/sqlite"
)

type historyResponse struct {
	Runs []sqlitestore.HistoryRecord `json:"runs"`
}

// History returns a user's past generation runs, newest first.
func History(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("user_id")
		if userID == "" {
			http.Error(w, "user_id is required", http.StatusBadRequest)
			return
		}

		limit := 20
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}

		runs, err := d.Store.History(r.Context(), userID, limit)
		if err != nil {
			d.Logger.Error("failed to load generation history",
				logger.String("user_id", userID), logger.Error(err))
			http.Error(w, "failed to load history", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, historyResponse{Runs: runs})
	}
}
