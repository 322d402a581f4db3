package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ndelvaux/handleforge/internal/domain"
	"github.com/ndelvaux/handleforge/internal/httpserver/deps"
	"github.com/ndelvaux/handleforge/internal/logger"
)

const defaultResultLimit = 10

type suggestRequest struct {
	UserID      string   `json:"user_id"`
	DisplayName string   `json:"display_name,omitempty"`
	Name        string   `json:"name"`
	Interests   []string `json:"interests"`
	Style       string   `json:"style"`
	LengthPref  string   `json:"length_pref"`
	Limit       int      `json:"limit,omitempty"`
}

type suggestResponse struct {
	Handles []string `json:"handles"`
	Found   int      `json:"found"`
	Checked int      `json:"checked"`
	// Message distinguishes "none available" from an interrupted search.
	Message string `json:"message,omitempty"`
}

// Suggest generates candidates from the posted seed, resolves their
// availability and returns the confirmed-available subset in priority order.
// The engine walks every candidate, but the request stops consuming (and
// cancels the walk) once limit results are in hand.
func Suggest(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req suggestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if req.UserID == "" {
			http.Error(w, "user_id is required", http.StatusBadRequest)
			return
		}

		limit := req.Limit
		if limit <= 0 {
			limit = d.DefaultLimit
		}
		if limit <= 0 {
			limit = defaultResultLimit
		}

		seed := domain.Seed{
			Name:       req.Name,
			Interests:  req.Interests,
			Style:      domain.Style(req.Style),
			LengthPref: domain.LengthPref(req.LengthPref),
		}

		if err := d.Store.TouchUser(r.Context(), req.UserID, req.DisplayName); err != nil {
			d.Logger.Warn("failed to upsert user", logger.String("user_id", req.UserID), logger.Error(err))
		}

		candidates := d.Generator.Generate(seed)
		d.Logger.Info("generated candidates",
			logger.String("user_id", req.UserID),
			logger.Int("count", len(candidates)),
			logger.Bool("fallback_only", d.Adapter.FallbackOnly()))

		if len(candidates) == 0 {
			// A seed with no name and no known interests is a normal
			// zero-candidate outcome, not an error.
			writeJSON(w, http.StatusOK, suggestResponse{
				Handles: []string{},
				Message: "no candidates could be generated from this seed",
			})
			return
		}

		// Cancel the resolution walk once enough results streamed in.
		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		found := 0
		report, err := d.Engine.Resolve(ctx, candidates, func(string) {
			found++
			if found >= limit {
				cancel()
			}
		})

		handles := report.Available
		if len(handles) > limit {
			handles = handles[:limit]
		}

		resp := suggestResponse{
			Handles: handles,
			Found:   len(report.Available),
			Checked: report.Checked,
		}
		switch {
		case err != nil && found >= limit:
			// Our own early stop, not a failure.
		case err != nil:
			resp.Message = "an error interrupted the search, results may be partial; retry the whole request"
		case len(handles) == 0:
			resp.Message = "every generated candidate is already taken"
		}

		// History keeps everything the run confirmed, not just the page
		// returned to this caller.
		if histErr := d.Store.AppendHistory(r.Context(), req.UserID, seed.Normalize(), report.Available); histErr != nil {
			d.Logger.Warn("failed to record generation history",
				logger.String("user_id", req.UserID), logger.Error(histErr))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
