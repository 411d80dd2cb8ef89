package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/SetuAI/setu-node/beckn"
	"github.com/SetuAI/setu-node/engine/directory"
	"github.com/SetuAI/setu-node/engine/domain"
)

// defaultSearchLimit applies when a /v1/search body omits the limit.
const defaultSearchLimit = 3

// SearchRequest is the JSON body for POST /v1/search.
type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// OnboardResponse is the JSON response for POST /v1/vendor/onboard.
type OnboardResponse struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

type onboarder interface {
	Onboard(ctx context.Context, req directory.OnboardRequest) (string, error)
}

type searcher interface {
	Search(ctx context.Context, query string, limit int) (domain.SearchResult, error)
}

// discoveryQueue hands a Beckn search off for asynchronous processing.
type discoveryQueue interface {
	Enqueue(ctx context.Context, req beckn.SearchRequest) error
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"service":     "ONDC-Setu API",
		"beckn_ready": true,
	})
}

// handleBecknSearch acknowledges immediately; the catalog travels later via
// the /on_search callback once the queued discovery has run.
func handleBecknSearch(queue discoveryQueue, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req beckn.SearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, beckn.NewErrorAck("JSON-SCHEMA-ERROR", "invalid request body"))
			return
		}

		if err := queue.Enqueue(r.Context(), req); err != nil {
			logger.Error("beckn: enqueue failed", "transaction_id", req.Context.TransactionID, "err", err)
			writeJSON(w, http.StatusOK, beckn.NewErrorAck("DOMAIN-ERROR", err.Error()))
			return
		}
		writeJSON(w, http.StatusOK, beckn.NewAck())
	}
}

func handleOnboard(dir onboarder, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req directory.OnboardRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		id, err := dir.Onboard(r.Context(), req)
		if err != nil {
			logger.Error("onboard failed", "err", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		writeJSON(w, http.StatusOK, OnboardResponse{Status: "success", ID: id})
	}
}

func handleSearch(eng searcher, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if req.Limit == 0 {
			req.Limit = defaultSearchLimit
		}
		if err := domain.ValidateQuery(req.Query, req.Limit); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		res, err := eng.Search(r.Context(), req.Query, req.Limit)
		if err != nil {
			logger.Error("search failed", "err", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
