package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Adithya-Monish-Kumar-K/phrase-search/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/phrase-search/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/phrase-search/internal/searcher/executor"
	apperrors "github.com/Adithya-Monish-Kumar-K/phrase-search/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/phrase-search/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/phrase-search/pkg/middleware"
)

type SearchExecutor interface {
	Search(ctx context.Context, query string) (*executor.SearchResult, error)
	Lookup(ctx context.Context, term string) []executor.Match
}

type Handler struct {
	executor SearchExecutor
	snapshot *indexer.Snapshot
	cache    *cache.QueryCache
	logger   *slog.Logger
}

// New creates a Handler. queryCache may be nil to disable caching.
func New(exec SearchExecutor, snapshot *indexer.Snapshot, queryCache *cache.QueryCache) *Handler {
	return &Handler{
		executor: exec,
		snapshot: snapshot,
		cache:    queryCache,
		logger:   slog.Default().With("component", "search-handler"),
	}
}

// Register mounts the search API on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/search", h.Search)
	mux.HandleFunc("GET /api/v1/lookup", h.Lookup)
	mux.HandleFunc("GET /api/v1/index/stats", h.IndexStats)
	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.CacheInvalidate)
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	query := r.URL.Query().Get("q")
	if query == "" {
		h.writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}

	var result *executor.SearchResult
	var err error
	cacheHit := false
	if h.cache != nil {
		result, cacheHit, err = h.cache.GetOrCompute(ctx, query, func() (*executor.SearchResult, error) {
			return h.executor.Search(ctx, query)
		})
	} else {
		result, err = h.executor.Search(ctx, query)
	}
	if err != nil {
		log.Error("search execution failed", "query", query, "error", err)
		h.writeError(w, apperrors.HTTPStatusCode(err), "search failed")
		return
	}

	log.Info("search completed",
		"query", query,
		"returned", len(result.Results),
		"cache_hit", cacheHit,
		"latency_ms", time.Since(start).Milliseconds(),
		"request_id", middleware.GetRequestID(ctx),
	)
	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) Lookup(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("term")
	if term == "" {
		h.writeError(w, http.StatusBadRequest, "query parameter 'term' is required")
		return
	}
	matches := h.executor.Lookup(r.Context(), term)
	h.writeJSON(w, http.StatusOK, map[string]any{
		"term":    term,
		"count":   len(matches),
		"matches": matches,
	})
}

func (h *Handler) IndexStats(w http.ResponseWriter, r *http.Request) {
	if h.snapshot == nil || h.snapshot.Index == nil {
		h.writeError(w, apperrors.HTTPStatusCode(apperrors.ErrNotReady), apperrors.ErrNotReady.Error())
		return
	}
	idx := h.snapshot.Index
	h.writeJSON(w, http.StatusOK, map[string]any{
		"terms":       idx.Len(),
		"occurrences": idx.Occurrences(),
		"documents":   idx.Documents(),
		"checksum":    h.snapshot.Checksum,
		"rebuilt":     h.snapshot.Rebuilt,
		"loaded_at":   h.snapshot.LoadedAt.UTC().Format(time.RFC3339),
	})
}

func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
		return
	}

	hits, misses := h.cache.Stats()
	total := hits + misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"hits":     hits,
		"misses":   misses,
		"total":    total,
		"hit_rate": fmt.Sprintf("%.1f%%", hitRate),
	})
}

func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeError(w, http.StatusServiceUnavailable, "caching is disabled")
		return
	}

	if err := h.cache.Invalidate(r.Context()); err != nil {
		h.logger.Error("cache invalidation failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "cache invalidation failed")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
