package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/tnguyen91/lexigraph/internal/analytics"
	"github.com/tnguyen91/lexigraph/internal/lexicon"
	"github.com/tnguyen91/lexigraph/internal/query"
	"github.com/tnguyen91/lexigraph/internal/server/cache"
	"github.com/tnguyen91/lexigraph/pkg/config"
	errs "github.com/tnguyen91/lexigraph/pkg/errors"
	"github.com/tnguyen91/lexigraph/pkg/logger"
	"github.com/tnguyen91/lexigraph/pkg/metrics"
	"github.com/tnguyen91/lexigraph/pkg/middleware"
)

// QueryEngine is the narrow contract the handlers consume; the concrete
// implementation is internal/query.Engine.
type QueryEngine interface {
	LookupSynsets(lemma, lang string, pos lexicon.PartOfSpeech) []*lexicon.Synset
	RelatedSynsets(id string, typ lexicon.RelationType, depth int) ([]*lexicon.Synset, error)
	CrossLanguageLemmas(id, lang string) ([]lexicon.Lemma, error)
	Define(word string) *query.Definition
	MaxDepth() int
}

type Handler struct {
	engine       QueryEngine
	cache        *cache.ResponseCache
	collector    *analytics.Collector
	metrics      *metrics.Metrics
	defaultDepth int
	maxResults   int
	logger       *slog.Logger
}

func New(engine QueryEngine, respCache *cache.ResponseCache, collector *analytics.Collector, m *metrics.Metrics, cfg config.QueryConfig) *Handler {
	return &Handler{
		engine:       engine,
		cache:        respCache,
		collector:    collector,
		metrics:      m,
		defaultDepth: cfg.DefaultDepth,
		maxResults:   cfg.MaxResults,
		logger:       slog.Default().With("component", "query-handler"),
	}
}

type lookupResponse struct {
	Lemma   string            `json:"lemma"`
	Lang    string            `json:"lang"`
	Synsets []*lexicon.Synset `json:"synsets"`
}

// Lookup serves GET /api/v1/synsets?lemma=&lang=&pos=.
func (h *Handler) Lookup(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	lemma := r.URL.Query().Get("lemma")
	if lemma == "" {
		h.writeError(w, http.StatusBadRequest, "query parameter 'lemma' is required")
		return
	}
	// Equivalent request forms share one cache entry, so the payload must
	// echo the normalized form the key was built from.
	lemma = cache.NormalizeLemma(lemma)
	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = lexicon.LangEnglish
	}
	var pos lexicon.PartOfSpeech
	if posStr := r.URL.Query().Get("pos"); posStr != "" {
		parsed, ok := lexicon.ParsePartOfSpeech(posStr)
		if !ok {
			h.writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown part of speech %q", posStr))
			return
		}
		pos = parsed
	}

	key := cache.Key("lookup", lemma, lang, string(pos))
	payload, cacheHit, err := h.cached(ctx, key, func() (any, error) {
		synsets := h.engine.LookupSynsets(lemma, lang, pos)
		if h.maxResults > 0 && len(synsets) > h.maxResults {
			synsets = synsets[:h.maxResults]
		}
		return lookupResponse{Lemma: lemma, Lang: lang, Synsets: synsets}, nil
	})
	if err != nil {
		h.serveFailure(w, log, "lookup", err)
		return
	}

	resultCount := countSynsets(payload)
	h.observe("lookup", cacheHit, start)
	h.track(ctx, analytics.QueryEvent{
		Type:        analytics.EventLookup,
		Lemma:       lemma,
		Lang:        lang,
		ResultCount: resultCount,
		LatencyMs:   time.Since(start).Milliseconds(),
		CacheHit:    cacheHit,
		Status:      http.StatusOK,
	})
	h.writePayload(w, http.StatusOK, payload)
}

type relatedResponse struct {
	SynsetID string            `json:"synset_id"`
	Relation string            `json:"relation"`
	Depth    int               `json:"depth"`
	Synsets  []*lexicon.Synset `json:"synsets"`
}

// Related serves GET /api/v1/synsets/{id}/related?type=&depth=.
func (h *Handler) Related(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	id := r.PathValue("id")
	typStr := r.URL.Query().Get("type")
	if typStr == "" {
		h.writeError(w, http.StatusBadRequest, "query parameter 'type' is required")
		return
	}
	typ, ok := lexicon.ParseRelationType(typStr)
	if !ok {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown relation type %q", typStr))
		return
	}
	depth := h.defaultDepth
	if depthStr := r.URL.Query().Get("depth"); depthStr != "" {
		parsed, err := strconv.Atoi(depthStr)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "depth must be an integer")
			return
		}
		depth = parsed
	}
	if h.metrics != nil {
		h.metrics.TraversalDepth.Observe(float64(depth))
	}

	key := cache.Key("related", id, string(typ), strconv.Itoa(depth))
	payload, cacheHit, err := h.cached(ctx, key, func() (any, error) {
		synsets, err := h.engine.RelatedSynsets(id, typ, depth)
		if err != nil {
			return nil, err
		}
		if synsets == nil {
			synsets = []*lexicon.Synset{}
		}
		return relatedResponse{SynsetID: id, Relation: string(typ), Depth: depth, Synsets: synsets}, nil
	})
	if err != nil {
		h.serveFailure(w, log, "traversal", err)
		return
	}

	resultCount := countSynsets(payload)
	if h.metrics != nil {
		h.metrics.TraversalVisited.Observe(float64(resultCount))
	}
	h.observe("traversal", cacheHit, start)
	h.track(ctx, analytics.QueryEvent{
		Type:        analytics.EventTraversal,
		SynsetID:    id,
		Relation:    string(typ),
		Depth:       depth,
		ResultCount: resultCount,
		LatencyMs:   time.Since(start).Milliseconds(),
		CacheHit:    cacheHit,
		Status:      http.StatusOK,
	})
	h.writePayload(w, http.StatusOK, payload)
}

type lemmasResponse struct {
	SynsetID string          `json:"synset_id"`
	Lang     string          `json:"lang"`
	Lemmas   []lexicon.Lemma `json:"lemmas"`
}

// Lemmas serves GET /api/v1/synsets/{id}/lemmas?lang=.
func (h *Handler) Lemmas(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	id := r.PathValue("id")
	lang := r.URL.Query().Get("lang")
	if lang == "" {
		h.writeError(w, http.StatusBadRequest, "query parameter 'lang' is required")
		return
	}

	lemmas, err := h.engine.CrossLanguageLemmas(id, lang)
	if err != nil {
		h.serveFailure(w, log, "cross_language", err)
		return
	}

	h.observe("cross_language", false, start)
	h.track(ctx, analytics.QueryEvent{
		Type:        analytics.EventCrossLang,
		SynsetID:    id,
		Lang:        lang,
		ResultCount: len(lemmas),
		LatencyMs:   time.Since(start).Milliseconds(),
		Status:      http.StatusOK,
	})
	h.writeJSON(w, http.StatusOK, lemmasResponse{SynsetID: id, Lang: lang, Lemmas: lemmas})
}

// Define serves GET /api/v1/define/{word}, the dictionary-style grouping of
// glosses by part of speech.
func (h *Handler) Define(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	word := r.PathValue("word")
	if word == "" {
		h.writeError(w, http.StatusBadRequest, "word is required")
		return
	}
	word = cache.NormalizeLemma(word)

	key := cache.Key("define", word)
	payload, cacheHit, err := h.cached(ctx, key, func() (any, error) {
		return h.engine.Define(word), nil
	})
	if err != nil {
		h.serveFailure(w, log, "define", err)
		return
	}

	h.observe("define", cacheHit, start)
	h.track(ctx, analytics.QueryEvent{
		Type:        analytics.EventDefine,
		Lemma:       word,
		ResultCount: countDefinitions(payload),
		LatencyMs:   time.Since(start).Milliseconds(),
		CacheHit:    cacheHit,
		Status:      http.StatusOK,
	})
	h.writePayload(w, http.StatusOK, payload)
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

// cached routes the computation through the response cache when one is
// configured, otherwise computes and serializes directly.
func (h *Handler) cached(ctx context.Context, key string, computeFn func() (any, error)) ([]byte, bool, error) {
	if h.cache != nil {
		return h.cache.GetOrCompute(ctx, key, computeFn)
	}
	result, err := computeFn()
	if err != nil {
		return nil, false, err
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return nil, false, err
	}
	return payload, false, nil
}

// serveFailure maps an engine error onto the HTTP response and records it.
func (h *Handler) serveFailure(w http.ResponseWriter, log *slog.Logger, operation string, err error) {
	status := errs.HTTPStatusCode(err)
	if status >= http.StatusInternalServerError {
		log.Error("query failed", "operation", operation, "error", err)
	}
	if h.metrics != nil {
		result := "error"
		switch status {
		case http.StatusNotFound:
			result = "not_found"
		case http.StatusBadRequest:
			result = "invalid"
		}
		h.metrics.QueriesTotal.WithLabelValues(operation, result).Inc()
	}
	h.writeError(w, status, err.Error())
}

func (h *Handler) observe(operation string, cacheHit bool, start time.Time) {
	if h.metrics == nil {
		return
	}
	cacheStatus := "miss"
	if cacheHit {
		cacheStatus = "hit"
		h.metrics.CacheHitsTotal.Inc()
	} else {
		h.metrics.CacheMissesTotal.Inc()
	}
	h.metrics.QueriesTotal.WithLabelValues(operation, "ok").Inc()
	h.metrics.QueryLatency.WithLabelValues(operation, cacheStatus).Observe(time.Since(start).Seconds())
}

func (h *Handler) track(ctx context.Context, event analytics.QueryEvent) {
	if h.collector == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	event.RequestID = middleware.GetRequestID(ctx)
	h.collector.Track(event)
}

func (h *Handler) writePayload(w http.ResponseWriter, status int, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(payload); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
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

// countSynsets decodes just the synsets array length from a cached payload.
func countSynsets(payload []byte) int {
	var envelope struct {
		Synsets []json.RawMessage `json:"synsets"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return 0
	}
	return len(envelope.Synsets)
}

// countDefinitions decodes just the definitions array length.
func countDefinitions(payload []byte) int {
	var envelope struct {
		Definitions []json.RawMessage `json:"definitions"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return 0
	}
	return len(envelope.Definitions)
}
