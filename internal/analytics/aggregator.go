package analytics

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tnguyen91/lexigraph/pkg/kafka"
)

// AggregatedStats is the rolled-up view of query traffic served by the
// analytics endpoint and persisted in snapshots.
type AggregatedStats struct {
	TotalQueries     int64           `json:"total_queries"`
	QueriesByType    map[string]int64 `json:"queries_by_type"`
	CacheHits        int64           `json:"cache_hits"`
	CacheMisses      int64           `json:"cache_misses"`
	ZeroResultCount  int64           `json:"zero_result_count"`
	AvgLatencyMs     float64         `json:"avg_latency_ms"`
	P50LatencyMs     int64           `json:"p50_latency_ms"`
	P95LatencyMs     int64           `json:"p95_latency_ms"`
	P99LatencyMs     int64           `json:"p99_latency_ms"`
	TopLemmas        []LemmaCount    `json:"top_lemmas"`
	ZeroResultLemmas []LemmaCount    `json:"zero_result_lemmas"`
	QueriesPerMinute float64         `json:"queries_per_minute"`
}

type LemmaCount struct {
	Lemma string `json:"lemma"`
	Count int64  `json:"count"`
}

// Aggregator consumes query events from Kafka and maintains in-memory
// rollups.
type Aggregator struct {
	mu               sync.RWMutex
	totalQueries     atomic.Int64
	cacheHits        atomic.Int64
	cacheMisses      atomic.Int64
	zeroResults      atomic.Int64
	byType           map[EventType]int64
	latencies        []int64
	lemmaCounts      map[string]int64
	zeroResultLemmas map[string]int64
	startTime        time.Time

	consumer *kafka.Consumer
	logger   *slog.Logger
}

func NewAggregator(consumer *kafka.Consumer) *Aggregator {
	return &Aggregator{
		byType:           make(map[EventType]int64),
		latencies:        make([]int64, 0, 10000),
		lemmaCounts:      make(map[string]int64),
		zeroResultLemmas: make(map[string]int64),
		startTime:        time.Now(),
		consumer:         consumer,
		logger:           slog.Default().With("component", "analytics-aggregator"),
	}
}

func (a *Aggregator) Start(ctx context.Context) error {
	a.logger.Info("analytics aggregator starting")
	return a.consumer.Start(ctx)
}

// HandleEvent returns the Kafka message handler that feeds the aggregator.
func HandleEvent(agg *Aggregator) kafka.MessageHandler {
	return func(ctx context.Context, key []byte, value []byte) error {
		event, err := kafka.DecodeJSON[QueryEvent](value)
		if err != nil {
			agg.logger.Error("failed to decode query event", "error", err)
			return nil
		}
		agg.Record(event)
		return nil
	}
}

// Record folds one event into the rollups.
func (a *Aggregator) Record(event QueryEvent) {
	a.totalQueries.Add(1)

	if event.CacheHit {
		a.cacheHits.Add(1)
	} else {
		a.cacheMisses.Add(1)
	}
	if event.ResultCount == 0 {
		a.zeroResults.Add(1)
	}

	a.mu.Lock()
	a.byType[event.Type]++
	a.latencies = append(a.latencies, event.LatencyMs)
	if event.Lemma != "" {
		a.lemmaCounts[event.Lemma]++
		if event.ResultCount == 0 {
			a.zeroResultLemmas[event.Lemma]++
		}
	}
	a.mu.Unlock()
}

func (a *Aggregator) Stats() AggregatedStats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	stats := AggregatedStats{
		TotalQueries:    a.totalQueries.Load(),
		QueriesByType:   make(map[string]int64, len(a.byType)),
		CacheHits:       a.cacheHits.Load(),
		CacheMisses:     a.cacheMisses.Load(),
		ZeroResultCount: a.zeroResults.Load(),
	}
	for typ, count := range a.byType {
		stats.QueriesByType[string(typ)] = count
	}
	if len(a.latencies) > 0 {
		sorted := make([]int64, len(a.latencies))
		copy(sorted, a.latencies)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

		var sum int64
		for _, l := range sorted {
			sum += l
		}
		stats.AvgLatencyMs = float64(sum) / float64(len(sorted))
		stats.P50LatencyMs = percentile(sorted, 50)
		stats.P95LatencyMs = percentile(sorted, 95)
		stats.P99LatencyMs = percentile(sorted, 99)
	}
	stats.TopLemmas = topN(a.lemmaCounts, 10)
	stats.ZeroResultLemmas = topN(a.zeroResultLemmas, 10)
	elapsed := time.Since(a.startTime).Minutes()
	if elapsed > 0 {
		stats.QueriesPerMinute = float64(stats.TotalQueries) / elapsed
	}

	return stats
}

func percentile(sorted []int64, pct int) int64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (pct * len(sorted)) / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func topN(counts map[string]int64, n int) []LemmaCount {
	result := make([]LemmaCount, 0, len(counts))
	for lemma, count := range counts {
		result = append(result, LemmaCount{Lemma: lemma, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Lemma < result[j].Lemma
	})
	if len(result) > n {
		result = result[:n]
	}
	return result
}
