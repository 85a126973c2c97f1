package analytics

import (
	"testing"
)

func TestAggregatorRecord(t *testing.T) {
	agg := NewAggregator(nil)

	agg.Record(QueryEvent{Type: EventLookup, Lemma: "car", ResultCount: 3, LatencyMs: 5, CacheHit: true})
	agg.Record(QueryEvent{Type: EventLookup, Lemma: "car", ResultCount: 3, LatencyMs: 7})
	agg.Record(QueryEvent{Type: EventDefine, Lemma: "unicorn", ResultCount: 0, LatencyMs: 2})
	agg.Record(QueryEvent{Type: EventTraversal, SynsetID: "00000001-n", ResultCount: 4, LatencyMs: 11})

	stats := agg.Stats()
	if stats.TotalQueries != 4 {
		t.Errorf("TotalQueries = %d, want 4", stats.TotalQueries)
	}
	if stats.CacheHits != 1 || stats.CacheMisses != 3 {
		t.Errorf("cache hits/misses = %d/%d, want 1/3", stats.CacheHits, stats.CacheMisses)
	}
	if stats.ZeroResultCount != 1 {
		t.Errorf("ZeroResultCount = %d, want 1", stats.ZeroResultCount)
	}
	if stats.QueriesByType[string(EventLookup)] != 2 {
		t.Errorf("lookup count = %d, want 2", stats.QueriesByType[string(EventLookup)])
	}
	if stats.AvgLatencyMs != 6.25 {
		t.Errorf("AvgLatencyMs = %f, want 6.25", stats.AvgLatencyMs)
	}
}

func TestAggregatorTopLemmas(t *testing.T) {
	agg := NewAggregator(nil)

	for i := 0; i < 3; i++ {
		agg.Record(QueryEvent{Type: EventLookup, Lemma: "car", ResultCount: 1})
	}
	for i := 0; i < 3; i++ {
		agg.Record(QueryEvent{Type: EventLookup, Lemma: "dog", ResultCount: 1})
	}
	agg.Record(QueryEvent{Type: EventLookup, Lemma: "tree", ResultCount: 1})
	agg.Record(QueryEvent{Type: EventLookup, Lemma: "unicorn", ResultCount: 0})

	stats := agg.Stats()
	if len(stats.TopLemmas) != 4 {
		t.Fatalf("TopLemmas = %+v, want 4 entries", stats.TopLemmas)
	}
	// Equal counts break ties alphabetically.
	if stats.TopLemmas[0].Lemma != "car" || stats.TopLemmas[1].Lemma != "dog" {
		t.Errorf("top two = %s, %s, want car, dog", stats.TopLemmas[0].Lemma, stats.TopLemmas[1].Lemma)
	}

	if len(stats.ZeroResultLemmas) != 1 || stats.ZeroResultLemmas[0].Lemma != "unicorn" {
		t.Errorf("ZeroResultLemmas = %+v, want only unicorn", stats.ZeroResultLemmas)
	}
}

func TestAggregatorTopLemmasCapped(t *testing.T) {
	agg := NewAggregator(nil)
	lemmas := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"}
	for _, l := range lemmas {
		agg.Record(QueryEvent{Type: EventLookup, Lemma: l, ResultCount: 1})
	}

	stats := agg.Stats()
	if len(stats.TopLemmas) != 10 {
		t.Errorf("TopLemmas has %d entries, want cap of 10", len(stats.TopLemmas))
	}
}

func TestAggregatorLatencyPercentiles(t *testing.T) {
	agg := NewAggregator(nil)
	for i := int64(1); i <= 100; i++ {
		agg.Record(QueryEvent{Type: EventLookup, Lemma: "car", ResultCount: 1, LatencyMs: i})
	}

	stats := agg.Stats()
	if stats.P50LatencyMs < 49 || stats.P50LatencyMs > 52 {
		t.Errorf("P50 = %d, want about 50", stats.P50LatencyMs)
	}
	if stats.P95LatencyMs < 94 || stats.P95LatencyMs > 97 {
		t.Errorf("P95 = %d, want about 95", stats.P95LatencyMs)
	}
	if stats.P99LatencyMs < 98 || stats.P99LatencyMs > 100 {
		t.Errorf("P99 = %d, want about 99", stats.P99LatencyMs)
	}
}

func TestAggregatorEmptyStats(t *testing.T) {
	agg := NewAggregator(nil)

	stats := agg.Stats()
	if stats.TotalQueries != 0 || stats.AvgLatencyMs != 0 || stats.P99LatencyMs != 0 {
		t.Errorf("empty stats = %+v", stats)
	}
	if len(stats.TopLemmas) != 0 {
		t.Errorf("TopLemmas = %+v, want empty", stats.TopLemmas)
	}
}
