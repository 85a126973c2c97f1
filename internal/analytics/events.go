package analytics

import "time"

type EventType string

const (
	EventLookup    EventType = "lookup"
	EventTraversal EventType = "traversal"
	EventCrossLang EventType = "cross_language"
	EventDefine    EventType = "define"
)

// QueryEvent records one query served by the engine, for the analytics
// pipeline. Exactly one of Lemma or SynsetID is set, depending on the
// operation.
type QueryEvent struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	Lemma       string    `json:"lemma,omitempty"`
	SynsetID    string    `json:"synset_id,omitempty"`
	Lang        string    `json:"lang,omitempty"`
	Relation    string    `json:"relation,omitempty"`
	Depth       int       `json:"depth,omitempty"`
	ResultCount int       `json:"result_count"`
	LatencyMs   int64     `json:"latency_ms"`
	CacheHit    bool      `json:"cache_hit"`
	Status      int       `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	RequestID   string    `json:"request_id"`
}
