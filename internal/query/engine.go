// Package query implements the read-only query engine over the lexical
// graph: lemma lookup, bounded relation traversal, and cross-language lemma
// mapping. Every operation allocates only per-call scratch state, so the
// engine is safe for unlimited concurrent callers once built.
package query

import (
	"fmt"
	"log/slog"

	"github.com/tnguyen91/lexigraph/internal/lexicon"
	"github.com/tnguyen91/lexigraph/internal/lexicon/index"
	"github.com/tnguyen91/lexigraph/pkg/config"
	errs "github.com/tnguyen91/lexigraph/pkg/errors"
)

// Engine answers queries against a built Index.
type Engine struct {
	idx      *index.Index
	maxDepth int
	logger   *slog.Logger
}

// New creates an Engine enforcing the traversal limits in cfg.
func New(idx *index.Index, cfg config.QueryConfig) *Engine {
	maxDepth := cfg.MaxDepth
	if maxDepth < 1 {
		maxDepth = 1
	}
	return &Engine{
		idx:      idx,
		maxDepth: maxDepth,
		logger:   slog.Default().With("component", "query-engine"),
	}
}

// MaxDepth returns the configured traversal depth ceiling.
func (e *Engine) MaxDepth() int { return e.maxDepth }

// LookupSynsets returns the synsets containing lemma in the given language,
// in corpus load order. lang defaults to English when empty; pos, when
// non-empty, filters the results. An unknown lemma is an empty result, not
// an error.
func (e *Engine) LookupSynsets(lemma, lang string, pos lexicon.PartOfSpeech) []*lexicon.Synset {
	if lang == "" {
		lang = lexicon.LangEnglish
	}
	synsets := e.idx.Lookup(lemma, lang)
	if pos == "" {
		// Callers must not be able to reach the index's internal buckets.
		out := make([]*lexicon.Synset, len(synsets))
		copy(out, synsets)
		return out
	}
	out := make([]*lexicon.Synset, 0, len(synsets))
	for _, syn := range synsets {
		if syn.POS == pos {
			out = append(out, syn)
		}
	}
	return out
}

// RelatedSynsets walks edges of the given type breadth-first from the
// synset id, up to depth hops, and returns the reached synsets in
// first-discovered (shortest-path) order. The start synset is never part
// of the result. Unknown ids fail with ErrSynsetNotFound; a depth outside
// [1, MaxDepth] fails with ErrInvalidArgument.
func (e *Engine) RelatedSynsets(id string, typ lexicon.RelationType, depth int) ([]*lexicon.Synset, error) {
	if depth < 1 {
		return nil, fmt.Errorf("%w: depth must be >= 1, got %d", errs.ErrInvalidArgument, depth)
	}
	if depth > e.maxDepth {
		return nil, fmt.Errorf("%w: depth %d exceeds maximum %d", errs.ErrInvalidArgument, depth, e.maxDepth)
	}
	if _, ok := e.idx.Synset(id); !ok {
		return nil, fmt.Errorf("%w: %s", errs.ErrSynsetNotFound, id)
	}

	// Relation cycles are legal in the graph, so the visited set is what
	// guarantees termination and single occurrence per synset.
	visited := map[string]struct{}{id: {}}
	frontier := []string{id}
	var results []*lexicon.Synset

	for hop := 0; hop < depth && len(frontier) > 0; hop++ {
		var next []string
		for _, current := range frontier {
			for _, targetID := range e.idx.Neighbors(current, typ) {
				if _, seen := visited[targetID]; seen {
					continue
				}
				visited[targetID] = struct{}{}
				target, ok := e.idx.Synset(targetID)
				if !ok {
					// Load-time validation makes this unreachable; a miss
					// here means the index is corrupt.
					return nil, fmt.Errorf("%w: relation target %s missing from index",
						errs.ErrInternal, targetID)
				}
				results = append(results, target)
				next = append(next, targetID)
			}
		}
		frontier = next
	}

	e.logger.Debug("traversal completed",
		"synset", id,
		"relation", typ,
		"depth", depth,
		"visited", len(visited),
		"results", len(results),
	)
	return results, nil
}

// CrossLanguageLemmas returns the lemmas attached to the synset under the
// given language tag, in corpus order. A synset with no lemma in that
// language yields an empty result; an unknown id fails with
// ErrSynsetNotFound.
func (e *Engine) CrossLanguageLemmas(id, lang string) ([]lexicon.Lemma, error) {
	syn, ok := e.idx.Synset(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errs.ErrSynsetNotFound, id)
	}
	out := make([]lexicon.Lemma, 0, 4)
	for _, lemma := range syn.Lemmas {
		if lemma.Lang == lang {
			out = append(out, lemma)
		}
	}
	return out, nil
}
