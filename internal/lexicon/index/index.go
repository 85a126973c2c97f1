// Package index builds the lookup structures the query engine reads:
// lemma keys to synsets, synset ids to synsets, and per-relation adjacency
// lists. Build is a pure function of an immutable LexicalGraph, so the
// resulting Index shares the graph's lifetime and its lock-free concurrency
// guarantees.
package index

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tnguyen91/lexigraph/internal/lexicon"
)

type lemmaKey struct {
	text string
	lang string
}

type adjacencyKey struct {
	id  string
	typ lexicon.RelationType
}

// Index provides O(1) access paths over a loaded LexicalGraph.
type Index struct {
	graph     *lexicon.LexicalGraph
	byID      map[string]*lexicon.Synset
	byLemma   map[lemmaKey][]*lexicon.Synset
	adjacency map[adjacencyKey][]string
}

// NormalizeLemma produces the canonical lookup key for a lemma: case-folded
// and trimmed, with the corpus underscore convention mapped to spaces.
// Internal separators are otherwise preserved; multi-word lemmas are never
// tokenized.
func NormalizeLemma(text string) string {
	return strings.ToLower(strings.TrimSpace(strings.ReplaceAll(text, "_", " ")))
}

// Build constructs the Index for g. The three structures are independent
// passes over the immutable graph and are built concurrently.
func Build(g *lexicon.LexicalGraph) (*Index, error) {
	idx := &Index{graph: g}

	var eg errgroup.Group
	eg.Go(func() error {
		byID := make(map[string]*lexicon.Synset, g.SynsetCount())
		for _, syn := range g.Synsets {
			byID[syn.ID] = syn
		}
		idx.byID = byID
		return nil
	})
	eg.Go(func() error {
		// Graph iteration follows load order, so each bucket comes out
		// already sorted by ordinal; dedup guards against a lemma repeated
		// within one synset across languages sharing the same folded key.
		byLemma := make(map[lemmaKey][]*lexicon.Synset)
		for _, syn := range g.Synsets {
			seen := make(map[lemmaKey]struct{}, len(syn.Lemmas))
			for _, lemma := range syn.Lemmas {
				key := lemmaKey{text: NormalizeLemma(lemma.Text), lang: lemma.Lang}
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				byLemma[key] = append(byLemma[key], syn)
			}
		}
		idx.byLemma = byLemma
		return nil
	})
	eg.Go(func() error {
		adjacency := make(map[adjacencyKey][]string)
		for _, rel := range g.Relations {
			key := adjacencyKey{id: rel.Source, typ: rel.Type}
			adjacency[key] = append(adjacency[key], rel.Target)
		}
		idx.adjacency = adjacency
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("building index: %w", err)
	}

	// Adjacency targets are ordered by corpus ordinal so traversal output
	// is independent of relation file order.
	for key, targets := range idx.adjacency {
		sort.SliceStable(targets, func(i, j int) bool {
			return idx.byID[targets[i]].Ordinal < idx.byID[targets[j]].Ordinal
		})
		idx.adjacency[key] = targets
	}

	return idx, nil
}

// Synset returns the synset for id, if present.
func (idx *Index) Synset(id string) (*lexicon.Synset, bool) {
	syn, ok := idx.byID[id]
	return syn, ok
}

// Lookup returns the synsets containing the given lemma in the given
// language, in corpus load order. The lemma is normalized before lookup.
// Unknown lemmas yield an empty slice.
func (idx *Index) Lookup(lemma, lang string) []*lexicon.Synset {
	return idx.byLemma[lemmaKey{text: NormalizeLemma(lemma), lang: lang}]
}

// Neighbors returns the ids reachable from id along edges of the given
// type, ordered by target corpus ordinal.
func (idx *Index) Neighbors(id string, typ lexicon.RelationType) []string {
	return idx.adjacency[adjacencyKey{id: id, typ: typ}]
}

// Graph returns the underlying LexicalGraph.
func (idx *Index) Graph() *lexicon.LexicalGraph { return idx.graph }
