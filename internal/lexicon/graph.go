// Package lexicon models a WordNet-style lexical database as an immutable
// in-memory graph: synsets as nodes, typed semantic relations as directed
// edges, and lemmas as multi-valued keys into synsets. The graph is built
// once at process start by Load and never mutated afterwards, which is what
// makes it safe to share across every concurrent reader without locking.
package lexicon

// PartOfSpeech is the single-letter WordNet part-of-speech tag.
type PartOfSpeech string

const (
	PosNoun               PartOfSpeech = "n"
	PosVerb               PartOfSpeech = "v"
	PosAdjective          PartOfSpeech = "a"
	PosAdjectiveSatellite PartOfSpeech = "s"
	PosAdverb             PartOfSpeech = "r"
)

// LongName returns the human-readable name for the tag, matching the
// conventional WordNet naming (an "s" synset is an adjective satellite).
func (p PartOfSpeech) LongName() string {
	switch p {
	case PosNoun:
		return "noun"
	case PosVerb:
		return "verb"
	case PosAdjective:
		return "adjective"
	case PosAdjectiveSatellite:
		return "adjective satellite"
	case PosAdverb:
		return "adverb"
	default:
		return string(p)
	}
}

// ParsePartOfSpeech accepts either the single-letter tag or the long name.
func ParsePartOfSpeech(s string) (PartOfSpeech, bool) {
	switch s {
	case "n", "noun":
		return PosNoun, true
	case "v", "verb":
		return PosVerb, true
	case "a", "adjective":
		return PosAdjective, true
	case "s", "adjective satellite":
		return PosAdjectiveSatellite, true
	case "r", "adverb":
		return PosAdverb, true
	}
	return "", false
}

// RelationType identifies a semantic edge type between two synsets. The set
// is fixed; corpus pointer symbols outside it are dropped at load time.
type RelationType string

const (
	RelHypernym          RelationType = "hypernym"
	RelHyponym           RelationType = "hyponym"
	RelInstanceHypernym  RelationType = "instance_hypernym"
	RelInstanceHyponym   RelationType = "instance_hyponym"
	RelMemberHolonym     RelationType = "member_holonym"
	RelMemberMeronym     RelationType = "member_meronym"
	RelPartHolonym       RelationType = "part_holonym"
	RelPartMeronym       RelationType = "part_meronym"
	RelSubstanceHolonym  RelationType = "substance_holonym"
	RelSubstanceMeronym  RelationType = "substance_meronym"
	RelAntonym           RelationType = "antonym"
	RelSimilar           RelationType = "similar"
	RelAlso              RelationType = "also"
	RelAttribute         RelationType = "attribute"
	RelEntailment        RelationType = "entailment"
	RelCause             RelationType = "cause"
	RelDerivation        RelationType = "derivation"
)

// Inverse returns the relation type that holds in the opposite direction,
// if the domain defines one. Symmetric types (antonym, similar, also,
// attribute, derivation) are their own inverse.
func (t RelationType) Inverse() (RelationType, bool) {
	switch t {
	case RelHypernym:
		return RelHyponym, true
	case RelHyponym:
		return RelHypernym, true
	case RelInstanceHypernym:
		return RelInstanceHyponym, true
	case RelInstanceHyponym:
		return RelInstanceHypernym, true
	case RelMemberHolonym:
		return RelMemberMeronym, true
	case RelMemberMeronym:
		return RelMemberHolonym, true
	case RelPartHolonym:
		return RelPartMeronym, true
	case RelPartMeronym:
		return RelPartHolonym, true
	case RelSubstanceHolonym:
		return RelSubstanceMeronym, true
	case RelSubstanceMeronym:
		return RelSubstanceHolonym, true
	case RelAntonym, RelSimilar, RelAlso, RelAttribute, RelDerivation:
		return t, true
	}
	return "", false
}

// ParseRelationType converts the wire/request form of a relation type.
func ParseRelationType(s string) (RelationType, bool) {
	switch RelationType(s) {
	case RelHypernym, RelHyponym, RelInstanceHypernym, RelInstanceHyponym,
		RelMemberHolonym, RelMemberMeronym, RelPartHolonym, RelPartMeronym,
		RelSubstanceHolonym, RelSubstanceMeronym, RelAntonym, RelSimilar,
		RelAlso, RelAttribute, RelEntailment, RelCause, RelDerivation:
		return RelationType(s), true
	}
	return "", false
}

// Lemma is a surface word form attached to a synset.
type Lemma struct {
	Text string       `json:"text"`
	Lang string       `json:"lang"`
	POS  PartOfSpeech `json:"pos"`
}

// Synset is one sense: a set of interchangeable lemmas sharing a meaning.
// IDs follow the "offset-pos" convention used by the multilingual corpus
// (e.g. "02958343-n"). Ordinal records the corpus load position and defines
// every deterministic ordering downstream.
type Synset struct {
	ID      string       `json:"id"`
	POS     PartOfSpeech `json:"pos"`
	Gloss   string       `json:"gloss"`
	Lemmas  []Lemma      `json:"lemmas"`
	Ordinal int          `json:"-"`
}

// Relation is a directed typed edge between two synsets.
type Relation struct {
	Source string
	Target string
	Type   RelationType
}

// LexicalGraph owns every Synset and Relation loaded from the corpora.
// Synsets holds load order; Relations has inverse pairs already
// materialized. Read-only after Load returns.
type LexicalGraph struct {
	Synsets   []*Synset
	Relations []Relation

	lemmaCount int
	languages  []string
}

// SynsetCount returns the number of synsets in the graph.
func (g *LexicalGraph) SynsetCount() int { return len(g.Synsets) }

// RelationCount returns the number of directed edges in the graph.
func (g *LexicalGraph) RelationCount() int { return len(g.Relations) }

// LemmaCount returns the total number of lemma attachments across synsets.
func (g *LexicalGraph) LemmaCount() int { return g.lemmaCount }

// Languages returns the language tags present in the graph, English first,
// the rest in corpus load order.
func (g *LexicalGraph) Languages() []string { return g.languages }
