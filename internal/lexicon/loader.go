package lexicon

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tnguyen91/lexigraph/pkg/config"
	errs "github.com/tnguyen91/lexigraph/pkg/errors"
)

// LangEnglish is the language tag assigned to lemmas from the Princeton
// database, matching the code the multilingual corpus uses for English.
const LangEnglish = "eng"

// dataFiles lists the WNDB files in load order. Ordinals, and therefore all
// deterministic result ordering, follow this sequence.
var dataFiles = []string{"data.noun", "data.verb", "data.adj", "data.adv"}

type relationKey struct {
	source string
	target string
	typ    RelationType
}

// Load parses the corpora named by cfg and returns a fully validated
// LexicalGraph. Any missing file, malformed record, or dangling reference
// aborts the load; a partially valid graph is never returned.
func Load(cfg config.CorpusConfig) (*LexicalGraph, error) {
	start := time.Now()
	log := slog.Default().With("component", "lexicon-loader")

	var raws []rawSynset
	for _, name := range dataFiles {
		path := filepath.Join(cfg.DataDir, name)
		parsed, err := parseDataFile(path)
		if err != nil {
			return nil, err
		}
		log.Debug("corpus file parsed", "file", name, "synsets", len(parsed))
		raws = append(raws, parsed...)
	}
	if len(raws) == 0 {
		return nil, fmt.Errorf("%w: no synsets in %s", errs.ErrCorpusInvalid, cfg.DataDir)
	}

	g := &LexicalGraph{}
	byID := make(map[string]*Synset, len(raws))
	for _, raw := range raws {
		id := raw.SynsetID()
		if _, dup := byID[id]; dup {
			return nil, fmt.Errorf("%w: duplicate synset id %s", errs.ErrCorpusInvalid, id)
		}
		syn := &Synset{
			ID:      id,
			POS:     raw.POS,
			Gloss:   raw.Gloss,
			Ordinal: len(g.Synsets),
		}
		for _, word := range raw.Words {
			syn.Lemmas = append(syn.Lemmas, Lemma{
				Text: word,
				Lang: LangEnglish,
				POS:  raw.POS,
			})
		}
		byID[id] = syn
		g.Synsets = append(g.Synsets, syn)
	}

	if err := resolveRelations(g, raws, byID); err != nil {
		return nil, err
	}

	langs := []string{LangEnglish}
	if cfg.OMWDir != "" {
		var err error
		langs, err = loadOMW(cfg, g, byID)
		if err != nil {
			return nil, err
		}
	}

	for _, syn := range g.Synsets {
		g.lemmaCount += len(syn.Lemmas)
	}
	g.languages = langs

	log.Info("lexical graph loaded",
		"synsets", g.SynsetCount(),
		"lemmas", g.LemmaCount(),
		"relations", g.RelationCount(),
		"languages", len(g.Languages()),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return g, nil
}

// resolveRelations turns raw pointers into validated edges and materializes
// the inverse direction for every relation type that defines one, so both
// directions are cheap adjacency lookups at query time.
func resolveRelations(g *LexicalGraph, raws []rawSynset, byID map[string]*Synset) error {
	seen := make(map[relationKey]struct{})

	add := func(source, target string, typ RelationType) {
		key := relationKey{source, target, typ}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		g.Relations = append(g.Relations, Relation{Source: source, Target: target, Type: typ})
	}

	for _, raw := range raws {
		sourceID := raw.SynsetID()
		for _, ptr := range raw.Pointers {
			targetID, ok := resolveTarget(ptr, byID)
			if !ok {
				return fmt.Errorf("%w: synset %s has dangling %s pointer to %s-%s",
					errs.ErrCorpusInvalid, sourceID, ptr.Type, ptr.TargetOff, ptr.TargetPOS)
			}
			add(sourceID, targetID, ptr.Type)
		}
	}

	// Snapshot before appending inverses so the sweep terminates.
	forward := make([]Relation, len(g.Relations))
	copy(forward, g.Relations)
	for _, rel := range forward {
		if inv, ok := rel.Type.Inverse(); ok {
			add(rel.Target, rel.Source, inv)
		}
	}
	return nil
}

// resolveTarget maps a pointer to an existing synset id. Pointers into
// data.adj use "a" even when the target record is an adjective satellite,
// so both tags are tried.
func resolveTarget(ptr rawPointer, byID map[string]*Synset) (string, bool) {
	id := ptr.TargetOff + "-" + string(ptr.TargetPOS)
	if _, ok := byID[id]; ok {
		return id, true
	}
	switch ptr.TargetPOS {
	case PosAdjective:
		alt := ptr.TargetOff + "-" + string(PosAdjectiveSatellite)
		if _, ok := byID[alt]; ok {
			return alt, true
		}
	case PosAdjectiveSatellite:
		alt := ptr.TargetOff + "-" + string(PosAdjective)
		if _, ok := byID[alt]; ok {
			return alt, true
		}
	}
	return "", false
}

// loadOMW attaches multilingual lemmas from tab files in cfg.OMWDir.
// Files are processed in sorted name order to keep lemma ordering
// reproducible across restarts.
func loadOMW(cfg config.CorpusConfig, g *LexicalGraph, byID map[string]*Synset) ([]string, error) {
	var paths []string
	if len(cfg.Languages) > 0 {
		langs := append([]string(nil), cfg.Languages...)
		sort.Strings(langs)
		for _, lang := range langs {
			paths = append(paths, filepath.Join(cfg.OMWDir, lang+".tab"))
		}
	} else {
		entries, err := os.ReadDir(cfg.OMWDir)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s", errs.ErrCorpusNotFound, cfg.OMWDir)
			}
			return nil, fmt.Errorf("reading corpus dir %s: %w", cfg.OMWDir, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".tab") {
				paths = append(paths, filepath.Join(cfg.OMWDir, entry.Name()))
			}
		}
		sort.Strings(paths)
	}

	langs := []string{LangEnglish}
	seenLang := map[string]struct{}{LangEnglish: {}}
	for _, path := range paths {
		rows, err := parseOMWFile(path)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			syn, ok := byID[row.SynsetID]
			if !ok {
				return nil, fmt.Errorf("%w: %s references unknown synset %s",
					errs.ErrCorpusInvalid, filepath.Base(path), row.SynsetID)
			}
			syn.Lemmas = append(syn.Lemmas, Lemma{
				Text: row.Text,
				Lang: row.Lang,
				POS:  syn.POS,
			})
			if _, dup := seenLang[row.Lang]; !dup {
				seenLang[row.Lang] = struct{}{}
				langs = append(langs, row.Lang)
			}
		}
	}
	return langs, nil
}
