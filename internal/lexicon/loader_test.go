package lexicon

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/tnguyen91/lexigraph/pkg/config"
	errs "github.com/tnguyen91/lexigraph/pkg/errors"
)

func writeCorpusFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content+"\n"), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

// writeTestCorpus lays down a minimal but fully cross-referenced WNDB corpus:
// a vehicle/car noun pair, a run/move verb pair linked by entailment, a
// fast/quick adjective pair where fast points at the satellite through the
// "a" tag, and one adverb.
func writeTestCorpus(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeCorpusFile(t, dir, "data.noun",
		"00001740 03 n 01 vehicle 0 001 ~ 00002137 n 0000 | a conveyance that transports people or goods\n"+
			"00002137 03 n 02 car 0 automobile 0 001 @ 00001740 n 0000 | a motor vehicle with four wheels")
	writeCorpusFile(t, dir, "data.verb",
		"00003000 29 v 01 run 0 001 * 00003100 v 0000 | move fast by foot\n"+
			"00003100 29 v 01 move 0 000 | change position")
	writeCorpusFile(t, dir, "data.adj",
		"00004000 00 a 01 fast 0 001 & 00004100 a 0000 | acting or moving quickly\n"+
			"00004100 00 s 01 quick 0 000 | accomplished rapidly")
	writeCorpusFile(t, dir, "data.adv",
		"00005000 02 r 01 quickly 0 000 | with rapidity")
	return dir
}

func TestLoadBuildsGraph(t *testing.T) {
	dir := writeTestCorpus(t)

	g, err := Load(config.CorpusConfig{DataDir: dir})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if g.SynsetCount() != 7 {
		t.Errorf("SynsetCount() = %d, want 7", g.SynsetCount())
	}
	// vehicle, car+automobile, run, move, fast, quick, quickly.
	if g.LemmaCount() != 8 {
		t.Errorf("LemmaCount() = %d, want 8", g.LemmaCount())
	}
	if got := g.Languages(); !reflect.DeepEqual(got, []string{LangEnglish}) {
		t.Errorf("Languages() = %v, want [eng]", got)
	}

	// Ordinals follow file order: nouns, verbs, adjectives, adverbs.
	wantIDs := []string{
		"00001740-n", "00002137-n",
		"00003000-v", "00003100-v",
		"00004000-a", "00004100-s",
		"00005000-r",
	}
	for i, want := range wantIDs {
		if g.Synsets[i].ID != want {
			t.Errorf("Synsets[%d].ID = %s, want %s", i, g.Synsets[i].ID, want)
		}
		if g.Synsets[i].Ordinal != i {
			t.Errorf("Synsets[%d].Ordinal = %d, want %d", i, g.Synsets[i].Ordinal, i)
		}
	}
}

func TestLoadMaterializesInverses(t *testing.T) {
	dir := writeTestCorpus(t)

	g, err := Load(config.CorpusConfig{DataDir: dir})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	has := func(source, target string, typ RelationType) bool {
		for _, rel := range g.Relations {
			if rel.Source == source && rel.Target == target && rel.Type == typ {
				return true
			}
		}
		return false
	}

	// The corpus states both directions of the vehicle/car pair explicitly;
	// dedup must collapse them with the materialized inverses.
	if !has("00002137-n", "00001740-n", RelHypernym) {
		t.Error("missing car -> vehicle hypernym")
	}
	if !has("00001740-n", "00002137-n", RelHyponym) {
		t.Error("missing vehicle -> car hyponym")
	}
	// Similar is symmetric, so the satellite gets the back edge.
	if !has("00004100-s", "00004000-a", RelSimilar) {
		t.Error("missing materialized quick -> fast similar edge")
	}
	// Entailment has no inverse.
	if has("00003100-v", "00003000-v", RelEntailment) {
		t.Error("entailment must not be inverted")
	}

	// hypernym+hyponym pair, similar pair, one entailment edge.
	if g.RelationCount() != 5 {
		t.Errorf("RelationCount() = %d, want 5: %+v", g.RelationCount(), g.Relations)
	}
}

func TestLoadResolvesSatelliteTargets(t *testing.T) {
	dir := writeTestCorpus(t)

	g, err := Load(config.CorpusConfig{DataDir: dir})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	for _, rel := range g.Relations {
		if rel.Type == RelSimilar && rel.Source == "00004000-a" {
			if rel.Target != "00004100-s" {
				t.Errorf("similar edge target = %s, want satellite id 00004100-s", rel.Target)
			}
			return
		}
	}
	t.Error("similar edge from 00004000-a not found")
}

func TestLoadDeterministic(t *testing.T) {
	dir := writeTestCorpus(t)
	cfg := config.CorpusConfig{DataDir: dir}

	first, err := Load(cfg)
	if err != nil {
		t.Fatalf("first Load failed: %v", err)
	}
	second, err := Load(cfg)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}

	if !reflect.DeepEqual(first.Relations, second.Relations) {
		t.Error("relation order differs between loads")
	}
	if len(first.Synsets) != len(second.Synsets) {
		t.Fatal("synset counts differ between loads")
	}
	for i := range first.Synsets {
		if !reflect.DeepEqual(first.Synsets[i], second.Synsets[i]) {
			t.Errorf("synset %d differs between loads", i)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(config.CorpusConfig{DataDir: dir})
	if err == nil {
		t.Fatal("Load succeeded with no corpus files")
	}
	if !errs.IsLoadError(err) {
		t.Errorf("err = %v, want a load-class error", err)
	}
}

func TestLoadDanglingPointerFatal(t *testing.T) {
	dir := t.TempDir()
	writeCorpusFile(t, dir, "data.noun",
		"00001740 03 n 01 entity 0 001 @ 09999999 n 0000 | that which exists")
	writeCorpusFile(t, dir, "data.verb", "00003000 29 v 01 run 0 000 | move fast")
	writeCorpusFile(t, dir, "data.adj", "00004000 00 a 01 fast 0 000 | quick")
	writeCorpusFile(t, dir, "data.adv", "00005000 02 r 01 quickly 0 000 | fast")

	_, err := Load(config.CorpusConfig{DataDir: dir})
	if err == nil {
		t.Fatal("Load accepted a dangling pointer")
	}
	if !errs.IsLoadError(err) {
		t.Errorf("err = %v, want a load-class error", err)
	}
}

func TestLoadMalformedRecordFatal(t *testing.T) {
	dir := writeTestCorpus(t)
	writeCorpusFile(t, dir, "data.adv", "garbage line that is not a record")

	_, err := Load(config.CorpusConfig{DataDir: dir})
	if err == nil {
		t.Fatal("Load accepted a malformed record")
	}
	if !errs.IsLoadError(err) {
		t.Errorf("err = %v, want a load-class error", err)
	}
}

func TestLoadOMWAttachesLemmas(t *testing.T) {
	dir := writeTestCorpus(t)
	omwDir := t.TempDir()
	writeCorpusFile(t, omwDir, "fra.tab",
		"# OMW 1.4 French\n"+
			"00002137-n\tfra:lemma\tvoiture\n"+
			"00002137-n\tfra:def\tune voiture est un vehicule\n"+
			"00001740-n\tfra:lemma\tvéhicule")
	writeCorpusFile(t, omwDir, "spa.tab",
		"00002137-n\tspa:lemma\tcoche")

	g, err := Load(config.CorpusConfig{DataDir: dir, OMWDir: omwDir})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := g.Languages(); !reflect.DeepEqual(got, []string{"eng", "fra", "spa"}) {
		t.Errorf("Languages() = %v, want [eng fra spa]", got)
	}

	var car *Synset
	for _, syn := range g.Synsets {
		if syn.ID == "00002137-n" {
			car = syn
		}
	}
	if car == nil {
		t.Fatal("car synset missing")
	}

	var french []string
	for _, lemma := range car.Lemmas {
		if lemma.Lang == "fra" {
			french = append(french, lemma.Text)
			if lemma.POS != PosNoun {
				t.Errorf("french lemma pos = %q, want n", lemma.POS)
			}
		}
	}
	if !reflect.DeepEqual(french, []string{"voiture"}) {
		t.Errorf("french lemmas = %v, want [voiture]", french)
	}
}

func TestLoadOMWUnknownSynsetFatal(t *testing.T) {
	dir := writeTestCorpus(t)
	omwDir := t.TempDir()
	writeCorpusFile(t, omwDir, "fra.tab", "09999999-n\tfra:lemma\tfantome")

	_, err := Load(config.CorpusConfig{DataDir: dir, OMWDir: omwDir})
	if err == nil {
		t.Fatal("Load accepted an OMW row for an unknown synset")
	}
	if !errs.IsLoadError(err) {
		t.Errorf("err = %v, want a load-class error", err)
	}
}

func TestLoadOMWLanguageFilter(t *testing.T) {
	dir := writeTestCorpus(t)
	omwDir := t.TempDir()
	writeCorpusFile(t, omwDir, "fra.tab", "00002137-n\tfra:lemma\tvoiture")
	writeCorpusFile(t, omwDir, "spa.tab", "00002137-n\tspa:lemma\tcoche")

	g, err := Load(config.CorpusConfig{DataDir: dir, OMWDir: omwDir, Languages: []string{"spa"}})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := g.Languages(); !reflect.DeepEqual(got, []string{"eng", "spa"}) {
		t.Errorf("Languages() = %v, want [eng spa]", got)
	}
}
