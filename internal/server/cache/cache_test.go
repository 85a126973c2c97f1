package cache

import (
	"strings"
	"testing"
)

func TestKeyDeterministic(t *testing.T) {
	a := Key("lookup", "car", "eng", "n")
	b := Key("lookup", "car", "eng", "n")
	if a != b {
		t.Errorf("same inputs produced different keys: %s vs %s", a, b)
	}
}

func TestKeyPrefix(t *testing.T) {
	key := Key("define", "car")
	if !strings.HasPrefix(key, "lex:define:") {
		t.Errorf("key = %q, want lex:define: prefix for pattern invalidation", key)
	}
}

func TestKeyDistinguishesParameters(t *testing.T) {
	keys := map[string]string{
		"different lemma":    Key("lookup", "car", "eng", "n"),
		"different lang":     Key("lookup", "car", "fra", "n"),
		"different pos":      Key("lookup", "car", "eng", "v"),
		"different op":       Key("define", "car", "eng", "n"),
		"shifted boundaries": Key("lookup", "ca", "reng", "n"),
	}
	seen := make(map[string]string)
	for name, key := range keys {
		if prev, dup := seen[key]; dup {
			t.Errorf("%s collides with %s: %s", name, prev, key)
		}
		seen[key] = name
	}
}

func TestNormalizeLemmaReexport(t *testing.T) {
	if got := NormalizeLemma("Motor_Vehicle"); got != "motor vehicle" {
		t.Errorf("NormalizeLemma = %q", got)
	}
	if Key("lookup", NormalizeLemma("CAR"), "eng", "") != Key("lookup", NormalizeLemma("car"), "eng", "") {
		t.Error("equivalent lemma forms must share a cache entry")
	}
}
