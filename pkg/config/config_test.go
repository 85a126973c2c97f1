package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8000 {
		t.Errorf("Server.Port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Query.MaxDepth != 8 || cfg.Query.DefaultDepth != 1 {
		t.Errorf("Query = %+v", cfg.Query)
	}
	if cfg.Redis.CacheTTL != time.Hour {
		t.Errorf("Redis.CacheTTL = %s, want 1h", cfg.Redis.CacheTTL)
	}
	if cfg.Kafka.Topics.QueryEvents != "query-events" {
		t.Errorf("Kafka.Topics.QueryEvents = %q", cfg.Kafka.Topics.QueryEvents)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9999
query:
  maxDepth: 4
  defaultDepth: 2
corpus:
  dataDir: /srv/wordnet
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Query.MaxDepth != 4 || cfg.Query.DefaultDepth != 2 {
		t.Errorf("Query = %+v", cfg.Query)
	}
	if cfg.Corpus.DataDir != "/srv/wordnet" {
		t.Errorf("Corpus.DataDir = %q", cfg.Corpus.DataDir)
	}
	// Unspecified sections keep their defaults.
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("Redis.Addr = %q, want default", cfg.Redis.Addr)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Fatal("Load succeeded with a missing file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LG_SERVER_PORT", "7070")
	t.Setenv("LG_CORPUS_DATA_DIR", "/data/wn")
	t.Setenv("LG_REDIS_ADDR", "redis.internal:6379")
	t.Setenv("LG_CORPUS_LANGUAGES", "fra,spa")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want 7070", cfg.Server.Port)
	}
	if cfg.Corpus.DataDir != "/data/wn" {
		t.Errorf("Corpus.DataDir = %q", cfg.Corpus.DataDir)
	}
	if cfg.Redis.Addr != "redis.internal:6379" {
		t.Errorf("Redis.Addr = %q", cfg.Redis.Addr)
	}
	if len(cfg.Corpus.Languages) != 2 || cfg.Corpus.Languages[0] != "fra" {
		t.Errorf("Corpus.Languages = %v", cfg.Corpus.Languages)
	}
}

func TestValidation(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) string {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
		return path
	}

	cases := []struct {
		name    string
		content string
	}{
		{"empty dataDir", "corpus:\n  dataDir: \"\"\n"},
		{"maxDepth below one", "query:\n  maxDepth: 0\n"},
		{"defaultDepth above maxDepth", "query:\n  maxDepth: 3\n  defaultDepth: 5\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := write(tc.name+".yaml", tc.content)
			if _, err := Load(path); err == nil {
				t.Errorf("Load accepted invalid config %q", tc.content)
			}
		})
	}
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{
		Host: "db", Port: 5432, User: "u", Password: "p", Database: "lexigraph", SSLMode: "disable",
	}
	want := "host=db port=5432 user=u password=p dbname=lexigraph sslmode=disable"
	if got := p.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
