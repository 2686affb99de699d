package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mhalbert/chainviz/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chainviz.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	for _, path := range []string{"", filepath.Join(t.TempDir(), "absent.toml")} {
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%q) error = %v", path, err)
		}
		if cfg.Server.Addr != ":8490" {
			t.Errorf("addr = %q, want :8490", cfg.Server.Addr)
		}
		if cfg.Source.Kind != SourceDir || cfg.Source.Dir != "data" {
			t.Errorf("source = %+v, want dir/data", cfg.Source)
		}
		if cfg.Cache.Kind != CacheMemory || cfg.Cache.TTLDuration() != 5*time.Minute {
			t.Errorf("cache = %+v, want memory with 5m ttl", cfg.Cache)
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[server]
addr = ":9000"

[source]
kind = "mongo"

[source.mongo]
uri = "mongodb://localhost:27017"
database = "chains"
collection = "documents"

[layout]
cell_width = 200.0
max_cols_per_section = 6

[cache]
kind = "redis"
ttl = "90s"

[cache.redis]
addr = "localhost:6379"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("addr = %q, want :9000", cfg.Server.Addr)
	}
	if cfg.Source.Kind != SourceMongo || cfg.Source.Mongo.Database != "chains" {
		t.Errorf("source = %+v, want mongo/chains", cfg.Source)
	}
	if cfg.Layout.CellWidth != 200 || cfg.Layout.MaxColsPerSection != 6 {
		t.Errorf("layout = %+v, want cell width 200, max cols 6", cfg.Layout)
	}
	// Fields absent from the file keep their defaults.
	if cfg.Layout.CellHeight != 90 {
		t.Errorf("cell height = %v, want default 90", cfg.Layout.CellHeight)
	}
	if cfg.Cache.Kind != CacheRedis || cfg.Cache.TTLDuration() != 90*time.Second {
		t.Errorf("cache = %+v, want redis with 90s ttl", cfg.Cache)
	}
	if cfg.Cache.Redis.Addr != "localhost:6379" {
		t.Errorf("redis addr = %q, want localhost:6379", cfg.Cache.Redis.Addr)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "Syntax", content: `server = [`},
		{name: "BadTTL", content: "[cache]\nttl = \"soon\"\n"},
		{name: "UnknownSourceKind", content: "[source]\nkind = \"carrier-pigeon\"\n"},
		{name: "UnknownCacheKind", content: "[cache]\nkind = \"papyrus\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if errors.GetCode(err) != errors.ErrCodeInvalidConfig {
				t.Fatalf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidConfig)
			}
		})
	}
}
