package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v, want nil", err)
	}
	if cfg.Source.Node != 5798366045 || cfg.Goal.Node != 1254449298 {
		t.Errorf("endpoints = %v -> %v", cfg.Source, cfg.Goal)
	}
	if len(cfg.Filter.PavedSurfaces) != 4 {
		t.Errorf("PavedSurfaces = %v, want 4 entries", cfg.Filter.PavedSurfaces)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing pbf path", func(c *Config) { c.PBFPath = "" }},
		{"missing result path", func(c *Config) { c.ResultPath = "" }},
		{"same cache files", func(c *Config) { c.AdjacencyCachePath = c.NodesCachePath }},
		{"missing source", func(c *Config) { c.Source = Endpoint{} }},
		{"missing goal", func(c *Config) { c.Goal = Endpoint{} }},
		{"source equals goal", func(c *Config) { c.Goal.Node = c.Source.Node }},
		{"negative node", func(c *Config) { c.Goal.Node = -1 }},
		{"empty surface list", func(c *Config) { c.Filter.PavedSurfaces = nil }},
		{"zero snap distance", func(c *Config) { c.MaxSnapMeters = 0 }},
		{"no decode workers", func(c *Config) { c.DecodeWorkers = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
result_path: out/route.txt
source:
  coord:
    lat: 35.6812
    lon: 139.7671
goal:
  node: 42
filter:
  deny_tags:
    - key: highway
      value: trunk
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ResultPath != "out/route.txt" {
		t.Errorf("ResultPath = %q", cfg.ResultPath)
	}
	if cfg.PBFPath != Default().PBFPath {
		t.Errorf("PBFPath = %q, want default", cfg.PBFPath)
	}
	if cfg.Source.Coord == nil || cfg.Source.Coord.Lat != 35.6812 {
		t.Errorf("Source = %+v, want coordinate endpoint", cfg.Source)
	}
	if cfg.Goal.Node != 42 {
		t.Errorf("Goal.Node = %d, want 42", cfg.Goal.Node)
	}
	if len(cfg.Filter.DenyTags) != 1 || cfg.Filter.DenyTags[0].Value != "trunk" {
		t.Errorf("DenyTags = %v", cfg.Filter.DenyTags)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("source: [unterminated"), 0o644)

	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEndpointString(t *testing.T) {
	if got := (Endpoint{Node: 7}).String(); got != "node/7" {
		t.Errorf("String() = %q", got)
	}
	if got := (Endpoint{}).String(); got != "<unset>" {
		t.Errorf("String() = %q", got)
	}
}
