package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Tag is a single OSM key/value pair.
type Tag struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

// FilterRules decides which ways are usable by bicycle.
type FilterRules struct {
	// PavedSurfaces lists the surface values accepted when a way declares one.
	// Ways without a surface tag are accepted.
	PavedSurfaces []string `yaml:"paved_surfaces"`
	// DenyTags rejects any way carrying one of these exact pairs.
	DenyTags []Tag `yaml:"deny_tags"`
}

// Coord is a WGS84 position.
type Coord struct {
	Lat float64 `yaml:"lat"`
	Lon float64 `yaml:"lon"`
}

// Endpoint is either an OSM node id or a coordinate snapped to the nearest
// routable node. Node wins when both are set.
type Endpoint struct {
	Node  int64  `yaml:"node,omitempty"`
	Coord *Coord `yaml:"coord,omitempty"`
}

// IsZero reports whether neither a node nor a coordinate is set.
func (e Endpoint) IsZero() bool {
	return e.Node == 0 && e.Coord == nil
}

func (e Endpoint) String() string {
	if e.Node != 0 {
		return fmt.Sprintf("node/%d", e.Node)
	}
	if e.Coord != nil {
		return fmt.Sprintf("(%.6f, %.6f)", e.Coord.Lat, e.Coord.Lon)
	}
	return "<unset>"
}

// Config holds everything a single routing run needs. It is built once at
// startup and never mutated afterwards.
type Config struct {
	// Input
	SourceURL string `yaml:"source_url"`
	PBFPath   string `yaml:"pbf_path"`

	// Graph cache artifacts
	NodesCachePath     string `yaml:"nodes_cache_path"`
	AdjacencyCachePath string `yaml:"adjacency_cache_path"`

	// Output
	ResultPath string `yaml:"result_path"`

	Source Endpoint `yaml:"source"`
	Goal   Endpoint `yaml:"goal"`

	// MaxSnapMeters bounds how far a coordinate endpoint may be from a node.
	MaxSnapMeters float64 `yaml:"max_snap_meters"`

	Filter FilterRules `yaml:"filter"`

	// DecodeWorkers is handed to the PBF decoder; the pipeline itself is sequential.
	DecodeWorkers int `yaml:"decode_workers"`
	// ProgressEvery logs ingestion progress after this many objects.
	ProgressEvery int `yaml:"progress_every"`

	Verbose bool   `yaml:"verbose"`
	LogFile string `yaml:"log_file"`
}

// Default returns the configuration for the Japan extract.
func Default() *Config {
	return &Config{
		SourceURL:          "https://download.geofabrik.de/asia/japan-latest.osm.pbf",
		PBFPath:            "data/japan-latest.osm.pbf",
		NodesCachePath:     "data/nodes.json",
		AdjacencyCachePath: "data/adj-list.json",
		ResultPath:         "data/result-polyline.txt",
		Source:             Endpoint{Node: 5798366045}, // https://www.openstreetmap.org/node/5798366045
		Goal:               Endpoint{Node: 1254449298}, // https://www.openstreetmap.org/node/1254449298
		MaxSnapMeters:      500,
		Filter: FilterRules{
			PavedSurfaces: []string{"paved", "asphalt", "concrete", "paving_stones"},
			DenyTags: []Tag{
				{Key: "highway", Value: "motorway"},
				{Key: "highway", Value: "motorway_link"},
				{Key: "access", Value: "agricultural"},
				{Key: "access", Value: "delivery"},
				{Key: "access", Value: "forestry"},
				{Key: "access", Value: "use_sidepath"},
			},
		},
		DecodeWorkers: runtime.NumCPU(),
		ProgressEvery: 10_000_000,
	}
}

// Load reads a YAML file on top of the defaults. Keys missing from the file
// keep their default value.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config YAML: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error
	paths := []struct{ name, value string }{
		{"pbf_path", c.PBFPath},
		{"nodes_cache_path", c.NodesCachePath},
		{"adjacency_cache_path", c.AdjacencyCachePath},
		{"result_path", c.ResultPath},
	}
	for _, p := range paths {
		if p.value == "" {
			errs = append(errs, fmt.Errorf("%s is required", p.name))
		}
	}
	if c.NodesCachePath != "" && c.NodesCachePath == c.AdjacencyCachePath {
		errs = append(errs, errors.New("nodes and adjacency caches must be different files"))
	}
	if c.Source.IsZero() {
		errs = append(errs, errors.New("source endpoint is required"))
	}
	if c.Goal.IsZero() {
		errs = append(errs, errors.New("goal endpoint is required"))
	}
	if c.Source.Node != 0 && c.Source.Node == c.Goal.Node {
		errs = append(errs, errors.New("source and goal must differ"))
	}
	if c.Source.Node < 0 || c.Goal.Node < 0 {
		errs = append(errs, errors.New("node ids must be positive"))
	}
	if len(c.Filter.PavedSurfaces) == 0 {
		errs = append(errs, errors.New("filter.paved_surfaces must not be empty"))
	}
	if c.MaxSnapMeters <= 0 {
		errs = append(errs, errors.New("max_snap_meters must be positive"))
	}
	if c.DecodeWorkers < 1 {
		errs = append(errs, errors.New("decode_workers must be at least 1"))
	}
	return errors.Join(errs...)
}
