package graph_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"

	"cycle_router/pkg/geo"
	"cycle_router/pkg/graph"
	osmparser "cycle_router/pkg/osm"
)

func buildTestGraph(t *testing.T) *graph.Graph {
	t.Helper()
	hw := osm.Tags{{Key: "highway", Value: "residential"}}
	return graph.Build(&osmparser.ParseResult{
		Nodes: map[osm.NodeID]orb.Point{
			10: geo.Point(35.6812, 139.7671),
			20: geo.Point(35.6813, 139.7690),
			30: geo.Point(35.6830, 139.7702),
			40: geo.Point(35.6795, 139.7655),
		},
		Ways: []osmparser.Way{
			{Nodes: []osm.NodeID{10, 20, 30}, Tags: hw},
			{Nodes: []osm.NodeID{40, 10}, Tags: append(osm.Tags{{Key: "oneway", Value: "yes"}}, hw...)},
		},
	})
}

func testPaths(t *testing.T) graph.CachePaths {
	dir := t.TempDir()
	return graph.CachePaths{
		Nodes:     filepath.Join(dir, "cache", "nodes.json"),
		Adjacency: filepath.Join(dir, "cache", "adj-list.json"),
	}
}

func TestCacheRoundTrip(t *testing.T) {
	original := buildTestGraph(t)
	paths := testPaths(t)

	if graph.CacheExists(paths) {
		t.Fatal("cache should not exist yet")
	}
	if err := graph.WriteCache(paths, original); err != nil {
		t.Fatalf("WriteCache: %v", err)
	}
	if !graph.CacheExists(paths) {
		t.Fatal("cache should exist after WriteCache")
	}

	loaded, err := graph.ReadCache(paths)
	if err != nil {
		t.Fatalf("ReadCache: %v", err)
	}

	if !reflect.DeepEqual(loaded.Nodes, original.Nodes) {
		t.Errorf("Nodes differ after round trip:\n got %v\nwant %v", loaded.Nodes, original.Nodes)
	}
	if !reflect.DeepEqual(loaded.Adj, original.Adj) {
		t.Errorf("Adj differs after round trip:\n got %v\nwant %v", loaded.Adj, original.Adj)
	}

	// No temp files left behind.
	entries, _ := os.ReadDir(filepath.Dir(paths.Nodes))
	if len(entries) != 2 {
		t.Errorf("cache dir has %d entries, want 2", len(entries))
	}
}

func TestCacheExistsNeedsBothFiles(t *testing.T) {
	paths := testPaths(t)
	os.MkdirAll(filepath.Dir(paths.Nodes), 0o755)
	os.WriteFile(paths.Nodes, []byte("{}"), 0o644)

	if graph.CacheExists(paths) {
		t.Error("CacheExists = true with only the nodes file present")
	}
}

func TestReadCacheCorrupt(t *testing.T) {
	tests := []struct {
		name  string
		nodes string
		adj   string
	}{
		{"truncated nodes", `{"10": [139.7, 35.6`, `{}`},
		{"bad adjacency", `{"10": [139.7, 35.6]}`, `not json`},
		{"wrong node shape", `{"10": "here"}`, `{}`},
		{"dangling target", `{"10": [139.7, 35.6]}`, `{"10": [{"to": 20, "m": 1.5}]}`},
		{"negative weight", `{"10": [139.7, 35.6], "20": [139.8, 35.6]}`, `{"10": [{"to": 20, "m": -1}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths := testPaths(t)
			os.MkdirAll(filepath.Dir(paths.Nodes), 0o755)
			os.WriteFile(paths.Nodes, []byte(tt.nodes), 0o644)
			os.WriteFile(paths.Adjacency, []byte(tt.adj), 0o644)

			_, err := graph.ReadCache(paths)
			if !errors.Is(err, graph.ErrCacheCorrupt) {
				t.Fatalf("err = %v, want ErrCacheCorrupt", err)
			}
		})
	}
}

func TestReadCacheMissingFile(t *testing.T) {
	_, err := graph.ReadCache(testPaths(t))
	if err == nil {
		t.Fatal("expected error for missing cache")
	}
	if errors.Is(err, graph.ErrCacheCorrupt) {
		t.Errorf("missing file should not be reported as corruption: %v", err)
	}
}
