package graph

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
)

// ErrCacheCorrupt is returned when a cache artifact cannot be parsed or
// describes an inconsistent graph.
var ErrCacheCorrupt = errors.New("graph cache corrupt")

// CachePaths locates the two cache artifacts.
type CachePaths struct {
	Nodes     string
	Adjacency string
}

// cachedEdge is the on-disk form of an Edge. Weights stay in meters.
type cachedEdge struct {
	To int64   `json:"to"`
	M  float64 `json:"m"`
}

// CacheExists reports whether both artifacts are present.
func CacheExists(p CachePaths) bool {
	return fileExists(p.Nodes) && fileExists(p.Adjacency)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// WriteCache persists the node table and adjacency lists as JSON keyed by node id.
// Both files are written to temporaries first and only renamed into place once
// both succeeded, so a failed write never leaves a half-written cache behind.
func WriteCache(p CachePaths, g *Graph) error {
	nodes := make(map[int64][2]float64, len(g.Nodes))
	for id, pt := range g.Nodes {
		nodes[int64(id)] = [2]float64{pt.Lon(), pt.Lat()}
	}
	adj := make(map[int64][]cachedEdge, len(g.Adj))
	for from, edges := range g.Adj {
		out := make([]cachedEdge, len(edges))
		for i, e := range edges {
			out[i] = cachedEdge{To: int64(e.To), M: e.Meters}
		}
		adj[int64(from)] = out
	}

	nodesTmp, err := writeJSONTemp(p.Nodes, nodes)
	if err != nil {
		return fmt.Errorf("write nodes cache: %w", err)
	}
	defer os.Remove(nodesTmp)

	adjTmp, err := writeJSONTemp(p.Adjacency, adj)
	if err != nil {
		return fmt.Errorf("write adjacency cache: %w", err)
	}
	defer os.Remove(adjTmp)

	if err := os.Rename(nodesTmp, p.Nodes); err != nil {
		return fmt.Errorf("rename nodes cache: %w", err)
	}
	if err := os.Rename(adjTmp, p.Adjacency); err != nil {
		// Without the adjacency file the nodes file alone is useless and would
		// be rebuilt anyway; drop it so the cache is all-or-nothing.
		os.Remove(p.Nodes)
		return fmt.Errorf("rename adjacency cache: %w", err)
	}
	return nil
}

// writeJSONTemp encodes v into path+".tmp" and returns the temp path.
func writeJSONTemp(path string, v any) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create directory: %w", err)
	}
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	bw := bufio.NewWriterSize(f, 1<<20)
	if err := json.NewEncoder(bw).Encode(v); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("flush: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return tmpPath, nil
}

// ReadCache loads a graph persisted by WriteCache. Parse failures and graphs
// violating the node-table invariant are reported as ErrCacheCorrupt.
func ReadCache(p CachePaths) (*Graph, error) {
	var nodes map[int64][2]float64
	if err := readJSON(p.Nodes, &nodes); err != nil {
		return nil, fmt.Errorf("read nodes cache: %w", err)
	}
	var adj map[int64][]cachedEdge
	if err := readJSON(p.Adjacency, &adj); err != nil {
		return nil, fmt.Errorf("read adjacency cache: %w", err)
	}

	g := &Graph{
		Nodes: make(map[osm.NodeID]orb.Point, len(nodes)),
		Adj:   make(map[osm.NodeID][]Edge, len(adj)),
	}
	for id, c := range nodes {
		g.Nodes[osm.NodeID(id)] = orb.Point{c[0], c[1]}
	}
	for from, edges := range adj {
		out := make([]Edge, len(edges))
		for i, e := range edges {
			out[i] = Edge{To: osm.NodeID(e.To), Meters: e.M}
		}
		g.Adj[osm.NodeID(from)] = out
	}

	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCacheCorrupt, err)
	}
	return g, nil
}

func readJSON(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	if err := json.NewDecoder(bufio.NewReaderSize(f, 1<<20)).Decode(v); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCacheCorrupt, path, err)
	}
	return nil
}
