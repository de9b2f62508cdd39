package osm

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"go.uber.org/zap"

	"cycle_router/pkg/logger"
)

// ErrDecode is returned when the PBF stream contains a record that cannot be decoded.
var ErrDecode = errors.New("decode OSM data")

// Way is a cyclable way kept for graph construction.
type Way struct {
	Nodes []osm.NodeID
	Tags  osm.Tags
}

// ParseResult holds every node coordinate and the cyclable ways of a PBF file.
type ParseResult struct {
	Nodes map[osm.NodeID]orb.Point
	Ways  []Way

	// RejectedWays counts ways dropped by the filter or for having < 2 nodes.
	RejectedWays int
}

// ParseOptions configures the parser.
type ParseOptions struct {
	Procs         int // decoder goroutines; values < 1 mean 1
	ProgressEvery int // log every N objects; 0 disables progress logging
}

// objectScanner is the subset of osmpbf.Scanner the parser consumes.
type objectScanner interface {
	Scan() bool
	Object() osm.Object
	Err() error
}

// Parse reads a PBF stream in a single pass. All nodes are kept because way
// filtering happens in the same pass; the graph builder prunes them later.
func Parse(ctx context.Context, r io.Reader, filter *WayFilter, opts ParseOptions) (*ParseResult, error) {
	procs := max(opts.Procs, 1)

	scanner := osmpbf.New(ctx, r, procs)
	scanner.SkipRelations = true
	defer scanner.Close()

	return collect(scanner, filter, opts.ProgressEvery)
}

func collect(scanner objectScanner, filter *WayFilter, progressEvery int) (*ParseResult, error) {
	log := logger.Get()
	result := &ParseResult{Nodes: make(map[osm.NodeID]orb.Point)}

	var seen int
	for scanner.Scan() {
		seen++
		if progressEvery > 0 && seen%progressEvery == 0 {
			log.Info("Ingestion progress",
				zap.Int("objects", seen),
				zap.Int("nodes", len(result.Nodes)),
				zap.Int("ways", len(result.Ways)))
		}

		switch obj := scanner.Object().(type) {
		case *osm.Node:
			if len(result.Nodes) == 0 {
				log.Debug("First node", zap.Int64("id", int64(obj.ID)), zap.Float64("lat", obj.Lat), zap.Float64("lon", obj.Lon))
			}
			result.Nodes[obj.ID] = orb.Point{obj.Lon, obj.Lat}
		case *osm.Way:
			if len(obj.Nodes) < 2 || !filter.IsCyclable(obj.Tags) {
				result.RejectedWays++
				continue
			}
			if len(result.Ways) == 0 {
				log.Debug("First way", zap.Int64("id", int64(obj.ID)), zap.Int("nodes", len(obj.Nodes)))
			}
			nodeIDs := make([]osm.NodeID, len(obj.Nodes))
			for i, wn := range obj.Nodes {
				nodeIDs[i] = wn.ID
			}
			result.Ways = append(result.Ways, Way{Nodes: nodeIDs, Tags: obj.Tags})
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: after %d objects: %w", ErrDecode, seen, err)
	}

	log.Info("Ingestion complete",
		zap.Int("nodes", len(result.Nodes)),
		zap.Int("ways", len(result.Ways)),
		zap.Int("rejected_ways", result.RejectedWays))

	return result, nil
}
