package osm

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
)

// Counts summarises a PBF file without building a graph.
type Counts struct {
	Nodes     int64
	Ways      int64
	Relations int64
	Segments  int64 // consecutive node pairs over all ways
}

// Count tallies every object in a PBF stream. No filtering is applied.
func Count(ctx context.Context, r io.Reader, procs int) (*Counts, error) {
	scanner := osmpbf.New(ctx, r, max(procs, 1))
	defer scanner.Close()
	return tally(scanner)
}

func tally(scanner objectScanner) (*Counts, error) {
	var c Counts
	for scanner.Scan() {
		switch obj := scanner.Object().(type) {
		case *osm.Node:
			c.Nodes++
		case *osm.Way:
			c.Ways++
			if n := len(obj.Nodes); n > 1 {
				c.Segments += int64(n - 1)
			}
		case *osm.Relation:
			c.Relations++
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return &c, nil
}
