package routing

import (
	"errors"
	"fmt"
	"slices"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/twpayne/go-polyline"

	"cycle_router/pkg/geo"
)

// ErrEncoding is returned when a route cannot be encoded as a polyline.
var ErrEncoding = errors.New("encode polyline")

// polylineCodec encodes (lat, lng) pairs with 5 decimal digits.
var polylineCodec = polyline.Codec{Dim: 2, Scale: 1e5}

// Path walks parent links from goal back to source and returns the node ids
// in travel order. It fails with ErrNoRoute if goal was never settled.
func Path(parents map[osm.NodeID]Parent, source, goal osm.NodeID) ([]osm.NodeID, error) {
	if _, ok := parents[goal]; !ok {
		return nil, fmt.Errorf("%w: goal %d not settled", ErrNoRoute, goal)
	}

	path := []osm.NodeID{goal}
	cur := goal
	for cur != source {
		p, ok := parents[cur]
		if !ok || p.Root {
			return nil, fmt.Errorf("%w: parent chain from %d ends at %d before reaching %d", ErrNoRoute, goal, cur, source)
		}
		cur = p.Node
		path = append(path, cur)
		// A chain longer than the settled set means a cycle.
		if len(path) > len(parents) {
			return nil, fmt.Errorf("parent chain from %d does not terminate", goal)
		}
	}

	slices.Reverse(path)
	return path, nil
}

// Reconstruct returns the route geometry from source to goal.
func Reconstruct(res *SearchResult, nodes map[osm.NodeID]orb.Point, source, goal osm.NodeID) (orb.LineString, error) {
	path, err := Path(res.Parents, source, goal)
	if err != nil {
		return nil, err
	}

	line := make(orb.LineString, len(path))
	for i, id := range path {
		p, ok := nodes[id]
		if !ok {
			return nil, fmt.Errorf("route node %d has no coordinates", id)
		}
		line[i] = p
	}
	return line, nil
}

// Encode returns the route as a Google encoded polyline with precision 5.
func Encode(line orb.LineString) (string, error) {
	if len(line) == 0 {
		return "", fmt.Errorf("%w: empty route", ErrEncoding)
	}

	coords := make([][]float64, len(line))
	for i, p := range line {
		if !geo.Valid(p) {
			return "", fmt.Errorf("%w: invalid coordinate %v at index %d", ErrEncoding, p, i)
		}
		coords[i] = []float64{p.Lat(), p.Lon()}
	}
	return string(polylineCodec.EncodeCoords(nil, coords)), nil
}

// Decode parses a polyline produced by Encode.
func Decode(s string) (orb.LineString, error) {
	coords, rest, err := polylineCodec.DecodeCoords([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrEncoding, len(rest))
	}

	line := make(orb.LineString, len(coords))
	for i, c := range coords {
		line[i] = orb.Point{c[1], c[0]}
	}
	return line, nil
}
