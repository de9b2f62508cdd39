package osm

import (
	"github.com/paulmach/osm"

	"cycle_router/pkg/config"
)

// WayFilter decides whether a way can carry bicycles.
type WayFilter struct {
	paved map[string]bool
	deny  map[config.Tag]bool
}

// NewWayFilter builds a filter from configured allow and deny lists.
func NewWayFilter(rules config.FilterRules) *WayFilter {
	f := &WayFilter{
		paved: make(map[string]bool, len(rules.PavedSurfaces)),
		deny:  make(map[config.Tag]bool, len(rules.DenyTags)),
	}
	for _, s := range rules.PavedSurfaces {
		f.paved[s] = true
	}
	for _, t := range rules.DenyTags {
		f.deny[t] = true
	}
	return f
}

// IsCyclable returns true if the way is a road, is paved (or does not say),
// and carries none of the denied tags.
func (f *WayFilter) IsCyclable(tags osm.Tags) bool {
	if !tags.HasTag("highway") {
		return false
	}

	if tags.HasTag("surface") && !f.paved[tags.Find("surface")] {
		return false
	}

	for _, t := range tags {
		if f.deny[config.Tag{Key: t.Key, Value: t.Value}] {
			return false
		}
	}

	return true
}

// Direction returns (forward, backward) for a cyclable way.
func Direction(tags osm.Tags) (forward, backward bool) {
	forward = true
	backward = true

	switch tags.Find("oneway") {
	case "yes", "true", "1":
		backward = false
	case "-1", "reverse":
		forward = false
	}

	// Contraflow cycling on an otherwise one-way street.
	if tags.Find("oneway:bicycle") == "no" {
		forward, backward = true, true
	}

	return forward, backward
}
