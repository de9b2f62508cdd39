package geo

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name             string
		a, b             orb.Point
		wantMeters       float64
		tolerancePercent float64
	}{
		{
			name:             "Tokyo Station to Shinjuku Station",
			a:                Point(35.6812, 139.7671),
			b:                Point(35.6896, 139.7006),
			wantMeters:       6_070,
			tolerancePercent: 1,
		},
		{
			name:             "One degree of meridian",
			a:                Point(0, 0),
			b:                Point(1, 0),
			wantMeters:       110_574, // geodesic length at the equator
			tolerancePercent: 1,
		},
		{
			name:             "London to Paris",
			a:                Point(51.5074, -0.1278),
			b:                Point(48.8566, 2.3522),
			wantMeters:       343_500,
			tolerancePercent: 1,
		},
		{
			name:             "Short distance (~100m)",
			a:                Point(35.0000, 135.0000),
			b:                Point(35.0009, 135.0000),
			wantMeters:       100,
			tolerancePercent: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			diff := math.Abs(got-tt.wantMeters) / tt.wantMeters * 100
			if diff > tt.tolerancePercent {
				t.Errorf("Distance = %f m, want ~%f m (diff %.2f%%)", got, tt.wantMeters, diff)
			}
		})
	}
}

func TestDistanceSamePoint(t *testing.T) {
	p := Point(34.6937, 135.5023)
	if got := Distance(p, p); got != 0 {
		t.Errorf("Distance(p, p) = %f, want 0", got)
	}
}

func TestDistanceSymmetric(t *testing.T) {
	pairs := [][2]orb.Point{
		{Point(35.6812, 139.7671), Point(34.6937, 135.5023)},
		{Point(-33.8688, 151.2093), Point(51.5074, -0.1278)},
		{Point(0, 179.9), Point(0, -179.9)},
	}
	for _, p := range pairs {
		ab := Distance(p[0], p[1])
		ba := Distance(p[1], p[0])
		if ab != ba {
			t.Errorf("Distance(%v, %v) = %f, reverse = %f", p[0], p[1], ab, ba)
		}
	}
}

func TestBoundAround(t *testing.T) {
	center := Point(35.0, 135.0)
	b := BoundAround(center, 500)

	if !b.Contains(center) {
		t.Fatal("bound does not contain its center")
	}
	// A point 400 m north must be inside, one 600 m north outside.
	inside := Point(35.0+400/metersPerDegreeLat, 135.0)
	outside := Point(35.0+600/metersPerDegreeLat, 135.0)
	if !b.Contains(inside) {
		t.Errorf("bound %v should contain %v", b, inside)
	}
	if b.Contains(outside) {
		t.Errorf("bound %v should not contain %v", b, outside)
	}
	// East-west extent is wider than north-south away from the equator.
	if b.Max.Lon()-b.Min.Lon() <= b.Max.Lat()-b.Min.Lat() {
		t.Errorf("longitude span should exceed latitude span at 35N: %v", b)
	}
}

func TestSearchBounds(t *testing.T) {
	if got := SearchBounds(Point(35.0, 135.0), 500); len(got) != 1 {
		t.Fatalf("away from the antimeridian: %d boxes, want 1", len(got))
	}

	tests := []struct {
		name   string
		center orb.Point
		across orb.Point // just over the antimeridian, within 500 m
	}{
		{"west of 180", Point(0, 179.999), Point(0, -179.999)},
		{"east of -180", Point(0, -179.999), Point(0, 179.999)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			boxes := SearchBounds(tt.center, 500)
			if len(boxes) != 2 {
				t.Fatalf("got %d boxes, want 2", len(boxes))
			}
			var hasCenter, hasAcross bool
			for _, b := range boxes {
				if b.Min.Lon() < -180 || b.Max.Lon() > 180 {
					t.Errorf("box %v leaves the longitude range", b)
				}
				hasCenter = hasCenter || b.Contains(tt.center)
				hasAcross = hasAcross || b.Contains(tt.across)
			}
			if !hasCenter || !hasAcross {
				t.Errorf("boxes %v: contains center %v, across %v", boxes, hasCenter, hasAcross)
			}
		})
	}

	// Near a pole the box spans every longitude.
	polar := SearchBounds(Point(90, 10), 500)
	if len(polar) != 1 || polar[0].Min.Lon() != -180 || polar[0].Max.Lon() != 180 || polar[0].Max.Lat() != 90 {
		t.Errorf("polar boxes = %v, want one full-width box clipped at 90", polar)
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		p    orb.Point
		want bool
	}{
		{Point(35, 135), true},
		{Point(90, 180), true},
		{Point(91, 0), false},
		{Point(0, -181), false},
		{orb.Point{math.NaN(), 0}, false},
		{orb.Point{0, math.Inf(1)}, false},
	}
	for _, tt := range tests {
		if got := Valid(tt.p); got != tt.want {
			t.Errorf("Valid(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func BenchmarkDistance(b *testing.B) {
	p, q := Point(35.6812, 139.7671), Point(35.6896, 139.7006)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Distance(p, q)
	}
}
