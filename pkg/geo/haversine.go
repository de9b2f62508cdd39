package geo

import (
	"math"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

// metersPerDegreeLat is the length of one degree of latitude on the sphere
// orb uses for haversine distances.
const metersPerDegreeLat = orb.EarthRadius * math.Pi / 180

// Distance returns the great-circle distance in meters between two points.
func Distance(a, b orb.Point) float64 {
	return orbgeo.DistanceHaversine(a, b)
}

// Point builds an orb point from latitude and longitude.
func Point(lat, lon float64) orb.Point {
	return orb.Point{lon, lat}
}

// BoundAround returns a box containing every point within radius meters of p.
// The box is not wrapped: near the antimeridian its longitudes leave
// [-180, 180]. Use SearchBounds for index queries.
func BoundAround(p orb.Point, radius float64) orb.Bound {
	dLat := radius / metersPerDegreeLat
	cosLat := math.Cos(p.Lat() * math.Pi / 180)
	dLon := 180.0
	if cosLat > 1e-9 {
		dLon = math.Min(180, dLat/cosLat)
	}
	return orb.Bound{
		Min: orb.Point{p.Lon() - dLon, p.Lat() - dLat},
		Max: orb.Point{p.Lon() + dLon, p.Lat() + dLat},
	}
}

// SearchBounds returns BoundAround(p, radius) clipped to valid coordinates.
// A box crossing the antimeridian is split in two, one per side.
func SearchBounds(p orb.Point, radius float64) []orb.Bound {
	b := BoundAround(p, radius)
	minLat := math.Max(b.Min.Lat(), -90)
	maxLat := math.Min(b.Max.Lat(), 90)
	minLon, maxLon := b.Min.Lon(), b.Max.Lon()

	switch {
	case maxLon-minLon >= 360:
		return []orb.Bound{{Min: orb.Point{-180, minLat}, Max: orb.Point{180, maxLat}}}
	case minLon < -180:
		return []orb.Bound{
			{Min: orb.Point{-180, minLat}, Max: orb.Point{maxLon, maxLat}},
			{Min: orb.Point{minLon + 360, minLat}, Max: orb.Point{180, maxLat}},
		}
	case maxLon > 180:
		return []orb.Bound{
			{Min: orb.Point{minLon, minLat}, Max: orb.Point{180, maxLat}},
			{Min: orb.Point{-180, minLat}, Max: orb.Point{maxLon - 360, maxLat}},
		}
	}
	return []orb.Bound{{Min: orb.Point{minLon, minLat}, Max: orb.Point{maxLon, maxLat}}}
}

// Valid reports whether p is a finite WGS84 coordinate.
func Valid(p orb.Point) bool {
	lon, lat := p.Lon(), p.Lat()
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
