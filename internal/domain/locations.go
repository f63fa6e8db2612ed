package domain

import (
	"math"
	"sort"
)

// DistinctLocations reduces observations to one LocationPoint per distinct
// location. Observations without a coordinate pair contribute nothing: a
// location is only emitted once some observation carries coordinates for it,
// and the first such observation wins. Output is sorted by location name.
func DistinctLocations(observations []Observation) []LocationPoint {
	seen := make(map[string]bool)
	var points []LocationPoint
	for _, obs := range observations {
		if obs.Coord == nil || seen[obs.Location] {
			continue
		}
		seen[obs.Location] = true
		points = append(points, LocationPoint{
			Location: obs.Location,
			Lat:      obs.Coord.Lat,
			Lon:      obs.Coord.Lon,
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Location < points[j].Location })
	return points
}

// SanitizeLongitudes forces every longitude into the western hemisphere by
// replacing it with -abs(longitude). Idempotent; total over any float input.
// See the package documentation for why this narrow repair is correct here.
func SanitizeLongitudes(points []LocationPoint) []LocationPoint {
	sanitized := make([]LocationPoint, len(points))
	for i, p := range points {
		p.Lon = -math.Abs(p.Lon)
		sanitized[i] = p
	}
	return sanitized
}
