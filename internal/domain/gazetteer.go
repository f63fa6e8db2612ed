package domain

import "log/slog"

// Gazetteer resolves a sampling location name to coordinates.
// Implementations are expected to be in-memory lookups; misses are normal.
type Gazetteer interface {
	Lookup(location string) (Coordinate, bool)
}

// FillCoordinates returns a copy of the observations with missing coordinates
// filled from the gazetteer where possible. A nil gazetteer disables the
// enrichment. Observations that stay without coordinates are left as-is and
// will be dropped later by DistinctLocations.
func FillCoordinates(observations []Observation, g Gazetteer, logger *slog.Logger) []Observation {
	if g == nil {
		return observations
	}

	filled := make([]Observation, len(observations))
	misses := make(map[string]bool)
	for i, obs := range observations {
		if obs.Coord == nil {
			if coord, ok := g.Lookup(obs.Location); ok {
				c := coord
				obs.Coord = &c
			} else if !misses[obs.Location] {
				misses[obs.Location] = true
				logger.Debug("location not in gazetteer", "location", obs.Location)
			}
		}
		filled[i] = obs
	}
	return filled
}
