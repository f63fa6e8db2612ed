package domain

import "time"

// Coordinate is a WGS-84 latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Observation is one daily fish count at a sampling location.
// Coord is nil when the source row carried no usable coordinate pair.
type Observation struct {
	Species    string
	Region     string
	SampleDate time.Time
	Location   string
	Count      int
	Coord      *Coordinate
}

// Year returns the calendar year of the observation, which keys the
// per-location aggregation group together with species, region, and location.
func (o Observation) Year() int {
	return o.SampleDate.Year()
}

// SummaryRow is the per-species output of the aggregator: the median of the
// per-(region, year, location) summed escapements for that species.
type SummaryRow struct {
	Species          string  `json:"species"`
	MedianEscapement float64 `json:"median_escapement"`
	Groups           int     `json:"groups"`
}

// LocationPoint is one distinct sampling location with its coordinates,
// destined for the map renderer. Longitude is negative after sanitization.
type LocationPoint struct {
	Location string  `json:"location"`
	Lat      float64 `json:"latitude"`
	Lon      float64 `json:"longitude"`
}

// RunResult bundles the derived outputs of one pipeline run.
type RunResult struct {
	Summary     []SummaryRow    `json:"summary"`
	Locations   []LocationPoint `json:"locations"`
	RecordCount int             `json:"record_count"`
	GeneratedAt time.Time       `json:"generated_at"`
}
