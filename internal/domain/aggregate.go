package domain

import "sort"

// groupKey identifies one per-location-year aggregation group.
type groupKey struct {
	species  string
	region   string
	year     int
	location string
}

// SummarizeEscapement computes the per-species median escapement.
//
// Step 1 partitions observations by (species, region, year, location) and
// sums DailyCount within each group. Step 2 takes, per species, the median
// of those per-group sums. One row is returned per distinct species, sorted
// by species name so output artifacts are stable across runs.
func SummarizeEscapement(observations []Observation) []SummaryRow {
	sums := make(map[groupKey]int)
	for _, obs := range observations {
		key := groupKey{
			species:  obs.Species,
			region:   obs.Region,
			year:     obs.Year(),
			location: obs.Location,
		}
		sums[key] += obs.Count
	}

	escapements := make(map[string][]float64)
	for key, total := range sums {
		escapements[key.species] = append(escapements[key.species], float64(total))
	}

	rows := make([]SummaryRow, 0, len(escapements))
	for species, values := range escapements {
		rows = append(rows, SummaryRow{
			Species:          species,
			MedianEscapement: median(values),
			Groups:           len(values),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Species < rows[j].Species })
	return rows
}

// median returns the middle value of the sorted input, or the mean of the
// two central values for an even-length input. The slice is sorted in place.
func median(values []float64) float64 {
	sort.Float64s(values)
	n := len(values)
	if n%2 == 1 {
		return values[n/2]
	}
	return (values[n/2-1] + values[n/2]) / 2
}
