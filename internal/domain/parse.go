package domain

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// CSV column names of the escapement dataset.
const (
	ColSampleDate = "sampleDate"
	ColSpecies    = "Species"
	ColRegion     = "SASAP.Region"
	ColLocation   = "Location"
	ColDailyCount = "DailyCount"
	ColLatitude   = "Latitude"
	ColLongitude  = "Longitude"
)

const sampleDateLayout = "2006-01-02"

// requiredColumns must all be present in the header. Latitude and Longitude
// are optional; rows without them are simply excluded from the location table.
var requiredColumns = []string{ColSampleDate, ColSpecies, ColRegion, ColLocation, ColDailyCount}

// ParseObservations decodes the escapement CSV into observations.
// Any contract violation (missing required column, bad sampleDate, invalid
// DailyCount, zero data rows) returns a *MalformedInputError and no rows.
func ParseObservations(r io.Reader) ([]Observation, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // ragged rows are handled per-field below

	header, err := cr.Read()
	if err != nil {
		return nil, &MalformedInputError{Reason: fmt.Sprintf("read header: %v", err)}
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, &MalformedInputError{Column: col, Reason: "required column missing"}
		}
	}

	var observations []Observation
	line := 1 // header consumed
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, &MalformedInputError{Line: line, Reason: fmt.Sprintf("read row: %v", err)}
		}

		obs, err := parseRow(row, idx, line)
		if err != nil {
			return nil, err
		}
		observations = append(observations, obs)
	}

	if len(observations) == 0 {
		return nil, &MalformedInputError{Reason: "dataset contains no data rows"}
	}
	return observations, nil
}

func parseRow(row []string, idx map[string]int, line int) (Observation, error) {
	field := func(col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	sampleDate, err := time.Parse(sampleDateLayout, field(ColSampleDate))
	if err != nil {
		return Observation{}, &MalformedInputError{
			Line:   line,
			Column: ColSampleDate,
			Reason: fmt.Sprintf("want YYYY-MM-DD, got %q", field(ColSampleDate)),
		}
	}

	count, err := strconv.Atoi(field(ColDailyCount))
	if err != nil || count < 0 {
		return Observation{}, &MalformedInputError{
			Line:   line,
			Column: ColDailyCount,
			Reason: fmt.Sprintf("want non-negative integer, got %q", field(ColDailyCount)),
		}
	}

	return Observation{
		Species:    field(ColSpecies),
		Region:     field(ColRegion),
		SampleDate: sampleDate,
		Location:   field(ColLocation),
		Count:      count,
		Coord:      parseCoordinate(field(ColLatitude), field(ColLongitude)),
	}, nil
}

// parseCoordinate returns nil unless both fields hold valid floats.
// Coordinates are best-effort: a bad value drops the pair, never the row.
func parseCoordinate(latStr, lonStr string) *Coordinate {
	if latStr == "" || lonStr == "" {
		return nil
	}
	lat, errLat := strconv.ParseFloat(latStr, 64)
	lon, errLon := strconv.ParseFloat(lonStr, 64)
	if errLat != nil || errLon != nil {
		return nil
	}
	return &Coordinate{Lat: lat, Lon: lon}
}
