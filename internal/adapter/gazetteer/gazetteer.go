// Package gazetteer provides a file-backed location → coordinate lookup used
// to fill coordinates for observation rows that lack them.
package gazetteer

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/escapement-etl/internal/domain"
)

// Table is an in-memory gazetteer loaded from a YAML file.
// It implements domain.Gazetteer. Lookups are case-insensitive.
type Table struct {
	entries map[string]domain.Coordinate
}

// fileEntry is one site in the YAML gazetteer:
//
//	sites:
//	  - location: Kvichak River
//	    lat: 59.05
//	    lon: -156.85
type fileEntry struct {
	Location string  `yaml:"location"`
	Lat      float64 `yaml:"lat"`
	Lon      float64 `yaml:"lon"`
}

type fileFormat struct {
	Sites []fileEntry `yaml:"sites"`
}

// Load reads a gazetteer YAML file. Entries with an empty location are
// rejected; duplicate locations keep the last entry.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read gazetteer: %w", err)
	}
	return Parse(data)
}

// Parse decodes gazetteer YAML content.
func Parse(data []byte) (*Table, error) {
	var file fileFormat
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse gazetteer: %w", err)
	}

	entries := make(map[string]domain.Coordinate, len(file.Sites))
	for i, site := range file.Sites {
		if strings.TrimSpace(site.Location) == "" {
			return nil, fmt.Errorf("parse gazetteer: site %d has no location", i)
		}
		entries[normalize(site.Location)] = domain.Coordinate{Lat: site.Lat, Lon: site.Lon}
	}
	return &Table{entries: entries}, nil
}

// Lookup resolves a location name to coordinates.
func (t *Table) Lookup(location string) (domain.Coordinate, bool) {
	c, ok := t.entries[normalize(location)]
	return c, ok
}

// Len reports the number of sites in the table.
func (t *Table) Len() int {
	return len(t.entries)
}

func normalize(location string) string {
	return strings.ToLower(strings.TrimSpace(location))
}
