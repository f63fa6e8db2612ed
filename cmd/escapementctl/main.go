// Command escapementctl inspects the run archive written by the ETL service
// when ARCHIVE_ENABLED is set.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/couchcryptid/escapement-etl/internal/adapter/sqlite"
)

func main() {
	app := &cli.App{
		Name:  "escapementctl",
		Usage: "inspect archived escapement ETL runs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db",
				Usage:   "path to the run archive database",
				Value:   "data/escapement_runs.db",
				EnvVars: []string{"ARCHIVE_PATH"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "runs",
				Usage: "list archived runs, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Usage: "maximum runs to list", Value: 20},
				},
				Action: runsAction,
			},
			{
				Name:      "show",
				Usage:     "show the derived tables of one run",
				ArgsUsage: "<run-id>",
				Action:    showAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openArchive(c *cli.Context) (*sqlite.Archive, error) {
	path := c.String("db")
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("archive %s not found (is ARCHIVE_ENABLED set on the service?): %w", path, err)
	}
	return sqlite.Open(path)
}

func runsAction(c *cli.Context) error {
	archive, err := openArchive(c)
	if err != nil {
		return err
	}
	defer archive.Close()

	runs, err := archive.ListRuns(c.Context, c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No archived runs found")
		return nil
	}

	fmt.Printf("%-6s %-22s %-10s %-8s %-10s\n", "ID", "Generated", "Records", "Species", "Locations")
	fmt.Println(strings.Repeat("-", 60))
	for _, r := range runs {
		fmt.Printf("%-6d %-22s %-10d %-8d %-10d\n",
			r.ID,
			r.GeneratedAt.Format("2006-01-02 15:04:05"),
			r.RecordCount,
			r.Species,
			r.Locations,
		)
	}

	fmt.Printf("\nTotal: %d runs\n", len(runs))
	fmt.Printf("\nTip: Use 'escapementctl show <id>' to see a run's tables\n")
	return nil
}

func showAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: escapementctl show <run-id>")
	}
	var runID int64
	if _, err := fmt.Sscanf(c.Args().First(), "%d", &runID); err != nil {
		return fmt.Errorf("invalid run ID %q", c.Args().First())
	}

	archive, err := openArchive(c)
	if err != nil {
		return err
	}
	defer archive.Close()

	result, err := archive.GetRun(c.Context, runID)
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}

	fmt.Printf("Run %d\n", runID)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Generated: %s\n", result.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Records:   %d\n\n", result.RecordCount)

	fmt.Printf("%-30s %-18s %-8s\n", "Species", "Median escapement", "Groups")
	fmt.Println(strings.Repeat("-", 58))
	for _, row := range result.Summary {
		fmt.Printf("%-30s %-18g %-8d\n", row.Species, row.MedianEscapement, row.Groups)
	}

	fmt.Printf("\n%-30s %-12s %-12s\n", "Location", "Latitude", "Longitude")
	fmt.Println(strings.Repeat("-", 56))
	for _, p := range result.Locations {
		fmt.Printf("%-30s %-12g %-12g\n", p.Location, p.Lat, p.Lon)
	}

	return nil
}
