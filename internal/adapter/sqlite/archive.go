// Package sqlite persists each run's derived tables so past runs can be
// inspected with escapementctl. It implements pipeline.Loader.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver

	"github.com/couchcryptid/escapement-etl/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	generated_at TEXT NOT NULL,
	record_count INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS summary_rows (
	run_id INTEGER NOT NULL REFERENCES runs(id),
	species TEXT NOT NULL,
	median_escapement REAL NOT NULL,
	group_count INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS location_points (
	run_id INTEGER NOT NULL REFERENCES runs(id),
	location TEXT NOT NULL,
	latitude REAL NOT NULL,
	longitude REAL NOT NULL
);
`

// Archive is a sqlite-backed store of completed runs.
type Archive struct {
	db *sql.DB
}

// RunInfo describes one archived run.
type RunInfo struct {
	ID          int64
	GeneratedAt time.Time
	RecordCount int
	Species     int
	Locations   int
}

// Open opens (creating if needed) the archive database at path.
func Open(path string) (*Archive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create archive schema: %w", err)
	}
	return &Archive{db: db}, nil
}

func (a *Archive) Close() error {
	return a.db.Close()
}

// Load stores a run's derived tables in one transaction.
func (a *Archive) Load(ctx context.Context, result domain.RunResult) error {
	_, err := a.SaveRun(ctx, result)
	return err
}

// SaveRun inserts the run and its rows, returning the new run ID.
func (a *Archive) SaveRun(ctx context.Context, result domain.RunResult) (int64, error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("archive run: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (generated_at, record_count) VALUES (?, ?)`,
		result.GeneratedAt.UTC().Format(time.RFC3339), result.RecordCount)
	if err != nil {
		return 0, fmt.Errorf("archive run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("archive run: %w", err)
	}

	for _, row := range result.Summary {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO summary_rows (run_id, species, median_escapement, group_count) VALUES (?, ?, ?, ?)`,
			runID, row.Species, row.MedianEscapement, row.Groups); err != nil {
			return 0, fmt.Errorf("archive summary row: %w", err)
		}
	}
	for _, point := range result.Locations {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO location_points (run_id, location, latitude, longitude) VALUES (?, ?, ?, ?)`,
			runID, point.Location, point.Lat, point.Lon); err != nil {
			return 0, fmt.Errorf("archive location point: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("archive run: %w", err)
	}
	return runID, nil
}

// ListRuns returns the most recent runs, newest first.
func (a *Archive) ListRuns(ctx context.Context, limit int) ([]RunInfo, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT r.id, r.generated_at, r.record_count,
			(SELECT COUNT(*) FROM summary_rows s WHERE s.run_id = r.id),
			(SELECT COUNT(*) FROM location_points p WHERE p.run_id = r.id)
		FROM runs r
		ORDER BY r.id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var info RunInfo
		var generatedAt string
		if err := rows.Scan(&info.ID, &generatedAt, &info.RecordCount, &info.Species, &info.Locations); err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		if info.GeneratedAt, err = time.Parse(time.RFC3339, generatedAt); err != nil {
			return nil, fmt.Errorf("list runs: bad generated_at %q: %w", generatedAt, err)
		}
		runs = append(runs, info)
	}
	return runs, rows.Err()
}

// GetRun reconstructs one archived run. Returns sql.ErrNoRows when absent.
func (a *Archive) GetRun(ctx context.Context, runID int64) (domain.RunResult, error) {
	var result domain.RunResult
	var generatedAt string
	err := a.db.QueryRowContext(ctx,
		`SELECT generated_at, record_count FROM runs WHERE id = ?`, runID).
		Scan(&generatedAt, &result.RecordCount)
	if err != nil {
		return domain.RunResult{}, fmt.Errorf("get run %d: %w", runID, err)
	}
	if result.GeneratedAt, err = time.Parse(time.RFC3339, generatedAt); err != nil {
		return domain.RunResult{}, fmt.Errorf("get run %d: bad generated_at: %w", runID, err)
	}

	rows, err := a.db.QueryContext(ctx,
		`SELECT species, median_escapement, group_count FROM summary_rows WHERE run_id = ? ORDER BY species`, runID)
	if err != nil {
		return domain.RunResult{}, fmt.Errorf("get run %d: %w", runID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var row domain.SummaryRow
		if err := rows.Scan(&row.Species, &row.MedianEscapement, &row.Groups); err != nil {
			return domain.RunResult{}, fmt.Errorf("get run %d: %w", runID, err)
		}
		result.Summary = append(result.Summary, row)
	}
	if err := rows.Err(); err != nil {
		return domain.RunResult{}, fmt.Errorf("get run %d: %w", runID, err)
	}

	points, err := a.db.QueryContext(ctx,
		`SELECT location, latitude, longitude FROM location_points WHERE run_id = ? ORDER BY location`, runID)
	if err != nil {
		return domain.RunResult{}, fmt.Errorf("get run %d: %w", runID, err)
	}
	defer points.Close()
	for points.Next() {
		var p domain.LocationPoint
		if err := points.Scan(&p.Location, &p.Lat, &p.Lon); err != nil {
			return domain.RunResult{}, fmt.Errorf("get run %d: %w", runID, err)
		}
		result.Locations = append(result.Locations, p)
	}
	return result, points.Err()
}
