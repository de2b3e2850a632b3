// Package store provides the SQLite-backed database for samples and
// estimate snapshots.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mohdfareed/health-vaults-sub001/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// dayFormat is the canonical TEXT encoding for day columns; it sorts
// lexicographically in date order, which the range queries rely on.
const dayFormat = "2006-01-02"

// Store provides SQLite-backed persistence for samples and snapshots.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// AddSample records one sample. A zero LoggedAt is stamped with the
// current time so per-day last-wins ordering stays well defined.
func (s *Store) AddSample(sample model.Sample, source string) error {
	loggedAt := sample.LoggedAt
	if loggedAt.IsZero() {
		loggedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(`INSERT INTO samples (metric, day, value, logged_at, source)
		VALUES (?, ?, ?, ?, ?)`,
		string(sample.Metric),
		model.DateOf(sample.Day).Format(dayFormat),
		sample.Value,
		loggedAt.UTC().Format(time.RFC3339Nano),
		source,
	)
	if err != nil {
		return fmt.Errorf("inserting sample: %w", err)
	}
	return nil
}

// AddSamples records a batch of samples in one transaction, then marks
// the originating file as imported. Re-importing an unchanged file is a
// no-op at the caller's discretion via TrackedFiles.
func (s *Store) AddSamples(samples []model.Sample, source string, filePath string, mtimeNs, sizeBytes int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`INSERT INTO samples (metric, day, value, logged_at, source)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, sample := range samples {
		loggedAt := sample.LoggedAt
		if loggedAt.IsZero() {
			loggedAt = time.Now().UTC()
		}
		_, err = stmt.Exec(
			string(sample.Metric),
			model.DateOf(sample.Day).Format(dayFormat),
			sample.Value,
			loggedAt.UTC().Format(time.RFC3339Nano),
			source,
		)
		if err != nil {
			return err
		}
	}

	if filePath != "" {
		_, err = tx.Exec(`INSERT OR REPLACE INTO file_tracker (file_path, mtime_ns, size_bytes)
			VALUES (?, ?, ?)`, filePath, mtimeNs, sizeBytes)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadSamples returns the raw samples for one metric with day in
// [from, to], ordered by day then logged time.
func (s *Store) LoadSamples(metric model.Metric, from, to time.Time) ([]model.Sample, error) {
	rows, err := s.db.Query(`SELECT metric, day, value, logged_at FROM samples
		WHERE metric = ? AND day >= ? AND day <= ?
		ORDER BY day, logged_at`,
		string(metric),
		model.DateOf(from).Format(dayFormat),
		model.DateOf(to).Format(dayFormat),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var samples []model.Sample
	for rows.Next() {
		var metricStr, dayStr, loggedStr string
		var value float64
		if err := rows.Scan(&metricStr, &dayStr, &value, &loggedStr); err != nil {
			return nil, err
		}

		day, err := time.ParseInLocation(dayFormat, dayStr, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parsing day %q: %w", dayStr, err)
		}
		loggedAt, _ := time.Parse(time.RFC3339Nano, loggedStr)

		samples = append(samples, model.Sample{
			Metric:   model.Metric(metricStr),
			Day:      day,
			Value:    value,
			LoggedAt: loggedAt,
		})
	}
	return samples, rows.Err()
}

// LoadSeries returns the aggregated daily series for one metric with
// day in [from, to].
func (s *Store) LoadSeries(metric model.Metric, from, to time.Time) (model.DailySeries, error) {
	samples, err := s.LoadSamples(metric, from, to)
	if err != nil {
		return model.DailySeries{}, err
	}
	return model.SeriesFromSamples(samples, metric), nil
}

// SaveSnapshot stores the estimate keyed by its reference date,
// replacing any earlier snapshot for the same day.
func (s *Store) SaveSnapshot(est model.MaintenanceEstimate) error {
	payload, err := json.Marshal(est)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	_, err = s.db.Exec(`INSERT OR REPLACE INTO snapshots (reference_date, estimate, created_at)
		VALUES (?, ?, ?)`,
		model.DateOf(est.ReferenceDate).Format(dayFormat),
		string(payload),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

// Snapshot returns the stored estimate for the given day, if any.
func (s *Store) Snapshot(day time.Time) (model.MaintenanceEstimate, bool, error) {
	var payload string
	err := s.db.QueryRow(`SELECT estimate FROM snapshots WHERE reference_date = ?`,
		model.DateOf(day).Format(dayFormat)).Scan(&payload)
	if err == sql.ErrNoRows {
		return model.MaintenanceEstimate{}, false, nil
	}
	if err != nil {
		return model.MaintenanceEstimate{}, false, err
	}
	return decodeSnapshot(payload)
}

// LatestSnapshot returns the most recent stored estimate, if any.
func (s *Store) LatestSnapshot() (model.MaintenanceEstimate, bool, error) {
	var payload string
	err := s.db.QueryRow(`SELECT estimate FROM snapshots
		ORDER BY reference_date DESC LIMIT 1`).Scan(&payload)
	if err == sql.ErrNoRows {
		return model.MaintenanceEstimate{}, false, nil
	}
	if err != nil {
		return model.MaintenanceEstimate{}, false, err
	}
	return decodeSnapshot(payload)
}

func decodeSnapshot(payload string) (model.MaintenanceEstimate, bool, error) {
	var est model.MaintenanceEstimate
	if err := json.Unmarshal([]byte(payload), &est); err != nil {
		return model.MaintenanceEstimate{}, false, fmt.Errorf("decoding snapshot: %w", err)
	}
	return est, true, nil
}

// FileInfo holds the tracked mtime and size for an imported file.
type FileInfo struct {
	MtimeNs   int64
	SizeBytes int64
}

// TrackedFiles returns a map of file_path -> FileInfo for every file
// already imported.
func (s *Store) TrackedFiles() (map[string]FileInfo, error) {
	rows, err := s.db.Query("SELECT file_path, mtime_ns, size_bytes FROM file_tracker")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]FileInfo)
	for rows.Next() {
		var path string
		var fi FileInfo
		if err := rows.Scan(&path, &fi.MtimeNs, &fi.SizeBytes); err != nil {
			return nil, err
		}
		result[path] = fi
	}
	return result, rows.Err()
}

// DeleteFileSamples removes an import's samples and tracking entry so a
// changed file can be re-imported cleanly.
func (s *Store) DeleteFileSamples(filePath string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM samples WHERE source = ?", filePath); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM file_tracker WHERE file_path = ?", filePath); err != nil {
		return err
	}
	return tx.Commit()
}

// SampleCount returns the number of stored samples.
func (s *Store) SampleCount() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM samples").Scan(&count)
	return count, err
}
