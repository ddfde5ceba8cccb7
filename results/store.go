// Package results persists benchmark runs in a SQLite database so that
// sweeps can be accumulated across invocations and summarized later.
package results

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"parbench/train"
)

type Store struct {
	db *sql.DB
}

// SummaryRow aggregates stored runs for one model at one input width.
type SummaryRow struct {
	Model       string
	Bits        int
	Runs        int
	AvgAccuracy float64
	Perfect     int
}

// Open opens (creating if needed) the run database at dbPath.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	store := &Store{db: db}
	if err := store.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		model TEXT NOT NULL,
		fn TEXT NOT NULL,
		bits INTEGER NOT NULL,
		hidden INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		epochs INTEGER NOT NULL,
		learning_rate FLOAT NOT NULL,
		final_loss FLOAT,
		accuracy FLOAT NOT NULL,
		perfect INTEGER NOT NULL,
		duration_ms INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_runs_model ON runs(model);
	CREATE INDEX IF NOT EXISTS idx_runs_fn_bits ON runs(fn, bits);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveRun records one finished run and returns its row id.
func (s *Store) SaveRun(r train.Result) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO runs (model, fn, bits, hidden, seed, epochs, learning_rate, final_loss, accuracy, perfect, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Model, r.Fn, r.Bits, r.Hidden, r.Seed, r.Epochs,
		r.LearningRate, r.FinalLoss, r.Accuracy, r.Perfect,
		r.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	return res.LastInsertId()
}

// Runs returns stored runs, newest first. Empty model/fn and bits of 0
// leave that field unfiltered.
func (s *Store) Runs(model, fn string, bits int) ([]train.Result, error) {
	query := `
		SELECT model, fn, bits, hidden, seed, epochs, learning_rate, final_loss, accuracy, perfect, duration_ms
		FROM runs
		WHERE (? = '' OR model = ?)
		  AND (? = '' OR fn = ?)
		  AND (? = 0 OR bits = ?)
		ORDER BY id DESC`
	rows, err := s.db.Query(query, model, model, fn, fn, bits, bits)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []train.Result
	for rows.Next() {
		var r train.Result
		var ms int64
		err := rows.Scan(&r.Model, &r.Fn, &r.Bits, &r.Hidden, &r.Seed,
			&r.Epochs, &r.LearningRate, &r.FinalLoss, &r.Accuracy,
			&r.Perfect, &ms)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.Duration = time.Duration(ms) * time.Millisecond
		out = append(out, r)
	}

	return out, rows.Err()
}

// Summary aggregates all stored runs per model and input width.
func (s *Store) Summary() ([]SummaryRow, error) {
	rows, err := s.db.Query(`
		SELECT model, bits,
			COUNT(*) as runs,
			AVG(accuracy) as avg_accuracy,
			SUM(CASE WHEN perfect THEN 1 ELSE 0 END) as perfect
		FROM runs
		GROUP BY model, bits
		ORDER BY model, bits`)
	if err != nil {
		return nil, fmt.Errorf("querying summary: %w", err)
	}
	defer rows.Close()

	var out []SummaryRow
	for rows.Next() {
		var row SummaryRow
		if err := rows.Scan(&row.Model, &row.Bits, &row.Runs, &row.AvgAccuracy, &row.Perfect); err != nil {
			return nil, fmt.Errorf("scanning summary: %w", err)
		}
		out = append(out, row)
	}

	return out, rows.Err()
}

// TotalRuns returns the number of stored runs.
func (s *Store) TotalRuns() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&count)
	return count, err
}

func (s *Store) Close() error {
	return s.db.Close()
}
