// Package storage is the SQLite persistence for saved form parameters and
// the analytics events written by the worker.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"savings/internal/amqp"
	"savings/internal/params"
)

// SQLiteRepository implements params.Store and records projection events.
type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

// Stats summarises the recorded projection events.
type Stats struct {
	Count          int64
	AvgFinalTotal  float64
	AvgTotalMonths float64
	LastRecordedAt time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	if err := RunMigrations(dbPath); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// a single writer avoids SQLITE_BUSY between the server goroutines
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &SQLiteRepository{db: db, now: time.Now}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Load implements params.Store
func (r *SQLiteRepository) Load(ctx context.Context, clientID string) (params.Saved, error) {
	var payload string
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM saved_params WHERE client_id = ?`,
		strings.TrimSpace(clientID),
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return params.Saved{}, params.ErrNotFound
	}
	if err != nil {
		return params.Saved{}, fmt.Errorf("query saved params: %w", err)
	}
	return params.Unmarshal([]byte(payload))
}

// Save implements params.Store
func (r *SQLiteRepository) Save(ctx context.Context, clientID string, saved params.Saved) error {
	payload, err := params.Marshal(saved)
	if err != nil {
		return fmt.Errorf("marshal saved params: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO saved_params (client_id, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(client_id) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		strings.TrimSpace(clientID), string(payload), r.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert saved params: %w", err)
	}
	return nil
}

// RecordProjectionEvent appends one analytics event.
func (r *SQLiteRepository) RecordProjectionEvent(ctx context.Context, ev *amqp.ProjectionEvent) error {
	ts := ev.Timestamp
	if ts.IsZero() {
		ts = r.now()
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO projection_events (
			client_id, initial_amount, monthly_amount, annual_rate,
			total_months, final_total, lang, currency, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ClientID, ev.InitialAmount, ev.MonthlyAmount, ev.AnnualRate,
		ev.TotalMonths, ev.FinalTotal, ev.Language, ev.Currency,
		ts.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert projection event: %w", err)
	}

	id, _ := res.LastInsertId()
	slog.DebugContext(ctx, "Projection event recorded", "id", id, "total_months", ev.TotalMonths)
	return nil
}

// ProjectionStats aggregates every recorded event.
func (r *SQLiteRepository) ProjectionStats(ctx context.Context) (Stats, error) {
	var (
		s    Stats
		last sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(AVG(final_total), 0),
		       COALESCE(AVG(total_months), 0),
		       MAX(created_at)
		FROM projection_events`,
	).Scan(&s.Count, &s.AvgFinalTotal, &s.AvgTotalMonths, &last)
	if err != nil {
		return Stats{}, fmt.Errorf("query projection stats: %w", err)
	}

	if last.Valid {
		t, err := time.Parse(time.RFC3339Nano, last.String)
		if err != nil {
			return Stats{}, fmt.Errorf("parse last event time: %w", err)
		}
		s.LastRecordedAt = t
	}
	return s, nil
}
