// Package store persists analysis runs in sqlite. Each run keeps both the
// full report document and normalized flaw rows, so per-flaw queries never
// need to unpack JSON.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/hooplab/shotform/internal/analysis"
)

// ErrRunNotFound is returned when a requested run id does not exist.
var ErrRunNotFound = errors.New("run not found")

type Store struct {
	*sql.DB
}

// Open opens (creating if needed) the sqlite database at path. The caller
// must run MigrateUp before using the store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL; PRAGMA foreign_keys = ON;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	return &Store{db}, nil
}

// RunSummary is one row of the run listing.
type RunSummary struct {
	RunID         uuid.UUID `json:"run_id"`
	CreatedAt     time.Time `json:"created_at"`
	FPS           float64   `json:"fps"`
	CameraAngle   string    `json:"camera_angle"`
	FlawCount     int       `json:"flaw_count"`
	TopFlaw       string    `json:"top_flaw,omitempty"`
	FluidityScore *float64  `json:"fluidity_score,omitempty"`
}

// SaveReport persists one analysis run atomically.
func (s *Store) SaveReport(ctx context.Context, r *analysis.Report) error {
	doc, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	var fluidity *float64
	if r.Fluidity != nil {
		fluidity = &r.Fluidity.Score
	}
	var topFlaw string
	if len(r.Flaws) > 0 {
		topFlaw = string(r.Flaws[0].ID)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (run_id, created_at, fps, start_frame, start_method,
			start_confidence, camera_angle, camera_confidence, flaw_count,
			top_flaw, fluidity_score, report)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID.String(), r.CreatedAt, r.FPS, r.ShotStart.StartFrame,
		string(r.ShotStart.Method), r.ShotStart.Confidence,
		string(r.Profile.Angle), r.Profile.Confidence, len(r.Flaws),
		topFlaw, fluidity, string(doc))
	if err != nil {
		return fmt.Errorf("insert run %s: %w", r.RunID, err)
	}

	for _, f := range r.Flaws {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO flaws (run_id, flaw_id, severity, phase, frame_number,
				description, coaching_tip, drill_suggestion, camera_context)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.RunID.String(), string(f.ID), f.Severity, string(f.Phase),
			f.FrameNumber, f.Description, f.CoachingTip, f.DrillSuggestion,
			f.CameraContext)
		if err != nil {
			return fmt.Errorf("insert flaw %s for run %s: %w", f.ID, r.RunID, err)
		}
	}

	for _, p := range r.Phases {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_phases (run_id, name, start_frame, end_frame, key_moment_frame)
			VALUES (?, ?, ?, ?, ?)`,
			r.RunID.String(), string(p.Name), p.Start, p.End, p.KeyMoment)
		if err != nil {
			return fmt.Errorf("insert phase %s for run %s: %w", p.Name, r.RunID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run %s: %w", r.RunID, err)
	}
	return nil
}

// GetRun returns the full report for one run.
func (s *Store) GetRun(ctx context.Context, id uuid.UUID) (*analysis.Report, error) {
	var doc string
	err := s.QueryRowContext(ctx,
		`SELECT report FROM runs WHERE run_id = ?`, id.String()).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query run %s: %w", id, err)
	}

	var r analysis.Report
	if err := json.Unmarshal([]byte(doc), &r); err != nil {
		return nil, fmt.Errorf("unmarshal run %s: %w", id, err)
	}
	return &r, nil
}

// ListRuns returns summaries of the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.QueryContext(ctx, `
		SELECT run_id, created_at, fps, camera_angle, flaw_count, top_flaw, fluidity_score
		FROM runs ORDER BY created_at DESC, run_id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			summary RunSummary
			rawID   string
			topFlaw sql.NullString
			score   sql.NullFloat64
		)
		if err := rows.Scan(&rawID, &summary.CreatedAt, &summary.FPS,
			&summary.CameraAngle, &summary.FlawCount, &topFlaw, &score); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		summary.RunID, err = uuid.Parse(rawID)
		if err != nil {
			return nil, fmt.Errorf("parse run id %q: %w", rawID, err)
		}
		if topFlaw.Valid {
			summary.TopFlaw = topFlaw.String
		}
		if score.Valid {
			v := score.Float64
			summary.FluidityScore = &v
		}
		out = append(out, summary)
	}
	return out, rows.Err()
}

// DeleteRun removes a run and its dependent rows.
func (s *Store) DeleteRun(ctx context.Context, id uuid.UUID) error {
	res, err := s.ExecContext(ctx, `DELETE FROM runs WHERE run_id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete run %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRunNotFound
	}
	return nil
}
