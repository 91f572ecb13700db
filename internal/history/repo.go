// Package history stores comparison runs and their matches in sqlite.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"mangashelf/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// Save inserts a run and all of its matches in one transaction.
func (r *Repo) Save(ctx context.Context, run models.Run) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO compare_runs (id, started_at, library_source, reference_source, library_count, reference_count, match_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.StartedAt.UTC(), run.LibrarySource, run.ReferenceSource,
		run.LibraryCount, run.ReferenceCount, len(run.Matches)); err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_matches (run_id, position, library_title, reference_title, aliases)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	for i, m := range run.Matches {
		aliases := m.Aliases
		if aliases == nil {
			aliases = []string{}
		}
		aliasesJSON, err := json.Marshal(aliases)
		if err != nil {
			return fmt.Errorf("marshal aliases for %s: %w", m.LibraryTitle, err)
		}
		if _, err := stmt.ExecContext(ctx, run.ID, i, m.LibraryTitle, m.ReferenceTitle, string(aliasesJSON)); err != nil {
			return fmt.Errorf("insert match %d of %s: %w", i, run.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// List returns runs newest first, without their matches, plus the total
// number of stored runs.
func (r *Repo) List(ctx context.Context, limit, offset int) ([]models.Run, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM compare_runs`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count runs: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, started_at, library_source, reference_source, library_count, reference_count, match_count
		FROM compare_runs
		ORDER BY started_at DESC, id
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	out := make([]models.Run, 0, limit)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan run row: %w", err)
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows err: %w", err)
	}
	return out, total, nil
}

// Get returns a run with its matches in report order, or nil if unknown.
func (r *Repo) Get(ctx context.Context, id string) (*models.Run, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, started_at, library_source, reference_source, library_count, reference_count, match_count
		FROM compare_runs
		WHERE id = ?
	`, id)
	run, err := scanRun(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get run: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT library_title, reference_title, aliases
		FROM run_matches
		WHERE run_id = ?
		ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	run.Matches = make([]models.MatchView, 0, run.MatchCount)
	for rows.Next() {
		var (
			v           models.MatchView
			aliasesJSON string
		)
		if err := rows.Scan(&v.LibraryTitle, &v.ReferenceTitle, &aliasesJSON); err != nil {
			return nil, fmt.Errorf("scan match row: %w", err)
		}
		if err := json.Unmarshal([]byte(aliasesJSON), &v.Aliases); err != nil {
			return nil, fmt.Errorf("decode aliases for %s: %w", v.LibraryTitle, err)
		}
		run.Matches = append(run.Matches, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return &run, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (models.Run, error) {
	var (
		run     models.Run
		started time.Time
	)
	if err := s.Scan(&run.ID, &started, &run.LibrarySource, &run.ReferenceSource,
		&run.LibraryCount, &run.ReferenceCount, &run.MatchCount); err != nil {
		return models.Run{}, err
	}
	run.StartedAt = started
	return run, nil
}
