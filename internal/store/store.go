// Package store keeps a write-only archive of finished runs so operators
// can inspect summary quality over time. Stored results are never read
// back to short-circuit a later run.
package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3" // Required by the library implementation.

	"hnsum/internal/domain"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type Store struct {
	db  *sql.DB
	log *slog.Logger
}

func New(ctx context.Context, dbPath string, log *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open DB file: %w", err)
	}

	dbInstance, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return nil, fmt.Errorf("create DB instance: %w", err)
	}

	srcInstance, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("create source instance: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", srcInstance, "sqlite3", dbInstance)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil {
		if !errors.Is(err, migrate.ErrNoChange) {
			return nil, fmt.Errorf("apply migrations: %w", err)
		}

		log.InfoContext(ctx, "No migrations to apply",
			"dbPath", dbPath)
	} else {
		log.InfoContext(ctx, "DB is migrated",
			"dbPath", dbPath)
	}

	return &Store{db: db, log: log}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun archives a finished report and its per-story outcomes.
func (s *Store) SaveRun(ctx context.Context, report *domain.Report) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil &&
			!errors.Is(rollbackErr, sql.ErrTxDone) {
			s.log.ErrorContext(ctx, "Failed to rollback tx",
				"error", rollbackErr)
		}
	}()

	res, err := tx.ExecContext(ctx,
		`insert into runs
			(mode, started_at, finished_at, story_count,
			 success_count, failure_count, fallback_count)
		 values (?, ?, ?, ?, ?, ?, ?)`,
		string(report.Mode),
		report.StartedAt.Unix(),
		report.FinishedAt.Unix(),
		len(report.Outcomes),
		report.Successes(),
		report.Failures(),
		report.Fallbacks(),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("fetch run ID: %w", err)
	}

	for i := range report.Outcomes {
		if err := insertOutcome(ctx, tx, runID, &report.Outcomes[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

func insertOutcome(
	ctx context.Context,
	tx *sql.Tx,
	runID int64,
	outcome *domain.Outcome,
) error {
	var summary string
	if outcome.Summary != nil {
		summary = strings.Join(outcome.Summary.ArticleSummary.Lines, "\n")
	}

	_, err := tx.ExecContext(ctx,
		`insert into outcomes
			(run_id, story_id, title, url, score, mode_used,
			 fallback_used, failed, summary, elapsed_ms)
		 values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID,
		outcome.Story.ID,
		outcome.Story.Title,
		outcome.Story.URL,
		outcome.Story.Score,
		string(outcome.ModeUsed),
		outcome.FallbackUsed,
		outcome.Failed(),
		summary,
		outcome.Elapsed.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert outcome (story = %d): %w", outcome.Story.ID, err)
	}

	return nil
}
