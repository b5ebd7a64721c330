// Package journal хранит историю запусков синхронизации.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"wpbreez_sync/pkg/logger"
)

type Run struct {
	ID         uuid.UUID  `json:"id"`
	Operation  string     `json:"operation"`
	Page       int        `json:"page,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Created    []int      `json:"created"`
	Updated    int        `json:"updated"`
	Skipped    int        `json:"skipped"`
	Failed     int        `json:"failed"`
	Error      string     `json:"error,omitempty"`
}

type Repository interface {
	Start(ctx context.Context, operation string, page int) (*Run, error)
	Finish(ctx context.Context, run *Run) error
	Recent(ctx context.Context, limit int) ([]Run, error)
}

type PostgresJournal struct {
	db  *sql.DB
	log logger.Logger
	now func() time.Time
}

func NewPostgresJournal(db *sql.DB, writer io.Writer) *PostgresJournal {
	return &PostgresJournal{
		db:  db,
		log: logger.NewLogger(writer, "[Journal]"),
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (j *PostgresJournal) Start(ctx context.Context, operation string, page int) (*Run, error) {
	run := &Run{ID: uuid.New(), Operation: operation, Page: page, StartedAt: j.now()}

	query := `INSERT INTO breez.sync_runs (id, operation, page, started_at) VALUES ($1, $2, $3, $4)`
	if _, err := j.db.ExecContext(ctx, query, run.ID.String(), run.Operation, run.Page, run.StartedAt); err != nil {
		return nil, fmt.Errorf("failed to start run %s: %w", operation, err)
	}
	return run, nil
}

func (j *PostgresJournal) Finish(ctx context.Context, run *Run) error {
	finished := j.now()
	run.FinishedAt = &finished

	created := make([]int64, 0, len(run.Created))
	for _, id := range run.Created {
		created = append(created, int64(id))
	}
	runErr := sql.NullString{String: run.Error, Valid: run.Error != ""}

	query := `
		UPDATE breez.sync_runs
		SET finished_at = $2, created = $3, updated = $4, skipped = $5, failed = $6, error = $7
		WHERE id = $1`
	res, err := j.db.ExecContext(ctx, query,
		run.ID.String(), finished, pq.Array(created), run.Updated, run.Skipped, run.Failed, runErr)
	if err != nil {
		return fmt.Errorf("failed to finish run %s: %w", run.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		j.log.Error("run %s not found in journal", run.ID)
	}
	return nil
}

func (j *PostgresJournal) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, operation, page, started_at, finished_at, created, updated, skipped, failed, error
		FROM breez.sync_runs
		ORDER BY started_at DESC
		LIMIT $1`
	rows, err := j.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var (
			run      Run
			id       string
			finished sql.NullTime
			created  []int64
			runErr   sql.NullString
		)
		if err := rows.Scan(&id, &run.Operation, &run.Page, &run.StartedAt, &finished,
			pq.Array(&created), &run.Updated, &run.Skipped, &run.Failed, &runErr); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		if run.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid run id %q: %w", id, err)
		}
		if finished.Valid {
			t := finished.Time
			run.FinishedAt = &t
		}
		run.Created = make([]int, 0, len(created))
		for _, c := range created {
			run.Created = append(run.Created, int(c))
		}
		run.Error = runErr.String
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Nop - журнал без базы: запуски не сохраняются.
type Nop struct{}

func (Nop) Start(_ context.Context, operation string, page int) (*Run, error) {
	return &Run{ID: uuid.New(), Operation: operation, Page: page, StartedAt: time.Now().UTC()}, nil
}

func (Nop) Finish(_ context.Context, run *Run) error {
	now := time.Now().UTC()
	run.FinishedAt = &now
	return nil
}

func (Nop) Recent(context.Context, int) ([]Run, error) {
	return []Run{}, nil
}
