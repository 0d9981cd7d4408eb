package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/stock-report-sync/infrastructure/database/postgres"
	"github.com/vfg2006/stock-report-sync/internal/domain"
)

const (
	syncRunsTable   = "sync_runs"
	syncRunsColumns = "id, run_id, entity_id, entity_name, report_name, state, attempts, row_count, artifact_path, error, started_at, finished_at"

	defaultListLimit = 50
	maxListLimit     = 500
)

// SyncRunSchema cria a tabela de histórico das sincronizações
const SyncRunSchema = `
CREATE TABLE IF NOT EXISTS sync_runs (
	id            VARCHAR(21) PRIMARY KEY,
	run_id        VARCHAR(21) NOT NULL,
	entity_id     INTEGER NOT NULL,
	entity_name   TEXT NOT NULL,
	report_name   TEXT NOT NULL,
	state         VARCHAR(32) NOT NULL,
	attempts      INTEGER NOT NULL DEFAULT 0,
	row_count     INTEGER NOT NULL DEFAULT 0,
	artifact_path TEXT,
	error         TEXT,
	started_at    TIMESTAMPTZ NOT NULL,
	finished_at   TIMESTAMPTZ,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_sync_runs_pair ON sync_runs (entity_id, report_name, started_at DESC);
CREATE INDEX IF NOT EXISTS idx_sync_runs_run_id ON sync_runs (run_id);
`

type SyncRunRepository interface {
	EnsureSchema(ctx context.Context) error
	Save(ctx context.Context, run *domain.SyncRun) error
	ListRecent(ctx context.Context, limit int) ([]*domain.SyncRun, error)
	GetLastByPair(ctx context.Context, entityID int, reportName string) (*domain.SyncRun, error)
}

type syncRunRepository struct {
	conn postgres.Queryer
}

func NewSyncRunRepository(conn postgres.Queryer) SyncRunRepository {
	return &syncRunRepository{
		conn: conn,
	}
}

func (r *syncRunRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.conn.ExecContext(ctx, SyncRunSchema); err != nil {
		return fmt.Errorf("erro ao criar tabela %s: %w", syncRunsTable, err)
	}
	return nil
}

func buildSaveQuery(run *domain.SyncRun) (string, []any, error) {
	var finishedAt any
	if !run.FinishedAt.IsZero() {
		finishedAt = run.FinishedAt
	}

	return squirrel.StatementBuilder.
		Insert(syncRunsTable).
		Columns("id", "run_id", "entity_id", "entity_name", "report_name", "state", "attempts", "row_count", "artifact_path", "error", "started_at", "finished_at").
		Values(
			run.ID,
			run.RunID,
			run.EntityID,
			run.EntityName,
			run.ReportName,
			string(run.State),
			run.Attempts,
			run.Rows,
			nullString(run.ArtifactPath),
			nullString(run.Error),
			run.StartedAt,
			finishedAt,
		).
		Suffix(`
			ON CONFLICT (id) DO UPDATE SET
				state = EXCLUDED.state,
				attempts = EXCLUDED.attempts,
				row_count = EXCLUDED.row_count,
				artifact_path = EXCLUDED.artifact_path,
				error = EXCLUDED.error,
				finished_at = EXCLUDED.finished_at,
				updated_at = NOW()
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func (r *syncRunRepository) Save(ctx context.Context, run *domain.SyncRun) error {
	query, args, err := buildSaveQuery(run)
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	return nil
}

func buildListRecentQuery(limit int) (string, []any, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	return squirrel.
		Select(syncRunsColumns).
		From(syncRunsTable).
		OrderBy("started_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func (r *syncRunRepository) ListRecent(ctx context.Context, limit int) ([]*domain.SyncRun, error) {
	query, args, err := buildListRecentQuery(limit)
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	runs := make([]*domain.SyncRun, 0)
	for rows.Next() {
		run, err := scanSyncRun(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear sync run: %w", err)
		}
		runs = append(runs, run)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return runs, nil
}

func buildLastByPairQuery(entityID int, reportName string) (string, []any, error) {
	return squirrel.
		Select(syncRunsColumns).
		From(syncRunsTable).
		Where(squirrel.Eq{"entity_id": entityID, "report_name": reportName}).
		OrderBy("started_at DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func (r *syncRunRepository) GetLastByPair(ctx context.Context, entityID int, reportName string) (*domain.SyncRun, error) {
	query, args, err := buildLastByPairQuery(entityID, reportName)
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	run, err := scanSyncRun(r.conn.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear sync run: %w", err)
	}

	return run, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSyncRun(row scanner) (*domain.SyncRun, error) {
	var (
		run          domain.SyncRun
		state        string
		artifactPath sql.NullString
		errorMessage sql.NullString
		finishedAt   sql.NullTime
	)

	err := row.Scan(
		&run.ID,
		&run.RunID,
		&run.EntityID,
		&run.EntityName,
		&run.ReportName,
		&state,
		&run.Attempts,
		&run.Rows,
		&artifactPath,
		&errorMessage,
		&run.StartedAt,
		&finishedAt,
	)
	if err != nil {
		return nil, err
	}

	run.State = domain.PipelineState(state)
	run.ArtifactPath = artifactPath.String
	run.Error = errorMessage.String
	if finishedAt.Valid {
		run.FinishedAt = finishedAt.Time
	}

	return &run, nil
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}
