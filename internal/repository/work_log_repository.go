package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deskflow/helpdesk-service/internal/domain"
)

// WorkLogRepository stores labor entries.
type WorkLogRepository interface {
	Create(ctx context.Context, log *domain.WorkLog) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.WorkLog, error)
	ListByAnalysis(ctx context.Context, analysisID string) ([]domain.WorkLog, error)
	Delete(ctx context.Context, logID string) error
}

type workLogRepository struct {
	pool *pgxpool.Pool
}

// NewWorkLogRepository builds the repository.
func NewWorkLogRepository(pool *pgxpool.Pool) WorkLogRepository {
	return &workLogRepository{pool: pool}
}

const workLogColumns = `id, log_id, ticket_id, analysis_id, worker_id, worker_name, from_time, to_time,
               duration, log_date, created_at, updated_at`

func (r *workLogRepository) Create(ctx context.Context, log *domain.WorkLog) error {
	const query = `
        INSERT INTO work_logs (log_id, ticket_id, analysis_id, worker_id, worker_name, from_time, to_time, duration, log_date)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		log.LogID,
		log.TicketID,
		log.AnalysisID,
		log.WorkerID,
		log.WorkerName,
		log.FromTime,
		log.ToTime,
		log.Duration,
		log.LogDate,
	).Scan(&log.ID, &log.CreatedAt, &log.UpdatedAt)
	return translate(err)
}

func (r *workLogRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.WorkLog, error) {
	return r.list(ctx, `SELECT `+workLogColumns+` FROM work_logs WHERE ticket_id=$1 ORDER BY created_at DESC`, ticketID)
}

func (r *workLogRepository) ListByAnalysis(ctx context.Context, analysisID string) ([]domain.WorkLog, error) {
	return r.list(ctx, `SELECT `+workLogColumns+` FROM work_logs WHERE analysis_id=$1 ORDER BY created_at DESC`, analysisID)
}

func (r *workLogRepository) Delete(ctx context.Context, logID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM work_logs WHERE log_id=$1`, logID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *workLogRepository) list(ctx context.Context, query string, arg any) ([]domain.WorkLog, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.WorkLog
	for rows.Next() {
		var log domain.WorkLog
		if err := rows.Scan(
			&log.ID,
			&log.LogID,
			&log.TicketID,
			&log.AnalysisID,
			&log.WorkerID,
			&log.WorkerName,
			&log.FromTime,
			&log.ToTime,
			&log.Duration,
			&log.LogDate,
			&log.CreatedAt,
			&log.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, log)
	}
	return result, rows.Err()
}
