package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deskflow/helpdesk-service/internal/domain"
)

// WorkAnalysisRepository persists work analyses, one per ticket.
type WorkAnalysisRepository interface {
	// Upsert inserts analysis or folds it into the existing row for the same
	// ticket in one statement. analysis is overwritten with the stored row.
	Upsert(ctx context.Context, analysis *domain.WorkAnalysis) (created bool, err error)
	UpdateDecision(ctx context.Context, analysis *domain.WorkAnalysis) error
	GetByAnalysisID(ctx context.Context, analysisID string) (*domain.WorkAnalysis, error)
	GetByTicket(ctx context.Context, ticketID string) (*domain.WorkAnalysis, error)
	List(ctx context.Context, limit, offset int) ([]domain.WorkAnalysis, error)
}

type workAnalysisRepository struct {
	pool *pgxpool.Pool
}

// NewWorkAnalysisRepository builds the repository.
func NewWorkAnalysisRepository(pool *pgxpool.Pool) WorkAnalysisRepository {
	return &workAnalysisRepository{pool: pool}
}

const analysisColumns = `id, analysis_id, ticket_id, worker_id, worker_name, material_required,
               material_description, images, approval_status, approver_id, approved_at, created_at, updated_at`

func (r *workAnalysisRepository) Upsert(ctx context.Context, analysis *domain.WorkAnalysis) (bool, error) {
	// Mirrors domain.WorkAnalysis.Resubmit on the conflict path.
	const query = `
        INSERT INTO work_analyses AS wa (analysis_id, ticket_id, worker_id, worker_name, material_required,
            material_description, images, approval_status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        ON CONFLICT (ticket_id) DO UPDATE SET
            material_required = EXCLUDED.material_required,
            material_description = EXCLUDED.material_description,
            images = CASE WHEN cardinality(EXCLUDED.images) > 0 THEN EXCLUDED.images ELSE wa.images END,
            worker_name = CASE WHEN EXCLUDED.worker_name <> '' THEN EXCLUDED.worker_name ELSE wa.worker_name END,
            updated_at = NOW()
        RETURNING ` + analysisColumns + `, (xmax = 0) AS inserted`

	var inserted bool
	err := r.pool.QueryRow(ctx, query,
		analysis.AnalysisID,
		analysis.TicketID,
		analysis.WorkerID,
		analysis.WorkerName,
		analysis.MaterialRequired,
		analysis.MaterialRequired.Description(analysis.MaterialDescription),
		nonNilStrings(analysis.Images),
		analysis.ApprovalStatus,
	).Scan(append(analysisDest(analysis), &inserted)...)
	if err != nil {
		return false, translate(err)
	}
	return inserted, nil
}

func (r *workAnalysisRepository) UpdateDecision(ctx context.Context, analysis *domain.WorkAnalysis) error {
	const query = `
        UPDATE work_analyses SET approval_status=$1, approver_id=$2, approved_at=$3, updated_at=NOW()
        WHERE analysis_id=$4
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		analysis.ApprovalStatus,
		analysis.ApproverID,
		analysis.ApprovedAt,
		analysis.AnalysisID,
	).Scan(&analysis.UpdatedAt)
}

func (r *workAnalysisRepository) GetByAnalysisID(ctx context.Context, analysisID string) (*domain.WorkAnalysis, error) {
	return r.fetchSingle(ctx, `SELECT `+analysisColumns+` FROM work_analyses WHERE analysis_id=$1`, analysisID)
}

func (r *workAnalysisRepository) GetByTicket(ctx context.Context, ticketID string) (*domain.WorkAnalysis, error) {
	return r.fetchSingle(ctx, `SELECT `+analysisColumns+` FROM work_analyses WHERE ticket_id=$1`, ticketID)
}

func (r *workAnalysisRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.WorkAnalysis, error) {
	var analysis domain.WorkAnalysis
	if err := r.pool.QueryRow(ctx, query, arg).Scan(analysisDest(&analysis)...); err != nil {
		return nil, err
	}
	return &analysis, nil
}

func (r *workAnalysisRepository) List(ctx context.Context, limit, offset int) ([]domain.WorkAnalysis, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+analysisColumns+` FROM work_analyses ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAnalyses(rows)
}

func collectAnalyses(rows pgx.Rows) ([]domain.WorkAnalysis, error) {
	var result []domain.WorkAnalysis
	for rows.Next() {
		var analysis domain.WorkAnalysis
		if err := rows.Scan(analysisDest(&analysis)...); err != nil {
			return nil, err
		}
		result = append(result, analysis)
	}
	return result, rows.Err()
}

func analysisDest(a *domain.WorkAnalysis) []any {
	return []any{
		&a.ID,
		&a.AnalysisID,
		&a.TicketID,
		&a.WorkerID,
		&a.WorkerName,
		&a.MaterialRequired,
		&a.MaterialDescription,
		&a.Images,
		&a.ApprovalStatus,
		&a.ApproverID,
		&a.ApprovedAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	}
}
