package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deskflow/helpdesk-service/internal/domain"
)

// ApprovalRepository stores the append-only approval log.
type ApprovalRepository interface {
	Create(ctx context.Context, approval *domain.Approval) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Approval, error)
}

type approvalRepository struct {
	pool *pgxpool.Pool
}

// NewApprovalRepository builds the repository.
func NewApprovalRepository(pool *pgxpool.Pool) ApprovalRepository {
	return &approvalRepository{pool: pool}
}

func (r *approvalRepository) Create(ctx context.Context, approval *domain.Approval) error {
	const query = `
        INSERT INTO approvals (ticket_id, approver_id, assignee_ids, status, remarks, approved_at)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		approval.TicketID,
		approval.ApproverID,
		nonNilStrings(approval.AssigneeIDs),
		approval.Status,
		approval.Remarks,
		approval.ApprovedAt,
	).Scan(&approval.ID, &approval.CreatedAt)
}

func (r *approvalRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Approval, error) {
	const query = `
        SELECT id, ticket_id, approver_id, assignee_ids, status, remarks, approved_at, created_at
        FROM approvals WHERE ticket_id=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Approval
	for rows.Next() {
		var approval domain.Approval
		if err := rows.Scan(
			&approval.ID,
			&approval.TicketID,
			&approval.ApproverID,
			&approval.AssigneeIDs,
			&approval.Status,
			&approval.Remarks,
			&approval.ApprovedAt,
			&approval.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, approval)
	}
	return result, rows.Err()
}
