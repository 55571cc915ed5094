package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deskflow/helpdesk-service/internal/domain"
)

// TicketFilter captures listing parameters.
type TicketFilter struct {
	RaisedByID     *string
	DepartmentID   *string
	AssignedTo     *string
	StatusID       *string
	StatusName     *string
	ApprovalStatus *domain.TicketApprovalStatus
	SearchTerm     *string
	Limit          int
	Offset         int
}

// CountBucket is one slice of a grouped count.
type CountBucket struct {
	Key   string
	Count int64
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetByCode(ctx context.Context, code string) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	CountByStatus(ctx context.Context) ([]CountBucket, error)
	CountByApprovalStatus(ctx context.Context) ([]CountBucket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, code, raised_by, department_id, company_id, title, description, image_path,
               priority_id, priority_name, status_id, status_name, approval_status, assigned_to,
               approver_id, approved_at, closed_at, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (code, raised_by, department_id, company_id, title, description, image_path,
            priority_id, priority_name, status_id, status_name, approval_status, assigned_to, closed_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		ticket.Code,
		ticket.RaisedByID,
		ticket.DepartmentID,
		ticket.CompanyID,
		ticket.Title,
		ticket.Description,
		ticket.ImagePath,
		ticket.PriorityID,
		ticket.PriorityName,
		ticket.StatusID,
		ticket.StatusName,
		ticket.ApprovalStatus,
		nonNilStrings(ticket.AssignedTo),
		ticket.ClosedAt,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
	return translate(err)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET department_id=$1, company_id=$2, title=$3, description=$4, image_path=$5,
            priority_id=$6, priority_name=$7, status_id=$8, status_name=$9, approval_status=$10,
            assigned_to=$11, approver_id=$12, approved_at=$13, closed_at=$14, updated_at=NOW()
        WHERE id=$15
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		ticket.DepartmentID,
		ticket.CompanyID,
		ticket.Title,
		ticket.Description,
		ticket.ImagePath,
		ticket.PriorityID,
		ticket.PriorityName,
		ticket.StatusID,
		ticket.StatusName,
		ticket.ApprovalStatus,
		nonNilStrings(ticket.AssignedTo),
		ticket.ApproverID,
		ticket.ApprovedAt,
		ticket.ClosedAt,
		ticket.ID,
	).Scan(&ticket.UpdatedAt)
	return err
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	return r.fetchSingle(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id=$1`, id)
}

func (r *ticketRepository) GetByCode(ctx context.Context, code string) (*domain.Ticket, error) {
	return r.fetchSingle(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE code=$1`, code)
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Ticket, error) {
	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.RaisedByID != nil {
		args = append(args, *filter.RaisedByID)
		clauses = append(clauses, fmt.Sprintf("raised_by=$%d", len(args)))
	}
	if filter.DepartmentID != nil {
		args = append(args, *filter.DepartmentID)
		clauses = append(clauses, fmt.Sprintf("department_id=$%d", len(args)))
	}
	if filter.AssignedTo != nil {
		args = append(args, *filter.AssignedTo)
		clauses = append(clauses, fmt.Sprintf("$%d = ANY(assigned_to)", len(args)))
	}
	if filter.StatusID != nil {
		args = append(args, *filter.StatusID)
		clauses = append(clauses, fmt.Sprintf("status_id=$%d", len(args)))
	}
	if filter.StatusName != nil {
		args = append(args, *filter.StatusName)
		clauses = append(clauses, fmt.Sprintf("status_name=$%d", len(args)))
	}
	if filter.ApprovalStatus != nil {
		args = append(args, *filter.ApprovalStatus)
		clauses = append(clauses, fmt.Sprintf("approval_status=$%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(description) LIKE %s OR LOWER(code) LIKE %s)", placeholder, placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		ticketColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func (r *ticketRepository) CountByStatus(ctx context.Context) ([]CountBucket, error) {
	return r.countBy(ctx, `SELECT status_name, COUNT(*) FROM tickets GROUP BY status_name ORDER BY status_name`)
}

func (r *ticketRepository) CountByApprovalStatus(ctx context.Context) ([]CountBucket, error) {
	return r.countBy(ctx, `SELECT approval_status, COUNT(*) FROM tickets GROUP BY approval_status ORDER BY approval_status`)
}

func (r *ticketRepository) countBy(ctx context.Context, query string) ([]CountBucket, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []CountBucket
	for rows.Next() {
		var bucket CountBucket
		if err := rows.Scan(&bucket.Key, &bucket.Count); err != nil {
			return nil, err
		}
		result = append(result, bucket)
	}
	return result, rows.Err()
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.Code,
		&ticket.RaisedByID,
		&ticket.DepartmentID,
		&ticket.CompanyID,
		&ticket.Title,
		&ticket.Description,
		&ticket.ImagePath,
		&ticket.PriorityID,
		&ticket.PriorityName,
		&ticket.StatusID,
		&ticket.StatusName,
		&ticket.ApprovalStatus,
		&ticket.AssignedTo,
		&ticket.ApproverID,
		&ticket.ApprovedAt,
		&ticket.ClosedAt,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
