package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deskflow/helpdesk-service/internal/domain"
)

// ensureAttempts bounds retries when concurrent creators pick the same sort order.
const ensureAttempts = 3

// TicketStatusRepository manages the status taxonomy.
type TicketStatusRepository interface {
	// EnsureByName returns the status with the given name, appending it at the
	// end of the sort order when absent. created reports whether it was inserted.
	EnsureByName(ctx context.Context, name string) (status *domain.TicketStatus, created bool, err error)
	Create(ctx context.Context, status *domain.TicketStatus) error
	// Update saves the status. Renaming it renames the status on every ticket
	// that references it and re-derives their closed_at.
	Update(ctx context.Context, status *domain.TicketStatus) error
	GetByID(ctx context.Context, id string) (*domain.TicketStatus, error)
	GetByName(ctx context.Context, name string) (*domain.TicketStatus, error)
	List(ctx context.Context, activeOnly bool) ([]domain.TicketStatus, error)
}

type ticketStatusRepository struct {
	pool *pgxpool.Pool
}

// NewTicketStatusRepository builds the repository.
func NewTicketStatusRepository(pool *pgxpool.Pool) TicketStatusRepository {
	return &ticketStatusRepository{pool: pool}
}

const statusColumns = `id, name, sort_order, is_active, created_at, updated_at`

func (r *ticketStatusRepository) EnsureByName(ctx context.Context, name string) (*domain.TicketStatus, bool, error) {
	const query = `
        INSERT INTO ticket_statuses (name, sort_order, is_active)
        SELECT $1, COALESCE(MAX(sort_order), 0) + 1, TRUE FROM ticket_statuses
        ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
        RETURNING ` + statusColumns + `, (xmax = 0) AS inserted`

	var lastErr error
	for attempt := 0; attempt < ensureAttempts; attempt++ {
		var status domain.TicketStatus
		var inserted bool
		err := r.pool.QueryRow(ctx, query, name).Scan(
			&status.ID,
			&status.Name,
			&status.SortOrder,
			&status.IsActive,
			&status.CreatedAt,
			&status.UpdatedAt,
			&inserted,
		)
		if err == nil {
			return &status, inserted, nil
		}
		lastErr = translate(err)
		if !errors.Is(lastErr, ErrDuplicate) {
			return nil, false, lastErr
		}
	}
	return nil, false, lastErr
}

func (r *ticketStatusRepository) Create(ctx context.Context, status *domain.TicketStatus) error {
	const query = `
        INSERT INTO ticket_statuses (name, sort_order, is_active)
        VALUES ($1, CASE WHEN $2 > 0 THEN $2 ELSE (SELECT COALESCE(MAX(sort_order), 0) + 1 FROM ticket_statuses) END, $3)
        RETURNING id, sort_order, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query, status.Name, status.SortOrder, status.IsActive).
		Scan(&status.ID, &status.SortOrder, &status.CreatedAt, &status.UpdatedAt)
	return translate(err)
}

// renameTicketsQuery carries a status rename onto the tickets that reference
// it. SET expressions read the pre-update row, so status_name is the old name.
const renameTicketsQuery = `
        UPDATE tickets SET status_name=$2,
            closed_at = CASE
                WHEN $2::text <> $3::text THEN NULL
                WHEN status_name = $3::text AND closed_at IS NOT NULL THEN closed_at
                ELSE NOW()
            END,
            updated_at=NOW()
        WHERE status_id=$1`

// Update saves the status. A rename is applied to every ticket pointing at the
// status in the same transaction, with closed_at derived from the new name.
func (r *ticketStatusRepository) Update(ctx context.Context, status *domain.TicketStatus) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var oldName string
	if err := tx.QueryRow(ctx, `SELECT name FROM ticket_statuses WHERE id=$1 FOR UPDATE`, status.ID).Scan(&oldName); err != nil {
		return translate(err)
	}

	const query = `
        UPDATE ticket_statuses SET name=$1, sort_order=$2, is_active=$3, updated_at=NOW()
        WHERE id=$4
        RETURNING updated_at`
	if err := tx.QueryRow(ctx, query, status.Name, status.SortOrder, status.IsActive, status.ID).
		Scan(&status.UpdatedAt); err != nil {
		return translate(err)
	}

	if oldName != status.Name {
		if _, err := tx.Exec(ctx, renameTicketsQuery, status.ID, status.Name, domain.StatusNameClosed); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *ticketStatusRepository) GetByID(ctx context.Context, id string) (*domain.TicketStatus, error) {
	return scanStatus(r.pool.QueryRow(ctx, `SELECT `+statusColumns+` FROM ticket_statuses WHERE id=$1`, id))
}

func (r *ticketStatusRepository) GetByName(ctx context.Context, name string) (*domain.TicketStatus, error) {
	return scanStatus(r.pool.QueryRow(ctx, `SELECT `+statusColumns+` FROM ticket_statuses WHERE name=$1`, name))
}

func (r *ticketStatusRepository) List(ctx context.Context, activeOnly bool) ([]domain.TicketStatus, error) {
	query := `SELECT ` + statusColumns + ` FROM ticket_statuses`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY sort_order ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketStatus
	for rows.Next() {
		status, err := scanStatus(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *status)
	}
	return result, rows.Err()
}

func scanStatus(row pgx.Row) (*domain.TicketStatus, error) {
	var status domain.TicketStatus
	if err := row.Scan(
		&status.ID,
		&status.Name,
		&status.SortOrder,
		&status.IsActive,
		&status.CreatedAt,
		&status.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &status, nil
}
