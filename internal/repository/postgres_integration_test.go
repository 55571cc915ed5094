package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/deskflow/helpdesk-service/internal/domain"
	"github.com/deskflow/helpdesk-service/internal/persistence"
)

// These tests run against a real database and are skipped unless
// TEST_POSTGRES_DSN points at one. Rows use random names so runs can share it.
func integrationPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, persistence.RunMigrations(ctx, pool, zap.NewNop()))
	return pool
}

// seedTicket inserts a department, a raiser and a ticket on the given status.
func seedTicket(t *testing.T, pool *pgxpool.Pool, status *domain.TicketStatus) *domain.Ticket {
	t.Helper()
	ctx := context.Background()
	suffix := uuid.NewString()

	var departmentID string
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO departments (name) VALUES ($1) RETURNING id`, "dept-"+suffix).Scan(&departmentID))

	user := &domain.User{
		Name:         "Raiser",
		Email:        suffix + "@example.com",
		PasswordHash: "x",
		Role:         domain.UserRoleUser,
		Status:       domain.UserStatusActive,
	}
	require.NoError(t, NewUserRepository(pool).Create(ctx, user))

	ticket := &domain.Ticket{
		Code:           "TCK-" + suffix,
		RaisedByID:     user.ID,
		DepartmentID:   departmentID,
		Title:          "Integration ticket",
		ApprovalStatus: domain.TicketApprovalPending,
	}
	if status != nil {
		ticket.ApplyStatus(&status.ID, status.Name, time.Now())
	}
	require.NoError(t, NewTicketRepository(pool).Create(ctx, ticket))
	return ticket
}

func TestPostgresEnsureByNameReportsInsert(t *testing.T) {
	pool := integrationPool(t)
	repo := NewTicketStatusRepository(pool)
	ctx := context.Background()
	name := "Flow " + uuid.NewString()

	first, created, err := repo.EnsureByName(ctx, name)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Positive(t, first.SortOrder)

	again, created, err := repo.EnsureByName(ctx, name)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, first.SortOrder, again.SortOrder)
}

func TestPostgresWorkAnalysisUpsertMergesResubmission(t *testing.T) {
	pool := integrationPool(t)
	repo := NewWorkAnalysisRepository(pool)
	ctx := context.Background()
	ticket := seedTicket(t, pool, nil)

	first := &domain.WorkAnalysis{
		AnalysisID:          "WA-" + uuid.NewString(),
		TicketID:            ticket.ID,
		WorkerID:            "worker-1",
		WorkerName:          "Walt",
		MaterialRequired:    domain.MaterialRequiredYes,
		MaterialDescription: "hinges",
		Images:              []string{"/uploads/a.png"},
		ApprovalStatus:      domain.AnalysisPending,
	}
	created, err := repo.Upsert(ctx, first)
	require.NoError(t, err)
	assert.True(t, created)

	second := &domain.WorkAnalysis{
		AnalysisID:          "WA-" + uuid.NewString(),
		TicketID:            ticket.ID,
		WorkerID:            "worker-2",
		MaterialRequired:    domain.MaterialRequiredNo,
		MaterialDescription: "ignored",
		ApprovalStatus:      domain.AnalysisPending,
	}
	created, err = repo.Upsert(ctx, second)
	require.NoError(t, err)
	assert.False(t, created)

	// the stored row comes back, so this must match what Resubmit would produce
	expected := *first
	expected.Resubmit(domain.WorkAnalysis{MaterialRequired: domain.MaterialRequiredNo, MaterialDescription: "ignored"}, time.Now())
	assert.Equal(t, first.AnalysisID, second.AnalysisID)
	assert.Equal(t, expected.WorkerID, second.WorkerID)
	assert.Equal(t, expected.WorkerName, second.WorkerName)
	assert.Equal(t, expected.MaterialRequired, second.MaterialRequired)
	assert.Equal(t, expected.MaterialDescription, second.MaterialDescription)
	assert.Equal(t, expected.Images, second.Images)
}

func TestPostgresStatusRenameFollowsTickets(t *testing.T) {
	pool := integrationPool(t)
	statuses := NewTicketStatusRepository(pool)
	tickets := NewTicketRepository(pool)
	ctx := context.Background()

	closed, _, err := statuses.EnsureByName(ctx, domain.StatusNameClosed)
	require.NoError(t, err)
	ticket := seedTicket(t, pool, closed)
	require.NotNil(t, ticket.ClosedAt)

	t.Cleanup(func() {
		closed.Name = domain.StatusNameClosed
		_ = statuses.Update(context.Background(), closed)
	})

	closed.Name = "Done " + uuid.NewString()
	require.NoError(t, statuses.Update(ctx, closed))
	got, err := tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, closed.Name, got.StatusName)
	assert.Nil(t, got.ClosedAt)

	closed.Name = domain.StatusNameClosed
	require.NoError(t, statuses.Update(ctx, closed))
	got, err = tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNameClosed, got.StatusName)
	assert.NotNil(t, got.ClosedAt)
}
