package memory

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskflow/helpdesk-service/internal/domain"
	"github.com/deskflow/helpdesk-service/internal/repository"
)

func TestEnsureByNameAppendsSortOrder(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	first, created, err := repos.Statuses.EnsureByName(ctx, domain.StatusNameMaterialRequest)
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := repos.Statuses.EnsureByName(ctx, domain.StatusNameMaterialApproved)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Greater(t, second.SortOrder, first.SortOrder)

	again, created, err := repos.Statuses.EnsureByName(ctx, domain.StatusNameMaterialRequest)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)

	all, err := repos.Statuses.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 1, all[0].SortOrder)
	assert.Equal(t, 2, all[1].SortOrder)
}

func TestStatusCreateRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	require.NoError(t, repos.Statuses.Create(ctx, &domain.TicketStatus{Name: "Open", SortOrder: 1, IsActive: true}))

	err := repos.Statuses.Create(ctx, &domain.TicketStatus{Name: "Open"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	err = repos.Statuses.Create(ctx, &domain.TicketStatus{Name: "Other", SortOrder: 1})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestWorkAnalysisUpsertKeepsOnePerTicket(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	first := &domain.WorkAnalysis{
		AnalysisID:          "WA-1",
		TicketID:            "T1",
		WorkerID:            "W1",
		MaterialRequired:    domain.MaterialRequiredYes,
		MaterialDescription: "need bolts",
		Images:              []string{"a.png"},
		ApprovalStatus:      domain.AnalysisPending,
	}
	created, err := repos.Analyses.Upsert(ctx, first)
	require.NoError(t, err)
	assert.True(t, created)

	second := &domain.WorkAnalysis{
		AnalysisID:       "WA-2",
		TicketID:         "T1",
		WorkerID:         "W2",
		MaterialRequired: domain.MaterialRequiredNo,
	}
	created, err = repos.Analyses.Upsert(ctx, second)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "WA-1", second.AnalysisID)
	assert.Equal(t, "W1", second.WorkerID)
	assert.Equal(t, []string{"a.png"}, second.Images)
	assert.Empty(t, second.MaterialDescription)

	all, err := repos.Analyses.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestTicketCodeUnique(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	require.NoError(t, repos.Tickets.Create(ctx, &domain.Ticket{Code: "TCK-1", Title: "a"}))
	err := repos.Tickets.Create(ctx, &domain.Ticket{Code: "TCK-1", Title: "b"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestTicketListNewestFirstAndFilter(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	for _, code := range []string{"TCK-A", "TCK-B", "TCK-C"} {
		require.NoError(t, repos.Tickets.Create(ctx, &domain.Ticket{Code: code, Title: code, RaisedByID: "u1", AssignedTo: []string{"w1"}}))
	}
	require.NoError(t, repos.Tickets.Create(ctx, &domain.Ticket{Code: "TCK-D", Title: "other", RaisedByID: "u2"}))

	raisedBy := "u1"
	got, err := repos.Tickets.ListWithFilter(ctx, repository.TicketFilter{RaisedByID: &raisedBy})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "TCK-C", got[0].Code)
	assert.Equal(t, "TCK-A", got[2].Code)

	worker := "w1"
	got, err = repos.Tickets.ListWithFilter(ctx, repository.TicketFilter{AssignedTo: &worker, Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "TCK-A", got[0].Code)
}

func TestWorkLogDeleteMissing(t *testing.T) {
	repos := NewStore().Repositories()
	err := repos.WorkLogs.Delete(context.Background(), "WL-none")
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestReturnedTicketsAreCopies(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	ticket := &domain.Ticket{Code: "TCK-1", AssignedTo: []string{"w1"}}
	require.NoError(t, repos.Tickets.Create(ctx, ticket))

	got, err := repos.Tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	got.AssignedTo[0] = "changed"

	again, err := repos.Tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"w1"}, again.AssignedTo)
}

func TestStatusRenameFollowsTickets(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	closed, _, err := repos.Statuses.EnsureByName(ctx, domain.StatusNameClosed)
	require.NoError(t, err)
	open, _, err := repos.Statuses.EnsureByName(ctx, domain.StatusNameOpen)
	require.NoError(t, err)

	done := &domain.Ticket{Code: "TCK-1"}
	done.ApplyStatus(&closed.ID, closed.Name, time.Now())
	require.NoError(t, repos.Tickets.Create(ctx, done))
	other := &domain.Ticket{Code: "TCK-2"}
	other.ApplyStatus(&open.ID, open.Name, time.Now())
	require.NoError(t, repos.Tickets.Create(ctx, other))

	closed.Name = "Done"
	require.NoError(t, repos.Statuses.Update(ctx, closed))

	got, err := repos.Tickets.GetByID(ctx, done.ID)
	require.NoError(t, err)
	assert.Equal(t, "Done", got.StatusName)
	assert.Nil(t, got.ClosedAt)

	untouched, err := repos.Tickets.GetByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNameOpen, untouched.StatusName)

	closed.Name = domain.StatusNameClosed
	require.NoError(t, repos.Statuses.Update(ctx, closed))
	got, err = repos.Tickets.GetByID(ctx, done.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.ClosedAt)
}
