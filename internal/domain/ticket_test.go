package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strRef(s string) *string { return &s }

func TestDeriveClosedAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	closed := DeriveClosedAt(StatusNameClosed, now)
	require.NotNil(t, closed)
	assert.True(t, closed.Equal(now))

	assert.Nil(t, DeriveClosedAt(StatusNameOpen, now))
	assert.Nil(t, DeriveClosedAt("closed", now), "match is exact")
}

func TestTicketApplyStatus(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	ticket := &Ticket{StatusID: strRef("open-id"), StatusName: StatusNameOpen}

	changed := ticket.ApplyStatus(strRef("closed-id"), StatusNameClosed, now)
	assert.True(t, changed)
	require.NotNil(t, ticket.ClosedAt)
	assert.True(t, ticket.IsClosed())

	later := now.Add(time.Hour)
	changed = ticket.ApplyStatus(strRef("closed-id"), StatusNameClosed, later)
	assert.False(t, changed)
	assert.True(t, ticket.ClosedAt.Equal(now), "unchanged reference keeps the original closed_at")

	changed = ticket.ApplyStatus(strRef("open-id"), StatusNameOpen, later)
	assert.True(t, changed)
	assert.Nil(t, ticket.ClosedAt)
}

func TestTicketApplyStatusCopiesReference(t *testing.T) {
	ref := "status-1"
	ticket := &Ticket{}
	ticket.ApplyStatus(&ref, StatusNameOpen, time.Now())
	ref = "mutated"
	assert.Equal(t, "status-1", *ticket.StatusID)
}

func TestTicketApplyStatusNameOnly(t *testing.T) {
	closedAt := time.Now()
	ticket := &Ticket{StatusName: StatusNameClosed, ClosedAt: &closedAt}

	changed := ticket.ApplyStatus(nil, StatusNameMaterialRequest, time.Now())
	assert.False(t, changed)
	assert.Equal(t, StatusNameMaterialRequest, ticket.StatusName)
	assert.NotNil(t, ticket.ClosedAt)
}

func TestTicketRenameStatus(t *testing.T) {
	closedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	later := closedAt.Add(time.Hour)
	ticket := &Ticket{StatusID: strRef("closed-id"), StatusName: StatusNameClosed, ClosedAt: &closedAt}

	ticket.RenameStatus("Done", later)
	assert.Equal(t, "Done", ticket.StatusName)
	assert.Nil(t, ticket.ClosedAt)

	ticket.RenameStatus(StatusNameClosed, later)
	require.NotNil(t, ticket.ClosedAt)
	assert.True(t, ticket.ClosedAt.Equal(later))
	assert.Equal(t, "closed-id", *ticket.StatusID)
}
