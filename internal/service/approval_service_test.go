package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskflow/helpdesk-service/internal/domain"
	apperrors "github.com/deskflow/helpdesk-service/pkg/util/errorutil"
)

func TestApprovalsAppend(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ticket := f.newTicket(t)

	first, err := f.approvals.Record(ctx, f.manager, ApprovalInput{TicketID: ticket.ID, Status: domain.ApprovalNotApproved, Remarks: "first look"})
	require.NoError(t, err)
	f.clock.Advance(time.Minute)
	second, err := f.approvals.Record(ctx, f.manager, ApprovalInput{TicketID: ticket.ID, Status: domain.ApprovalApproved, Remarks: "go ahead"})
	require.NoError(t, err)
	assert.NotEqual(t, first.Approval.ID, second.Approval.ID)

	list, err := f.approvals.ListByTicket(ctx, ticket.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "go ahead", list[0].Approval.Remarks)
	assert.Equal(t, "first look", list[1].Approval.Remarks)
}

func TestApprovalExpandsUsersAndStampsTicket(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ticket := f.newTicket(t)

	view, err := f.approvals.Record(ctx, f.manager, ApprovalInput{
		TicketID:    ticket.ID,
		Status:      domain.ApprovalApproved,
		AssigneeIDs: []string{f.worker.UserID, "ghost"},
	})
	require.NoError(t, err)
	assert.Equal(t, f.manager.UserID, view.Approval.ApproverID)
	assert.Equal(t, UserRef{ID: f.manager.UserID, Name: "Mona Manager", Email: "mona@example.com"}, view.Approver)
	require.Len(t, view.Assignees, 2)
	assert.Equal(t, "Walt Worker", view.Assignees[0].Name)
	assert.Equal(t, UserRef{ID: "ghost"}, view.Assignees[1])
	assert.Equal(t, f.clock.Now(), view.Approval.ApprovedAt)

	stored, err := f.tickets.GetTicket(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketApprovalApproved, stored.ApprovalStatus)
	require.NotNil(t, stored.ApproverID)
	assert.Equal(t, f.manager.UserID, *stored.ApproverID)
	assert.Equal(t, []string{f.worker.UserID, "ghost"}, stored.AssignedTo)
}

func TestApprovalKeepsSuppliedApprovedAt(t *testing.T) {
	f := newFixture(t)
	ticket := f.newTicket(t)
	at := time.Date(2023, 12, 24, 10, 0, 0, 0, time.UTC)

	view, err := f.approvals.Record(context.Background(), f.manager, ApprovalInput{TicketID: ticket.ID, Status: domain.ApprovalApproved, ApprovedAt: &at})
	require.NoError(t, err)
	assert.Equal(t, at, view.Approval.ApprovedAt)
}

func TestApprovalValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ticket := f.newTicket(t)

	_, err := f.approvals.Record(ctx, domain.Identity{}, ApprovalInput{TicketID: ticket.ID, Status: domain.ApprovalApproved})
	assert.Equal(t, http.StatusBadRequest, apperrors.ToDomainError(err).HTTPStatus)

	_, err = f.approvals.Record(ctx, f.manager, ApprovalInput{TicketID: ticket.ID, Status: "Rejected"})
	assert.Equal(t, http.StatusBadRequest, apperrors.ToDomainError(err).HTTPStatus)

	_, err = f.approvals.Record(ctx, f.manager, ApprovalInput{TicketID: ticket.ID})
	assert.Equal(t, "missing required fields: approval_status", apperrors.ToDomainError(err).Message)

	_, err = f.approvals.Record(ctx, f.manager, ApprovalInput{TicketID: "missing", Status: domain.ApprovalApproved})
	assert.Equal(t, http.StatusNotFound, apperrors.ToDomainError(err).HTTPStatus)
}
