package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/deskflow/helpdesk-service/internal/domain"
	"github.com/deskflow/helpdesk-service/internal/events"
	"github.com/deskflow/helpdesk-service/internal/observability"
	"github.com/deskflow/helpdesk-service/internal/repository"
	apperrors "github.com/deskflow/helpdesk-service/pkg/util/errorutil"
)

// ApprovalService appends manager decisions to a ticket's approval log.
type ApprovalService struct {
	approvals repository.ApprovalRepository
	tickets   repository.TicketRepository
	history   repository.TicketHistoryRepository
	directory *UserDirectory
	events    publisher
	logger    *zap.Logger
	now       func() time.Time
}

// ApprovalDependencies bundles collaborators for the service.
type ApprovalDependencies struct {
	ApprovalRepo repository.ApprovalRepository
	TicketRepo   repository.TicketRepository
	HistoryRepo  repository.TicketHistoryRepository
	Directory    *UserDirectory
	Dispatcher   events.Dispatcher
	Metrics      *observability.Metrics
	Logger       *zap.Logger
	Now          func() time.Time
}

// ApprovalInput is one decision. The approver is always the caller.
type ApprovalInput struct {
	TicketID    string
	Status      domain.ApprovalDecision
	AssigneeIDs []string
	Remarks     string
	ApprovedAt  *time.Time
}

// ApprovalView is an approval with its user references expanded.
type ApprovalView struct {
	Approval  domain.Approval
	Approver  UserRef
	Assignees []UserRef
}

// NewApprovalService constructs the service.
func NewApprovalService(deps ApprovalDependencies) *ApprovalService {
	now := orNow(deps.Now)
	return &ApprovalService{
		approvals: deps.ApprovalRepo,
		tickets:   deps.TicketRepo,
		history:   deps.HistoryRepo,
		directory: deps.Directory,
		events:    publisher{dispatcher: deps.Dispatcher, metrics: deps.Metrics, now: now},
		logger:    orNop(deps.Logger),
		now:       now,
	}
}

// Record appends a decision. Every call creates a new approval.
func (s *ApprovalService) Record(ctx context.Context, caller domain.Identity, input ApprovalInput) (*ApprovalView, error) {
	if caller.IsZero() {
		return nil, errMissingIdentity
	}
	ticketID := strings.TrimSpace(input.TicketID)
	var missing []string
	if ticketID == "" {
		missing = append(missing, "ticket_id")
	}
	if input.Status == "" {
		missing = append(missing, "approval_status")
	}
	if len(missing) > 0 {
		return nil, apperrors.NewMissingFields(missing)
	}
	if !input.Status.Valid() {
		return nil, apperrors.NewValidationError("approval_status must be Approved or Not Approved",
			map[string]any{"approval_status": string(input.Status)})
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, ticketLookupError(err, ticketID)
	}

	approvedAt := s.now()
	if input.ApprovedAt != nil && !input.ApprovedAt.IsZero() {
		approvedAt = *input.ApprovedAt
	}
	approval := &domain.Approval{
		TicketID:    ticket.ID,
		ApproverID:  caller.UserID,
		AssigneeIDs: dedupe(input.AssigneeIDs),
		Status:      input.Status,
		Remarks:     strings.TrimSpace(input.Remarks),
		ApprovedAt:  approvedAt,
	}
	if err := s.approvals.Create(ctx, approval); err != nil {
		return nil, err
	}

	s.stampTicket(ctx, caller, ticket, approval)
	s.events.publish(ctx, events.Event{
		Type:     events.EventApprovalRecorded,
		TicketID: ticket.ID,
		Actor:    events.ActorFrom(caller),
		Payload: events.ApprovalRecordedPayload{
			ApprovalID:  approval.ID,
			Status:      approval.Status,
			AssigneeIDs: approval.AssigneeIDs,
		},
	})
	return s.expand(ctx, *approval), nil
}

// ListByTicket returns the ticket's approvals newest first.
func (s *ApprovalService) ListByTicket(ctx context.Context, ticketID string) ([]ApprovalView, error) {
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		return nil, ticketLookupError(err, ticketID)
	}
	approvals, err := s.approvals.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	out := make([]ApprovalView, 0, len(approvals))
	for _, approval := range approvals {
		out = append(out, *s.expand(ctx, approval))
	}
	return out, nil
}

// stampTicket mirrors the latest decision onto the ticket. The approval is the
// record of truth, so failures here are logged only.
func (s *ApprovalService) stampTicket(ctx context.Context, caller domain.Identity, ticket *domain.Ticket, approval *domain.Approval) {
	oldStatus := ticket.ApprovalStatus
	ticket.ApprovalStatus = approval.Status.TicketApprovalStatus()
	approverID := approval.ApproverID
	ticket.ApproverID = &approverID
	approvedAt := approval.ApprovedAt
	ticket.ApprovedAt = &approvedAt
	if len(approval.AssigneeIDs) > 0 {
		ticket.AssignedTo = append([]string(nil), approval.AssigneeIDs...)
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		s.logger.Warn("ticket approval stamp failed",
			zap.String("ticket_id", ticket.ID),
			zap.String("approval_id", approval.ID),
			zap.Error(err))
		return
	}
	recordHistory(ctx, s.history, s.logger, &domain.TicketHistory{
		TicketID:    ticket.ID,
		ChangedByID: actorRef(caller),
		ChangeType:  domain.ChangeTypeApproval,
		OldValue:    map[string]any{"approval_status": string(oldStatus)},
		NewValue: map[string]any{
			"approval_status": string(ticket.ApprovalStatus),
			"approval_id":     approval.ID,
			"remarks":         approval.Remarks,
		},
	})
}

func (s *ApprovalService) expand(ctx context.Context, approval domain.Approval) *ApprovalView {
	view := &ApprovalView{Approval: approval, Approver: UserRef{ID: approval.ApproverID}}
	if s.directory == nil {
		view.Assignees = make([]UserRef, 0, len(approval.AssigneeIDs))
		for _, id := range approval.AssigneeIDs {
			view.Assignees = append(view.Assignees, UserRef{ID: id})
		}
		return view
	}
	refs := s.directory.Expand(ctx, append([]string{approval.ApproverID}, approval.AssigneeIDs...))
	view.Approver = refs[0]
	view.Assignees = refs[1:]
	return view
}
