package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/deskflow/helpdesk-service/internal/domain"
	"github.com/deskflow/helpdesk-service/internal/events"
	"github.com/deskflow/helpdesk-service/internal/repository"
	apperrors "github.com/deskflow/helpdesk-service/pkg/util/errorutil"
)

// StatusTarget names the status a ticket should move to. Either field may be
// set; ID wins and its name is read from the status record.
type StatusTarget struct {
	ID   *string
	Name *string
}

// IsEmpty reports whether neither the id nor the name was supplied.
func (t StatusTarget) IsEmpty() bool {
	return blank(t.ID) && blank(t.Name)
}

// statusApplier is the single write path for ticket status changes, so the
// closed_at rule runs for every caller.
type statusApplier struct {
	tickets  repository.TicketRepository
	statuses repository.TicketStatusRepository
	history  repository.TicketHistoryRepository
	events   publisher
	logger   *zap.Logger
	now      func() time.Time
}

// resolve turns a target into a status reference and name.
func (a *statusApplier) resolve(ctx context.Context, target StatusTarget) (*string, string, error) {
	switch {
	case !blank(target.ID):
		status, err := a.statuses.GetByID(ctx, strings.TrimSpace(*target.ID))
		if err != nil {
			if apperrors.IsNotFound(err) {
				return nil, "", apperrors.NewNotFound("ticket status", map[string]any{"status_id": *target.ID})
			}
			return nil, "", err
		}
		id := status.ID
		return &id, status.Name, nil
	case !blank(target.Name):
		name := strings.TrimSpace(*target.Name)
		status, err := a.statuses.GetByName(ctx, name)
		if err != nil {
			if apperrors.IsNotFound(err) {
				return nil, "", apperrors.NewNotFound("ticket status", map[string]any{"status": name})
			}
			return nil, "", err
		}
		id := status.ID
		return &id, status.Name, nil
	}
	return nil, "", apperrors.NewValidationError("status or status_id is required", nil)
}

// apply moves ticket to the status and saves it. History and the change event
// are emitted only when the status actually moved.
func (a *statusApplier) apply(ctx context.Context, actor domain.Identity, ticket *domain.Ticket, statusID *string, statusName string) error {
	oldName := ticket.StatusName
	refChanged := ticket.ApplyStatus(statusID, statusName, a.now())
	if err := a.tickets.Update(ctx, ticket); err != nil {
		return err
	}
	if !refChanged && oldName == statusName {
		return nil
	}

	recordHistory(ctx, a.history, a.logger, &domain.TicketHistory{
		TicketID:    ticket.ID,
		ChangedByID: actorRef(actor),
		ChangeType:  domain.ChangeTypeStatus,
		OldValue:    map[string]any{"status": oldName},
		NewValue:    map[string]any{"status": statusName, "status_id": ticket.StatusID},
	})
	a.events.publish(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Actor:    events.ActorFrom(actor),
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldName,
			NewStatus: statusName,
			Closed:    ticket.IsClosed(),
		},
	})
	return nil
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
