package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/deskflow/helpdesk-service/internal/domain"
)

// StatusResolver maps a work-analysis verdict onto the ticket status.
type StatusResolver struct {
	applier *statusApplier
	logger  *zap.Logger
}

// NewStatusResolver shares the ticket service's status write path.
func NewStatusResolver(tickets *TicketService) *StatusResolver {
	return &StatusResolver{applier: tickets.applier, logger: tickets.logger}
}

// Resolve moves the ticket to the status named for material. The status record
// is created on first use; if that fails the ticket gets the name alone. Values
// outside the mapping leave the ticket untouched.
func (r *StatusResolver) Resolve(ctx context.Context, caller domain.Identity, ticketID string, material domain.MaterialRequired) (*domain.Ticket, error) {
	name, ok := material.StatusName()
	if !ok {
		r.logger.Debug("no status mapping for material value", zap.String("material_required", string(material)))
		return nil, nil
	}

	ticket, err := r.applier.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, ticketLookupError(err, ticketID)
	}

	var statusID *string
	status, created, err := r.applier.statuses.EnsureByName(ctx, name)
	switch {
	case err != nil:
		r.logger.Warn("status record unavailable, storing name only",
			zap.String("ticket_id", ticketID),
			zap.String("status", name),
			zap.Error(err))
	default:
		id := status.ID
		statusID = &id
		if created {
			r.logger.Info("ticket status created on first use", zap.String("name", status.Name), zap.Int("sort_order", status.SortOrder))
		}
	}

	if err := r.applier.apply(ctx, caller, ticket, statusID, name); err != nil {
		return nil, err
	}
	return ticket, nil
}
