package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/deskflow/helpdesk-service/internal/domain"
	"github.com/deskflow/helpdesk-service/internal/events"
	"github.com/deskflow/helpdesk-service/internal/observability"
	"github.com/deskflow/helpdesk-service/internal/repository"
	apperrors "github.com/deskflow/helpdesk-service/pkg/util/errorutil"
)

// errMissingIdentity is returned when a workflow call carries no caller.
var errMissingIdentity = apperrors.NewValidationError("caller identity required", nil)

// publisher stamps and forwards events. A nil dispatcher drops them.
type publisher struct {
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	now        func() time.Time
}

func (p publisher) publish(ctx context.Context, event events.Event) {
	if p.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now()
	}
	p.metrics.RecordEvent(string(event.Type))
	_ = p.dispatcher.Publish(ctx, event)
}

// recordHistory appends an audit entry. Failures are logged only; the change
// it describes is already stored.
func recordHistory(ctx context.Context, repo repository.TicketHistoryRepository, logger *zap.Logger, entry *domain.TicketHistory) {
	if repo == nil {
		return
	}
	if err := repo.Create(ctx, entry); err != nil {
		logger.Warn("ticket history write failed",
			zap.String("ticket_id", entry.TicketID),
			zap.String("change_type", string(entry.ChangeType)),
			zap.Error(err))
	}
}

func actorRef(identity domain.Identity) *string {
	if identity.IsZero() {
		return nil
	}
	id := identity.UserID
	return &id
}

func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func orNow(now func() time.Time) func() time.Time {
	if now == nil {
		return time.Now
	}
	return now
}
