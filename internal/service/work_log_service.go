package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/deskflow/helpdesk-service/internal/domain"
	"github.com/deskflow/helpdesk-service/internal/events"
	"github.com/deskflow/helpdesk-service/internal/observability"
	"github.com/deskflow/helpdesk-service/internal/repository"
	apperrors "github.com/deskflow/helpdesk-service/pkg/util/errorutil"
)

// WorkLogService records labor entries against tickets.
type WorkLogService struct {
	logs     repository.WorkLogRepository
	tickets  repository.TicketRepository
	analyses repository.WorkAnalysisRepository
	events   publisher
	logger   *zap.Logger
}

// WorkLogDependencies bundles collaborators for the service.
type WorkLogDependencies struct {
	WorkLogRepo  repository.WorkLogRepository
	TicketRepo   repository.TicketRepository
	AnalysisRepo repository.WorkAnalysisRepository
	Dispatcher   events.Dispatcher
	Metrics      *observability.Metrics
	Logger       *zap.Logger
	Now          func() time.Time
}

// WorkLogInput carries the raw entry. Times and duration are stored as given.
type WorkLogInput struct {
	TicketID   string
	AnalysisID string
	WorkerID   string
	WorkerName string
	FromTime   string
	ToTime     string
	Duration   string
	LogDate    string
}

// NewWorkLogService constructs the service.
func NewWorkLogService(deps WorkLogDependencies) *WorkLogService {
	return &WorkLogService{
		logs:     deps.WorkLogRepo,
		tickets:  deps.TicketRepo,
		analyses: deps.AnalysisRepo,
		events:   publisher{dispatcher: deps.Dispatcher, metrics: deps.Metrics, now: orNow(deps.Now)},
		logger:   orNop(deps.Logger),
	}
}

// Record validates and stores one work log.
func (s *WorkLogService) Record(ctx context.Context, caller domain.Identity, input WorkLogInput) (*domain.WorkLog, error) {
	if missing := missingWorkLogFields(input); len(missing) > 0 {
		return nil, apperrors.NewMissingFields(missing)
	}
	logDate, err := parseLogDate(input.LogDate)
	if err != nil {
		return nil, apperrors.NewValidationError("log_date must be YYYY-MM-DD or RFC3339", map[string]any{"log_date": input.LogDate})
	}

	ticketID := strings.TrimSpace(input.TicketID)
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		return nil, ticketLookupError(err, ticketID)
	}

	entry := &domain.WorkLog{
		LogID:      newWorkLogID(),
		TicketID:   ticketID,
		WorkerID:   strings.TrimSpace(input.WorkerID),
		WorkerName: strings.TrimSpace(input.WorkerName),
		FromTime:   strings.TrimSpace(input.FromTime),
		ToTime:     strings.TrimSpace(input.ToTime),
		Duration:   strings.TrimSpace(input.Duration),
		LogDate:    logDate,
	}
	if analysisID := strings.TrimSpace(input.AnalysisID); analysisID != "" {
		if _, err := s.analyses.GetByAnalysisID(ctx, analysisID); err != nil {
			return nil, analysisLookupError(err, map[string]any{"analysis_id": analysisID})
		}
		entry.AnalysisID = &analysisID
	}

	if err := s.logs.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.events.publish(ctx, events.Event{
		Type:     events.EventWorkLogRecorded,
		TicketID: entry.TicketID,
		Actor:    events.ActorFrom(caller),
		Payload: events.WorkLogRecordedPayload{
			LogID:    entry.LogID,
			WorkerID: entry.WorkerID,
			Duration: entry.Duration,
		},
	})
	return entry, nil
}

// List returns logs for a ticket or an analysis, newest first. The analysis
// filter wins when both are given.
func (s *WorkLogService) List(ctx context.Context, ticketID, analysisID string) ([]domain.WorkLog, error) {
	ticketID, analysisID = strings.TrimSpace(ticketID), strings.TrimSpace(analysisID)
	var (
		logs []domain.WorkLog
		err  error
	)
	switch {
	case analysisID != "":
		logs, err = s.logs.ListByAnalysis(ctx, analysisID)
	case ticketID != "":
		logs, err = s.logs.ListByTicket(ctx, ticketID)
	default:
		return nil, apperrors.NewValidationError("ticket_id or analysis_id is required", nil)
	}
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []domain.WorkLog{}
	}
	return logs, nil
}

// Delete removes a log by its generated id.
func (s *WorkLogService) Delete(ctx context.Context, logID string) error {
	if err := s.logs.Delete(ctx, strings.TrimSpace(logID)); err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewNotFound("work log", map[string]any{"log_id": logID})
		}
		return err
	}
	return nil
}

func missingWorkLogFields(input WorkLogInput) []string {
	required := []struct {
		name  string
		value string
	}{
		{"ticket_id", input.TicketID},
		{"worker_id", input.WorkerID},
		{"worker_name", input.WorkerName},
		{"from_time", input.FromTime},
		{"to_time", input.ToTime},
		{"duration", input.Duration},
		{"log_date", input.LogDate},
	}
	var missing []string
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	return missing
}

func parseLogDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func newWorkLogID() string {
	return "WL-" + uuid.NewString()
}
