package service

import (
	"context"
	"errors"
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

// WorkAnalysisService records the single analysis per ticket.
type WorkAnalysisService struct {
	analyses  repository.WorkAnalysisRepository
	tickets   repository.TicketRepository
	history   repository.TicketHistoryRepository
	resolver  *StatusResolver
	directory *UserDirectory
	events    publisher
	logger    *zap.Logger
	now       func() time.Time
}

// WorkAnalysisDependencies bundles collaborators for the service.
type WorkAnalysisDependencies struct {
	AnalysisRepo repository.WorkAnalysisRepository
	TicketRepo   repository.TicketRepository
	HistoryRepo  repository.TicketHistoryRepository
	Resolver     *StatusResolver
	Directory    *UserDirectory
	Dispatcher   events.Dispatcher
	Metrics      *observability.Metrics
	Logger       *zap.Logger
	Now          func() time.Time
}

// WorkAnalysisInput is one submission. MaterialRequired is already decoded.
type WorkAnalysisInput struct {
	TicketID            string
	MaterialRequired    domain.MaterialRequired
	MaterialDescription string
	WorkerID            string
	WorkerName          string
	Images              []string
}

// WorkAnalysisResult is a stored analysis plus response enrichment.
type WorkAnalysisResult struct {
	Analysis domain.WorkAnalysis
	// Created is true when the submission inserted a new analysis.
	Created           bool
	WorkerDisplayName string
	// TicketStatus is the ticket's status name after resolution, empty when
	// resolution did not run.
	TicketStatus string
}

// NewWorkAnalysisService constructs the service.
func NewWorkAnalysisService(deps WorkAnalysisDependencies) *WorkAnalysisService {
	now := orNow(deps.Now)
	return &WorkAnalysisService{
		analyses:  deps.AnalysisRepo,
		tickets:   deps.TicketRepo,
		history:   deps.HistoryRepo,
		resolver:  deps.Resolver,
		directory: deps.Directory,
		events:    publisher{dispatcher: deps.Dispatcher, metrics: deps.Metrics, now: now},
		logger:    orNop(deps.Logger),
		now:       now,
	}
}

// Submit creates the ticket's analysis or folds the submission into the
// existing one, then resolves the ticket status. Resolution and display-name
// failures never fail the submission.
func (s *WorkAnalysisService) Submit(ctx context.Context, caller domain.Identity, input WorkAnalysisInput) (*WorkAnalysisResult, error) {
	if caller.IsZero() {
		return nil, errMissingIdentity
	}
	ticketID := strings.TrimSpace(input.TicketID)
	var missing []string
	if ticketID == "" {
		missing = append(missing, "ticket_id")
	}
	if input.MaterialRequired == "" {
		missing = append(missing, "material_required")
	}
	if len(missing) > 0 {
		return nil, apperrors.NewMissingFields(missing)
	}
	if _, ok := input.MaterialRequired.StatusName(); !ok {
		return nil, apperrors.NewValidationError(domain.ErrInvalidMaterialRequired.Error(),
			map[string]any{"material_required": string(input.MaterialRequired)})
	}
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		return nil, ticketLookupError(err, ticketID)
	}

	workerID := strings.TrimSpace(input.WorkerID)
	if workerID == "" {
		workerID = caller.UserID
	}

	analysis := &domain.WorkAnalysis{
		AnalysisID:          newAnalysisID(),
		TicketID:            ticketID,
		WorkerID:            workerID,
		WorkerName:          strings.TrimSpace(input.WorkerName),
		MaterialRequired:    input.MaterialRequired,
		MaterialDescription: input.MaterialRequired.Description(input.MaterialDescription),
		Images:              dedupe(input.Images),
		ApprovalStatus:      domain.AnalysisPending,
	}
	created, err := s.analyses.Upsert(ctx, analysis)
	if errors.Is(err, repository.ErrDuplicate) {
		// analysis id collision; a second id is enough
		analysis.AnalysisID = newAnalysisID()
		created, err = s.analyses.Upsert(ctx, analysis)
	}
	if err != nil {
		return nil, err
	}

	result := &WorkAnalysisResult{Analysis: *analysis, Created: created}

	if s.resolver != nil {
		ticket, err := s.resolver.Resolve(ctx, caller, ticketID, analysis.MaterialRequired)
		if err != nil {
			s.logger.Warn("ticket status resolution failed",
				zap.String("ticket_id", ticketID),
				zap.String("analysis_id", analysis.AnalysisID),
				zap.Error(err))
		} else if ticket != nil {
			result.TicketStatus = ticket.StatusName
		}
	}

	recordHistory(ctx, s.history, s.logger, &domain.TicketHistory{
		TicketID:    ticketID,
		ChangedByID: actorRef(caller),
		ChangeType:  domain.ChangeTypeAnalysis,
		NewValue: map[string]any{
			"analysis_id":       analysis.AnalysisID,
			"material_required": string(analysis.MaterialRequired),
			"created":           created,
		},
	})
	s.events.publish(ctx, events.Event{
		Type:     events.EventWorkAnalysisSubmitted,
		TicketID: ticketID,
		Actor:    events.ActorFrom(caller),
		Payload: events.WorkAnalysisSubmittedPayload{
			AnalysisID:       analysis.AnalysisID,
			WorkerID:         analysis.WorkerID,
			MaterialRequired: analysis.MaterialRequired,
			Created:          created,
		},
	})

	result.WorkerDisplayName = s.displayName(ctx, analysis)
	return result, nil
}

// Get returns an analysis by its generated id.
func (s *WorkAnalysisService) Get(ctx context.Context, analysisID string) (*WorkAnalysisResult, error) {
	analysis, err := s.analyses.GetByAnalysisID(ctx, analysisID)
	if err != nil {
		return nil, analysisLookupError(err, map[string]any{"analysis_id": analysisID})
	}
	return s.view(ctx, analysis), nil
}

// GetByTicket returns the ticket's analysis.
func (s *WorkAnalysisService) GetByTicket(ctx context.Context, ticketID string) (*WorkAnalysisResult, error) {
	analysis, err := s.analyses.GetByTicket(ctx, ticketID)
	if err != nil {
		return nil, analysisLookupError(err, map[string]any{"ticket_id": ticketID})
	}
	return s.view(ctx, analysis), nil
}

// List returns analyses newest first.
func (s *WorkAnalysisService) List(ctx context.Context, limit, offset int) ([]WorkAnalysisResult, error) {
	analyses, err := s.analyses.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]WorkAnalysisResult, 0, len(analyses))
	for i := range analyses {
		out = append(out, *s.view(ctx, &analyses[i]))
	}
	return out, nil
}

// Decide records a manager decision on an analysis. It does not touch the
// ticket's own approval status.
func (s *WorkAnalysisService) Decide(ctx context.Context, caller domain.Identity, analysisID string, status domain.AnalysisApprovalStatus) (*WorkAnalysisResult, error) {
	if caller.IsZero() {
		return nil, errMissingIdentity
	}
	if status != domain.AnalysisApproved && status != domain.AnalysisRejected {
		return nil, apperrors.NewValidationError("decision must be Approved or Rejected", nil)
	}
	analysis, err := s.analyses.GetByAnalysisID(ctx, analysisID)
	if err != nil {
		return nil, analysisLookupError(err, map[string]any{"analysis_id": analysisID})
	}

	analysis.Decide(status, caller.UserID, s.now())
	if err := s.analyses.UpdateDecision(ctx, analysis); err != nil {
		return nil, analysisLookupError(err, map[string]any{"analysis_id": analysisID})
	}

	s.events.publish(ctx, events.Event{
		Type:     events.EventWorkAnalysisDecided,
		TicketID: analysis.TicketID,
		Actor:    events.ActorFrom(caller),
		Payload: events.WorkAnalysisDecidedPayload{
			AnalysisID: analysis.AnalysisID,
			Status:     status,
		},
	})
	return s.view(ctx, analysis), nil
}

func (s *WorkAnalysisService) view(ctx context.Context, analysis *domain.WorkAnalysis) *WorkAnalysisResult {
	return &WorkAnalysisResult{Analysis: *analysis, WorkerDisplayName: s.displayName(ctx, analysis)}
}

func (s *WorkAnalysisService) displayName(ctx context.Context, analysis *domain.WorkAnalysis) string {
	if s.directory == nil {
		return analysis.WorkerID
	}
	return s.directory.DisplayName(ctx, analysis.WorkerID)
}

func analysisLookupError(err error, details map[string]any) error {
	if apperrors.IsNotFound(err) {
		return apperrors.NewNotFound("work analysis", details)
	}
	return err
}

func newAnalysisID() string {
	return "WA-" + uuid.NewString()
}
