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

const ticketCodeAttempts = 3

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets     repository.TicketRepository
	statuses    repository.TicketStatusRepository
	departments repository.DepartmentRepository
	companies   repository.CompanyRepository
	priorities  repository.PriorityRepository
	history     repository.TicketHistoryRepository
	applier     *statusApplier
	events      publisher
	logger      *zap.Logger
	now         func() time.Time
	newCode     func() string
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	StatusRepo     repository.TicketStatusRepository
	DepartmentRepo repository.DepartmentRepository
	CompanyRepo    repository.CompanyRepository
	PriorityRepo   repository.PriorityRepository
	HistoryRepo    repository.TicketHistoryRepository
	Dispatcher     events.Dispatcher
	Metrics        *observability.Metrics
	Logger         *zap.Logger
	Now            func() time.Time
	// CodeGenerator overrides ticket code generation.
	CodeGenerator func() string
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	DepartmentID string
	CompanyID    *string
	Title        string
	Description  string
	PriorityID   *string
	AssignedTo   []string
	ImagePath    *string
}

// TicketUpdateInput carries a partial edit. Nil fields are left alone.
type TicketUpdateInput struct {
	Title        *string
	Description  *string
	DepartmentID *string
	CompanyID    *string
	PriorityID   *string
	AssignedTo   *[]string
	ImagePath    *string
	Status       *StatusTarget
}

// BulkStatusResult reports a bulk status update.
type BulkStatusResult struct {
	Updated []domain.Ticket
	Missing []string
}

// DashboardSummary aggregates ticket counts for the dashboard charts.
type DashboardSummary struct {
	Total            int64
	ByStatus         []repository.CountBucket
	ByApprovalStatus []repository.CountBucket
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := orNop(deps.Logger)
	now := orNow(deps.Now)
	newCode := deps.CodeGenerator
	if newCode == nil {
		newCode = generateTicketCode
	}
	pub := publisher{dispatcher: deps.Dispatcher, metrics: deps.Metrics, now: now}
	return &TicketService{
		tickets:     deps.TicketRepo,
		statuses:    deps.StatusRepo,
		departments: deps.DepartmentRepo,
		companies:   deps.CompanyRepo,
		priorities:  deps.PriorityRepo,
		history:     deps.HistoryRepo,
		applier: &statusApplier{
			tickets:  deps.TicketRepo,
			statuses: deps.StatusRepo,
			history:  deps.HistoryRepo,
			events:   pub,
			logger:   logger,
			now:      now,
		},
		events:  pub,
		logger:  logger,
		now:     now,
		newCode: newCode,
	}
}

// CreateTicket creates a ticket raised by the caller.
func (s *TicketService) CreateTicket(ctx context.Context, caller domain.Identity, input TicketCreateInput) (*domain.Ticket, error) {
	if caller.IsZero() {
		return nil, errMissingIdentity
	}
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.DepartmentID) == "" {
		var missing []string
		if strings.TrimSpace(input.Title) == "" {
			missing = append(missing, "title")
		}
		if strings.TrimSpace(input.DepartmentID) == "" {
			missing = append(missing, "department_id")
		}
		return nil, apperrors.NewMissingFields(missing)
	}

	ticket := &domain.Ticket{
		RaisedByID:     caller.UserID,
		Title:          strings.TrimSpace(input.Title),
		Description:    strings.TrimSpace(input.Description),
		ImagePath:      input.ImagePath,
		ApprovalStatus: domain.TicketApprovalPending,
		AssignedTo:     dedupe(input.AssignedTo),
	}
	if err := s.applyDepartment(ctx, ticket, input.DepartmentID); err != nil {
		return nil, err
	}
	if err := s.applyCompany(ctx, ticket, input.CompanyID); err != nil {
		return nil, err
	}
	if err := s.applyPriority(ctx, ticket, input.PriorityID); err != nil {
		return nil, err
	}

	statusID, statusName := s.initialStatus(ctx)
	ticket.ApplyStatus(statusID, statusName, s.now())

	if err := s.insertWithCode(ctx, ticket); err != nil {
		return nil, err
	}

	s.events.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    events.ActorFrom(caller),
		Payload: events.TicketCreatedPayload{
			Code:         ticket.Code,
			DepartmentID: ticket.DepartmentID,
			Title:        ticket.Title,
			StatusName:   ticket.StatusName,
		},
	})
	return ticket, nil
}

// insertWithCode assigns a fresh code per attempt until the unique constraint accepts it.
func (s *TicketService) insertWithCode(ctx context.Context, ticket *domain.Ticket) error {
	for attempt := 0; attempt < ticketCodeAttempts; attempt++ {
		ticket.Code = s.newCode()
		err := s.tickets.Create(ctx, ticket)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return err
		}
		s.logger.Warn("ticket code collision", zap.String("code", ticket.Code), zap.Int("attempt", attempt+1))
	}
	return apperrors.NewConflict("could not allocate a unique ticket code", nil)
}

// initialStatus ensures the Open status. On failure the ticket starts with the
// name only.
func (s *TicketService) initialStatus(ctx context.Context) (*string, string) {
	status, _, err := s.statuses.EnsureByName(ctx, domain.StatusNameOpen)
	if err != nil {
		s.logger.Warn("initial status unavailable, using name only", zap.Error(err))
		return nil, domain.StatusNameOpen
	}
	id := status.ID
	return &id, status.Name
}

// ListTickets returns tickets newest first.
func (s *TicketService) ListTickets(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, err
	}
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	return tickets, nil
}

// GetTicket fetches one ticket.
func (s *TicketService) GetTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, ticketLookupError(err, ticketID)
	}
	return ticket, nil
}

// UpdateTicket applies a partial edit. A status change goes through the shared
// status path.
func (s *TicketService) UpdateTicket(ctx context.Context, caller domain.Identity, ticketID string, input TicketUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apperrors.NewValidationError("title cannot be empty", nil)
		}
		ticket.Title = title
	}
	if input.Description != nil {
		ticket.Description = strings.TrimSpace(*input.Description)
	}
	if input.DepartmentID != nil {
		if err := s.applyDepartment(ctx, ticket, *input.DepartmentID); err != nil {
			return nil, err
		}
	}
	if input.CompanyID != nil {
		if err := s.applyCompany(ctx, ticket, input.CompanyID); err != nil {
			return nil, err
		}
	}
	if input.PriorityID != nil {
		if err := s.applyPriority(ctx, ticket, input.PriorityID); err != nil {
			return nil, err
		}
	}
	if input.ImagePath != nil {
		ticket.ImagePath = input.ImagePath
	}

	var oldAssignees []string
	assigneesChanged := false
	if input.AssignedTo != nil {
		next := dedupe(*input.AssignedTo)
		if !sameSet(ticket.AssignedTo, next) {
			oldAssignees = ticket.AssignedTo
			assigneesChanged = true
		}
		ticket.AssignedTo = next
	}

	if input.Status != nil && !input.Status.IsEmpty() {
		statusID, statusName, err := s.applier.resolve(ctx, *input.Status)
		if err != nil {
			return nil, err
		}
		if err := s.applier.apply(ctx, caller, ticket, statusID, statusName); err != nil {
			return nil, err
		}
	} else if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}

	if assigneesChanged {
		recordHistory(ctx, s.history, s.logger, &domain.TicketHistory{
			TicketID:    ticket.ID,
			ChangedByID: actorRef(caller),
			ChangeType:  domain.ChangeTypeAssignee,
			OldValue:    map[string]any{"assigned_to": nonNil(oldAssignees)},
			NewValue:    map[string]any{"assigned_to": nonNil(ticket.AssignedTo)},
		})
	}
	return ticket, nil
}

// DeleteTicket removes the ticket only. Analyses, approvals and logs stay.
func (s *TicketService) DeleteTicket(ctx context.Context, ticketID string) error {
	if err := s.tickets.Delete(ctx, ticketID); err != nil {
		return ticketLookupError(err, ticketID)
	}
	return nil
}

// UpdateStatus moves one ticket to the target status.
func (s *TicketService) UpdateStatus(ctx context.Context, caller domain.Identity, ticketID string, target StatusTarget) (*domain.Ticket, error) {
	statusID, statusName, err := s.applier.resolve(ctx, target)
	if err != nil {
		return nil, err
	}
	ticket, err := s.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := s.applier.apply(ctx, caller, ticket, statusID, statusName); err != nil {
		return nil, err
	}
	return ticket, nil
}

// BulkUpdateStatus moves every listed ticket to the target status. Unknown ids
// are reported, not fatal.
func (s *TicketService) BulkUpdateStatus(ctx context.Context, caller domain.Identity, ticketIDs []string, target StatusTarget) (*BulkStatusResult, error) {
	ids := dedupe(ticketIDs)
	if len(ids) == 0 {
		return nil, apperrors.NewMissingFields([]string{"ticket_ids"})
	}
	statusID, statusName, err := s.applier.resolve(ctx, target)
	if err != nil {
		return nil, err
	}

	result := &BulkStatusResult{Updated: []domain.Ticket{}, Missing: []string{}}
	for _, id := range ids {
		ticket, err := s.tickets.GetByID(ctx, id)
		if err != nil {
			if apperrors.IsNotFound(err) {
				result.Missing = append(result.Missing, id)
				continue
			}
			return nil, err
		}
		if err := s.applier.apply(ctx, caller, ticket, statusID, statusName); err != nil {
			return nil, err
		}
		result.Updated = append(result.Updated, *ticket)
	}
	return result, nil
}

// ListHistory returns the audit trail of a ticket, oldest first.
func (s *TicketService) ListHistory(ctx context.Context, ticketID string) ([]domain.TicketHistory, error) {
	if _, err := s.GetTicket(ctx, ticketID); err != nil {
		return nil, err
	}
	if s.history == nil {
		return []domain.TicketHistory{}, nil
	}
	entries, err := s.history.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.TicketHistory{}
	}
	return entries, nil
}

// Dashboard counts tickets by status and by approval status.
func (s *TicketService) Dashboard(ctx context.Context) (*DashboardSummary, error) {
	byStatus, err := s.tickets.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	byApproval, err := s.tickets.CountByApprovalStatus(ctx)
	if err != nil {
		return nil, err
	}
	summary := &DashboardSummary{
		ByStatus:         nonNilBuckets(byStatus),
		ByApprovalStatus: nonNilBuckets(byApproval),
	}
	for _, bucket := range byStatus {
		summary.Total += bucket.Count
	}
	return summary, nil
}

func (s *TicketService) applyDepartment(ctx context.Context, ticket *domain.Ticket, departmentID string) error {
	departmentID = strings.TrimSpace(departmentID)
	dept, err := s.departments.GetByID(ctx, departmentID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewNotFound("department", map[string]any{"department_id": departmentID})
		}
		return err
	}
	if !dept.IsActive {
		return apperrors.NewValidationError("department inactive", map[string]any{"department_id": departmentID})
	}
	ticket.DepartmentID = dept.ID
	return nil
}

func (s *TicketService) applyCompany(ctx context.Context, ticket *domain.Ticket, companyID *string) error {
	if blank(companyID) {
		ticket.CompanyID = nil
		return nil
	}
	company, err := s.companies.GetByID(ctx, strings.TrimSpace(*companyID))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewNotFound("company", map[string]any{"company_id": *companyID})
		}
		return err
	}
	id := company.ID
	ticket.CompanyID = &id
	return nil
}

func (s *TicketService) applyPriority(ctx context.Context, ticket *domain.Ticket, priorityID *string) error {
	if blank(priorityID) {
		ticket.PriorityID = nil
		ticket.PriorityName = ""
		return nil
	}
	priority, err := s.priorities.GetByID(ctx, strings.TrimSpace(*priorityID))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewNotFound("priority", map[string]any{"priority_id": *priorityID})
		}
		return err
	}
	id := priority.ID
	ticket.PriorityID = &id
	ticket.PriorityName = priority.Name
	return nil
}

func ticketLookupError(err error, ticketID string) error {
	if apperrors.IsNotFound(err) {
		return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
	}
	return err
}

func generateTicketCode() string {
	return "TCK-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// dedupe trims, drops blanks and keeps first occurrences.
func dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, v := range a {
		set[v] = struct{}{}
	}
	for _, v := range b {
		if _, ok := set[v]; !ok {
			return false
		}
	}
	return true
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func nonNilBuckets(buckets []repository.CountBucket) []repository.CountBucket {
	if buckets == nil {
		return []repository.CountBucket{}
	}
	return buckets
}
