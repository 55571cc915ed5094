package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/deskflow/helpdesk-service/internal/domain"
	"github.com/deskflow/helpdesk-service/internal/repository"
	apperrors "github.com/deskflow/helpdesk-service/pkg/util/errorutil"
)

// StatusService manages the runtime ticket status taxonomy.
type StatusService struct {
	statuses repository.TicketStatusRepository
	logger   *zap.Logger
}

// StatusCreateInput describes a new status. A zero SortOrder appends it.
type StatusCreateInput struct {
	Name      string
	SortOrder int
	IsActive  *bool
}

// StatusUpdateInput is a partial status edit.
type StatusUpdateInput struct {
	Name      *string
	SortOrder *int
	IsActive  *bool
}

// NewStatusService constructs the service.
func NewStatusService(statuses repository.TicketStatusRepository, logger *zap.Logger) *StatusService {
	return &StatusService{statuses: statuses, logger: orNop(logger)}
}

// Bootstrap makes sure every named status exists. It is safe to run on every start.
func (s *StatusService) Bootstrap(ctx context.Context, names []string) error {
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		status, created, err := s.statuses.EnsureByName(ctx, name)
		if err != nil {
			return err
		}
		if created {
			s.logger.Info("ticket status created", zap.String("name", status.Name), zap.Int("sort_order", status.SortOrder))
		}
	}
	return nil
}

// List returns statuses in sort order.
func (s *StatusService) List(ctx context.Context, activeOnly bool) ([]domain.TicketStatus, error) {
	statuses, err := s.statuses.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	if statuses == nil {
		statuses = []domain.TicketStatus{}
	}
	return statuses, nil
}

// Create adds a status.
func (s *StatusService) Create(ctx context.Context, input StatusCreateInput) (*domain.TicketStatus, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewMissingFields([]string{"name"})
	}
	if input.SortOrder < 0 {
		return nil, apperrors.NewValidationError("sort_order must be positive", nil)
	}

	if input.SortOrder == 0 {
		status, created, err := s.statuses.EnsureByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if !created {
			return nil, statusConflict(name)
		}
		if input.IsActive != nil && !*input.IsActive {
			status.IsActive = false
			if err := s.statuses.Update(ctx, status); err != nil {
				return nil, err
			}
		}
		return status, nil
	}

	status := &domain.TicketStatus{Name: name, SortOrder: input.SortOrder, IsActive: true}
	if input.IsActive != nil {
		status.IsActive = *input.IsActive
	}
	if err := s.statuses.Create(ctx, status); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, statusConflict(name)
		}
		return nil, err
	}
	return status, nil
}

// Update edits a status. A rename reaches every ticket on the status.
func (s *StatusService) Update(ctx context.Context, id string, input StatusUpdateInput) (*domain.TicketStatus, error) {
	status, err := s.statuses.GetByID(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("ticket status", map[string]any{"status_id": id})
		}
		return nil, err
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("name cannot be empty", nil)
		}
		status.Name = name
	}
	if input.SortOrder != nil {
		if *input.SortOrder <= 0 {
			return nil, apperrors.NewValidationError("sort_order must be positive", nil)
		}
		status.SortOrder = *input.SortOrder
	}
	if input.IsActive != nil {
		status.IsActive = *input.IsActive
	}
	if err := s.statuses.Update(ctx, status); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, statusConflict(status.Name)
		}
		return nil, err
	}
	return status, nil
}

func statusConflict(name string) error {
	return apperrors.NewConflict("ticket status already exists or sort order taken", map[string]any{"name": name})
}
