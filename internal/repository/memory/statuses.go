package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/deskflow/helpdesk-service/internal/domain"
	"github.com/deskflow/helpdesk-service/internal/repository"
)

type statusRepo struct{ s *Store }

func (r *statusRepo) EnsureByName(_ context.Context, name string) (*domain.TicketStatus, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if existing := r.findByName(name); existing != nil {
		status := *existing
		return &status, false, nil
	}
	status := domain.TicketStatus{Name: name, SortOrder: r.maxSortOrder() + 1, IsActive: true}
	r.insert(&status)
	out := status
	return &out, true, nil
}

func (r *statusRepo) Create(_ context.Context, status *domain.TicketStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if status.SortOrder <= 0 {
		status.SortOrder = r.maxSortOrder() + 1
	}
	if r.conflicts(status) {
		return repository.ErrDuplicate
	}
	r.insert(status)
	return nil
}

func (r *statusRepo) Update(_ context.Context, status *domain.TicketStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.statuses[status.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if r.conflicts(status) {
		return repository.ErrDuplicate
	}
	now := r.s.now()
	if rec.value.Name != status.Name {
		for _, ticket := range r.s.tickets {
			if ticket.value.StatusID != nil && *ticket.value.StatusID == status.ID {
				ticket.value.RenameStatus(status.Name, now)
				ticket.value.UpdatedAt = now
			}
		}
	}
	status.CreatedAt = rec.value.CreatedAt
	status.UpdatedAt = now
	rec.value = *status
	return nil
}

func (r *statusRepo) GetByID(_ context.Context, id string) (*domain.TicketStatus, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.statuses[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	status := rec.value
	return &status, nil
}

func (r *statusRepo) GetByName(_ context.Context, name string) (*domain.TicketStatus, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if existing := r.findByName(name); existing != nil {
		status := *existing
		return &status, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *statusRepo) List(_ context.Context, activeOnly bool) ([]domain.TicketStatus, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.TicketStatus, 0, len(r.s.statuses))
	for _, rec := range r.s.statuses {
		if activeOnly && !rec.value.IsActive {
			continue
		}
		out = append(out, rec.value)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (r *statusRepo) insert(status *domain.TicketStatus) {
	status.ID = uuid.NewString()
	status.CreatedAt = r.s.now()
	status.UpdatedAt = status.CreatedAt
	r.s.statuses[status.ID] = &record[domain.TicketStatus]{seq: r.s.nextSeq(), value: *status}
}

func (r *statusRepo) findByName(name string) *domain.TicketStatus {
	for _, rec := range r.s.statuses {
		if rec.value.Name == name {
			return &rec.value
		}
	}
	return nil
}

func (r *statusRepo) conflicts(status *domain.TicketStatus) bool {
	for id, rec := range r.s.statuses {
		if id == status.ID {
			continue
		}
		if rec.value.Name == status.Name || rec.value.SortOrder == status.SortOrder {
			return true
		}
	}
	return false
}

func (r *statusRepo) maxSortOrder() int {
	max := 0
	for _, rec := range r.s.statuses {
		if rec.value.SortOrder > max {
			max = rec.value.SortOrder
		}
	}
	return max
}
