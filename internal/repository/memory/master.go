package memory

import (
	"context"
	"sort"

	"github.com/jackc/pgx/v5"

	"github.com/deskflow/helpdesk-service/internal/domain"
)

type departmentRepo struct{ s *Store }

func (r *departmentRepo) GetByID(_ context.Context, id string) (*domain.Department, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	dept, ok := r.s.departments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &dept, nil
}

func (r *departmentRepo) ListActive(_ context.Context) ([]domain.Department, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.Department, 0, len(r.s.departments))
	for _, d := range r.s.departments {
		if d.IsActive {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type companyRepo struct{ s *Store }

func (r *companyRepo) GetByID(_ context.Context, id string) (*domain.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	company, ok := r.s.companies[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &company, nil
}

func (r *companyRepo) ListActive(_ context.Context) ([]domain.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.Company, 0, len(r.s.companies))
	for _, c := range r.s.companies {
		if c.IsActive {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type priorityRepo struct{ s *Store }

func (r *priorityRepo) GetByID(_ context.Context, id string) (*domain.Priority, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.priorities[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &p, nil
}

func (r *priorityRepo) ListActive(_ context.Context) ([]domain.Priority, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.Priority, 0, len(r.s.priorities))
	for _, p := range r.s.priorities {
		if p.IsActive {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Level < out[j].Level })
	return out, nil
}

type designationRepo struct{ s *Store }

func (r *designationRepo) ListActive(_ context.Context) ([]domain.Designation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.Designation, 0, len(r.s.designations))
	for _, d := range r.s.designations {
		if d.IsActive {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
