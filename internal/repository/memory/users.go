package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/deskflow/helpdesk-service/internal/domain"
	"github.com/deskflow/helpdesk-service/internal/repository"
)

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, rec := range r.s.users {
		if rec.value.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	user.ID = uuid.NewString()
	user.CreatedAt = r.s.now()
	user.UpdatedAt = user.CreatedAt
	r.s.users[user.ID] = &record[domain.User]{seq: r.s.nextSeq(), value: *user}
	return nil
}

func (r *userRepo) Update(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.users[user.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	user.CreatedAt = rec.value.CreatedAt
	user.UpdatedAt = r.s.now()
	rec.value = *user
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	user := rec.value
	return &user, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, rec := range r.s.users {
		if rec.value.Email == email {
			user := rec.value
			return &user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *userRepo) GetByIDs(_ context.Context, ids []string) ([]domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.User
	for _, id := range ids {
		if rec, ok := r.s.users[id]; ok {
			out = append(out, rec.value)
		}
	}
	return out, nil
}

func (r *userRepo) List(_ context.Context, role *domain.UserRole, limit, offset int) ([]domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.User
	for _, rec := range r.s.users {
		if role == nil || rec.value.Role == *role {
			out = append(out, rec.value)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if limit <= 0 {
		limit = 50
	}
	return page(out, limit, offset), nil
}
