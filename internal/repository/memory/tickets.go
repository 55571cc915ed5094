package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/deskflow/helpdesk-service/internal/domain"
	"github.com/deskflow/helpdesk-service/internal/repository"
)

type ticketRepo struct{ s *Store }

func (r *ticketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, rec := range r.s.tickets {
		if rec.value.Code == ticket.Code {
			return repository.ErrDuplicate
		}
	}
	ticket.ID = uuid.NewString()
	ticket.CreatedAt = r.s.now()
	ticket.UpdatedAt = ticket.CreatedAt
	r.s.tickets[ticket.ID] = &record[domain.Ticket]{seq: r.s.nextSeq(), value: cloneTicket(*ticket)}
	return nil
}

func (r *ticketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.tickets[ticket.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = r.s.now()
	updated := cloneTicket(*ticket)
	updated.Code = rec.value.Code
	updated.RaisedByID = rec.value.RaisedByID
	updated.CreatedAt = rec.value.CreatedAt
	rec.value = updated
	return nil
}

func (r *ticketRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.tickets, id)
	return nil
}

func (r *ticketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	ticket := cloneTicket(rec.value)
	return &ticket, nil
}

func (r *ticketRepo) GetByCode(_ context.Context, code string) (*domain.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, rec := range r.s.tickets {
		if rec.value.Code == code {
			ticket := cloneTicket(rec.value)
			return &ticket, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *ticketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items := newestFirst(r.s.tickets, func(t *domain.Ticket) bool { return matchTicket(t, filter) })
	out := page(items, filter.Limit, filter.Offset)
	for i := range out {
		out[i] = cloneTicket(out[i])
	}
	return out, nil
}

func (r *ticketRepo) CountByStatus(_ context.Context) ([]repository.CountBucket, error) {
	return r.countBy(func(t *domain.Ticket) string { return t.StatusName }), nil
}

func (r *ticketRepo) CountByApprovalStatus(_ context.Context) ([]repository.CountBucket, error) {
	return r.countBy(func(t *domain.Ticket) string { return string(t.ApprovalStatus) }), nil
}

func (r *ticketRepo) countBy(key func(*domain.Ticket) string) []repository.CountBucket {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := map[string]int64{}
	for _, rec := range r.s.tickets {
		counts[key(&rec.value)]++
	}
	out := make([]repository.CountBucket, 0, len(counts))
	for k, v := range counts {
		out = append(out, repository.CountBucket{Key: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func matchTicket(t *domain.Ticket, f repository.TicketFilter) bool {
	if f.RaisedByID != nil && t.RaisedByID != *f.RaisedByID {
		return false
	}
	if f.DepartmentID != nil && t.DepartmentID != *f.DepartmentID {
		return false
	}
	if f.AssignedTo != nil && !contains(t.AssignedTo, *f.AssignedTo) {
		return false
	}
	if f.StatusID != nil && (t.StatusID == nil || *t.StatusID != *f.StatusID) {
		return false
	}
	if f.StatusName != nil && t.StatusName != *f.StatusName {
		return false
	}
	if f.ApprovalStatus != nil && t.ApprovalStatus != *f.ApprovalStatus {
		return false
	}
	if f.SearchTerm != nil {
		term := strings.ToLower(strings.TrimSpace(*f.SearchTerm))
		if term != "" &&
			!strings.Contains(strings.ToLower(t.Title), term) &&
			!strings.Contains(strings.ToLower(t.Description), term) &&
			!strings.Contains(strings.ToLower(t.Code), term) {
			return false
		}
	}
	return true
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

func cloneTicket(t domain.Ticket) domain.Ticket {
	t.CompanyID = cloneRef(t.CompanyID)
	t.ImagePath = cloneRef(t.ImagePath)
	t.PriorityID = cloneRef(t.PriorityID)
	t.StatusID = cloneRef(t.StatusID)
	t.ApproverID = cloneRef(t.ApproverID)
	t.AssignedTo = cloneStrings(t.AssignedTo)
	if t.ApprovedAt != nil {
		at := *t.ApprovedAt
		t.ApprovedAt = &at
	}
	if t.ClosedAt != nil {
		at := *t.ClosedAt
		t.ClosedAt = &at
	}
	return t
}
