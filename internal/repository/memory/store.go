// Package memory implements the repository interfaces in process memory. It
// backs the service when no Postgres DSN is configured and serves as the store
// in tests. All repositories created from one Store share a single lock, so
// each call is atomic with respect to the others.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/deskflow/helpdesk-service/internal/domain"
	"github.com/deskflow/helpdesk-service/internal/repository"
)

// Store holds every collection.
type Store struct {
	mu  sync.Mutex
	now func() time.Time
	seq int64

	tickets      map[string]*record[domain.Ticket]
	statuses     map[string]*record[domain.TicketStatus]
	analyses     map[string]*record[domain.WorkAnalysis]
	approvals    map[string]*record[domain.Approval]
	workLogs     map[string]*record[domain.WorkLog]
	users        map[string]*record[domain.User]
	history      map[string]*record[domain.TicketHistory]
	departments  map[string]domain.Department
	companies    map[string]domain.Company
	priorities   map[string]domain.Priority
	designations map[string]domain.Designation
}

// record keeps insertion order next to the value so newest-first listings stay
// stable when timestamps tie.
type record[T any] struct {
	seq   int64
	value T
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		now:          time.Now,
		tickets:      map[string]*record[domain.Ticket]{},
		statuses:     map[string]*record[domain.TicketStatus]{},
		analyses:     map[string]*record[domain.WorkAnalysis]{},
		approvals:    map[string]*record[domain.Approval]{},
		workLogs:     map[string]*record[domain.WorkLog]{},
		users:        map[string]*record[domain.User]{},
		history:      map[string]*record[domain.TicketHistory]{},
		departments:  map[string]domain.Department{},
		companies:    map[string]domain.Company{},
		priorities:   map[string]domain.Priority{},
		designations: map[string]domain.Designation{},
	}
}

// Repositories is the shared repository bundle.
type Repositories = repository.Repositories

// Repositories returns all views over the store.
func (s *Store) Repositories() Repositories {
	return Repositories{
		Tickets:      &ticketRepo{s},
		Statuses:     &statusRepo{s},
		Analyses:     &analysisRepo{s},
		Approvals:    &approvalRepo{s},
		WorkLogs:     &workLogRepo{s},
		Users:        &userRepo{s},
		History:      &historyRepo{s},
		Departments:  &departmentRepo{s},
		Companies:    &companyRepo{s},
		Priorities:   &priorityRepo{s},
		Designations: &designationRepo{s},
	}
}

// AddDepartment seeds a department and returns it with an id.
func (s *Store) AddDepartment(dept domain.Department) domain.Department {
	s.mu.Lock()
	defer s.mu.Unlock()
	if dept.ID == "" {
		dept.ID = uuid.NewString()
	}
	dept.CreatedAt, dept.UpdatedAt = s.now(), s.now()
	s.departments[dept.ID] = dept
	return dept
}

// AddCompany seeds a company.
func (s *Store) AddCompany(company domain.Company) domain.Company {
	s.mu.Lock()
	defer s.mu.Unlock()
	if company.ID == "" {
		company.ID = uuid.NewString()
	}
	company.CreatedAt, company.UpdatedAt = s.now(), s.now()
	s.companies[company.ID] = company
	return company
}

// AddPriority seeds a priority.
func (s *Store) AddPriority(p domain.Priority) domain.Priority {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt, p.UpdatedAt = s.now(), s.now()
	s.priorities[p.ID] = p
	return p
}

// AddDesignation seeds a designation.
func (s *Store) AddDesignation(d domain.Designation) domain.Designation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	d.CreatedAt, d.UpdatedAt = s.now(), s.now()
	s.designations[d.ID] = d
	return d
}

func (s *Store) nextSeq() int64 {
	s.seq++
	return s.seq
}

// newestFirst returns copies of the matching values ordered by descending insertion.
func newestFirst[T any](records map[string]*record[T], keep func(*T) bool) []T {
	matched := make([]*record[T], 0, len(records))
	for _, rec := range records {
		if keep == nil || keep(&rec.value) {
			matched = append(matched, rec)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].seq > matched[j].seq })
	out := make([]T, 0, len(matched))
	for _, rec := range matched {
		out = append(out, rec.value)
	}
	return out
}

func page[T any](items []T, limit, offset int) []T {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	return append([]string(nil), values...)
}

func cloneRef(ref *string) *string {
	if ref == nil {
		return nil
	}
	v := *ref
	return &v
}
