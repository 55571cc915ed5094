package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/deskflow/helpdesk-service/internal/domain"
	"github.com/deskflow/helpdesk-service/internal/events"
	"github.com/deskflow/helpdesk-service/internal/repository"
	"github.com/deskflow/helpdesk-service/internal/repository/memory"
)

type fixture struct {
	store      *memory.Store
	repos      memory.Repositories
	dispatcher events.Dispatcher
	clock      *fakeClock

	tickets   *TicketService
	statuses  *StatusService
	analyses  *WorkAnalysisService
	approvals *ApprovalService
	workLogs  *WorkLogService
	directory *UserDirectory

	department domain.Department
	raiser     domain.Identity
	worker     domain.Identity
	manager    domain.Identity
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newFixture(t *testing.T) *fixture {
	return newFixtureWith(t, nil)
}

// newFixtureWith lets a test swap the status repository.
func newFixtureWith(t *testing.T, wrapStatuses func(repository.TicketStatusRepository) repository.TicketStatusRepository) *fixture {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repositories()
	if wrapStatuses != nil {
		repos.Statuses = wrapStatuses(repos.Statuses)
	}

	f := &fixture{
		store:      store,
		repos:      repos,
		dispatcher: events.NewInMemoryDispatcher(nil),
		clock:      &fakeClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)},
	}
	f.department = store.AddDepartment(domain.Department{Name: "Maintenance", IsActive: true})
	f.raiser = f.addUser(t, "Rita Raiser", "rita@example.com", domain.UserRoleUser)
	f.worker = f.addUser(t, "Walt Worker", "walt@example.com", domain.UserRoleWorker)
	f.manager = f.addUser(t, "Mona Manager", "mona@example.com", domain.UserRoleManager)

	f.statuses = NewStatusService(repos.Statuses, nil)
	require.NoError(t, f.statuses.Bootstrap(context.Background(), []string{"Open", "In Progress", "Closed"}))

	f.tickets = NewTicketService(TicketDependencies{
		TicketRepo:     repos.Tickets,
		StatusRepo:     repos.Statuses,
		DepartmentRepo: repos.Departments,
		CompanyRepo:    repos.Companies,
		PriorityRepo:   repos.Priorities,
		HistoryRepo:    repos.History,
		Dispatcher:     f.dispatcher,
		Now:            f.clock.Now,
	})
	f.directory = NewUserDirectory(repos.Users, nil, time.Minute, nil)
	f.analyses = NewWorkAnalysisService(WorkAnalysisDependencies{
		AnalysisRepo: repos.Analyses,
		TicketRepo:   repos.Tickets,
		HistoryRepo:  repos.History,
		Resolver:     NewStatusResolver(f.tickets),
		Directory:    f.directory,
		Dispatcher:   f.dispatcher,
		Now:          f.clock.Now,
	})
	f.approvals = NewApprovalService(ApprovalDependencies{
		ApprovalRepo: repos.Approvals,
		TicketRepo:   repos.Tickets,
		HistoryRepo:  repos.History,
		Directory:    f.directory,
		Dispatcher:   f.dispatcher,
		Now:          f.clock.Now,
	})
	f.workLogs = NewWorkLogService(WorkLogDependencies{
		WorkLogRepo:  repos.WorkLogs,
		TicketRepo:   repos.Tickets,
		AnalysisRepo: repos.Analyses,
		Dispatcher:   f.dispatcher,
		Now:          f.clock.Now,
	})
	return f
}

func (f *fixture) addUser(t *testing.T, name, email string, role domain.UserRole) domain.Identity {
	t.Helper()
	user := &domain.User{Name: name, Email: email, Role: role, Status: domain.UserStatusActive}
	require.NoError(t, f.repos.Users.Create(context.Background(), user))
	return user.Identity()
}

func (f *fixture) newTicket(t *testing.T) *domain.Ticket {
	t.Helper()
	ticket, err := f.tickets.CreateTicket(context.Background(), f.raiser, TicketCreateInput{
		DepartmentID: f.department.ID,
		Title:        "Leaking tap",
		Description:  "Second floor kitchen",
	})
	require.NoError(t, err)
	return ticket
}

func (f *fixture) status(t *testing.T, name string) *domain.TicketStatus {
	t.Helper()
	status, err := f.repos.Statuses.GetByName(context.Background(), name)
	require.NoError(t, err)
	return status
}

// failingEnsure rejects every EnsureByName call.
type failingEnsure struct {
	repository.TicketStatusRepository
	fail bool
}

func (r *failingEnsure) EnsureByName(ctx context.Context, name string) (*domain.TicketStatus, bool, error) {
	if r.fail {
		return nil, false, errors.New("status table unavailable")
	}
	return r.TicketStatusRepository.EnsureByName(ctx, name)
}

func strPtr(s string) *string { return &s }
