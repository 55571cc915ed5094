package repository

import "github.com/jackc/pgx/v5/pgxpool"

// Repositories bundles every repository the services depend on.
type Repositories struct {
	Tickets      TicketRepository
	Statuses     TicketStatusRepository
	Analyses     WorkAnalysisRepository
	Approvals    ApprovalRepository
	WorkLogs     WorkLogRepository
	Users        UserRepository
	History      TicketHistoryRepository
	Departments  DepartmentRepository
	Companies    CompanyRepository
	Priorities   PriorityRepository
	Designations DesignationRepository
}

// NewPostgresRepositories builds the Postgres-backed set over one pool.
func NewPostgresRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Tickets:      NewTicketRepository(pool),
		Statuses:     NewTicketStatusRepository(pool),
		Analyses:     NewWorkAnalysisRepository(pool),
		Approvals:    NewApprovalRepository(pool),
		WorkLogs:     NewWorkLogRepository(pool),
		Users:        NewUserRepository(pool),
		History:      NewTicketHistoryRepository(pool),
		Departments:  NewDepartmentRepository(pool),
		Companies:    NewCompanyRepository(pool),
		Priorities:   NewPriorityRepository(pool),
		Designations: NewDesignationRepository(pool),
	}
}
