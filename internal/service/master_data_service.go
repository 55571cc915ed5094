package service

import (
	"context"

	"github.com/deskflow/helpdesk-service/internal/domain"
	"github.com/deskflow/helpdesk-service/internal/repository"
)

// MasterDataService serves the read-only lists used by ticket forms.
type MasterDataService struct {
	departments  repository.DepartmentRepository
	companies    repository.CompanyRepository
	priorities   repository.PriorityRepository
	designations repository.DesignationRepository
}

// MasterDataDependencies bundles the master-data repositories.
type MasterDataDependencies struct {
	DepartmentRepo  repository.DepartmentRepository
	CompanyRepo     repository.CompanyRepository
	PriorityRepo    repository.PriorityRepository
	DesignationRepo repository.DesignationRepository
}

func NewMasterDataService(deps MasterDataDependencies) *MasterDataService {
	return &MasterDataService{
		departments:  deps.DepartmentRepo,
		companies:    deps.CompanyRepo,
		priorities:   deps.PriorityRepo,
		designations: deps.DesignationRepo,
	}
}

func (s *MasterDataService) Departments(ctx context.Context) ([]domain.Department, error) {
	return s.departments.ListActive(ctx)
}

func (s *MasterDataService) Companies(ctx context.Context) ([]domain.Company, error) {
	return s.companies.ListActive(ctx)
}

func (s *MasterDataService) Priorities(ctx context.Context) ([]domain.Priority, error) {
	return s.priorities.ListActive(ctx)
}

func (s *MasterDataService) Designations(ctx context.Context) ([]domain.Designation, error) {
	return s.designations.ListActive(ctx)
}
