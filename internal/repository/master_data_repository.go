package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deskflow/helpdesk-service/internal/domain"
)

// DepartmentRepository reads departments.
type DepartmentRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Department, error)
	ListActive(ctx context.Context) ([]domain.Department, error)
}

// CompanyRepository reads companies.
type CompanyRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Company, error)
	ListActive(ctx context.Context) ([]domain.Company, error)
}

// PriorityRepository reads priorities.
type PriorityRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Priority, error)
	ListActive(ctx context.Context) ([]domain.Priority, error)
}

// DesignationRepository reads designations.
type DesignationRepository interface {
	ListActive(ctx context.Context) ([]domain.Designation, error)
}

type departmentRepository struct {
	pool *pgxpool.Pool
}

// NewDepartmentRepository builds the repository.
func NewDepartmentRepository(pool *pgxpool.Pool) DepartmentRepository {
	return &departmentRepository{pool: pool}
}

func (r *departmentRepository) GetByID(ctx context.Context, id string) (*domain.Department, error) {
	const query = `
        SELECT id, name, description, is_active, created_at, updated_at
        FROM departments WHERE id=$1`
	var dept domain.Department
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&dept.ID,
		&dept.Name,
		&dept.Description,
		&dept.IsActive,
		&dept.CreatedAt,
		&dept.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepository) ListActive(ctx context.Context) ([]domain.Department, error) {
	const query = `
        SELECT id, name, description, is_active, created_at, updated_at
        FROM departments WHERE is_active = TRUE ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Department, error) {
		var d domain.Department
		err := row.Scan(&d.ID, &d.Name, &d.Description, &d.IsActive, &d.CreatedAt, &d.UpdatedAt)
		return d, err
	})
}

type companyRepository struct {
	pool *pgxpool.Pool
}

// NewCompanyRepository builds the repository.
func NewCompanyRepository(pool *pgxpool.Pool) CompanyRepository {
	return &companyRepository{pool: pool}
}

func (r *companyRepository) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	var company domain.Company
	if err := r.pool.QueryRow(ctx,
		`SELECT id, name, is_active, created_at, updated_at FROM companies WHERE id=$1`, id,
	).Scan(&company.ID, &company.Name, &company.IsActive, &company.CreatedAt, &company.UpdatedAt); err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *companyRepository) ListActive(ctx context.Context) ([]domain.Company, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, is_active, created_at, updated_at FROM companies WHERE is_active = TRUE ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Company, error) {
		var c domain.Company
		err := row.Scan(&c.ID, &c.Name, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
		return c, err
	})
}

type priorityRepository struct {
	pool *pgxpool.Pool
}

// NewPriorityRepository builds the repository.
func NewPriorityRepository(pool *pgxpool.Pool) PriorityRepository {
	return &priorityRepository{pool: pool}
}

func (r *priorityRepository) GetByID(ctx context.Context, id string) (*domain.Priority, error) {
	var p domain.Priority
	if err := r.pool.QueryRow(ctx,
		`SELECT id, name, level, is_active, created_at, updated_at FROM priorities WHERE id=$1`, id,
	).Scan(&p.ID, &p.Name, &p.Level, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *priorityRepository) ListActive(ctx context.Context) ([]domain.Priority, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, level, is_active, created_at, updated_at FROM priorities WHERE is_active = TRUE ORDER BY level`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Priority, error) {
		var p domain.Priority
		err := row.Scan(&p.ID, &p.Name, &p.Level, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
		return p, err
	})
}

type designationRepository struct {
	pool *pgxpool.Pool
}

// NewDesignationRepository builds the repository.
func NewDesignationRepository(pool *pgxpool.Pool) DesignationRepository {
	return &designationRepository{pool: pool}
}

func (r *designationRepository) ListActive(ctx context.Context) ([]domain.Designation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, is_active, created_at, updated_at FROM designations WHERE is_active = TRUE ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Designation, error) {
		var d domain.Designation
		err := row.Scan(&d.ID, &d.Name, &d.IsActive, &d.CreatedAt, &d.UpdatedAt)
		return d, err
	})
}
