package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"restaurant-pos/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrEmployeeNotFound      = errors.New("employee not found")
	ErrEmployeeAlreadyExists = errors.New("employee with this DNI or email already exists")
)

// EmployeeRepository defines the interface for employee data access
type EmployeeRepository interface {
	Create(ctx context.Context, employee *domain.Employee) error
	Update(ctx context.Context, employee *domain.Employee) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Employee, error)
	ListActive(ctx context.Context) ([]*domain.Employee, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type employeeRepository struct {
	db *sql.DB
}

// NewEmployeeRepository creates a new instance of EmployeeRepository
func NewEmployeeRepository(db *sql.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeColumns = `id, first_name, last_name, dni, email, phone, role, active, created_at, updated_at`

var employeeUniqueConstraints = []string{"employees_dni_key", "employees_email_key"}

// Create inserts a new employee; DNI and email are unique
func (r *employeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	query := `
		INSERT INTO employees (id, first_name, last_name, dni, email, phone, role, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		employee.ID,
		employee.FirstName,
		employee.LastName,
		employee.DNI,
		employee.Email,
		employee.Phone,
		employee.Role,
		employee.Active,
		employee.CreatedAt,
		employee.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err, employeeUniqueConstraints...) {
			return ErrEmployeeAlreadyExists
		}
		return fmt.Errorf("failed to create employee: %w", err)
	}

	return nil
}

// Update overwrites the mutable columns of an employee
func (r *employeeRepository) Update(ctx context.Context, employee *domain.Employee) error {
	query := `
		UPDATE employees
		SET first_name = $2, last_name = $3, dni = $4, email = $5, phone = $6, role = $7
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		employee.ID,
		employee.FirstName,
		employee.LastName,
		employee.DNI,
		employee.Email,
		employee.Phone,
		employee.Role,
	).Scan(&employee.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrEmployeeNotFound
		}
		if isUniqueViolation(err, employeeUniqueConstraints...) {
			return ErrEmployeeAlreadyExists
		}
		return fmt.Errorf("failed to update employee: %w", err)
	}

	return nil
}

// FindByID retrieves an employee, active or not
func (r *employeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	employee, err := scanEmployee(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to find employee by ID: %w", err)
	}

	return employee, nil
}

// ListActive returns active employees ordered by last name
func (r *employeeRepository) ListActive(ctx context.Context) ([]*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE active ORDER BY last_name ASC, first_name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := []*domain.Employee{}
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, employee)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating employees: %w", err)
	}

	return employees, nil
}

// Deactivate soft-deletes an employee; the row is kept
func (r *employeeRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `UPDATE employees SET active = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate employee: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrEmployeeNotFound
	}

	return nil
}

func scanEmployee(row rowScanner) (*domain.Employee, error) {
	employee := &domain.Employee{}
	err := row.Scan(
		&employee.ID,
		&employee.FirstName,
		&employee.LastName,
		&employee.DNI,
		&employee.Email,
		&employee.Phone,
		&employee.Role,
		&employee.Active,
		&employee.CreatedAt,
		&employee.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return employee, nil
}
