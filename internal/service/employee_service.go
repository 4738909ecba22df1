package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/repository"

	"github.com/google/uuid"
)

var ErrMissingRole = errors.New("role is required")

// EmployeeInput holds the attributes of a new employee
type EmployeeInput struct {
	FirstName string
	LastName  string
	DNI       string
	Email     string
	Phone     string
	Role      string
}

// EmployeeService defines the interface for staff management
type EmployeeService interface {
	Create(ctx context.Context, in EmployeeInput) (*domain.Employee, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.EmployeePatch) (*domain.Employee, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Employee, error)
	ListActive(ctx context.Context) ([]*domain.Employee, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type employeeService struct {
	employeeRepo repository.EmployeeRepository
}

// NewEmployeeService creates a new instance of EmployeeService
func NewEmployeeService(employeeRepo repository.EmployeeRepository) EmployeeService {
	return &employeeService{employeeRepo: employeeRepo}
}

func (s *employeeService) Create(ctx context.Context, in EmployeeInput) (*domain.Employee, error) {
	role := normalizeRole(in.Role)
	if role == "" {
		return nil, ErrMissingRole
	}

	now := time.Now().UTC()
	employee := &domain.Employee{
		ID:        uuid.New(),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		DNI:       nonEmpty(&in.DNI),
		Email:     nonEmpty(&in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Role:      role,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.employeeRepo.Create(ctx, employee); err != nil {
		if errors.Is(err, repository.ErrEmployeeAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}
	return employee, nil
}

func (s *employeeService) Update(ctx context.Context, id uuid.UUID, patch domain.EmployeePatch) (*domain.Employee, error) {
	employee, err := s.employeeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return employee, nil
	}

	if patch.Role != nil {
		role := normalizeRole(*patch.Role)
		if role == "" {
			return nil, ErrMissingRole
		}
		patch.Role = &role
	}
	patch.Apply(employee)
	// a blank DNI or email clears it
	if patch.DNI != nil {
		employee.DNI = nonEmpty(patch.DNI)
	}
	if patch.Email != nil {
		employee.Email = nonEmpty(patch.Email)
	}

	if err := s.employeeRepo.Update(ctx, employee); err != nil {
		if errors.Is(err, repository.ErrEmployeeNotFound) || errors.Is(err, repository.ErrEmployeeAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}
	return employee, nil
}

func (s *employeeService) Get(ctx context.Context, id uuid.UUID) (*domain.Employee, error) {
	return s.employeeRepo.FindByID(ctx, id)
}

func (s *employeeService) ListActive(ctx context.Context) ([]*domain.Employee, error) {
	return s.employeeRepo.ListActive(ctx)
}

// Deactivate soft-deletes the employee
func (s *employeeService) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.employeeRepo.Deactivate(ctx, id)
}

// normalizeRole lowercases the role and maps the Spanish names onto the known set
func normalizeRole(role string) string {
	role = strings.ToLower(strings.TrimSpace(role))
	switch role {
	case "mozo", "camarero":
		return domain.RoleServer
	case "cajero":
		return domain.RoleCashier
	case "cocina":
		return domain.RoleKitchen
	}
	return role
}
