package service

import (
	"context"
	"errors"
	"testing"

	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/repository"
)

func TestEmployeeCreate_NormalizesRole(t *testing.T) {
	svc := NewEmployeeService(newMockEmployeeRepository())

	tests := []struct {
		role string
		want string
	}{
		{"Mozo", domain.RoleServer},
		{"camarero", domain.RoleServer},
		{"CAJERO", domain.RoleCashier},
		{"cocina", domain.RoleKitchen},
		{"admin", domain.RoleAdmin},
		{"delivery", "delivery"},
	}

	for _, tt := range tests {
		employee, err := svc.Create(context.Background(), EmployeeInput{FirstName: "Ana", LastName: "Diaz", Role: tt.role})
		if err != nil {
			t.Fatalf("Create(%q) failed: %v", tt.role, err)
		}
		if employee.Role != tt.want {
			t.Errorf("role %q normalized to %q, want %q", tt.role, employee.Role, tt.want)
		}
		if !employee.Active {
			t.Error("new employees must be active")
		}
	}
}

func TestEmployeeCreate_Validation(t *testing.T) {
	svc := NewEmployeeService(newMockEmployeeRepository())
	ctx := context.Background()

	if _, err := svc.Create(ctx, EmployeeInput{FirstName: "A", LastName: "B", Role: "  "}); !errors.Is(err, ErrMissingRole) {
		t.Errorf("expected ErrMissingRole, got %v", err)
	}

	employee, err := svc.Create(ctx, EmployeeInput{FirstName: "A", LastName: "B", Role: "admin", DNI: "30111222", Email: ""})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if employee.Email != nil {
		t.Errorf("expected blank email to be stored as nil, got %q", *employee.Email)
	}

	_, err = svc.Create(ctx, EmployeeInput{FirstName: "C", LastName: "D", Role: "admin", DNI: "30111222"})
	if !errors.Is(err, repository.ErrEmployeeAlreadyExists) {
		t.Errorf("expected ErrEmployeeAlreadyExists, got %v", err)
	}
}

func TestEmployeeUpdate(t *testing.T) {
	svc := NewEmployeeService(newMockEmployeeRepository())
	ctx := context.Background()

	employee, _ := svc.Create(ctx, EmployeeInput{FirstName: "Luis", LastName: "Paz", Role: "mozo", Email: "luis@example.com"})

	blank, cashier := "", "Cajero"
	updated, err := svc.Update(ctx, employee.ID, domain.EmployeePatch{Email: &blank, Role: &cashier})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Email != nil {
		t.Errorf("expected blank email to clear it, got %q", *updated.Email)
	}
	if updated.Role != domain.RoleCashier {
		t.Errorf("expected role cashier, got %q", updated.Role)
	}
	if updated.FirstName != "Luis" {
		t.Errorf("unpatched field changed: %q", updated.FirstName)
	}

	empty := ""
	if _, err := svc.Update(ctx, employee.ID, domain.EmployeePatch{Role: &empty}); !errors.Is(err, ErrMissingRole) {
		t.Errorf("expected ErrMissingRole, got %v", err)
	}
}

func TestEmployeeDeactivate(t *testing.T) {
	svc := NewEmployeeService(newMockEmployeeRepository())
	ctx := context.Background()

	first, _ := svc.Create(ctx, EmployeeInput{FirstName: "A", LastName: "Alvarez", Role: "admin"})
	second, _ := svc.Create(ctx, EmployeeInput{FirstName: "B", LastName: "Bustos", Role: "admin"})

	if err := svc.Deactivate(ctx, first.ID); err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}

	active, err := svc.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}
	if len(active) != 1 || active[0].ID != second.ID {
		t.Errorf("expected only %s active, got %+v", second.ID, active)
	}

	stored, err := svc.Get(ctx, first.ID)
	if err != nil {
		t.Fatalf("deactivated employee must still be readable: %v", err)
	}
	if stored.Active {
		t.Error("expected employee to be inactive")
	}
}
