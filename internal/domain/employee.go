package domain

import (
	"time"

	"github.com/google/uuid"
)

// Well-known roles. The set is open: any non-empty role is accepted.
const (
	RoleAdmin   = "admin"
	RoleServer  = "server"
	RoleCashier = "cashier"
	RoleKitchen = "kitchen"
)

// Employee is a staff member. Deleting an employee only clears Active.
type Employee struct {
	ID        uuid.UUID `json:"id" db:"id"`
	FirstName string    `json:"firstName" db:"first_name"`
	LastName  string    `json:"lastName" db:"last_name"`
	DNI       *string   `json:"dni,omitempty" db:"dni"`
	Email     *string   `json:"email,omitempty" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	Role      string    `json:"role" db:"role"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// EmployeePatch carries the attributes to change; nil fields are left untouched
type EmployeePatch struct {
	FirstName *string
	LastName  *string
	DNI       *string
	Email     *string
	Phone     *string
	Role      *string
}

func (p EmployeePatch) IsEmpty() bool {
	return p.FirstName == nil && p.LastName == nil && p.DNI == nil &&
		p.Email == nil && p.Phone == nil && p.Role == nil
}

func (p EmployeePatch) Apply(e *Employee) {
	if p.FirstName != nil {
		e.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		e.LastName = *p.LastName
	}
	if p.DNI != nil {
		e.DNI = p.DNI
	}
	if p.Email != nil {
		e.Email = p.Email
	}
	if p.Phone != nil {
		e.Phone = *p.Phone
	}
	if p.Role != nil {
		e.Role = *p.Role
	}
}
