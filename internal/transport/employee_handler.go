package transport

import (
	"net/http"

	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/middleware"
	"restaurant-pos/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// EmployeeRequest represents the employee creation payload
type EmployeeRequest struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	DNI       string `json:"dni" validate:"max=20"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone" validate:"max=50"`
	Role      string `json:"role" validate:"required,max=50"`
}

// EmployeePatchRequest carries the fields to change. An empty dni or email clears it.
type EmployeePatchRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,min=1,max=100"`
	DNI       *string `json:"dni" validate:"omitempty,max=20"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Phone     *string `json:"phone" validate:"omitempty,max=50"`
	Role      *string `json:"role" validate:"omitempty,max=50"`
}

// EmployeeHandler handles HTTP requests for staff management
type EmployeeHandler struct {
	employeeService service.EmployeeService
	logger          *zap.Logger
}

// NewEmployeeHandler creates a new EmployeeHandler
func NewEmployeeHandler(employeeService service.EmployeeService, logger *zap.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		employeeService: employeeService,
		logger:          logger,
	}
}

// RegisterRoutes registers all employee routes
func (h *EmployeeHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/employees", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.ListActive)
		r.Get("/{id}", h.Get)
		r.Patch("/{id}", h.Update)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Deactivate)
	})
}

func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req EmployeeRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Employee validation failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}

	employee, err := h.employeeService.Create(r.Context(), service.EmployeeInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		DNI:       req.DNI,
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      req.Role,
	})
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to create employee")
		return
	}

	h.logger.Info("Employee created", zap.String("employee_id", employee.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, employee)
}

// ListActive lists active employees ordered by last name
func (h *EmployeeHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	employees, err := h.employeeService.ListActive(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to list employees")
		return
	}
	if employees == nil {
		employees = []*domain.Employee{}
	}
	middleware.RespondWithJSON(w, http.StatusOK, employees)
}

func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	employee, err := h.employeeService.Get(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to get employee")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, employee)
}

func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req EmployeePatchRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	employee, err := h.employeeService.Update(r.Context(), id, domain.EmployeePatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		DNI:       req.DNI,
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      req.Role,
	})
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to update employee")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, employee)
}

// Deactivate soft-deletes an employee
func (h *EmployeeHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.employeeService.Deactivate(r.Context(), id); err != nil {
		respondWithServiceError(w, h.logger, err, "failed to deactivate employee")
		return
	}

	h.logger.Info("Employee deactivated", zap.String("employee_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"employeeId": id.String()})
}
