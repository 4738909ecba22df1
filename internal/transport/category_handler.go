package transport

import (
	"net/http"

	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/middleware"
	"restaurant-pos/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CategoryRequest represents the category creation payload
type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

// CategoryHandler handles HTTP requests for product categories
type CategoryHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(catalogService service.CatalogService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers all category routes
func (h *CategoryHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/categories", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Delete("/{id}", h.Delete)
	})
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	category, err := h.catalogService.CreateCategory(r.Context(), req.Name, req.Description)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to create category")
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogService.ListCategories(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to list categories")
		return
	}
	if categories == nil {
		categories = []*domain.Category{}
	}
	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	category, err := h.catalogService.GetCategory(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to get category")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.catalogService.DeleteCategory(r.Context(), id); err != nil {
		respondWithServiceError(w, h.logger, err, "failed to delete category")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"categoryId": id.String()})
}
