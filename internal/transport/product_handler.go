package transport

import (
	"errors"
	"net/http"

	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/middleware"
	"restaurant-pos/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// maxImportSize bounds the multipart body of a catalog import
const maxImportSize = 10 << 20

// ProductRequest represents the product creation payload
type ProductRequest struct {
	Name        string           `json:"name" validate:"required,max=255"`
	Description string           `json:"description"`
	Price       decimal.Decimal  `json:"price"`
	Cost        *decimal.Decimal `json:"cost"`
	ImageURL    string           `json:"imageUrl" validate:"max=500"`
	Category    string           `json:"category" validate:"required,max=100"`
}

// ProductPatchRequest carries the fields to change; absent fields are kept
type ProductPatchRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Cost        *decimal.Decimal `json:"cost"`
	ImageURL    *string          `json:"imageUrl" validate:"omitempty,max=500"`
	Category    *string          `json:"category" validate:"omitempty,min=1,max=100"`
}

// ImportResponse summarizes a catalog import
type ImportResponse struct {
	Created int                `json:"created"`
	Skipped []service.RowError `json:"skipped"`
}

// ProductHandler handles HTTP requests for the product catalog
type ProductHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(catalogService service.CatalogService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Post("/import", h.Import)
		r.Get("/category/{category}", h.ListByCategory)
		r.Get("/{id}", h.Get)
		r.Head("/{id}", h.Exists)
		r.Patch("/{id}", h.Update)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// Create handles product creation
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product validation failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}

	product, err := h.catalogService.CreateProduct(r.Context(), service.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Cost:        req.Cost,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
	})
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to create product")
		return
	}

	h.logger.Info("Product created", zap.String("product_id", product.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// List handles listing products, optionally filtered by ?category=
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	var category *string
	if c := r.URL.Query().Get("category"); c != "" {
		category = &c
	}
	h.respondWithProducts(w, r, category)
}

// ListByCategory handles listing the products of one category
func (h *ProductHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	h.respondWithProducts(w, r, &category)
}

func (h *ProductHandler) respondWithProducts(w http.ResponseWriter, r *http.Request, category *string) {
	products, err := h.catalogService.ListProducts(r.Context(), category)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to list products")
		return
	}
	if products == nil {
		products = []*domain.Product{}
	}
	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// Get handles fetching one product
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	product, err := h.catalogService.GetProduct(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to get product")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Exists answers HEAD with 200 or 404 and no body
func (h *ProductHandler) Exists(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	exists, err := h.catalogService.ProductExists(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to check product", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if !exists {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Update handles partial product updates
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req ProductPatchRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product patch validation failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}

	product, err := h.catalogService.UpdateProduct(r.Context(), id, domain.ProductPatch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Cost:        req.Cost,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
	})
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to update product")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Delete handles product deletion. Existing order lines keep their snapshot.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.catalogService.DeleteProduct(r.Context(), id); err != nil {
		respondWithServiceError(w, h.logger, err, "failed to delete product")
		return
	}

	h.logger.Info("Product deleted", zap.String("product_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"productId": id.String()})
}

// Import handles a multipart xlsx upload in the "file" field
func (h *ProductHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)

	file, _, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.RespondWithError(w, http.StatusRequestEntityTooLarge, "import file too large")
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	rows, skipped, err := service.ParseProductSheet(file)
	if err != nil {
		if errors.Is(err, service.ErrEmptySheet) {
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Debug("Unreadable import file", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "file is not a valid xlsx workbook")
		return
	}

	created, err := h.catalogService.ImportProducts(r.Context(), rows)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to import products")
		return
	}

	if skipped == nil {
		skipped = []service.RowError{}
	}
	h.logger.Info("Products imported", zap.Int("created", created), zap.Int("skipped", len(skipped)))

	status := http.StatusCreated
	if created == 0 {
		status = http.StatusOK
	}
	middleware.RespondWithJSON(w, status, ImportResponse{Created: created, Skipped: skipped})
}
