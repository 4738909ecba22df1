package transport

import (
	"errors"
	"net/http"

	"restaurant-pos/internal/middleware"
	"restaurant-pos/internal/repository"
	"restaurant-pos/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	notFoundErrors = []error{
		repository.ErrProductNotFound,
		repository.ErrOrderNotFound,
		repository.ErrCategoryNotFound,
		repository.ErrEmployeeNotFound,
	}
	conflictErrors = []error{
		repository.ErrCategoryAlreadyExists,
		repository.ErrEmployeeAlreadyExists,
	}
	validationErrors = []error{
		service.ErrEmptyOrder,
		service.ErrInvalidQuantity,
		service.ErrInvalidPrice,
		service.ErrInvalidCost,
		service.ErrMissingRole,
		service.ErrEmptySheet,
	}
)

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// respondWithServiceError maps service and repository errors onto HTTP
// statuses. Conflicts are client errors the caller fixes and resubmits, so
// they share 400 with validation failures.
func respondWithServiceError(w http.ResponseWriter, logger *zap.Logger, err error, fallback string) {
	var productNotFound *service.ProductNotFoundError
	switch {
	case errors.As(err, &productNotFound):
		middleware.RespondWithErrorDetails(w, http.StatusNotFound, productNotFound.Error(), map[string]interface{}{
			"productId": productNotFound.ProductID.String(),
		})
	case isAny(err, notFoundErrors):
		middleware.RespondWithError(w, http.StatusNotFound, err.Error())
	case isAny(err, conflictErrors):
		middleware.RespondWithErrorDetails(w, http.StatusBadRequest, err.Error(), map[string]interface{}{
			"conflict": true,
		})
	case isAny(err, validationErrors):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error(fallback, zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}

// pathID parses the {id} URL parameter, answering 400 when it is not a UUID
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}
