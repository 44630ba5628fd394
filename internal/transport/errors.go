package transport

import (
	"errors"
	"net/http"

	"feira-hub/internal/domain"
	"feira-hub/internal/middleware"
	"feira-hub/internal/repository"
	"feira-hub/internal/service"

	"go.uber.org/zap"
)

// respondServiceError maps service and repository sentinel errors onto the
// HTTP error taxonomy: not-found, validation, conflict, invalid transition,
// unauthorized, everything else a server fault.
func respondServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrStoreNotFound),
		errors.Is(err, repository.ErrOrderNotFound),
		errors.Is(err, service.ErrProducerNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, middleware.CodeNotFound, err.Error())

	case errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidDeliveryMethod),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrEmptyComment),
		errors.Is(err, service.ErrEmptyContent),
		errors.Is(err, service.ErrNegativePrice),
		errors.Is(err, service.ErrNegativeStock),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrStoreNameRequired),
		errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrWrongPassword):
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.CodeInvalidArgument, err.Error())

	case errors.Is(err, repository.ErrUserAlreadyExists),
		errors.Is(err, repository.ErrStoreNameTaken):
		middleware.RespondWithError(w, http.StatusConflict, middleware.CodeConflict, err.Error())

	case errors.Is(err, domain.ErrInvalidTransition):
		middleware.RespondWithError(w, http.StatusConflict, middleware.CodeInvalidTransition, err.Error())

	case errors.Is(err, service.ErrInvalidCredentials):
		middleware.RespondWithError(w, http.StatusUnauthorized, middleware.CodeUnauthorized, err.Error())

	default:
		logger.Error("Unexpected service error", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, middleware.CodeInternal, "internal server error")
	}
}
