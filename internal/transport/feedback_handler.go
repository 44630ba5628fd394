package transport

import (
	"net/http"

	"feira-hub/internal/domain"
	"feira-hub/internal/middleware"
	"feira-hub/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SubmitFeedbackRequest represents the feedback submission payload
type SubmitFeedbackRequest struct {
	ProductID  string `json:"product_id" validate:"required,uuid"`
	ConsumerID string `json:"consumer_id" validate:"required,uuid"`
	Rating     int    `json:"rating" validate:"required"`
	Comment    string `json:"comment" validate:"required"`
}

// FeedbackResponse wraps a feedback entity with a human-readable message
type FeedbackResponse struct {
	Message  string           `json:"message"`
	Feedback *domain.Feedback `json:"feedback"`
}

// FeedbackHandler handles HTTP requests for the feedback ledger
type FeedbackHandler struct {
	feedbackService service.FeedbackService
	logger          *zap.Logger
}

// NewFeedbackHandler creates a new FeedbackHandler
func NewFeedbackHandler(feedbackService service.FeedbackService, logger *zap.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackService: feedbackService,
		logger:          logger,
	}
}

// RegisterRoutes registers all feedback routes
func (h *FeedbackHandler) RegisterRoutes(r chi.Router, authMiddleware, requireConsumer func(http.Handler) http.Handler) {
	r.Route("/api/feedbacks", func(r chi.Router) {
		r.Get("/product/{productId}", h.ListByProduct)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(requireConsumer)
			r.Post("/", h.Submit)
		})
	})
}

// Submit handles feedback submission
func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitFeedbackRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Feedback validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.CodeInvalidArgument, "invalid request body")
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.CodeInvalidArgument, "invalid product ID")
		return
	}
	consumerID, err := uuid.Parse(req.ConsumerID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.CodeInvalidArgument, "invalid consumer ID")
		return
	}

	feedback, err := h.feedbackService.Submit(r.Context(), service.SubmitFeedbackInput{
		ProductID:  productID,
		ConsumerID: consumerID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	})
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Feedback submitted",
		zap.String("product_id", feedback.ProductID.String()),
		zap.Int("rating", feedback.Rating),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, FeedbackResponse{
		Message: "feedback submitted successfully",
		Feedback: feedback,
	})
}

// ListByProduct handles the per-product feedback listing
func (h *FeedbackHandler) ListByProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "productId"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.CodeInvalidArgument, "invalid product ID")
		return
	}

	feedbacks, err := h.feedbackService.ListByProduct(r.Context(), productID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, feedbacks)
}
