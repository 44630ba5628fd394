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

// SendMessageRequest represents the message sending payload
type SendMessageRequest struct {
	OrderID    string `json:"order_id" validate:"required,uuid"`
	SenderID   string `json:"sender_id" validate:"required,uuid"`
	ReceiverID string `json:"receiver_id" validate:"required,uuid"`
	Content    string `json:"content" validate:"required"`
}

// MessageResponse wraps a message entity with a human-readable message
type MessageResponse struct {
	Message string          `json:"message"`
	Msg     *domain.Message `json:"msg"`
}

// MessageHandler handles HTTP requests for order-thread messaging
type MessageHandler struct {
	messageService service.MessageService
	logger         *zap.Logger
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(messageService service.MessageService, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		logger:         logger,
	}
}

// RegisterRoutes registers all message routes
func (h *MessageHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/messages", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.Send)
		r.Get("/{orderId}", h.ListByOrder)
	})
}

// Send handles appending a message to an order's thread
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Message validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.CodeInvalidArgument, "invalid request body")
		return
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.CodeInvalidArgument, "invalid order ID")
		return
	}
	senderID, err := uuid.Parse(req.SenderID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.CodeInvalidArgument, "invalid sender ID")
		return
	}
	receiverID, err := uuid.Parse(req.ReceiverID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.CodeInvalidArgument, "invalid receiver ID")
		return
	}

	message, err := h.messageService.Send(r.Context(), service.SendMessageInput{
		OrderID:    orderID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    req.Content,
	})
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, MessageResponse{
		Message: "message sent successfully",
		Msg:     message,
	})
}

// ListByOrder handles the full-thread replay for an order
func (h *MessageHandler) ListByOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.CodeInvalidArgument, "invalid order ID")
		return
	}

	messages, err := h.messageService.ListByOrder(r.Context(), orderID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, messages)
}
