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

// CreateOrderRequest represents the order creation payload
type CreateOrderRequest struct {
	ConsumerID     string `json:"consumer_id" validate:"required,uuid"`
	ProductID      string `json:"product_id" validate:"required,uuid"`
	Quantity       int    `json:"quantity" validate:"required"`
	DeliveryMethod string `json:"delivery_method" validate:"required,oneof=delivery pickup"`
}

// OrderResponse wraps an order entity with a human-readable message
type OrderResponse struct {
	Message string        `json:"message"`
	Order   *domain.Order `json:"order"`
}

// OrderHandler handles HTTP requests for order lifecycle operations
type OrderHandler struct {
	orderService service.OrderService
	logger       *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// RegisterRoutes registers all order routes
func (h *OrderHandler) RegisterRoutes(r chi.Router, authMiddleware, requireConsumer, requireProducer, requireAnyRole func(http.Handler) http.Handler) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Use(authMiddleware)

		r.Group(func(r chi.Router) {
			r.Use(requireConsumer)
			r.Post("/", h.Create)
			r.Put("/{orderId}/confirm-delivery", h.transition("confirm delivery", domain.OpConfirmDelivery))
		})

		r.Group(func(r chi.Router) {
			r.Use(requireProducer)
			r.Put("/{orderId}/accept", h.transition("accept", domain.OpAccept))
			r.Put("/{orderId}/refuse", h.transition("refuse", domain.OpRefuse))
			r.Put("/{orderId}/start", h.transition("start", domain.OpStart))
			r.Put("/{orderId}/finalize", h.transition("finalize", domain.OpFinalize))
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAnyRole)
			r.Put("/{orderId}/cancel", h.transition("cancel", domain.OpCancel))
			r.Get("/my-orders/{consumerId}", h.ListByConsumer)
			r.Get("/received/{producerId}", h.ListByProducer)
			r.Get("/{orderId}", h.GetByID)
		})
	})
}

// Create handles order creation
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Order creation validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.CodeInvalidArgument, "invalid request body")
		return
	}

	consumerID, err := uuid.Parse(req.ConsumerID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.CodeInvalidArgument, "invalid consumer ID")
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.CodeInvalidArgument, "invalid product ID")
		return
	}

	order, err := h.orderService.Create(r.Context(), service.CreateOrderInput{
		ConsumerID:     consumerID,
		ProductID:      productID,
		Quantity:       req.Quantity,
		DeliveryMethod: domain.DeliveryMethod(req.DeliveryMethod),
	})
	if err != nil {
		h.logger.Debug("Order creation failed", zap.Error(err))
		respondServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("product_id", order.ProductID.String()),
		zap.Int64("total_price_cents", order.TotalPriceCents),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, OrderResponse{
		Message: "order created successfully",
		Order:   order,
	})
}

// GetByID handles the single-order lookup
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.CodeInvalidArgument, "invalid order ID")
		return
	}

	order, err := h.orderService.GetByID(r.Context(), orderID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, order)
}

// ListByConsumer handles the consumer's order history
func (h *OrderHandler) ListByConsumer(w http.ResponseWriter, r *http.Request) {
	consumerID, err := uuid.Parse(chi.URLParam(r, "consumerId"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.CodeInvalidArgument, "invalid consumer ID")
		return
	}

	orders, err := h.orderService.ListByConsumer(r.Context(), consumerID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// ListByProducer handles the producer's received orders
func (h *OrderHandler) ListByProducer(w http.ResponseWriter, r *http.Request) {
	producerID, err := uuid.Parse(chi.URLParam(r, "producerId"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.CodeInvalidArgument, "invalid producer ID")
		return
	}

	orders, err := h.orderService.ListByProducer(r.Context(), producerID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// transition builds a handler applying one lifecycle operation
func (h *OrderHandler) transition(name string, op domain.TransitionOp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, middleware.CodeInvalidArgument, "invalid order ID")
			return
		}

		order, err := h.orderService.Transition(r.Context(), orderID, op)
		if err != nil {
			h.logger.Debug("Order transition rejected",
				zap.String("order_id", orderID.String()),
				zap.String("op", string(op)),
				zap.Error(err),
			)
			respondServiceError(w, h.logger, err)
			return
		}

		h.logger.Info("Order transitioned",
			zap.String("order_id", order.ID.String()),
			zap.String("op", string(op)),
			zap.String("status", string(order.Status)),
		)
		middleware.RespondWithJSON(w, http.StatusOK, OrderResponse{
			Message: "order " + name + " successful",
			Order:   order,
		})
	}
}
