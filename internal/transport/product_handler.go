package transport

import (
	"net/http"
	"strconv"

	"feira-hub/internal/domain"
	"feira-hub/internal/middleware"
	"feira-hub/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateProductRequest represents the product creation payload
type CreateProductRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	PriceCents  int64  `json:"price_cents" validate:"gte=0"`
	Stock       int    `json:"stock" validate:"gte=0"`
	Category    string `json:"category" validate:"required"`
	ImageURL    string `json:"image_url" validate:"required"`
	StoreID     string `json:"store_id" validate:"required,uuid"`
}

// ProductResponse wraps a product entity with a human-readable message
type ProductResponse struct {
	Message string          `json:"message"`
	Product *domain.Product `json:"product"`
}

// ProductHandler handles HTTP requests for catalog operations
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware, requireProducer func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		// Public showcase routes
		r.Get("/", h.ListAll)
		r.Get("/top-rated", h.TopRated)
		r.Get("/best-selling", h.BestSelling)
		r.Get("/{id}", h.GetByID)
		r.Get("/store/{storeId}", h.ListByStore)
		r.Get("/producer/{producerId}", h.ListByProducer)

		// Producer-only catalog management
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(requireProducer)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// ListAll handles the full showcase listing
func (h *ProductHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.ListAll(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// TopRated handles the most-reviewed ranking
func (h *ProductHandler) TopRated(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.TopRated(r.Context(), showcaseLimit(r))
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// BestSelling handles the best-selling ranking
func (h *ProductHandler) BestSelling(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.BestSelling(r.Context(), showcaseLimit(r))
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// GetByID handles the single-product lookup
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.CodeInvalidArgument, "invalid product ID")
		return
	}

	product, err := h.productService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// ListByStore handles the per-store listing
func (h *ProductHandler) ListByStore(w http.ResponseWriter, r *http.Request) {
	storeID, err := uuid.Parse(chi.URLParam(r, "storeId"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.CodeInvalidArgument, "invalid store ID")
		return
	}

	products, err := h.productService.ListByStore(r.Context(), storeID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// ListByProducer handles the per-producer listing
func (h *ProductHandler) ListByProducer(w http.ResponseWriter, r *http.Request) {
	producerID, err := uuid.Parse(chi.URLParam(r, "producerId"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.CodeInvalidArgument, "invalid producer ID")
		return
	}

	products, err := h.productService.ListByProducer(r.Context(), producerID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// Create handles product creation
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product creation validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.CodeInvalidArgument, "invalid request body")
		return
	}

	storeID, err := uuid.Parse(req.StoreID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.CodeInvalidArgument, "invalid store ID")
		return
	}

	product, err := h.productService.Create(r.Context(), service.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Stock:       req.Stock,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		StoreID:     storeID,
	})
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Product created", zap.String("product_id", product.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, ProductResponse{
		Message: "product created successfully",
		Product: product,
	})
}

// Update handles the allow-listed product update. Unknown JSON keys are
// rejected so system-managed fields cannot be overwritten by accident.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.CodeInvalidArgument, "invalid product ID")
		return
	}

	var input service.UpdateProductInput
	if err := middleware.DecodeStrict(r, &input); err != nil {
		h.logger.Debug("Product update decode failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.CodeInvalidArgument, "invalid request body")
		return
	}

	product, err := h.productService.Update(r.Context(), id, input)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ProductResponse{
		Message: "product updated successfully",
		Product: product,
	})
}

// Delete handles product deletion
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.CodeInvalidArgument, "invalid product ID")
		return
	}

	if err := h.productService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "product deleted successfully"})
}

// showcaseLimit reads the optional ?limit query parameter
func showcaseLimit(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		return 0
	}
	return limit
}
