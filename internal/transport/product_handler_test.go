package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"feira-hub/internal/domain"
	"feira-hub/internal/middleware"
	"feira-hub/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubProductService struct {
	updateFn     func(ctx context.Context, id uuid.UUID, input service.UpdateProductInput) (*domain.Product, error)
	topRatedFn   func(ctx context.Context, limit int) ([]service.EnrichedProduct, error)
	bestSellFn   func(ctx context.Context, limit int) ([]service.EnrichedProduct, error)
	listAllCalls int
}

func (s *stubProductService) Create(ctx context.Context, input service.CreateProductInput) (*domain.Product, error) {
	return nil, nil
}

func (s *stubProductService) GetByID(ctx context.Context, id uuid.UUID) (*service.EnrichedProduct, error) {
	return nil, nil
}

func (s *stubProductService) ListAll(ctx context.Context) ([]service.EnrichedProduct, error) {
	s.listAllCalls++
	return []service.EnrichedProduct{}, nil
}

func (s *stubProductService) ListByStore(ctx context.Context, storeID uuid.UUID) ([]*domain.Product, error) {
	return nil, nil
}

func (s *stubProductService) ListByProducer(ctx context.Context, producerID uuid.UUID) ([]service.EnrichedProduct, error) {
	return nil, nil
}

func (s *stubProductService) Update(ctx context.Context, id uuid.UUID, input service.UpdateProductInput) (*domain.Product, error) {
	return s.updateFn(ctx, id, input)
}

func (s *stubProductService) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (s *stubProductService) TopRated(ctx context.Context, limit int) ([]service.EnrichedProduct, error) {
	return s.topRatedFn(ctx, limit)
}

func (s *stubProductService) BestSelling(ctx context.Context, limit int) ([]service.EnrichedProduct, error) {
	return s.bestSellFn(ctx, limit)
}

func newProductRouter(svc service.ProductService) chi.Router {
	logger := zap.NewNop()
	router := chi.NewRouter()

	authMiddleware := middleware.AuthMiddleware(testSecret, logger)
	requireProducer := middleware.RequireRole([]string{"producer"}, logger)

	NewProductHandler(svc, logger).RegisterRoutes(router, authMiddleware, requireProducer)
	return router
}

func TestUpdateProductRejectsUnknownFields(t *testing.T) {
	called := false
	svc := &stubProductService{
		updateFn: func(ctx context.Context, id uuid.UUID, input service.UpdateProductInput) (*domain.Product, error) {
			called = true
			return &domain.Product{ID: id}, nil
		},
	}
	router := newProductRouter(svc)

	// store_id is system-managed and not in the allow-list
	body := []byte(`{"name":"Renamed","store_id":"` + uuid.NewString() + `"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/products/"+uuid.NewString(), bytes.NewReader(body))
	req.Header.Set("Authorization", bearerToken(t, "producer"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, called, "service must not be reached on unknown fields")

	var resp middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, middleware.CodeInvalidArgument, resp.Error.Code)
}

func TestUpdateProductAppliesAllowedFields(t *testing.T) {
	var gotInput service.UpdateProductInput
	svc := &stubProductService{
		updateFn: func(ctx context.Context, id uuid.UUID, input service.UpdateProductInput) (*domain.Product, error) {
			gotInput = input
			return &domain.Product{ID: id, Name: *input.Name}, nil
		},
	}
	router := newProductRouter(svc)

	body := []byte(`{"name":"Renamed","price_cents":990}`)
	req := httptest.NewRequest(http.MethodPut, "/api/products/"+uuid.NewString(), bytes.NewReader(body))
	req.Header.Set("Authorization", bearerToken(t, "producer"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, gotInput.Name)
	assert.Equal(t, "Renamed", *gotInput.Name)
	require.NotNil(t, gotInput.PriceCents)
	assert.Equal(t, int64(990), *gotInput.PriceCents)
	assert.Nil(t, gotInput.Stock)
}

func TestCatalogWritesRequireProducerRole(t *testing.T) {
	svc := &stubProductService{}
	router := newProductRouter(svc)

	req := httptest.NewRequest(http.MethodPut, "/api/products/"+uuid.NewString(), bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Authorization", bearerToken(t, "consumer"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestShowcaseRoutesArePublic(t *testing.T) {
	svc := &stubProductService{
		topRatedFn: func(ctx context.Context, limit int) ([]service.EnrichedProduct, error) {
			return []service.EnrichedProduct{}, nil
		},
		bestSellFn: func(ctx context.Context, limit int) ([]service.EnrichedProduct, error) {
			return []service.EnrichedProduct{}, nil
		},
	}
	router := newProductRouter(svc)

	for _, path := range []string{"/api/products/", "/api/products/top-rated", "/api/products/best-selling"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, "path %s", path)
	}
}

func TestShowcaseLimitQueryParam(t *testing.T) {
	var gotLimit int
	svc := &stubProductService{
		topRatedFn: func(ctx context.Context, limit int) ([]service.EnrichedProduct, error) {
			gotLimit = limit
			return []service.EnrichedProduct{}, nil
		},
	}
	router := newProductRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/products/top-rated?limit=8", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 8, gotLimit)
}
