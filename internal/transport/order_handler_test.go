package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"feira-hub/internal/domain"
	"feira-hub/internal/middleware"
	"feira-hub/internal/repository"
	"feira-hub/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

// stubOrderService lets each test script the service layer
type stubOrderService struct {
	createFn     func(ctx context.Context, input service.CreateOrderInput) (*domain.Order, error)
	getFn        func(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	transitionFn func(ctx context.Context, id uuid.UUID, op domain.TransitionOp) (*domain.Order, error)
}

func (s *stubOrderService) Create(ctx context.Context, input service.CreateOrderInput) (*domain.Order, error) {
	return s.createFn(ctx, input)
}

func (s *stubOrderService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.getFn(ctx, id)
}

func (s *stubOrderService) ListByConsumer(ctx context.Context, consumerID uuid.UUID) ([]*domain.Order, error) {
	return nil, nil
}

func (s *stubOrderService) ListByProducer(ctx context.Context, producerID uuid.UUID) ([]*domain.Order, error) {
	return nil, nil
}

func (s *stubOrderService) Transition(ctx context.Context, id uuid.UUID, op domain.TransitionOp) (*domain.Order, error) {
	return s.transitionFn(ctx, id, op)
}

func newOrderRouter(svc service.OrderService) chi.Router {
	logger := zap.NewNop()
	router := chi.NewRouter()

	authMiddleware := middleware.AuthMiddleware(testSecret, logger)
	requireConsumer := middleware.RequireRole([]string{"consumer"}, logger)
	requireProducer := middleware.RequireRole([]string{"producer"}, logger)
	requireAnyRole := middleware.RequireRole([]string{"consumer", "producer"}, logger)

	NewOrderHandler(svc, logger).RegisterRoutes(router, authMiddleware, requireConsumer, requireProducer, requireAnyRole)
	return router
}

func bearerToken(t *testing.T, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": uuid.NewString(),
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + token
}

func TestCreateOrderEndpoint(t *testing.T) {
	orderID := uuid.New()
	svc := &stubOrderService{
		createFn: func(ctx context.Context, input service.CreateOrderInput) (*domain.Order, error) {
			return &domain.Order{
				ID:              orderID,
				ConsumerID:      input.ConsumerID,
				ProductID:       input.ProductID,
				Quantity:        input.Quantity,
				TotalPriceCents: 2500,
				DeliveryMethod:  input.DeliveryMethod,
				Status:          domain.StatusAwaitingConfirmation,
			}, nil
		},
	}
	router := newOrderRouter(svc)

	body, _ := json.Marshal(map[string]interface{}{
		"consumer_id":     uuid.NewString(),
		"product_id":      uuid.NewString(),
		"quantity":        2,
		"delivery_method": "delivery",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(body))
	req.Header.Set("Authorization", bearerToken(t, "consumer"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp OrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, orderID, resp.Order.ID)
	assert.Equal(t, domain.StatusAwaitingConfirmation, resp.Order.Status)
}

func TestCreateOrderRejectsProducers(t *testing.T) {
	svc := &stubOrderService{}
	router := newOrderRouter(svc)

	body, _ := json.Marshal(map[string]interface{}{
		"consumer_id":     uuid.NewString(),
		"product_id":      uuid.NewString(),
		"quantity":        2,
		"delivery_method": "delivery",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(body))
	req.Header.Set("Authorization", bearerToken(t, "producer"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateOrderValidationErrors(t *testing.T) {
	svc := &stubOrderService{
		createFn: func(ctx context.Context, input service.CreateOrderInput) (*domain.Order, error) {
			return nil, service.ErrInvalidQuantity
		},
	}
	router := newOrderRouter(svc)

	// Unknown delivery methods never reach the service
	body, _ := json.Marshal(map[string]interface{}{
		"consumer_id":     uuid.NewString(),
		"product_id":      uuid.NewString(),
		"quantity":        2,
		"delivery_method": "drone",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(body))
	req.Header.Set("Authorization", bearerToken(t, "consumer"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, middleware.CodeInvalidArgument, resp.Error.Code)
	assert.NotEmpty(t, resp.Error.Timestamp)
}

func TestTransitionEndpointMapsInvalidTransitionTo409(t *testing.T) {
	svc := &stubOrderService{
		transitionFn: func(ctx context.Context, id uuid.UUID, op domain.TransitionOp) (*domain.Order, error) {
			return nil, domain.ErrInvalidTransition
		},
	}
	router := newOrderRouter(svc)

	req := httptest.NewRequest(http.MethodPut, "/api/orders/"+uuid.NewString()+"/accept", nil)
	req.Header.Set("Authorization", bearerToken(t, "producer"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusConflict, w.Code)

	var resp middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, middleware.CodeInvalidTransition, resp.Error.Code)
}

func TestTransitionEndpointMapsMissingOrderTo404(t *testing.T) {
	svc := &stubOrderService{
		transitionFn: func(ctx context.Context, id uuid.UUID, op domain.TransitionOp) (*domain.Order, error) {
			return nil, repository.ErrOrderNotFound
		},
	}
	router := newOrderRouter(svc)

	req := httptest.NewRequest(http.MethodPut, "/api/orders/"+uuid.NewString()+"/cancel", nil)
	req.Header.Set("Authorization", bearerToken(t, "consumer"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)

	var resp middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, middleware.CodeNotFound, resp.Error.Code)
}

func TestTransitionEndpointSuccess(t *testing.T) {
	orderID := uuid.New()
	var gotOp domain.TransitionOp
	svc := &stubOrderService{
		transitionFn: func(ctx context.Context, id uuid.UUID, op domain.TransitionOp) (*domain.Order, error) {
			gotOp = op
			return &domain.Order{ID: id, Status: domain.StatusAccepted}, nil
		},
	}
	router := newOrderRouter(svc)

	req := httptest.NewRequest(http.MethodPut, "/api/orders/"+orderID.String()+"/accept", nil)
	req.Header.Set("Authorization", bearerToken(t, "producer"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.OpAccept, gotOp)

	var resp OrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, domain.StatusAccepted, resp.Order.Status)
}

func TestOrderEndpointsRequireAuth(t *testing.T) {
	svc := &stubOrderService{}
	router := newOrderRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/orders/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
