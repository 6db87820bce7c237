package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/application/fulfillment"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// MockOrderRepository implements order.Repository for testing
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByItemID(ctx context.Context, itemID uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

// passthroughScope runs the closure against the same repository without
// a real transaction
type passthroughScope struct {
	repo order.Repository
}

func (s passthroughScope) Execute(ctx context.Context, fn func(repo order.Repository) error) error {
	return fn(s.repo)
}

func setupFulfillmentTestRouter() (*gin.Engine, *MockOrderRepository, *FulfillmentHandler) {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
	router := gin.New()

	mockRepo := new(MockOrderRepository)
	service := fulfillment.NewService(mockRepo, passthroughScope{repo: mockRepo}, nil)
	handler := NewFulfillmentHandler(service)
	handler.RegisterRoutes(router.Group("/"))

	return router, mockRepo, handler
}

func newProcessingOrder(t *testing.T) *order.Order {
	t.Helper()

	o, err := order.NewOrder("ORD-1001", "store-1", valueobject.USD, "buyer@example.com")
	require.NoError(t, err)
	require.NoError(t, o.TransitionTo(order.StateProcessing))

	_, err = o.AddItem("Desk Lamp", "SKU-LAMP", decimal.NewFromFloat(10.00), 2)
	require.NoError(t, err)
	return o
}

func TestFulfillmentHandler_ShipItem(t *testing.T) {
	t.Run("ships full quantity", func(t *testing.T) {
		router, mockRepo, _ := setupFulfillmentTestRouter()

		o := newProcessingOrder(t)
		itemID := o.Items[0].ID

		mockRepo.On("FindByItemID", mock.Anything, itemID).Return(o, nil)
		mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)

		body, _ := json.Marshal(ShipItemRequest{
			TrackingNumber:  "1Z999AA10123456784",
			TrackingCarrier: "ups",
		})
		req, _ := http.NewRequest(http.MethodPost, "/fulfillment/items/"+itemID.String()+"/ship", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.True(t, response["success"].(bool))
		data := response["data"].(map[string]interface{})
		assert.Equal(t, itemID.String(), data["item_id"])

		assert.Equal(t, order.ItemStateShipped, o.Items[0].State)
		mockRepo.AssertExpectations(t)
	})

	t.Run("rejects invalid item id", func(t *testing.T) {
		router, _, _ := setupFulfillmentTestRouter()

		req, _ := http.NewRequest(http.MethodPost, "/fulfillment/items/not-a-uuid/ship", bytes.NewBufferString("{}"))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("carrier without number is rejected", func(t *testing.T) {
		router, mockRepo, _ := setupFulfillmentTestRouter()

		o := newProcessingOrder(t)
		itemID := o.Items[0].ID
		mockRepo.On("FindByItemID", mock.Anything, itemID).Return(o, nil)

		body, _ := json.Marshal(ShipItemRequest{TrackingCarrier: "ups"})
		req, _ := http.NewRequest(http.MethodPost, "/fulfillment/items/"+itemID.String()+"/ship", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unknown item maps to 404", func(t *testing.T) {
		router, mockRepo, _ := setupFulfillmentTestRouter()

		itemID := uuid.New()
		mockRepo.On("FindByItemID", mock.Anything, itemID).
			Return(nil, shared.ErrNotFound)

		req, _ := http.NewRequest(http.MethodPost, "/fulfillment/items/"+itemID.String()+"/ship", bytes.NewBufferString("{}"))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("double ship maps to 409", func(t *testing.T) {
		router, mockRepo, _ := setupFulfillmentTestRouter()

		o := newProcessingOrder(t)
		require.NoError(t, o.Items[0].Ship(o.State, nil, nil))
		itemID := o.Items[0].ID

		mockRepo.On("FindByItemID", mock.Anything, itemID).Return(o, nil)

		req, _ := http.NewRequest(http.MethodPost, "/fulfillment/items/"+itemID.String()+"/ship", bytes.NewBufferString("{}"))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestFulfillmentHandler_CancelItem(t *testing.T) {
	t.Run("cancels partial quantity", func(t *testing.T) {
		router, mockRepo, _ := setupFulfillmentTestRouter()

		o := newProcessingOrder(t)
		itemID := o.Items[0].ID

		mockRepo.On("FindByItemID", mock.Anything, itemID).Return(o, nil)
		mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)

		quantity := int64(1)
		body, _ := json.Marshal(CancelItemRequest{Quantity: &quantity})
		req, _ := http.NewRequest(http.MethodPost, "/fulfillment/items/"+itemID.String()+"/cancel", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		require.Len(t, o.Items, 2)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		data := response["data"].(map[string]interface{})
		assert.Equal(t, o.Items[1].ID.String(), data["item_id"])
		assert.NotEqual(t, itemID.String(), data["item_id"])
		assert.Equal(t, order.ItemStateCanceled, o.Items[1].State)
		mockRepo.AssertExpectations(t)
	})
}

func TestFulfillmentHandler_RefundItem(t *testing.T) {
	t.Run("refund of unshipped item maps to 409", func(t *testing.T) {
		router, mockRepo, _ := setupFulfillmentTestRouter()

		o := newProcessingOrder(t)
		itemID := o.Items[0].ID

		mockRepo.On("FindByItemID", mock.Anything, itemID).Return(o, nil)

		req, _ := http.NewRequest(http.MethodPost, "/fulfillment/items/"+itemID.String()+"/refund", bytes.NewBufferString("{}"))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestFulfillmentHandler_UpdateOrderState(t *testing.T) {
	t.Run("ships whole order", func(t *testing.T) {
		router, mockRepo, _ := setupFulfillmentTestRouter()

		o := newProcessingOrder(t)

		mockRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
		mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)

		body, _ := json.Marshal(UpdateOrderStateRequest{State: "shipped"})
		req, _ := http.NewRequest(http.MethodPut, "/fulfillment/orders/"+o.ID.String()+"/state", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, order.StateShipped, o.State)
		mockRepo.AssertExpectations(t)
	})

	t.Run("restricted target state maps to 400", func(t *testing.T) {
		router, _, _ := setupFulfillmentTestRouter()

		body, _ := json.Marshal(UpdateOrderStateRequest{State: "closed"})
		req, _ := http.NewRequest(http.MethodPut, "/fulfillment/orders/"+uuid.New().String()+"/state", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestFulfillmentHandler_UpdateShipping(t *testing.T) {
	t.Run("replaces shipping adjustments", func(t *testing.T) {
		router, mockRepo, _ := setupFulfillmentTestRouter()

		o := newProcessingOrder(t)

		mockRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
		mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)

		body, _ := json.Marshal(UpdateShippingRequest{Amount: 5.00, SalesTaxAmount: 0.41})
		req, _ := http.NewRequest(http.MethodPut, "/fulfillment/orders/"+o.ID.String()+"/shipping", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, o.ShippingTotal().Equal(decimal.NewFromFloat(5.00)))
		mockRepo.AssertExpectations(t)
	})
}
