package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/formaworks/uniform-cart-service/internal/api/handlers"
	appErrors "github.com/formaworks/uniform-cart-service/internal/errors"
	"github.com/formaworks/uniform-cart-service/internal/models"
	service "github.com/formaworks/uniform-cart-service/internal/services"
	"github.com/formaworks/uniform-cart-service/internal/store"
	"github.com/formaworks/uniform-cart-service/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockOrderClient struct {
	mock.Mock
}

func (m *mockOrderClient) SubmitOrder(ctx context.Context, payload *models.OrderPayload) (*models.OrderConfirmation, error) {
	args := m.Called(ctx, payload)

	if conf := args.Get(0); conf != nil {
		return conf.(*models.OrderConfirmation), args.Error(1)
	}

	return nil, args.Error(1)
}

type orderEnvelope struct {
	Success bool                     `json:"success"`
	Data    models.OrderConfirmation `json:"data"`
	Error   *struct {
		Code    string   `json:"code"`
		Message string   `json:"message"`
		Details []string `json:"details"`
	} `json:"error"`
}

func setupOrderTest() (*service.CartService, *mockOrderClient, *handlers.OrderHandler) {
	cartService := service.NewCartService(store.NewMemoryStore())
	client := new(mockOrderClient)
	orderService := service.NewOrderService(cartService, client, nil, "")
	orderHandler := handlers.NewOrderHandler(orderService)

	return cartService, client, orderHandler
}

func seedCart(t *testing.T, cartService *service.CartService) {
	t.Helper()

	cartService.AddItem(context.Background(), "s1", &models.AddItemRequest{
		Product: models.Product{
			ID:            "P1",
			Name:          "Work Shirt",
			UnitPriceFrom: 1200,
		},
		SelectedColor: "white",
		Quantity:      2,
	})
}

func contactBody(t *testing.T, contact models.ContactInfo) []byte {
	t.Helper()

	body, err := json.Marshal(contact)
	require.NoError(t, err)

	return body
}

func TestSubmitOrderHandler(t *testing.T) {
	validContact := models.ContactInfo{
		Name:  "Anna",
		Phone: "+7 900 000-00-00",
		Email: "anna@example.com",
	}

	t.Run("Success - Returns Confirmation And Clears Cart", func(t *testing.T) {
		// Arrange
		cartService, client, orderHandler := setupOrderTest()
		seedCart(t, cartService)

		confirmation := &models.OrderConfirmation{OrderNumber: "ORD-7", SubmittedAt: time.Now()}
		client.On("SubmitOrder", mock.Anything, mock.AnythingOfType("*models.OrderPayload")).Return(confirmation, nil).Once()

		req := testutils.CreateSessionRequest("POST", "/api/v1/orders", bytes.NewReader(contactBody(t, validContact)), "s1", nil)
		recorder := httptest.NewRecorder()

		// Act
		orderHandler.SubmitOrder()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusCreated, recorder.Code)

		var envelope orderEnvelope

		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
		assert.True(t, envelope.Success)
		assert.Equal(t, "ORD-7", envelope.Data.OrderNumber)
		assert.Empty(t, cartService.GetCart(req.Context(), "s1").Items)
		client.AssertExpectations(t)
	})

	t.Run("Failure - Missing Contact Fields", func(t *testing.T) {
		// Arrange
		cartService, client, orderHandler := setupOrderTest()
		seedCart(t, cartService)

		req := testutils.CreateSessionRequest("POST", "/api/v1/orders", bytes.NewReader(contactBody(t, models.ContactInfo{Name: "Anna"})), "s1", nil)
		recorder := httptest.NewRecorder()

		// Act
		orderHandler.SubmitOrder()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)

		var envelope orderEnvelope

		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
		require.NotNil(t, envelope.Error)
		assert.Equal(t, appErrors.ErrCodeValidation, envelope.Error.Code)

		client.AssertNotCalled(t, "SubmitOrder", mock.Anything, mock.Anything)
		assert.Len(t, cartService.GetCart(req.Context(), "s1").Items, 1)
	})

	t.Run("Failure - Backend Rejects, Cart Preserved", func(t *testing.T) {
		// Arrange
		cartService, client, orderHandler := setupOrderTest()
		seedCart(t, cartService)

		client.On("SubmitOrder", mock.Anything, mock.AnythingOfType("*models.OrderPayload")).
			Return(nil, assert.AnError).Once()

		req := testutils.CreateSessionRequest("POST", "/api/v1/orders", bytes.NewReader(contactBody(t, validContact)), "s1", nil)
		recorder := httptest.NewRecorder()

		// Act
		orderHandler.SubmitOrder()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadGateway, recorder.Code)

		var envelope orderEnvelope

		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
		require.NotNil(t, envelope.Error)
		assert.Equal(t, appErrors.ErrCodeSubmission, envelope.Error.Code)
		assert.Len(t, cartService.GetCart(req.Context(), "s1").Items, 1)
		client.AssertExpectations(t)
	})

	t.Run("Failure - Missing Session Header", func(t *testing.T) {
		// Arrange
		_, client, orderHandler := setupOrderTest()

		req := testutils.CreateSessionRequest("POST", "/api/v1/orders", bytes.NewReader(contactBody(t, validContact)), "", nil)
		recorder := httptest.NewRecorder()

		// Act
		orderHandler.SubmitOrder()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		client.AssertNotCalled(t, "SubmitOrder", mock.Anything, mock.Anything)
	})
}
