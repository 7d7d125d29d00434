package orderapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/formaworks/uniform-cart-service/internal/models"
	"github.com/formaworks/uniform-cart-service/pkg/orderapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payload() *models.OrderPayload {
	return &models.OrderPayload{
		Name:  "Anna",
		Phone: "+7 900 000-00-00",
		Email: "anna@example.com",
		Items: []models.OrderLine{
			{ProductID: "P1", Name: "Work Shirt", Color: "white", Quantity: 2, UnitPriceFrom: 1200},
		},
		TotalAmount: 2400,
	}
}

func TestSubmitOrder(t *testing.T) {
	ctx := t.Context()

	t.Run("Success - Acknowledged With Order Number", func(t *testing.T) {
		// Arrange
		var received models.OrderPayload

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]string{"order_number": "ORD-42"})
		}))
		defer server.Close()

		client := orderapi.NewClient(server.URL, 0)

		// Act
		confirmation, err := client.SubmitOrder(ctx, payload())

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "ORD-42", confirmation.OrderNumber)
		assert.WithinDuration(t, time.Now(), confirmation.SubmittedAt, time.Second)
		assert.Equal(t, "Anna", received.Name)
		assert.Equal(t, float64(2400), received.TotalAmount)
		require.Len(t, received.Items, 1)
		assert.Equal(t, "P1", received.Items[0].ProductID)
	})

	t.Run("Success - Empty Body Still Counts As Accepted", func(t *testing.T) {
		// Arrange
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := orderapi.NewClient(server.URL, 0)

		// Act
		confirmation, err := client.SubmitOrder(ctx, payload())

		// Assert
		require.NoError(t, err)
		assert.NotEmpty(t, confirmation.OrderNumber)
	})

	t.Run("Failure - Non-2xx Status", func(t *testing.T) {
		// Arrange
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "intake down", http.StatusInternalServerError)
		}))
		defer server.Close()

		client := orderapi.NewClient(server.URL, 0)

		// Act
		confirmation, err := client.SubmitOrder(ctx, payload())

		// Assert
		require.Error(t, err)
		assert.Nil(t, confirmation)
		assert.Contains(t, err.Error(), "500")
	})

	t.Run("Failure - Unreachable Endpoint", func(t *testing.T) {
		// Arrange
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		client := orderapi.NewClient(server.URL, 0)

		// Act
		confirmation, err := client.SubmitOrder(ctx, payload())

		// Assert
		require.Error(t, err)
		assert.Nil(t, confirmation)
	})

	t.Run("Failure - Request Times Out", func(t *testing.T) {
		// Arrange
		started := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			close(started)
			time.Sleep(500 * time.Millisecond)
		}))
		defer server.Close()

		client := orderapi.NewClient(server.URL, 50*time.Millisecond)

		// Act
		confirmation, err := client.SubmitOrder(ctx, payload())

		// Assert
		require.Error(t, err)
		assert.Nil(t, confirmation)

		select {
		case <-started:
		default:
			t.Fatal("request never reached the server")
		}
	})
}
