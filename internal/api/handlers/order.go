package handlers

import (
	"net/http"

	"github.com/formaworks/uniform-cart-service/internal/api/middleware"
	"github.com/formaworks/uniform-cart-service/internal/models"
	service "github.com/formaworks/uniform-cart-service/internal/services"
	"github.com/formaworks/uniform-cart-service/internal/utils"
	"github.com/formaworks/uniform-cart-service/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type OrderHandler struct {
	orderService *service.OrderService
	validator    *validator.Validate
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		validator:    validator.New(),
	}
}

func (h *OrderHandler) SubmitOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		session, ok := sessionID(w, r)
		if !ok {
			return
		}

		var contact models.ContactInfo

		if !utils.ParseAndValidate(r, w, &contact, h.validator) {
			return
		}

		confirmation, err := h.orderService.Submit(r.Context(), session, contact)

		if err != nil {
			logger.Warn("Order submission failed", "error", err.Error())
			response.Error(w, err)

			return
		}

		logger.Info("Order accepted", "order_number", confirmation.OrderNumber)

		response.Success(w, http.StatusCreated, confirmation)

	}
}
