package handlers

import (
	"net/http"
	"strconv"

	"github.com/formaworks/uniform-cart-service/internal/api/middleware"
	appErrors "github.com/formaworks/uniform-cart-service/internal/errors"
	"github.com/formaworks/uniform-cart-service/internal/models"
	service "github.com/formaworks/uniform-cart-service/internal/services"
	"github.com/formaworks/uniform-cart-service/internal/utils"
	"github.com/formaworks/uniform-cart-service/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

// SessionHeader carries the storefront session key; every cart and
// favorites endpoint requires it.
const SessionHeader = "X-Session-ID"

type CartHandler struct {
	cartService *service.CartService
	validator   *validator.Validate
}

func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		validator:   validator.New(),
	}
}

func sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.Header.Get(SessionHeader)

	if id == "" {
		response.Error(w, appErrors.BadRequestError("Session ID is required"))

		return "", false
	}

	return id, true
}

func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		session, ok := sessionID(w, r)
		if !ok {
			return
		}

		cart := h.cartService.GetCart(r.Context(), session)

		response.Success(w, http.StatusOK, cart)

	}
}

func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		session, ok := sessionID(w, r)
		if !ok {
			return
		}

		var req models.AddItemRequest

		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		cart := h.cartService.AddItem(r.Context(), session, &req)

		logger.Info("Item added to cart",
			"product_id", req.Product.ID,
			"total_items", cart.TotalItems,
		)

		response.Success(w, http.StatusOK, cart)

	}
}

func (h *CartHandler) UpdateQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		session, ok := sessionID(w, r)
		if !ok {
			return
		}

		index, err := strconv.Atoi(r.PathValue("index"))
		if err != nil {
			response.Error(w, appErrors.BadRequestError("Invalid item index"))

			return
		}

		var req models.UpdateQuantityRequest

		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		cart := h.cartService.UpdateQuantity(r.Context(), session, index, req.Quantity)

		response.Success(w, http.StatusOK, cart)

	}
}

func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		session, ok := sessionID(w, r)
		if !ok {
			return
		}

		index, err := strconv.Atoi(r.PathValue("index"))
		if err != nil {
			response.Error(w, appErrors.BadRequestError("Invalid item index"))

			return
		}

		cart := h.cartService.RemoveItem(r.Context(), session, index)

		response.Success(w, http.StatusOK, cart)

	}
}

func (h *CartHandler) ClearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		session, ok := sessionID(w, r)
		if !ok {
			return
		}

		cart := h.cartService.ClearCart(r.Context(), session)

		response.Success(w, http.StatusOK, cart)

	}
}
