package handlers

import (
	"net/http"

	appErrors "github.com/formaworks/uniform-cart-service/internal/errors"
	service "github.com/formaworks/uniform-cart-service/internal/services"
	"github.com/formaworks/uniform-cart-service/internal/utils/response"
)

type FavoritesHandler struct {
	favoritesService *service.FavoritesService
}

func NewFavoritesHandler(favoritesService *service.FavoritesService) *FavoritesHandler {
	return &FavoritesHandler{favoritesService: favoritesService}
}

func (h *FavoritesHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		session, ok := sessionID(w, r)
		if !ok {
			return
		}

		ids := h.favoritesService.List(r.Context(), session)

		response.Success(w, http.StatusOK, map[string]any{"product_ids": ids})

	}
}

func (h *FavoritesHandler) Toggle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		session, ok := sessionID(w, r)
		if !ok {
			return
		}

		productID := r.PathValue("productId")
		if productID == "" {
			response.Error(w, appErrors.BadRequestError("Product ID is required"))

			return
		}

		favorite := h.favoritesService.Toggle(r.Context(), session, productID)

		response.Success(w, http.StatusOK, map[string]any{"product_id": productID, "favorite": favorite})

	}
}

func (h *FavoritesHandler) Remove() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		session, ok := sessionID(w, r)
		if !ok {
			return
		}

		productID := r.PathValue("productId")
		if productID == "" {
			response.Error(w, appErrors.BadRequestError("Product ID is required"))

			return
		}

		h.favoritesService.Remove(r.Context(), session, productID)

		response.Success(w, http.StatusOK, map[string]any{"product_id": productID, "favorite": false})

	}
}
