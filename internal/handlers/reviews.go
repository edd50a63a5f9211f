package handlers

import (
	"errors"
	"net/http"

	"github.com/sajidk/furniture-store/httpx"
	"github.com/sajidk/furniture-store/internal/models"
	"github.com/sajidk/furniture-store/internal/store"
	"github.com/sajidk/furniture-store/validation"
)

type ReviewHandler struct {
	Reviews *store.ReviewStore
}

func NewReviewHandler(reviews *store.ReviewStore) *ReviewHandler {
	return &ReviewHandler{Reviews: reviews}
}

type reviewInput struct {
	CustomerName string `json:"customer_name"`
	Rating       int    `json:"rating"`
	Content      string `json:"content"`
}

// Create accepts a storefront review; it lands PENDING until moderated.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var input reviewInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("customer_name", input.CustomerName, v)
	validation.Required("content", input.Content, v)
	validation.RangeInt("rating", input.Rating, 1, 5, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	review := models.Review{
		ProductID:    productID,
		CustomerName: input.CustomerName,
		Rating:       input.Rating,
		Content:      input.Content,
		Status:       models.ReviewPending,
	}
	err := h.Reviews.Create(r.Context(), &review)
	if errors.Is(err, store.ErrNotFound) {
		httpx.JSONError(w, http.StatusNotFound, "product_not_found", nil)
		return
	}
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "review_create_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, review)
}

// ListForProduct returns only approved reviews for the public detail page.
func (h *ReviewHandler) ListForProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	reviews, err := h.Reviews.ListApprovedForProduct(r.Context(), productID)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_reviews", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, reviews)
}

// ListAll feeds the moderation screen, product names joined in.
func (h *ReviewHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.Reviews.ListAll(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_reviews", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, reviews)
}

type reviewStatusInput struct {
	Status models.ReviewStatus `json:"status"`
}

func (h *ReviewHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var input reviewStatusInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if !input.Status.Valid() {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_status", nil)
		return
	}
	err := h.Reviews.UpdateStatus(r.Context(), id, input.Status)
	if errors.Is(err, store.ErrNotFound) {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "update_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Review status updated"})
}

func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	err := h.Reviews.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "delete_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Review deleted"})
}
