package handlers

import (
	"net/http"

	"github.com/sajidk/furniture-store/httpx"
	"github.com/sajidk/furniture-store/internal/models"
	"github.com/sajidk/furniture-store/validation"

	"gorm.io/gorm"
)

type ContactHandler struct {
	DB *gorm.DB
}

func NewContactHandler(db *gorm.DB) *ContactHandler { return &ContactHandler{DB: db} }

type contactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input contactInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("name", input.Name, v)
	validation.Required("body", input.Body, v)
	validation.Email("email", input.Email, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	msg := models.ContactMessage{Name: input.Name, Email: input.Email, Subject: input.Subject, Body: input.Body}
	if err := h.DB.WithContext(r.Context()).Create(&msg).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "contact_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]string{"message": "Message received"})
}

func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	var messages []models.ContactMessage
	if err := h.DB.WithContext(r.Context()).Order("id desc").Find(&messages).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_messages", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, messages)
}
