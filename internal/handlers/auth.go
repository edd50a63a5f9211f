package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/sajidk/furniture-store/auth"
	"github.com/sajidk/furniture-store/httpx"
	"github.com/sajidk/furniture-store/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenTTL = 24 * time.Hour

type AuthHandler struct {
	DB *gorm.DB
}

func NewAuthHandler(db *gorm.DB) *AuthHandler { return &AuthHandler{DB: db} }

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login checks bcrypt credentials and answers with a bearer token. Both
// unknown email and bad password answer the same way.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input loginInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	email := strings.TrimSpace(input.Email)
	if email == "" || input.Password == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_credentials", nil)
		return
	}
	var user models.User
	if err := h.DB.WithContext(r.Context()).Where("email = ?", email).First(&user).Error; err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "invalid_credentials", nil)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "invalid_credentials", nil)
		return
	}
	token, err := auth.IssueToken(user.ID, tokenTTL)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "token_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  map[string]any{"id": user.ID, "email": user.Email, "name": user.Name},
	})
}
