package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/halewick/tradeportal-backend/internal/http/response"
	"github.com/halewick/tradeportal-backend/internal/services"
)

type AuthHandler struct {
	auth services.AuthService
}

func NewAuthHandler(auth services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	user, token, err := h.auth.Register(c.Request.Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if errors.Is(err, services.ErrEmailTaken) {
		response.RespondError(c, http.StatusConflict, "email_taken", err)
		return
	}
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "registration_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"user": user, "token": token})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	user, token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		response.RespondError(c, http.StatusUnauthorized, "invalid_credentials", err)
		return
	}
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "login_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"user": user, "token": token})
}
