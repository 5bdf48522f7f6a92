package handlers

import (
	"errors"
	"net/http"

	"campaign-mailer/services/mailer/models"
	"campaign-mailer/services/mailer/usecase"
	"campaign-mailer/shared/logger"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles HTTP requests for authentication
type AuthHandler struct {
	authUsecase usecase.AuthUsecase
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUsecase usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
	}
}

// Login handles operator login requests
func (h *AuthHandler) Login(c *gin.Context) {
	requestID := requestid.Get(c)

	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WithFields(map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Invalid request body for login")

		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "email and password are required",
			"request_id": requestID,
		})
		return
	}

	loginResponse, err := h.authUsecase.Login(req.Email, req.Password)
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"request_id": requestID,
			"email":      req.Email,
			"error":      err.Error(),
		}).Warn("Failed login attempt")

		if errors.Is(err, usecase.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":      "Invalid credentials",
				"request_id": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "unexpected server error",
			"request_id": requestID,
		})
		return
	}

	logger.WithFields(map[string]interface{}{
		"request_id": requestID,
		"user_id":    loginResponse.User.ID,
		"email":      loginResponse.User.Email,
	}).Info("Operator logged in successfully")

	c.JSON(http.StatusOK, gin.H{
		"user":       loginResponse.User,
		"tokens":     loginResponse.Tokens,
		"template":   loginResponse.Template,
		"request_id": requestID,
	})
}
