package handlers

import (
	"errors"
	"net/http"

	"campaign-mailer/services/mailer/dispatch"
	"campaign-mailer/services/mailer/models"
	"campaign-mailer/services/mailer/usecase"
	"campaign-mailer/shared/logger"
	"campaign-mailer/shared/middleware"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
)

// EmailHandler handles HTTP requests for email dispatch
type EmailHandler struct {
	emailUsecase usecase.EmailUsecase
}

// NewEmailHandler creates a new email handler
func NewEmailHandler(emailUsecase usecase.EmailUsecase) *EmailHandler {
	return &EmailHandler{
		emailUsecase: emailUsecase,
	}
}

// SendSingle handles test email requests; the email goes to the
// authenticated operator's own address
func (h *EmailHandler) SendSingle(c *gin.Context) {
	requestID := requestid.Get(c)

	req, ok := bindCampaignRequest(c, requestID)
	if !ok {
		return
	}

	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":      "Authentication required",
			"request_id": requestID,
		})
		return
	}

	userEmail, err := middleware.GetUserEmailFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":      "Authentication required",
			"request_id": requestID,
		})
		return
	}

	if err := h.emailUsecase.SendTestEmail(userID, userEmail, req); err != nil {
		logger.WithFields(map[string]interface{}{
			"request_id": requestID,
			"user_id":    userID,
			"error":      err.Error(),
		}).Error("Failed to send test email")

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "unexpected server error",
			"request_id": requestID,
		})
		return
	}

	logger.WithFields(map[string]interface{}{
		"request_id": requestID,
		"user_id":    userID,
	}).Info("Test email sent")

	c.JSON(http.StatusOK, gin.H{
		"message":    "test email sent successfully",
		"request_id": requestID,
	})
}

// SendBatch handles full campaign dispatch requests. Failed batches are
// reported inside a 200 response; only an unusable recipient list or a
// server fault produce an error status.
func (h *EmailHandler) SendBatch(c *gin.Context) {
	requestID := requestid.Get(c)

	req, ok := bindCampaignRequest(c, requestID)
	if !ok {
		return
	}

	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":      "Authentication required",
			"request_id": requestID,
		})
		return
	}

	result, err := h.emailUsecase.SendCampaign(userID, req)
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"request_id": requestID,
			"user_id":    userID,
			"error":      err.Error(),
		}).Error("Failed to dispatch campaign")

		if errors.Is(err, dispatch.ErrNoValidRecipients) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":      "no valid recipients found",
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
		"request_id":     requestID,
		"user_id":        userID,
		"total":          result.Total,
		"sent":           result.Sent,
		"failed_batches": result.FailedBatches,
	}).Info("Campaign dispatched")

	c.JSON(http.StatusOK, gin.H{
		"message":    result,
		"request_id": requestID,
	})
}

// LastCampaign returns the cached summary of the operator's most recent
// campaign dispatch
func (h *EmailHandler) LastCampaign(c *gin.Context) {
	requestID := requestid.Get(c)

	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":      "Authentication required",
			"request_id": requestID,
		})
		return
	}

	result, err := h.emailUsecase.LastCampaignResult(userID)
	if err != nil {
		if errors.Is(err, usecase.ErrNoCampaignResult) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":      "no campaign result available",
				"request_id": requestID,
			})
			return
		}

		logger.WithFields(map[string]interface{}{
			"request_id": requestID,
			"user_id":    userID,
			"error":      err.Error(),
		}).Error("Failed to load campaign result")

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "unexpected server error",
			"request_id": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":     result,
		"request_id": requestID,
	})
}

// bindCampaignRequest parses and validates the campaign fields shared by
// both send endpoints
func bindCampaignRequest(c *gin.Context, requestID string) (*models.CampaignRequest, bool) {
	var req models.CampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WithFields(map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Invalid campaign request body")

		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "required field missing",
			"request_id": requestID,
		})
		return nil, false
	}
	return &req, true
}
