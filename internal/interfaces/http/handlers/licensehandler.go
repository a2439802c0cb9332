package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/writgo/licensing/internal/application/licensing/usecases"
	"github.com/writgo/licensing/internal/domain/credit"
	"github.com/writgo/licensing/internal/domain/license"
	"github.com/writgo/licensing/internal/shared/logger"
)

// expiresAtLayout is the wire format for license expiry timestamps. Clients
// parse this exact layout, so it must not change.
const expiresAtLayout = "2006-01-02 15:04:05"

// LicenseHandler handles license validation and credit consumption
type LicenseHandler struct {
	validateUseCase validateLicenseUseCase
	consumeUseCase  consumeCreditsUseCase
	logger          logger.Interface
}

// NewLicenseHandler creates a new license handler
func NewLicenseHandler(
	validateUC validateLicenseUseCase,
	consumeUC consumeCreditsUseCase,
	logger logger.Interface,
) *LicenseHandler {
	return &LicenseHandler{
		validateUseCase: validateUC,
		consumeUseCase:  consumeUC,
		logger:          logger,
	}
}

// ValidateLicenseRequest represents the request to validate a license key
type ValidateLicenseRequest struct {
	LicenseKey string `json:"license_key"`
	SiteURL    string `json:"site_url"`
}

// ConsumeCreditsRequest represents the request to consume credits.
// Amount defaults to 1 when omitted.
type ConsumeCreditsRequest struct {
	LicenseKey string `json:"license_key"`
	Amount     *int   `json:"amount"`
	Action     string `json:"action"`
}

// Validate checks a license key and returns its status and credit snapshot.
func (h *LicenseHandler) Validate(c *gin.Context) {
	var req ValidateLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
		return
	}

	cmd := usecases.ValidateLicenseCommand{
		LicenseKey: req.LicenseKey,
		SiteURL:    req.SiteURL,
		Meta:       requestMeta(c),
	}

	result, err := h.validateUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		switch {
		case errors.Is(err, license.ErrKeyRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "License key is required"})
		case errors.Is(err, license.ErrInvalidKeyFormat):
			c.JSON(http.StatusBadRequest, gin.H{
				"valid": false,
				"error": "Invalid license key format",
			})
		case errors.Is(err, license.ErrLicenseNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"valid": false,
				"error": "License not found",
			})
		default:
			h.logger.Errorw("license validation failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":             result.Valid,
		"status":            string(result.Status),
		"credits_remaining": result.CreditsRemaining,
		"credits_total":     result.CreditsTotal,
		"site_url":          result.SiteURL,
		"plan_name":         result.PlanName,
		"expires_at":        formatExpiresAt(result.ExpiresAt),
	})
}

// Consume debits credits from a license's current period.
func (h *LicenseHandler) Consume(c *gin.Context) {
	var req ConsumeCreditsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
		return
	}

	amount := 1
	if req.Amount != nil {
		amount = *req.Amount
	}

	cmd := usecases.ConsumeCreditsCommand{
		LicenseKey: req.LicenseKey,
		Amount:     amount,
		Action:     req.Action,
		Meta:       requestMeta(c),
	}

	result, err := h.consumeUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		h.respondConsumeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"credits_remaining": result.CreditsRemaining,
		"credits_consumed":  result.CreditsConsumed,
	})
}

func (h *LicenseHandler) respondConsumeError(c *gin.Context, err error) {
	var notActive *usecases.NotActiveError
	var insufficient *usecases.InsufficientCreditsError

	switch {
	case errors.Is(err, license.ErrKeyRequired):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "License key is required",
		})
	case errors.Is(err, license.ErrInvalidKeyFormat):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid license key format",
		})
	case errors.Is(err, credit.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid amount. Must be between 1 and 1000.",
		})
	case errors.Is(err, license.ErrLicenseNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "License not found",
		})
	case errors.As(err, &notActive):
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   "License is not active",
			"status":  string(notActive.Status),
		})
	case errors.Is(err, license.ErrLicenseExpired):
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   "License has expired",
		})
	case errors.Is(err, credit.ErrNoActivePeriod):
		c.JSON(http.StatusForbidden, gin.H{
			"success":           false,
			"error":             "No credits available for current period",
			"credits_remaining": 0,
		})
	case errors.As(err, &insufficient):
		c.JSON(http.StatusForbidden, gin.H{
			"success":           false,
			"error":             "Insufficient credits",
			"credits_remaining": insufficient.Remaining,
			"credits_requested": insufficient.Requested,
		})
	default:
		h.logger.Errorw("credit consumption failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Database error",
		})
	}
}

func formatExpiresAt(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(expiresAtLayout)
}

func requestMeta(c *gin.Context) license.RequestMeta {
	return license.RequestMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}
