package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v78/webhook"

	"github.com/writgo/licensing/internal/application/licensing/usecases"
	"github.com/writgo/licensing/internal/shared/logger"
)

// maxWebhookBodySize caps the webhook payload at the size Stripe itself
// recommends for webhook endpoints.
const maxWebhookBodySize = int64(65536)

// subscriptionPayload is the subset of the provider's subscription object
// this service reads. Everything else in the payload is ignored.
type subscriptionPayload struct {
	ID       string `json:"id"`
	Customer string `json:"customer"`
	Status   string `json:"status"`
	Items    struct {
		Data []struct {
			Price struct {
				ID string `json:"id"`
			} `json:"price"`
		} `json:"data"`
	} `json:"items"`
	CurrentPeriodStart int64 `json:"current_period_start"`
	CurrentPeriodEnd   int64 `json:"current_period_end"`
}

// invoicePayload is the subset of the provider's invoice object this
// service reads.
type invoicePayload struct {
	Subscription string `json:"subscription"`
	PeriodStart  int64  `json:"period_start"`
	PeriodEnd    int64  `json:"period_end"`
}

// WebhookHandler receives billing provider notifications, verifies their
// signature, and hands recognized events to the application layer.
type WebhookHandler struct {
	processUseCase processBillingEventUseCase
	webhookSecret  string
	logger         logger.Interface
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(
	processUC processBillingEventUseCase,
	webhookSecret string,
	logger logger.Interface,
) *WebhookHandler {
	return &WebhookHandler{
		processUseCase: processUC,
		webhookSecret:  webhookSecret,
		logger:         logger,
	}
}

// HandleSubscriptionEvent processes a signed billing provider webhook.
// The raw body is read exactly once so the signature is computed over the
// same bytes the provider signed.
func (h *WebhookHandler) HandleSubscriptionEvent(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBodySize)
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.logger.Warnw("failed to read webhook body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing payload or signature"})
		return
	}

	sigHeader := c.GetHeader("Stripe-Signature")
	if len(payload) == 0 || sigHeader == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing payload or signature"})
		return
	}

	// Deliveries carry the billing account's API version, not the SDK's
	// pinned one, so the version check must be skipped or every production
	// event would be rejected as unverified.
	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, h.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		h.logger.Warnw("webhook signature verification failed",
			"error", err,
			"client_ip", c.ClientIP())
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
		return
	}

	billingEvent, err := h.decodeEvent(string(event.Type), event.Data.Raw)
	if err != nil {
		h.logger.Errorw("failed to decode webhook event",
			"error", err,
			"event_id", event.ID,
			"event_type", event.Type)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	if billingEvent == nil {
		// Recognized envelope, unrecognized type. Acknowledge so the
		// provider stops retrying.
		c.JSON(http.StatusOK, gin.H{"received": true, "handled": false})
		return
	}

	handled, err := h.processUseCase.Execute(c.Request.Context(), billingEvent, requestMeta(c))
	if err != nil {
		h.logger.Errorw("webhook event processing failed",
			"error", err,
			"event_id", event.ID,
			"event_type", event.Type)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true, "handled": handled})
}

// decodeEvent maps a verified provider event to a billing event. A nil
// event with nil error means the type is not one this service acts on.
func (h *WebhookHandler) decodeEvent(eventType string, raw json.RawMessage) (usecases.BillingEvent, error) {
	switch eventType {
	case "customer.subscription.created":
		var sub subscriptionPayload
		if err := json.Unmarshal(raw, &sub); err != nil {
			return nil, err
		}
		return usecases.SubscriptionCreated{
			SubscriptionID:     sub.ID,
			CustomerID:         sub.Customer,
			PriceID:            firstPriceID(sub),
			ProviderStatus:     sub.Status,
			CurrentPeriodStart: sub.CurrentPeriodStart,
			CurrentPeriodEnd:   sub.CurrentPeriodEnd,
		}, nil

	case "customer.subscription.updated":
		var sub subscriptionPayload
		if err := json.Unmarshal(raw, &sub); err != nil {
			return nil, err
		}
		return usecases.SubscriptionUpdated{
			SubscriptionID:   sub.ID,
			PriceID:          firstPriceID(sub),
			ProviderStatus:   sub.Status,
			CurrentPeriodEnd: sub.CurrentPeriodEnd,
		}, nil

	case "customer.subscription.deleted":
		var sub subscriptionPayload
		if err := json.Unmarshal(raw, &sub); err != nil {
			return nil, err
		}
		return usecases.SubscriptionDeleted{SubscriptionID: sub.ID}, nil

	case "invoice.payment_succeeded":
		var inv invoicePayload
		if err := json.Unmarshal(raw, &inv); err != nil {
			return nil, err
		}
		return usecases.InvoicePaymentSucceeded{
			SubscriptionID: inv.Subscription,
			PeriodStart:    inv.PeriodStart,
			PeriodEnd:      inv.PeriodEnd,
		}, nil

	case "invoice.payment_failed":
		var inv invoicePayload
		if err := json.Unmarshal(raw, &inv); err != nil {
			return nil, err
		}
		return usecases.InvoicePaymentFailed{SubscriptionID: inv.Subscription}, nil
	}

	return nil, nil
}

func firstPriceID(sub subscriptionPayload) string {
	if len(sub.Items.Data) == 0 {
		return ""
	}
	return sub.Items.Data[0].Price.ID
}
