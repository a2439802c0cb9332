package usecases

// BillingEvent is the closed set of billing provider notifications this
// service acts on. The webhook layer decodes verified provider payloads into
// one of these variants; anything else is acknowledged without effect.
type BillingEvent interface {
	isBillingEvent()
}

// SubscriptionCreated announces a new subscription. Period boundaries are
// epoch seconds as reported by the provider.
type SubscriptionCreated struct {
	SubscriptionID     string
	CustomerID         string
	Email              string
	PriceID            string
	ProviderStatus     string
	CurrentPeriodStart int64
	CurrentPeriodEnd   int64
}

// SubscriptionUpdated announces a plan or status change.
type SubscriptionUpdated struct {
	SubscriptionID   string
	PriceID          string
	ProviderStatus   string
	CurrentPeriodEnd int64
}

// SubscriptionDeleted announces a terminated subscription.
type SubscriptionDeleted struct {
	SubscriptionID string
}

// InvoicePaymentSucceeded announces a paid invoice for a billing window.
type InvoicePaymentSucceeded struct {
	SubscriptionID string
	PeriodStart    int64
	PeriodEnd      int64
}

// InvoicePaymentFailed announces a failed payment attempt.
type InvoicePaymentFailed struct {
	SubscriptionID string
}

func (SubscriptionCreated) isBillingEvent()     {}
func (SubscriptionUpdated) isBillingEvent()     {}
func (SubscriptionDeleted) isBillingEvent()     {}
func (InvoicePaymentSucceeded) isBillingEvent() {}
func (InvoicePaymentFailed) isBillingEvent()    {}
