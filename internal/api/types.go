package api

import (
	"time"

	"github.com/evidenthq/evident/internal/domain"
)

// AuthResponse is returned by the register and login endpoints.
type AuthResponse struct {
	AccessToken string      `json:"accessToken"`
	User        domain.User `json:"user"`
}

// ExportResult is the generated textual summary for a date range. It lives
// only for the duration of a generation workflow and is never cached.
type ExportResult struct {
	ID          string `json:"id"`
	Format      string `json:"format"`
	TextContent string `json:"textContent"`
	DateRange   struct {
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"dateRange"`
	LogCount int `json:"logCount"`
}

// ExportHistory is one past export as reported by the history endpoint.
type ExportHistory struct {
	ID        string    `json:"id"`
	StartDate string    `json:"startDate"`
	EndDate   string    `json:"endDate"`
	Format    string    `json:"format"`
	CreatedAt time.Time `json:"createdAt"`
}

// CheckoutSession is the payment redirect created by the checkout endpoint.
type CheckoutSession struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// SubscriptionStatus is the billing state of the current user.
type SubscriptionStatus struct {
	SubscriptionStatus string `json:"subscriptionStatus"`
	TrialExportUsed    bool   `json:"trialExportUsed"`
	ExportCount        int    `json:"exportCount"`
}

// entitlementResponse is the wire form of the can-export check.
type entitlementResponse struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// deleteResponse is the wire form of a log deletion acknowledgement.
type deleteResponse struct {
	Deleted bool `json:"deleted"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type exportRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type checkoutRequest struct {
	SuccessURL string `json:"successUrl"`
	CancelURL  string `json:"cancelUrl"`
}
