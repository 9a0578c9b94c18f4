package domain

import "strings"

// DenialReason is the structured classification of an entitlement denial.
// The server reports denials as free text; classification keeps UI branching
// off the raw string.
type DenialReason string

const (
	DenialSubscriptionRequired DenialReason = "SUBSCRIPTION_REQUIRED"
	DenialTrialExhausted       DenialReason = "TRIAL_EXHAUSTED"
	DenialOther                DenialReason = "OTHER"
)

// Entitlement is the export permission computed fresh on every generate
// attempt. Reason and Code are meaningful only when Allowed is false.
type Entitlement struct {
	Allowed bool
	Reason  string
	Code    DenialReason
}

// ClassifyDenialReason maps the server's free-text denial reason onto the
// structured enum. Only the subscription and trial markers are assumed;
// anything else is OTHER.
func ClassifyDenialReason(reason string) DenialReason {
	lower := strings.ToLower(reason)
	switch {
	case strings.Contains(lower, "subscription"):
		return DenialSubscriptionRequired
	case strings.Contains(lower, "trial"):
		return DenialTrialExhausted
	default:
		return DenialOther
	}
}
