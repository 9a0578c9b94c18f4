package domain

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"
)

// DateLayout is the calendar-date form used for Log.Date and range boundaries.
const DateLayout = "2006-01-02"

// Payload limits enforced before a request is sent.
const (
	MaxDescriptionLen = 120
	MaxReferenceLen   = 100
)

// ErrInvalidLog is the sentinel wrapped by all log payload validation failures.
var ErrInvalidLog = errors.New("invalid log")

// Log is a single recorded work activity. The server assigns ID and CreatedAt;
// the client never fabricates either.
type Log struct {
	ID           string       `json:"id"`
	Date         string       `json:"date"`
	StartTime    time.Time    `json:"startTime"`
	EndTime      time.Time    `json:"endTime"`
	ActivityType ActivityType `json:"activityType"`
	Description  string       `json:"description"`
	Reference    string       `json:"reference,omitempty"`
	Source       Source       `json:"source"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// User is the authenticated account, replaced wholesale on every auth response.
type User struct {
	ID                 string `json:"id"`
	Email              string `json:"email"`
	SubscriptionStatus string `json:"subscriptionStatus"`
	ExportCount        int    `json:"exportCount,omitempty"`
	TrialExportUsed    bool   `json:"trialExportUsed,omitempty"`
}

// CreateLog is the payload for creating a new log.
type CreateLog struct {
	Date         string       `json:"date"`
	StartTime    time.Time    `json:"startTime"`
	EndTime      time.Time    `json:"endTime"`
	ActivityType ActivityType `json:"activityType"`
	Description  string       `json:"description"`
	Reference    string       `json:"reference,omitempty"`
	Source       Source       `json:"source,omitempty"`
}

// Validate checks the payload against the limits the server enforces:
// description 1-120 characters, reference at most 100, start strictly before
// end, and Date on the same calendar day as StartTime.
func (c CreateLog) Validate() error {
	if n := utf8.RuneCountInString(c.Description); n < 1 || n > MaxDescriptionLen {
		return fmt.Errorf("%w: description must be 1-%d characters, got %d", ErrInvalidLog, MaxDescriptionLen, n)
	}
	if n := utf8.RuneCountInString(c.Reference); n > MaxReferenceLen {
		return fmt.Errorf("%w: reference must be at most %d characters, got %d", ErrInvalidLog, MaxReferenceLen, n)
	}
	if !c.ActivityType.Valid() {
		return fmt.Errorf("%w: unknown activity type %q", ErrInvalidLog, c.ActivityType)
	}
	if !c.StartTime.Before(c.EndTime) {
		return fmt.Errorf("%w: start time must be before end time", ErrInvalidLog)
	}
	if c.Date != c.StartTime.Format(DateLayout) {
		return fmt.Errorf("%w: date %s does not match start time day %s",
			ErrInvalidLog, c.Date, c.StartTime.Format(DateLayout))
	}
	return nil
}

// UpdateLog is a partial patch; nil fields are left unchanged by the server.
type UpdateLog struct {
	Date         *string       `json:"date,omitempty"`
	StartTime    *time.Time    `json:"startTime,omitempty"`
	EndTime      *time.Time    `json:"endTime,omitempty"`
	ActivityType *ActivityType `json:"activityType,omitempty"`
	Description  *string       `json:"description,omitempty"`
	Reference    *string       `json:"reference,omitempty"`
}

// Validate checks only the fields present in the patch. Time ordering is
// checked when both endpoints are supplied; a one-sided change is validated
// by the server against the stored log.
func (u UpdateLog) Validate() error {
	if u.Description != nil {
		if n := utf8.RuneCountInString(*u.Description); n < 1 || n > MaxDescriptionLen {
			return fmt.Errorf("%w: description must be 1-%d characters, got %d", ErrInvalidLog, MaxDescriptionLen, n)
		}
	}
	if u.Reference != nil {
		if n := utf8.RuneCountInString(*u.Reference); n > MaxReferenceLen {
			return fmt.Errorf("%w: reference must be at most %d characters, got %d", ErrInvalidLog, MaxReferenceLen, n)
		}
	}
	if u.ActivityType != nil && !u.ActivityType.Valid() {
		return fmt.Errorf("%w: unknown activity type %q", ErrInvalidLog, *u.ActivityType)
	}
	if u.StartTime != nil && u.EndTime != nil && !u.StartTime.Before(*u.EndTime) {
		return fmt.Errorf("%w: start time must be before end time", ErrInvalidLog)
	}
	return nil
}
