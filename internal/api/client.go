// Package api is the sole network boundary of the client. Every call is a
// single attempt bounded by the configured timeout; there are no retries and
// no caching.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/evidenthq/evident/internal/domain"
	"github.com/google/uuid"
)

// fallbackMessage is used when a failure body carries no decodable message.
const fallbackMessage = "Request failed"

// Config holds the client's connection parameters.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client issues typed requests to the Evident service. It is stateless:
// the bearer token is passed per call by whoever owns it.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient creates a Client for the given service base URL.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
	}
}

// ── auth ─────────────────────────────────────────────────────────────────────

func (c *Client) Register(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", "", credentials{email, password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", credentials{email, password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ── users ────────────────────────────────────────────────────────────────────

func (c *Client) Me(ctx context.Context, token string) (*domain.User, error) {
	var out domain.User
	if err := c.do(ctx, http.MethodGet, "/users/me", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CanExport checks export entitlement. The free-text denial reason is
// classified into the structured code here, at the boundary, so nothing
// downstream string-matches server text.
func (c *Client) CanExport(ctx context.Context, token string) (domain.Entitlement, error) {
	var out entitlementResponse
	if err := c.do(ctx, http.MethodGet, "/users/can-export", token, nil, &out); err != nil {
		return domain.Entitlement{}, err
	}
	ent := domain.Entitlement{Allowed: out.Allowed, Reason: out.Reason}
	if !ent.Allowed {
		if ent.Reason == "" {
			ent.Reason = "Export not allowed"
		}
		ent.Code = domain.ClassifyDenialReason(out.Reason)
	}
	return ent, nil
}

// ── logs ─────────────────────────────────────────────────────────────────────

func (c *Client) CreateLog(ctx context.Context, token string, payload domain.CreateLog) (*domain.Log, error) {
	var out domain.Log
	if err := c.do(ctx, http.MethodPost, "/logs", token, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) TodayLogs(ctx context.Context, token string) ([]domain.Log, error) {
	return c.listLogs(ctx, token, "/logs/today")
}

func (c *Client) ThisWeekLogs(ctx context.Context, token string) ([]domain.Log, error) {
	return c.listLogs(ctx, token, "/logs/this-week")
}

func (c *Client) LastWeekLogs(ctx context.Context, token string) ([]domain.Log, error) {
	return c.listLogs(ctx, token, "/logs/last-week")
}

func (c *Client) listLogs(ctx context.Context, token, path string) ([]domain.Log, error) {
	var out []domain.Log
	if err := c.do(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateLog(ctx context.Context, token, id string, patch domain.UpdateLog) (*domain.Log, error) {
	var out domain.Log
	if err := c.do(ctx, http.MethodPatch, "/logs/"+id, token, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteLog(ctx context.Context, token, id string) error {
	var out deleteResponse
	return c.do(ctx, http.MethodDelete, "/logs/"+id, token, nil, &out)
}

// ── exports ──────────────────────────────────────────────────────────────────

func (c *Client) GenerateExport(ctx context.Context, token string, r domain.DateRange) (*ExportResult, error) {
	body := exportRequest{
		StartDate: r.Start.Format(time.RFC3339),
		EndDate:   r.End.Format(time.RFC3339),
	}
	var out ExportResult
	if err := c.do(ctx, http.MethodPost, "/exports/generate", token, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ExportHistory(ctx context.Context, token string) ([]ExportHistory, error) {
	var out []ExportHistory
	if err := c.do(ctx, http.MethodGet, "/exports/history", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GeneratePDF renders the summary for a range as a PDF and returns the raw
// bytes. This is the one endpoint that does not speak JSON on success.
func (c *Client) GeneratePDF(ctx context.Context, token string, r domain.DateRange) ([]byte, error) {
	body := exportRequest{
		StartDate: r.Start.Format(time.RFC3339),
		EndDate:   r.End.Format(time.RFC3339),
	}
	status, raw, err := c.send(ctx, http.MethodPost, "/exports/pdf", token, body)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, decodeFailure(status, raw)
	}
	return raw, nil
}

// ── subscriptions ────────────────────────────────────────────────────────────

func (c *Client) Checkout(ctx context.Context, token, successURL, cancelURL string) (*CheckoutSession, error) {
	var out CheckoutSession
	if err := c.do(ctx, http.MethodPost, "/subscriptions/checkout", token, checkoutRequest{successURL, cancelURL}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SubscriptionStatus(ctx context.Context, token string) (*SubscriptionStatus, error) {
	var out SubscriptionStatus
	if err := c.do(ctx, http.MethodGet, "/subscriptions/status", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ── plumbing ─────────────────────────────────────────────────────────────────

// do issues a JSON request and decodes a JSON success body into out.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	status, raw, err := c.send(ctx, method, path, token, body)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return decodeFailure(status, raw)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// send executes one request attempt within the configured timeout and reads
// the full response body before the deadline is released.
func (c *Client) send(ctx context.Context, method, path, token string, body any) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.New().String())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, nil, ErrTimeout
		}
		if isConnectionError(err) {
			return 0, nil, ErrServerUnavailable
		}
		return 0, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return 0, nil, ErrTimeout
		}
		return 0, nil, fmt.Errorf("reading response: %w", err)
	}
	return resp.StatusCode, raw, nil
}

// decodeFailure turns a non-2xx body into a RequestError, extracting the
// server's message field when present.
func decodeFailure(status int, raw []byte) error {
	var body struct {
		Message string `json:"message"`
	}
	msg := fallbackMessage
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		msg = body.Message
	}
	return &RequestError{StatusCode: status, Message: msg}
}

func isConnectionError(err error) bool {
	var netErr *net.OpError
	return errors.As(err, &netErr)
}
