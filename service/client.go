package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"sicksense-cli/model"
)

const (
	defaultBaseURL     = "http://localhost:5000/api"
	defaultUserAgent   = "sicksense-cli"
	defaultMaxAttempts = 3
	defaultRetryBase   = 200 * time.Millisecond
	defaultRetryCap    = 1200 * time.Millisecond
)

// ErrInvalidSeat is returned when a report is submitted without a resolved seat id.
var ErrInvalidSeat = errors.New("report has no valid seat")

// TokenSource supplies the bearer token for authenticated requests.
type TokenSource interface {
	Token() string
}

// Client wraps HTTP access to the SickSense backend API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	tokens      TokenSource
	maxAttempts int
	retryBase   time.Duration
	retryCap    time.Duration
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if strings.TrimSpace(baseURL) != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

func WithTokenSource(tokens TokenSource) Option {
	return func(c *Client) { c.tokens = tokens }
}

func WithUserAgent(agent string) Option {
	return func(c *Client) {
		if agent != "" {
			c.userAgent = agent
		}
	}
}

// APIError is returned when the API responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Status     string
	Endpoint   string
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e == nil {
		return "sicksense api error"
	}
	if e.Message != "" {
		return fmt.Sprintf("sicksense api error: %s: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("sicksense api error: %s: %s", e.Status, e.Body)
}

// IsNotFound reports whether the error represents a 404 from the API.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsUnauthorized reports whether the API rejected the credentials.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized) || hasStatus(err, http.StatusForbidden)
}

func hasStatus(err error, code int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == code
	}
	return false
}

// NewClient creates a new API client. If httpClient is nil, a default client is used.
func NewClient(httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}
	c := &Client{
		httpClient:  httpClient,
		baseURL:     defaultBaseURL,
		userAgent:   defaultUserAgent,
		maxAttempts: defaultMaxAttempts,
		retryBase:   defaultRetryBase,
		retryCap:    defaultRetryCap,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login authenticates without a bearer token.
func (c *Client) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return model.AuthResponse{}, errors.New("email and password are required")
	}
	if !req.Role.Valid() {
		return model.AuthResponse{}, fmt.Errorf("invalid role %q", req.Role)
	}
	var out model.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &out, false); err != nil {
		return model.AuthResponse{}, err
	}
	if out.Token == "" {
		return model.AuthResponse{}, errors.New("login response has no token")
	}
	return out, nil
}

// Signup registers a new account without a bearer token.
func (c *Client) Signup(ctx context.Context, req model.SignupRequest) (model.AuthResponse, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return model.AuthResponse{}, errors.New("email and password are required")
	}
	if !req.Role.Valid() {
		return model.AuthResponse{}, fmt.Errorf("invalid role %q", req.Role)
	}
	var out model.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/signup", req, &out, false); err != nil {
		return model.AuthResponse{}, err
	}
	if out.Token == "" {
		return model.AuthResponse{}, errors.New("signup response has no token")
	}
	return out, nil
}

// GetLocations returns the building/room/seat catalog.
func (c *Client) GetLocations(ctx context.Context) ([]model.Location, error) {
	var locations []model.Location
	if err := c.do(ctx, http.MethodGet, "/resources/locations", nil, &locations, true); err != nil {
		return nil, err
	}
	return locations, nil
}

func (c *Client) GetSymptoms(ctx context.Context) ([]model.Symptom, error) {
	var symptoms []model.Symptom
	if err := c.do(ctx, http.MethodGet, "/resources/symptoms", nil, &symptoms, true); err != nil {
		return nil, err
	}
	return symptoms, nil
}

// SubmitReport posts a new sickness report. The seat must be resolved.
func (c *Client) SubmitReport(ctx context.Context, report model.CreateHealthReport) (model.HealthReport, error) {
	if report.SeatID == "" || report.Location.SeatID == "" {
		return model.HealthReport{}, ErrInvalidSeat
	}
	if !report.Severity.Valid() {
		return model.HealthReport{}, fmt.Errorf("invalid severity %q", report.Severity)
	}
	if len(report.Symptoms) == 0 {
		return model.HealthReport{}, errors.New("at least one symptom is required")
	}
	var out model.HealthReport
	if err := c.do(ctx, http.MethodPost, "/reports", report, &out, true); err != nil {
		return model.HealthReport{}, err
	}
	return out, nil
}

func (c *Client) GetMyHistory(ctx context.Context) ([]model.HealthReport, error) {
	var reports []model.HealthReport
	if err := c.do(ctx, http.MethodGet, "/reports/me", nil, &reports, true); err != nil {
		return nil, err
	}
	return reports, nil
}

// GetAllReports is admin only.
func (c *Client) GetAllReports(ctx context.Context) ([]model.HealthReport, error) {
	var reports []model.HealthReport
	if err := c.do(ctx, http.MethodGet, "/reports", nil, &reports, true); err != nil {
		return nil, err
	}
	return reports, nil
}

// GetDashboard is admin only.
func (c *Client) GetDashboard(ctx context.Context) (model.Dashboard, error) {
	var dashboard model.Dashboard
	if err := c.do(ctx, http.MethodGet, "/dashboard", nil, &dashboard, true); err != nil {
		return model.Dashboard{}, err
	}
	return dashboard, nil
}

// UpdateActionStatus is admin only.
func (c *Client) UpdateActionStatus(ctx context.Context, id string, status model.ActionStatus) (model.SuggestedAction, error) {
	if strings.TrimSpace(id) == "" {
		return model.SuggestedAction{}, errors.New("action id is required")
	}
	if !status.Valid() {
		return model.SuggestedAction{}, fmt.Errorf("invalid action status %q", status)
	}
	endpoint := fmt.Sprintf("/dashboard/actions/%s/status", url.PathEscape(id))
	body := struct {
		Status model.ActionStatus `json:"status"`
	}{Status: status}
	var out model.SuggestedAction
	if err := c.do(ctx, http.MethodPatch, endpoint, body, &out, true); err != nil {
		return model.SuggestedAction{}, err
	}
	return out, nil
}

// UpdateReportStatus is admin only.
func (c *Client) UpdateReportStatus(ctx context.Context, id string, status model.ReportStatus) (model.HealthReport, error) {
	if strings.TrimSpace(id) == "" {
		return model.HealthReport{}, errors.New("report id is required")
	}
	if !status.Valid() {
		return model.HealthReport{}, fmt.Errorf("invalid report status %q", status)
	}
	endpoint := fmt.Sprintf("/reports/%s/status", url.PathEscape(id))
	body := struct {
		Status model.ReportStatus `json:"status"`
	}{Status: status}
	var out model.HealthReport
	if err := c.do(ctx, http.MethodPatch, endpoint, body, &out, true); err != nil {
		return model.HealthReport{}, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method string, path string, in any, out any, auth bool) error {
	endpoint := c.baseURL + path

	var payload []byte
	if in != nil {
		var err error
		payload, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	maxAttempts := c.maxAttempts
	if maxAttempts < 1 || !retryable(method) {
		maxAttempts = 1
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Request-Id", uuid.NewString())
		if auth && c.tokens != nil {
			if token := c.tokens.Token(); token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}
		}

		res, err := c.httpClient.Do(req)
		if err != nil {
			if c.shouldRetryNetworkError(err) && attempt < maxAttempts {
				if waitErr := c.waitRetry(ctx, attempt); waitErr != nil {
					return waitErr
				}
				continue
			}
			return fmt.Errorf("request failed: %w", err)
		}

		if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
			snippet, _ := io.ReadAll(io.LimitReader(res.Body, 8<<10))
			_ = res.Body.Close()

			apiErr := &APIError{
				StatusCode: res.StatusCode,
				Status:     res.Status,
				Endpoint:   endpoint,
				Body:       strings.TrimSpace(string(snippet)),
				Message:    errorMessage(res.Header.Get("Content-Type"), snippet),
			}
			if c.shouldRetryStatus(res.StatusCode) && attempt < maxAttempts {
				if waitErr := c.waitRetry(ctx, attempt); waitErr != nil {
					return waitErr
				}
				continue
			}
			return apiErr
		}

		if out == nil || !isJSON(res.Header.Get("Content-Type")) {
			_, _ = io.Copy(io.Discard, res.Body)
			_ = res.Body.Close()
			return nil
		}
		dec := json.NewDecoder(res.Body)
		err = dec.Decode(out)
		_ = res.Body.Close()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("decode response from %s: %w", endpoint, err)
		}
		return nil
	}

	return errors.New("request failed after retries")
}

func errorMessage(contentType string, body []byte) string {
	if isJSON(contentType) {
		var msg model.APIMessage
		if err := json.Unmarshal(body, &msg); err == nil {
			return strings.TrimSpace(msg.Message)
		}
		return ""
	}
	return strings.TrimSpace(string(body))
}

func isJSON(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "application/json")
}

func retryable(method string) bool {
	return method == http.MethodGet || method == http.MethodPatch
}

func (c *Client) shouldRetryStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func (c *Client) shouldRetryNetworkError(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func (c *Client) waitRetry(ctx context.Context, attempt int) error {
	delay := c.retryDelay(attempt)
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) retryDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	base := c.retryBase
	if base <= 0 {
		base = defaultRetryBase
	}
	cap := c.retryCap
	if cap <= 0 {
		cap = defaultRetryCap
	}

	delay := base
	for i := 1; i < attempt; i++ {
		if delay >= cap/2 {
			return cap
		}
		delay *= 2
	}
	if delay > cap {
		return cap
	}
	return delay
}
