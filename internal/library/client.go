package library

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/five82/folio/internal/apperr"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Service is the set of library API operations the client layer consumes.
// *Client implements it; tests substitute fakes.
type Service interface {
	Login(ctx context.Context, email, password string) (LoginResponse, error)
	Register(ctx context.Context, reg Registration) (LoginResponse, error)
	Logout(ctx context.Context) error

	FetchBooks(ctx context.Context, query BookQuery) (BookPage, error)
	FetchBook(ctx context.Context, id int64) (Book, error)
	CreateBook(ctx context.Context, input BookInput) (Book, error)
	UpdateBook(ctx context.Context, id int64, input BookInput) (Book, error)
	DeleteBook(ctx context.Context, id int64) error

	FetchCopies(ctx context.Context, bookID int64) ([]Copy, error)
	FetchCopy(ctx context.Context, id int64) (Copy, error)
	CreateCopy(ctx context.Context, bookID int64, input CopyInput) (Copy, error)
	UpdateCopy(ctx context.Context, id int64, input CopyInput) (Copy, error)
	DeleteCopy(ctx context.Context, id int64) error

	FetchBorrowings(ctx context.Context) ([]Borrowing, error)
	Borrow(ctx context.Context, copyID int64) (Borrowing, error)
	Renew(ctx context.Context, id int64) error
	Return(ctx context.Context, id int64) error
	FetchDashboard(ctx context.Context) (Dashboard, error)
}

// Ensure Client implements Service at compile time.
var _ Service = (*Client)(nil)

// TokenSource yields the bearer token for the current session, or "" when
// there is none.
type TokenSource interface {
	Token() string
}

// Client talks to the library service HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	tokens    TokenSource
	logger    *slog.Logger
	userAgent string
}

// Options configures a Client.
type Options struct {
	BaseURL string
	Timeout time.Duration
	Tokens  TokenSource
	Logger  *slog.Logger
}

const (
	// DefaultBaseURL is where the library service listens in development.
	DefaultBaseURL   = "http://localhost:3000/api/v1"
	defaultUserAgent = "folio/0.1"
	requestTimeout   = 10 * time.Second
	maxErrorBody     = 64 << 10
)

// NewClient builds a Client for the given options.
func NewClient(opts Options) (*Client, error) {
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = requestTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: timeout},
		tokens:    opts.Tokens,
		logger:    logger,
		userAgent: defaultUserAgent,
	}, nil
}

// BaseURL returns the resolved API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// APIError is a non-2xx response from the library service.
type APIError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api %s %s returned status %d: %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("api %s %s returned status %d", e.Method, e.Path, e.Status)
}

// Unwrap exposes the response as a categorised application error.
func (e *APIError) Unwrap() error {
	return &apperr.Error{Code: apperr.FromStatus(e.Status), Message: e.Message}
}

// StatusCode returns the HTTP status of err when it wraps an *APIError.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, dest any) error {
	raw, err := c.send(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if dest == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	reqURL := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		reqURL.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := strings.TrimSpace(c.tokens.Token()); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("request_id", requestID),
			slog.Any("error", err))
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	attrs := []any{
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.String("request_id", requestID),
		slog.Duration("duration", time.Since(start)),
	}
	if resp.StatusCode >= 400 {
		c.logger.Warn("request rejected", attrs...)
		if len(payload) > maxErrorBody {
			payload = payload[:maxErrorBody]
		}
		return nil, &APIError{
			Method:  method,
			Path:    path,
			Status:  resp.StatusCode,
			Message: errorMessage(payload),
		}
	}
	c.logger.Debug("request completed", attrs...)
	return payload, nil
}

// errorMessage extracts the server-supplied message from an error body.
// The service answers with {"error": "..."}; {"message": "..."} and a Rails
// style {"errors": [...]} are accepted as well.
func errorMessage(body []byte) string {
	if len(bytes.TrimSpace(body)) == 0 {
		return ""
	}
	var payload struct {
		Error   any    `json:"error"`
		Message string `json:"message"`
		Errors  any    `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if msg, ok := payload.Error.(string); ok && strings.TrimSpace(msg) != "" {
		return strings.TrimSpace(msg)
	}
	if msg := strings.TrimSpace(payload.Message); msg != "" {
		return msg
	}
	return joinMessages(payload.Errors)
}

func joinMessages(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				parts = append(parts, strings.TrimSpace(s))
			}
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		parts := make([]string, 0, len(v))
		for field, msgs := range v {
			if joined := joinMessages(msgs); joined != "" {
				parts = append(parts, field+" "+joined)
			}
		}
		slices.Sort(parts)
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

// decodeCollection accepts either a bare JSON array or an object carrying
// the array under key.
func decodeCollection[T any](raw []byte, key string) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	var items []T
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		return items, nil
	}
	var wrapped map[string]jsoniter.RawMessage
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	inner, ok := wrapped[key]
	if !ok || len(inner) == 0 || string(inner) == "null" {
		return nil, nil
	}
	if err := json.Unmarshal(inner, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return items, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
