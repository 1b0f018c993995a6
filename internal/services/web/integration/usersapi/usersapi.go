// Package usersapi is the HTTP client for the remote users API.
package usersapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName    = "github.com/louisbranch/userdesk/internal/services/web/integration/usersapi"
	usersPath     = "/api/users"
	maxErrorBody  = 64 << 10
	maxResultBody = 4 << 20
)

// ErrMalformedResponse reports a 2xx response whose body could not be decoded.
var ErrMalformedResponse = errors.New("users api: malformed response")

// Config configures a users API client.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	// Timeout bounds each call. Zero leaves calls bounded only by the caller's context.
	Timeout time.Duration
}

// Client calls the remote users API.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	timeout time.Duration
	tracer  trace.Tracer
}

// User mirrors one user record returned by the API.
type User struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	Age       FlexString `json:"age"`
	CreatedAt string     `json:"created_at"`
}

// UserPage is one page of users plus the total matching the keyword.
type UserPage struct {
	Users []User `json:"users"`
	Total int    `json:"total"`
}

// ListUsersParams selects one page of users.
type ListUsersParams struct {
	Keyword string
	Limit   int
	Offset  int
}

// CreateUserInput is the payload for creating a user.
type CreateUserInput struct {
	Username string `json:"username"`
	Age      string `json:"age"`
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	// Message is the body's error field.
	Message string
	// Detail is the body's message field.
	Detail string
}

func (e *StatusError) Error() string {
	text := strings.TrimSpace(e.Message)
	if text == "" {
		text = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("users api: status %d: %s", e.StatusCode, text)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound
}

// FlexString accepts a JSON string or number and keeps its decimal text.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*f = ""
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("flex string: %w", err)
	}
	*f = FlexString(n.String())
	return nil
}

// New builds a client for the API rooted at cfg.BaseURL.
func New(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, errors.New("users api base url is required")
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse users api base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("users api base url %q must be http or https", raw)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("users api base url %q has no host", raw)
	}
	base.Path = strings.TrimRight(base.Path, "/")
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	timeout := cfg.Timeout
	if timeout < 0 {
		timeout = 0
	}
	return &Client{
		baseURL: base,
		http:    httpClient,
		timeout: timeout,
		tracer:  otel.Tracer(tracerName),
	}, nil
}

// ListUsers fetches one page of users. The keyword is sent as given and
// omitted only when empty.
func (c *Client) ListUsers(ctx context.Context, params ListUsersParams) (UserPage, error) {
	query := url.Values{}
	if params.Keyword != "" {
		query.Set("keyword", params.Keyword)
	}
	query.Set("limit", strconv.Itoa(params.Limit))
	query.Set("offset", strconv.Itoa(params.Offset))

	var page UserPage
	err := c.do(ctx, "usersapi.ListUsers", http.MethodGet, usersPath, query, nil, &page,
		attribute.Int("users.limit", params.Limit),
		attribute.Int("users.offset", params.Offset),
	)
	if err != nil {
		return UserPage{}, err
	}
	if page.Users == nil {
		page.Users = []User{}
	}
	return page, nil
}

// CreateUser registers a new user.
func (c *Client) CreateUser(ctx context.Context, input CreateUserInput) (User, error) {
	var created User
	if err := c.do(ctx, "usersapi.CreateUser", http.MethodPost, usersPath, nil, input, &created); err != nil {
		return User{}, err
	}
	return created, nil
}

// GetUser fetches one user by id.
func (c *Client) GetUser(ctx context.Context, id int64) (User, error) {
	var user User
	path := usersPath + "/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, "usersapi.GetUser", http.MethodGet, path, nil, nil, &user, attribute.Int64("users.id", id)); err != nil {
		return User{}, err
	}
	return user, nil
}

func (c *Client) do(
	ctx context.Context,
	spanName string,
	method string,
	path string,
	query url.Values,
	body any,
	out any,
	attrs ...attribute.KeyValue,
) (err error) {
	if c == nil {
		return errors.New("users api client is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	target := *c.baseURL
	target.Path = c.baseURL.Path + path
	target.RawQuery = query.Encode()

	ctx, span := c.tracer.Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(append(attrs,
			attribute.String("http.request.method", method),
			attribute.String("url.full", target.String()),
		)...),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", spanName, err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", spanName, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", spanName, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeStatusError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResultBody)).Decode(out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedResponse, spanName, err)
	}
	return nil
}

func decodeStatusError(resp *http.Response) error {
	statusErr := &StatusError{StatusCode: resp.StatusCode}
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if len(bytes.TrimSpace(data)) > 0 && json.Unmarshal(data, &payload) == nil {
		statusErr.Message = strings.TrimSpace(payload.Error)
		statusErr.Detail = strings.TrimSpace(payload.Message)
	}
	return statusErr
}
