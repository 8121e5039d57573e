// Package backend talks to the around posts API.
package backend

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

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/around-app/around/internal/core/domain"
)

const maxErrorBody = 64 << 10

var tracer = otel.Tracer("around/backend")

// Client implements ports.PostBackend over HTTP.
type Client struct {
	root       string
	authPrefix string
	http       *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds every request. Zero leaves requests unbounded apart from
// the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New creates a Client for the API rooted at root, e.g. "http://localhost:8080".
func New(root, authPrefix string, opts ...Option) *Client {
	c := &Client{
		root:       strings.TrimRight(root, "/"),
		authPrefix: authPrefix,
		http:       &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search issues GET {root}/search?lat=..&lon=..&range=.. and decodes the post list.
func (c *Client) Search(ctx context.Context, q domain.SearchQuery, token string) ([]domain.Post, error) {
	ctx, span := tracer.Start(ctx, "backend.Search", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.Float64("around.lat", q.Lat),
		attribute.Float64("around.lon", q.Lon),
		attribute.Float64("around.range", q.Radius),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.root+"/search?"+SearchParams(q).Encode(), nil)
	if err != nil {
		return nil, fail(span, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req, token)
	if err != nil {
		return nil, fail(span, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fail(span, remoteError(resp))
	}

	var posts []domain.Post
	if err := json.NewDecoder(resp.Body).Decode(&posts); err != nil {
		if errors.Is(err, io.EOF) {
			return []domain.Post{}, nil
		}
		return nil, fail(span, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err))
	}
	span.SetAttributes(attribute.Int("around.posts", len(posts)))
	return posts, nil
}

// CreatePost issues POST {root}/post with p as the JSON body.
func (c *Client) CreatePost(ctx context.Context, p domain.NewPost, token string) error {
	ctx, span := tracer.Start(ctx, "backend.CreatePost", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	body, err := json.Marshal(p)
	if err != nil {
		return fail(span, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.root+"/post", bytes.NewReader(body))
	if err != nil {
		return fail(span, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req, token)
	if err != nil {
		return fail(span, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(span, remoteError(resp))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) do(req *http.Request, token string) (*http.Response, error) {
	if token != "" {
		req.Header.Set("Authorization", AuthorizationHeader(c.authPrefix, token))
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	otel.GetTextMapPropagator().Inject(req.Context(), propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	return resp, nil
}

// SearchParams encodes q as the backend's query string parameters.
func SearchParams(q domain.SearchQuery) url.Values {
	v := url.Values{}
	v.Set("lat", formatFloat(q.Lat))
	v.Set("lon", formatFloat(q.Lon))
	v.Set("range", formatFloat(q.Radius))
	return v
}

// AuthorizationHeader joins the scheme and token the way the backend expects.
func AuthorizationHeader(prefix, token string) string {
	if prefix == "" {
		return token
	}
	return prefix + " " + token
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// remoteError extracts a display message from a failed response. JSON bodies
// with a "message" or "error" field win over raw text.
func remoteError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &domain.RemoteError{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
}

func errorMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return strings.TrimSpace(string(raw))
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
