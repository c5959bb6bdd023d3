package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
)

// maxReplyBytes caps how much of an upstream body is relayed.
const maxReplyBytes = 4 << 20

var (
	// ErrInternal is returned when the outgoing request cannot be built.
	ErrInternal = errors.New("server client: internal error")

	// ErrUnavailable is returned when the server cannot be reached or the reply cannot be read.
	ErrUnavailable = errors.New("server client: server unavailable")
)

// Call describes one forwarded request.
type Call struct {
	Method    string
	Path      string
	Query     url.Values
	UserID    int64 // zero omits the identity header
	RequestID string
	Body      any // marshalled as JSON when non-nil
}

// Reply is the server's answer, relayed verbatim.
type Reply struct {
	Status      int
	ContentType string
	Body        []byte
}

// Client forwards validated requests to the booking server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Do sends call to the server. Any HTTP status is a successful Do; only transport
// failures return an error.
func (c *Client) Do(ctx context.Context, call Call) (*Reply, error) {
	target := c.baseURL + call.Path
	if len(call.Query) > 0 {
		target += "?" + call.Query.Encode()
	}

	var body io.Reader
	if call.Body != nil {
		data, err := json.Marshal(call.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to encode body: %v", ErrInternal, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, call.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if call.UserID > 0 {
		req.Header.Set(auth.UserIDHeader, strconv.FormatInt(call.UserID, 10))
	}
	if call.RequestID != "" {
		req.Header.Set("X-Request-ID", call.RequestID)
	}

	slog.DebugContext(ctx, "forwarding request",
		"method", call.Method,
		"path", call.Path,
		"user_id", call.UserID,
		"request_id", call.RequestID,
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrUnavailable, err)
	}

	return &Reply{
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        data,
	}, nil
}
