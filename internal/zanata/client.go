// Package zanata is a minimal client for the Zanata REST API.
package zanata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	perrors "github.com/p-blackswan/zanatactl/internal/errors"
	"github.com/p-blackswan/zanatactl/internal/requestid"
)

// Success messages for mutating calls.
const (
	MsgCreated  = "Creation successful!"
	MsgModified = "Modification successful!"
)

// HTTPClient abstracts HTTP calls for testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Intent tells the client how to read a response.
type Intent int

const (
	IntentRead Intent = iota
	IntentCreate
	IntentModify
	IntentConfig
)

func (i Intent) String() string {
	switch i {
	case IntentCreate:
		return "create"
	case IntentModify:
		return "modify"
	case IntentConfig:
		return "config"
	default:
		return "read"
	}
}

// Call describes one request against the API.
type Call struct {
	Method string
	Path   string
	Body   interface{}
	Auth   *Credentials
	Intent Intent
}

// Reply is the interpreted result of a Call. Message is set for successful
// create/modify calls, Data otherwise.
type Reply struct {
	StatusCode int
	Message    string
	Data       interface{}
}

// Client wraps the Zanata REST API rooted at baseURL (".../rest").
type Client struct {
	baseURL    string
	httpClient HTTPClient
	userAgent  string
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout. Zero means none.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient = &http.Client{Timeout: d}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// NewClient creates a new Zanata API client.
func NewClient(baseURL string, logger zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{},
		userAgent:  "zanatactl",
		logger:     logger.With().Str("component", "zanata").Logger(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(hc HTTPClient) {
	c.httpClient = hc
}

// BaseURL returns the REST root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do performs exactly one HTTP request for call and interprets the response.
func (c *Client) Do(ctx context.Context, call Call) (*Reply, error) {
	var body io.Reader
	if call.Body != nil {
		payload, err := json.Marshal(call.Body)
		if err != nil {
			return nil, &perrors.UnexpectedError{Err: fmt.Errorf("encoding request body: %w", err)}
		}
		body = bytes.NewReader(payload)
	}

	url := c.baseURL + call.Path
	req, err := http.NewRequestWithContext(ctx, call.Method, url, body)
	if err != nil {
		return nil, &perrors.UnexpectedError{Err: fmt.Errorf("creating request: %w", err)}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if call.Intent == IntentConfig {
		req.Header.Set("Accept", "application/xml")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if id, ok := requestid.Lookup(ctx); ok {
		req.Header.Set(requestid.Header, id)
	}
	call.Auth.Apply(req)

	c.logger.Debug().
		Str("method", call.Method).
		Str("url", url).
		Str("intent", call.Intent.String()).
		Bool("authenticated", call.Auth.Valid()).
		Msg("sending request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &perrors.TransportError{Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug().Int("status", resp.StatusCode).Str("url", url).Msg("received response")

	return interpret(resp, call.Intent)
}

func interpret(resp *http.Response, intent Intent) (*Reply, error) {
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
	default:
		raw, _ := io.ReadAll(resp.Body)
		return nil, perrors.NewRemoteError(resp.StatusCode, statusMessage(resp), string(raw))
	}

	reply := &Reply{StatusCode: resp.StatusCode}
	switch {
	case resp.StatusCode == http.StatusCreated && intent == IntentCreate:
		reply.Message = MsgCreated
		return reply, nil
	case resp.StatusCode == http.StatusOK && intent == IntentModify:
		reply.Message = MsgModified
		return reply, nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &perrors.TransportError{Err: fmt.Errorf("reading response: %w", err)}
	}

	switch {
	case len(raw) == 0:
		reply.Data = map[string]interface{}{}
	case intent == IntentConfig:
		reply.Data = string(raw)
	default:
		var v interface{}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, &perrors.UnexpectedError{Err: fmt.Errorf("decoding response: %w", err)}
		}
		reply.Data = v
	}
	return reply, nil
}

// statusMessage formats the server's status line the way urllib reports it,
// keeping the reason phrase exactly as the server sent it.
func statusMessage(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return fmt.Sprintf("HTTP Error %d: %s", resp.StatusCode, reason)
}
