package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/http/httpproxy"
)

const (
	DefaultEndpoint = "https://api.anthropic.com/v1/messages"
	DefaultModel    = "claude-sonnet-4-5-20250929"
	apiVersion      = "2023-06-01"
)

var (
	// ErrNoAPIKey is returned by NewClient without an API key.
	ErrNoAPIKey = errors.New("llm: no API key configured")

	// ErrTimeout means the request did not finish in time.
	ErrTimeout = errors.New("llm: request timed out")

	// ErrRateLimited means the service answered 429.
	ErrRateLimited = errors.New("llm: rate limited")

	// ErrNoJSON means the reply had no fenced JSON block.
	ErrNoJSON = errors.New("llm: no JSON block in response")

	// ErrEmptyResponse means the reply had no text content.
	ErrEmptyResponse = errors.New("llm: empty response")
)

// StatusError is a non-success HTTP answer other than a rate limit.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("llm: API returned %d: %s", e.StatusCode, e.Message)
}

// Config holds client configuration
type Config struct {
	Endpoint string
	APIKey   string
	Model    string

	// Per-request timeout
	Timeout time.Duration

	MaxTokens int

	// Total tries AskJSON makes when replies are malformed
	MaxAttempts int

	// Proxy URL for all requests; empty uses HTTP_PROXY/HTTPS_PROXY/NO_PROXY
	Proxy string
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Endpoint:    DefaultEndpoint,
		Model:       DefaultModel,
		Timeout:     30 * time.Second,
		MaxTokens:   2048,
		MaxAttempts: 2,
	}
}

// Image is an encoded page image sent with a request.
type Image struct {
	MediaType string // image/png or image/jpeg
	Data      []byte
}

// Request is one single-turn prompt.
type Request struct {
	System    string
	Text      string
	Image     *Image
	MaxTokens int // 0 uses the client default
}

// Completer sends a prompt and returns the model's text.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Client talks to the Messages API.
type Client struct {
	config Config
	http   *http.Client
	logger *log.Logger
}

// NewClient creates a client. Zero fields in config take their defaults.
func NewClient(config Config, opts ...Option) (*Client, error) {
	if config.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	def := DefaultConfig()
	if config.Endpoint == "" {
		config.Endpoint = def.Endpoint
	}
	if config.Model == "" {
		config.Model = def.Model
	}
	if config.Timeout <= 0 {
		config.Timeout = def.Timeout
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = def.MaxTokens
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = def.MaxAttempts
	}

	c := &Client{
		config: config,
		http: &http.Client{
			Timeout:   config.Timeout,
			Transport: newTransport(config.Proxy),
		},
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// MaxAttempts returns the configured attempt budget for AskJSON.
func (c *Client) MaxAttempts() int {
	return c.config.MaxAttempts
}

// Model returns the model name requests are sent to.
func (c *Client) Model() string {
	return c.config.Model
}

func newTransport(proxy string) *http.Transport {
	pc := httpproxy.FromEnvironment()
	if proxy != "" {
		pc = &httpproxy.Config{HTTPProxy: proxy, HTTPSProxy: proxy}
	}
	proxyFunc := pc.ProxyFunc()

	t := http.DefaultTransport.(*http.Transport).Clone()
	t.Proxy = func(r *http.Request) (*url.URL, error) {
		return proxyFunc(r.URL)
	}
	return t
}

type contentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *imageSource `json:"source,omitempty"`
}

type imageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type message struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
}

type messagesResponse struct {
	Content []contentBlock `json:"content"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) buildRequest(req Request) messagesRequest {
	var content []contentBlock
	if req.Image != nil && len(req.Image.Data) > 0 {
		mediaType := req.Image.MediaType
		if mediaType == "" {
			mediaType = "image/png"
		}
		content = append(content, contentBlock{
			Type: "image",
			Source: &imageSource{
				Type:      "base64",
				MediaType: mediaType,
				Data:      base64.StdEncoding.EncodeToString(req.Image.Data),
			},
		})
	}
	content = append(content, contentBlock{Type: "text", Text: req.Text})

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.config.MaxTokens
	}
	return messagesRequest{
		Model:     c.config.Model,
		MaxTokens: maxTokens,
		System:    req.System,
		Messages:  []message{{Role: "user", Content: content}},
	}
}

// Complete sends one request and joins the text blocks of the reply.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(c.buildRequest(req))
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", c.config.APIKey)
	httpReq.Header.Set("Anthropic-Version", apiVersion)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if isTimeout(ctx, err) {
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return "", fmt.Errorf("failed to call messages API: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(ctx, err) {
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		c.logger.Printf("Model API rate limited (%s)", c.config.Model)
		return "", ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		msg := string(data)
		var er errorResponse
		if json.Unmarshal(data, &er) == nil && er.Error.Message != "" {
			msg = er.Error.Message
		}
		c.logger.Printf("Model API returned %d: %s", resp.StatusCode, msg)
		return "", &StatusError{StatusCode: resp.StatusCode, Message: msg}
	}

	var mr messagesResponse
	if err := json.Unmarshal(data, &mr); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	var buf bytes.Buffer
	for _, b := range mr.Content {
		if b.Type != "text" {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(b.Text)
	}
	if buf.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return buf.String(), nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
