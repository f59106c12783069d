package llm

import (
	"log"
	"net/http"
)

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for request failures.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithHTTPClient replaces the HTTP client. The client's own proxy and
// timeout settings are used as is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}
