package ollama

import (
	"net/http"
	"time"
)

// clientConfig holds configuration for an HTTPClient.
type clientConfig struct {
	baseURL     string
	timeout     time.Duration
	pullTimeout time.Duration
	httpClient  *http.Client
}

// Option is a functional option for configuring an HTTPClient.
type Option func(*clientConfig)

// WithBaseURL sets the base URL of the Ollama server.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithTimeout sets the timeout for one-shot generation calls. Generation
// can be slow on consumer hardware, so the default is generous (2 minutes).
func WithTimeout(d time.Duration) Option {
	return func(c *clientConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithPullTimeout sets the timeout for model pull operations. Model
// downloads are large; the default is 10 minutes.
func WithPullTimeout(d time.Duration) Option {
	return func(c *clientConfig) {
		if d > 0 {
			c.pullTimeout = d
		}
	}
}

// WithHTTPClient sets the underlying http.Client. Mainly useful in tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = hc
	}
}
