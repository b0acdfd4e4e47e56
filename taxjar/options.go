package taxjar

import (
	"fmt"
	"net/url"
	"strings"
)

// Option configures a Client.
type Option func(*Client) error

// WithAPIURL overrides the base URL, e.g. SandboxAPIURL or a test server.
func WithAPIURL(apiURL string) Option {
	return func(c *Client) error {
		u, err := url.Parse(apiURL)
		if err != nil {
			return fmt.Errorf("invalid API URL %q: %w", apiURL, err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid API URL %q: scheme and host are required", apiURL)
		}
		c.apiURL = strings.TrimRight(apiURL, "/") + "/"
		return nil
	}
}

// WithHTTPClient sets the transport used to execute requests.
func WithHTTPClient(doer Doer) Option {
	return func(c *Client) error {
		if doer == nil {
			return fmt.Errorf("http client must not be nil")
		}
		c.httpClient = doer
		return nil
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) error {
		if userAgent != "" {
			c.userAgent = userAgent
		}
		return nil
	}
}
