// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"net/http"
	"time"

	"github.com/chris-arsenault/illuminator/pkg/types"
)

const defaultTimeout = 60 * time.Second

// userAgentTransport applies a default User-Agent to requests that do not
// set their own.
type userAgentTransport struct {
	agent string
	base  http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", t.agent)
	}
	return t.base.RoundTrip(req)
}

// NewClient builds an HTTP client from the shared HTTP configuration.
func NewClient(cfg types.HTTPConfig) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := &http.Client{Timeout: timeout}
	if cfg.UserAgent != "" {
		client.Transport = &userAgentTransport{
			agent: cfg.UserAgent,
			base:  http.DefaultTransport,
		}
	}
	return client
}
