// Package network provides the shared HTTP transport used for link probes.
package network

import (
	"net/http"
	"time"

	"github.com/quietstream/quietstream/constant"
)

// Client is the application-wide HTTP client.
var Client = NewClient(time.Minute)

// NewClient returns a client on the shared transport with the given overall timeout.
// Every request carries the application user agent unless one is already set.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: &userAgentTransport{base: transport},
	}
}

var transport = newTransport()

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 10
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	t.ExpectContinueTimeout = time.Second
	return t
}

type userAgentTransport struct {
	base http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return t.base.RoundTrip(req)
	}
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", constant.UserAgent)
	return t.base.RoundTrip(clone)
}
