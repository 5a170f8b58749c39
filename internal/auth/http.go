package auth

import (
	"context"
	"net"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// NewHTTPClient returns an authorized HTTP client for the Google APIs, with
// connection pooling and bounded timeouts on the underlying transport.
func NewHTTPClient(ctx context.Context, ts oauth2.TokenSource) *http.Client {
	base := newPooledHTTPClient()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	client := oauth2.NewClient(ctx, ts)
	client.Timeout = base.Timeout
	return client
}

func newPooledHTTPClient() *http.Client {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		DialContext: dialer.DialContext,

		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		ForceAttemptHTTP2: true,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   60 * time.Second,
	}
}
