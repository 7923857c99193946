// Package judge is the HTTP client for the remote judge backend. It covers
// the four endpoints the backend exposes: submitting a draft, listing
// historical submissions, checking execution status and triggering a run.
//
// Every call is a single attempt. Retry, backoff and polling loops are
// deliberately absent; the backend is rate limited and the decision to try
// again always belongs to the user.
package judge

import (
	"log/slog"
	"net/http"
	"time"
)

type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}
