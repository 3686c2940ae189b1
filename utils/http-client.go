package utils

import (
	"net/http"
	"time"
)

// NewHTTPClient returns the client used for cross-service calls. The
// timeout keeps a stuck users service from holding request handlers open.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 5 * time.Second,
	}
}
