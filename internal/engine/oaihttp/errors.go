package oaihttp

import (
	"fmt"
	"time"

	"github.com/yungbote/learning-planner/internal/platform/httpx"
)

type HTTPError struct {
	StatusCode int
	Body       string
	// RetryAfter is the upstream's Retry-After hint, zero when absent.
	RetryAfter time.Duration
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "upstream http error"
	}
	if e.Body == "" {
		return fmt.Sprintf("upstream http error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("upstream http error: status=%d body=%s", e.StatusCode, e.Body)
}

func (e *HTTPError) HTTPStatusCode() int { return e.StatusCode }

func (e *HTTPError) Retryable() bool {
	return httpx.IsRetryableHTTPStatus(e.StatusCode)
}
