package mal

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrUpstreamAuth marks a failed refresh-token exchange.
	ErrUpstreamAuth = errors.New("mal: token exchange failed")
	// ErrUpstreamFetch marks a failed list page or anime fetch.
	ErrUpstreamFetch = errors.New("mal: upstream fetch failed")
	// ErrUpstreamTimeout is joined with one of the kinds above when the call ran out of time.
	ErrUpstreamTimeout = errors.New("mal: upstream call timed out")
)

// StatusError captures a non-2xx upstream response.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("mal: status %d body=%q", e.StatusCode, string(e.Body[:min(len(e.Body), 200)]))
}

func wrap(kind, err error) error {
	if isTimeout(err) {
		return fmt.Errorf("%w: %w: %w", kind, ErrUpstreamTimeout, err)
	}
	return fmt.Errorf("%w: %w", kind, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
