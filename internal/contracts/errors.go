package contracts

import (
	"errors"
	"fmt"
)

// ErrSourceUnavailable marks a single adapter failure or timeout. Recovered
// locally by advancing the fallback chain; never surfaced to callers.
var ErrSourceUnavailable = errors.New("source unavailable")

// ErrRateLimited is returned by an admission check that denies the request.
var ErrRateLimited = errors.New("rate limit exceeded")

// FatalSnapshotError means no positive current price could be obtained after
// exhausting the whole fallback chain. The only error class that aborts an
// analysis request.
type FatalSnapshotError struct {
	Ticker string
	Reason string
	Err    error
}

func (e *FatalSnapshotError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fatal snapshot error for %s: %s: %v", e.Ticker, e.Reason, e.Err)
	}
	return fmt.Sprintf("fatal snapshot error for %s: %s", e.Ticker, e.Reason)
}

func (e *FatalSnapshotError) Unwrap() error {
	return e.Err
}

// IsFatalSnapshot reports whether err is (or wraps) a FatalSnapshotError.
func IsFatalSnapshot(err error) bool {
	var fatal *FatalSnapshotError
	return errors.As(err, &fatal)
}
