package contracts

import "context"

// AdmissionFunc is the caller-supplied rate-limit admission check. The core
// calls it once before issuing the first outbound call of a request and
// treats it as opaque: a non-nil error (typically ErrRateLimited) denies the
// request. Injected at the boundary, never a package-level singleton.
type AdmissionFunc func(ctx context.Context) error

// AllowAll is the no-op admission check.
func AllowAll(_ context.Context) error {
	return nil
}
