// Package admission builds the rate-limit admission checks the analysis core
// honors before issuing its first outbound call. The core treats the check
// as an opaque capability; the backing counter lives here, never inside the
// valuation pipeline.
package admission

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/wonny/consensus/internal/contracts"
	redisclient "github.com/wonny/consensus/pkg/redis"
)

// NewLocal returns an in-process admission check: requestsPerMinute smoothed
// with the given burst. Enough for a single instance; distributed deployments
// use NewRedis.
func NewLocal(requestsPerMinute, burst int) contracts.AdmissionFunc {
	if requestsPerMinute <= 0 {
		return contracts.AllowAll
	}
	if burst <= 0 {
		burst = 1
	}

	limiter := rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60), burst)
	return func(ctx context.Context) error {
		if !limiter.Allow() {
			return contracts.ErrRateLimited
		}
		return nil
	}
}

// NewRedis returns an admission check backed by the shared sliding-window
// counter. With Redis disabled every request is admitted, mirroring the
// limiter's own behavior.
func NewRedis(limiter *redisclient.RateLimiter, key string, limit int, window time.Duration) contracts.AdmissionFunc {
	if limit <= 0 {
		return contracts.AllowAll
	}

	return func(ctx context.Context) error {
		decision, err := limiter.Allow(ctx, key, limit, window)
		if err != nil {
			// 카운터 장애는 차단 사유가 아니다: fail open
			return nil
		}
		if !decision.Allowed {
			return fmt.Errorf("%s (retry in %s): %w",
				key, decision.RetryAfter.Round(time.Second), contracts.ErrRateLimited)
		}
		return nil
	}
}
