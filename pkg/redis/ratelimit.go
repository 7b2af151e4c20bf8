package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter implements sliding-window rate limiting over a Redis sorted
// set, shared across instances.
// ⭐ SSOT: 분산 레이트 리밋은 여기서만
type RateLimiter struct {
	client *Client
	prefix string
}

// Decision is the outcome of one admission attempt.
type Decision struct {
	Allowed   bool
	Remaining int
	// RetryAfter is how long until the oldest request in the window
	// expires. Zero when allowed.
	RetryAfter time.Duration
}

// NewRateLimiter creates a rate limiter whose keys are namespaced under the
// given prefix.
func NewRateLimiter(client *Client, prefix string) *RateLimiter {
	return &RateLimiter{
		client: client,
		prefix: prefix,
	}
}

// slidingWindow trims expired members, counts the rest, and either records
// the request under a unique member or reports when retrying makes sense.
// The sequence key keeps members unique for bursts landing on the same
// millisecond, across processes.
var slidingWindow = redis.NewScript(`
	local key = KEYS[1]
	local seq_key = KEYS[2]
	local now = tonumber(ARGV[1])
	local window_ms = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])

	redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window_ms)

	local count = redis.call('ZCARD', key)
	if count >= limit then
		local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
		local retry = window_ms
		if oldest[2] then
			retry = tonumber(oldest[2]) + window_ms - now
		end
		return {0, 0, retry}
	end

	local seq = redis.call('INCR', seq_key)
	redis.call('PEXPIRE', seq_key, window_ms)
	redis.call('ZADD', key, now, now .. '-' .. seq)
	redis.call('PEXPIRE', key, window_ms)
	return {1, limit - count - 1, 0}
`)

// Allow records one request against the named window and reports whether it
// fits under the limit. With Redis disabled every request is admitted.
func (r *RateLimiter) Allow(ctx context.Context, name string, limit int, window time.Duration) (Decision, error) {
	if !r.client.Enabled() {
		return Decision{Allowed: true, Remaining: limit}, nil
	}

	key := fmt.Sprintf("%s:ratelimit:%s", r.prefix, name)
	now := time.Now().UnixMilli()

	result, err := slidingWindow.Run(ctx, r.client.Redis(),
		[]string{key, key + ":seq"},
		now, window.Milliseconds(), limit,
	).Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit script failed: %w", err)
	}

	decision := Decision{
		Allowed:   result[0].(int64) == 1,
		Remaining: int(result[1].(int64)),
	}
	if retry := result[2].(int64); retry > 0 {
		decision.RetryAfter = time.Duration(retry) * time.Millisecond
	}
	return decision, nil
}
