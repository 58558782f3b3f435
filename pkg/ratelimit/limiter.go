package ratelimit

import (
	"fmt"
	"strings"
	"sync"
	"time"

	errs "librarian/pkg/errors"
)

// Strategy determines how the limiter behaves when insufficient tokens
// are available.
type Strategy int

const (
	// StrategyReject denies the request immediately
	StrategyReject Strategy = iota
	// StrategyWait blocks the caller until tokens accrue, up to a bound
	StrategyWait
)

// String returns the strategy name
func (s Strategy) String() string {
	switch s {
	case StrategyWait:
		return "WAIT"
	default:
		return "REJECT"
	}
}

// ParseStrategy converts a strategy name ("REJECT" or "WAIT") to a Strategy
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToUpper(name) {
	case "REJECT":
		return StrategyReject, nil
	case "WAIT":
		return StrategyWait, nil
	default:
		return StrategyReject, fmt.Errorf("unknown rate limit strategy: %s", name)
	}
}

// DefaultMaxWait bounds how long a WAIT-strategy caller may block when no
// explicit timeout is given.
const DefaultMaxWait = 30 * time.Second

// Config holds the immutable token bucket parameters
type Config struct {
	// Capacity is the maximum number of tokens the bucket can hold (burst size)
	Capacity int
	// RefillRate is the number of tokens added per second, continuously
	RefillRate float64
	// Strategy selects the behavior when tokens are insufficient
	Strategy Strategy
	// MaxWait bounds the sleep duration under StrategyWait
	MaxWait time.Duration
}

// Limiter defines the interface for rate limiting
type Limiter interface {
	// Acquire attempts to consume tokens, waiting if the configured
	// strategy allows it. Returns an error only for malformed requests.
	Acquire(tokens int) (bool, error)
	// TryAcquire attempts to consume tokens without ever blocking
	TryAcquire(tokens int) bool
	// Available returns the current number of tokens in the bucket
	Available() float64
	// WaitTime returns how long a caller would need to wait for tokens
	WaitTime(tokens int) time.Duration
	// Reset restores the bucket to full capacity
	Reset()
}

// TokenBucket implements a token bucket rate limiter.
// It is safe for concurrent use; a single mutex guards the bucket state
// and is never held across the WAIT-strategy sleep.
type TokenBucket struct {
	config     Config
	tokens     float64   // Current available tokens, 0 <= tokens <= capacity
	lastRefill time.Time // Last time tokens were topped up (monotonic)
	mu         sync.Mutex
}

var _ Limiter = (*TokenBucket)(nil)

// New creates a token bucket from the given configuration.
// The bucket starts full. Capacity and RefillRate must be positive and
// MaxWait non-negative.
func New(config Config) (*TokenBucket, error) {
	if config.Capacity <= 0 {
		return nil, errs.NewInvalidArgument("bucket capacity must be positive, got %d", config.Capacity)
	}
	if config.RefillRate <= 0 {
		return nil, errs.NewInvalidArgument("refill rate must be positive, got %g", config.RefillRate)
	}
	if config.MaxWait < 0 {
		return nil, errs.NewInvalidArgument("max wait cannot be negative, got %s", config.MaxWait)
	}

	return &TokenBucket{
		config:     config,
		tokens:     float64(config.Capacity), // Start with full bucket
		lastRefill: time.Now(),
	}, nil
}

// NewTokenBucket creates a REJECT-strategy bucket with the default max wait.
//
// Example: NewTokenBucket(20, 10.0) allows bursts of 20 requests and a
// sustained rate of 10 requests/second.
func NewTokenBucket(capacity int, refillRate float64) (*TokenBucket, error) {
	return New(Config{
		Capacity:   capacity,
		RefillRate: refillRate,
		Strategy:   StrategyReject,
		MaxWait:    DefaultMaxWait,
	})
}

// Config returns the bucket's immutable configuration
func (tb *TokenBucket) Config() Config {
	return tb.config
}

// refill adds tokens based on elapsed time since the last refill, capped
// at capacity. Uses the monotonic clock carried by time.Time.
// MUST be called with tb.mu locked.
func (tb *TokenBucket) refill() {
	now := time.Now()
	elapsed := now.Sub(tb.lastRefill).Seconds()

	tb.tokens += elapsed * tb.config.RefillRate
	if tb.tokens > float64(tb.config.Capacity) {
		tb.tokens = float64(tb.config.Capacity)
	}
	tb.lastRefill = now
}

// checkRequest validates a token request before any state is touched
func (tb *TokenBucket) checkRequest(tokens int) error {
	if tokens <= 0 {
		return errs.NewInvalidArgument("number of tokens must be positive, got %d", tokens)
	}
	if tokens > tb.config.Capacity {
		return errs.NewInvalidArgument("requested tokens (%d) exceeds bucket capacity (%d)",
			tokens, tb.config.Capacity)
	}
	return nil
}

// Acquire attempts to consume the given number of tokens using the
// configured strategy and MaxWait bound. It returns false when the
// request is denied; an error is returned only for malformed requests
// (non-positive or over-capacity token counts), which never mutate state.
func (tb *TokenBucket) Acquire(tokens int) (bool, error) {
	return tb.acquire(tokens, tb.config.MaxWait)
}

// AcquireTimeout behaves like Acquire but bounds any WAIT-strategy sleep
// by the given timeout instead of the configured MaxWait.
func (tb *TokenBucket) AcquireTimeout(tokens int, timeout time.Duration) (bool, error) {
	return tb.acquire(tokens, timeout)
}

func (tb *TokenBucket) acquire(tokens int, maxWait time.Duration) (bool, error) {
	if err := tb.checkRequest(tokens); err != nil {
		return false, err
	}

	need := float64(tokens)

	tb.mu.Lock()
	tb.refill()

	// Fast path: enough tokens, consume immediately without blocking
	if tb.tokens >= need {
		tb.tokens -= need
		tb.mu.Unlock()
		return true, nil
	}

	if tb.config.Strategy == StrategyReject {
		tb.mu.Unlock()
		return false, nil
	}

	// WAIT strategy: compute how long until the deficit refills
	deficit := need - tb.tokens
	wait := time.Duration(deficit / tb.config.RefillRate * float64(time.Second))

	// Checked before sleeping, never interrupted mid-sleep
	if wait > maxWait {
		tb.mu.Unlock()
		return false, nil
	}

	// Release the lock so other callers can consume or observe tokens
	// during the sleep.
	tb.mu.Unlock()
	time.Sleep(wait)

	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.refill()

	// Single recheck only. A racing caller may have consumed the refilled
	// tokens during the sleep; that is a denial, not an error.
	if tb.tokens >= need {
		tb.tokens -= need
		return true, nil
	}
	return false, nil
}

// TryAcquire attempts to consume tokens without waiting, regardless of the
// configured strategy. Malformed requests (non-positive or over-capacity
// counts) can never be satisfied and return false without touching state.
func (tb *TokenBucket) TryAcquire(tokens int) bool {
	if tokens <= 0 || tokens > tb.config.Capacity {
		return false
	}

	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()

	if tb.tokens >= float64(tokens) {
		tb.tokens -= float64(tokens)
		return true
	}
	return false
}

// Allow reports whether a single-token request can proceed right now
func (tb *TokenBucket) Allow() bool {
	return tb.TryAcquire(1)
}

// Available returns the current number of tokens in the bucket.
// This is a snapshot and may change immediately due to concurrent access.
func (tb *TokenBucket) Available() float64 {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()
	return tb.tokens
}

// WaitTime returns how long a caller would need to wait for the given
// number of tokens to become available. Returns 0 if they are available
// now. The bucket is not mutated beyond refill bookkeeping.
func (tb *TokenBucket) WaitTime(tokens int) time.Duration {
	if tokens <= 0 {
		return 0
	}

	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()

	need := float64(tokens)
	if tb.tokens >= need {
		return 0
	}

	deficit := need - tb.tokens
	return time.Duration(deficit / tb.config.RefillRate * float64(time.Second))
}

// Reset restores the bucket to full capacity
func (tb *TokenBucket) Reset() {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.tokens = float64(tb.config.Capacity)
	tb.lastRefill = time.Now()
}

// String describes the limiter and its current state
func (tb *TokenBucket) String() string {
	return fmt.Sprintf("TokenBucket(capacity=%d, refill_rate=%g, strategy=%s, available=%.2f)",
		tb.config.Capacity, tb.config.RefillRate, tb.config.Strategy, tb.Available())
}
