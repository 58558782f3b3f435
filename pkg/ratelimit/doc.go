// Package ratelimit provides token bucket rate limiting for outbound
// Wikipedia API calls.
//
// The token bucket algorithm works by:
//  1. A bucket holds a maximum number of tokens (the capacity)
//  2. Tokens are added continuously at a fixed rate (the refill rate)
//  3. Each operation consumes one or more tokens
//  4. If there aren't enough tokens, the operation is rejected or delayed
//
// Refill is lazy: tokens are recomputed whenever an operation touches the
// bucket, never by a background timer.
//
// Two strategies are supported when the bucket runs dry:
//
// Reject:
//   - Deny the request immediately without blocking
//   - Default strategy; suitable when the caller has its own retry policy
//
// Wait:
//   - Block the caller for exactly the time needed for tokens to accrue,
//     bounded by a configurable maximum wait
//   - After the sleep the bucket is rechecked once; racing callers may
//     still win the refilled tokens, in which case the acquire fails
//
// Usage:
//
//	// Allow 10 requests per second with a burst capacity of 20
//	limiter, err := ratelimit.New(ratelimit.Config{
//		Capacity:   20,
//		RefillRate: 10.0,
//		Strategy:   ratelimit.StrategyReject,
//	})
//	if err != nil {
//		return err
//	}
//
//	ok, err := limiter.Acquire(1)
//	if err != nil {
//		return err // malformed request
//	}
//	if !ok {
//		return errs.NewRateLimitExceeded("upstream call denied")
//	}
//	// Proceed with the request
//
// The Client type wraps an *http.Client so that every request first
// acquires a token, and Wrap applies the same gate to an arbitrary
// function.
package ratelimit
