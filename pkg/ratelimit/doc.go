// Package ratelimit paces Reddit API requests.
//
// Reddit's OAuth API allows 100 requests per minute per client and the default
// budget of 60 stays well under it. PerMinute wraps golang.org/x/time/rate to
// spread the budget evenly, and Wait honours context cancellation so an
// interrupted run stops promptly.
//
// Usage:
//
//	limiter := ratelimit.NewPerMinute(60, 1)
//	if err := limiter.Wait(ctx); err != nil {
//	    return err
//	}
//	// Proceed with request
package ratelimit
