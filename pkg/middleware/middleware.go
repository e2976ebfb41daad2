// Package middleware provides the gin middleware stack: request logging,
// CORS, metrics, rate limiting, circuit breaking, response caching, trace id
// propagation and dependency injection for storage and scheduler.
package middleware
