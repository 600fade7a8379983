// Package server provides the HTTP API of songsheet: routing, middleware and JSON handlers over a
// [services.SongService].
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] with method-qualified patterns.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
//
// # Middleware
//
//   - [Recover] turns panics into 500 responses
//   - [RequestID] tags each request with an X-Request-ID
//   - [Logging] writes one access log entry per request
//   - [CORS] allows browser clients from the configured origin
//   - [RateLimitWrites] throttles POST and PUT with a token bucket
//
// # Errors
//
// Failures are JSON bodies {"error": kind, "message": text}. Validation errors and bad parameters are
// 400, unknown IDs 404, exhausted read fallbacks 503 and database or unknown errors 500.
package server
