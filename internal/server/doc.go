// Package server provides HTTP routing, middleware and the JSON handlers behind `bookmedia serve`.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally and dispatches on method itself, so one path
// can carry several methods. Unsupported methods get a 405 with an Allow header.
//
// # Middleware
//
//   - [Logging] : logs method, path, status and duration for every request
//   - [RateLimit] : token bucket shared by all clients; excess requests get 429
//   - [Recover] : turns handler panics into 500 responses
//
// # API
//
// [API] exposes the library, planner, profile and dashboard services as JSON endpoints. Errors are returned as
// {"error": "..."} with a status derived from the shared sentinel errors.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
