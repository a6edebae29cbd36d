// Package client talks to the property-management REST API.
//
// # Overview
//
// The package provides:
//  1. A transport-level API contract (see the Client interface): Login,
//     Logout, Ping and list/get/create/delete on resource collections.
//  2. A concrete implementation (see RESTClient) whose authenticated calls go
//     through the request pipeline, so expired access tokens are refreshed
//     once and the call replayed transparently.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match with
// errors.Is: ErrUnavailable (no response), ErrUnauthorized (bad credentials or
// session over; pipeline.ErrAuthExpired still matches when the session ended).
// Other non-2xx answers are returned as *HTTPError.
//
// Concurrency & Contexts
//
// RESTClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation/timeouts.
package client
