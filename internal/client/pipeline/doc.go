// Package pipeline is the authenticated transport of the API client.
//
// Pipeline is an http.RoundTripper that attaches the session's access token
// as a bearer credential and, when the server answers 401, refreshes the
// token once and replays the request once with the new token.
//
// # Refresh coalescing
//
// Requests failing with 401 at the same time share a single refresh call:
// the first one starts it, the others attach to the same flight and wait for
// its result. A request that was sent with a token that has since been
// rotated skips the refresh and is replayed with the current token. The
// result is at most one refresh call per credential pair no matter how many
// requests were rejected.
//
// # Errors
//
//   - ErrTransportFailure: no response was received; wraps the transport error.
//     This includes the refresh call itself: when the refresh endpoint cannot
//     be reached, every waiter gets ErrTransportFailure rather than
//     ErrAuthExpired, and the stored credentials are kept for a later retry.
//   - ErrAuthExpired: 401 that a refresh could not fix. Terminal for the session.
//   - ErrRefreshFailure: the refresh endpoint refused the refresh token. Always
//     reported together with ErrAuthExpired; the session is terminated.
//
// Any other status, including other 4xx and 5xx, is returned untouched.
package pipeline
