// Package cli provides the interactive propkeeper command-line client.
//
// It wires configuration, local storage, the authenticated API client and an
// interactive REPL. Typical flow: restore the session saved by a previous run
// (or log in), start a background connectivity watcher, and execute user
// commands against the property-management API.
//
// Key features:
//   - Login / Logout / Status, with the session persisted across restarts
//   - List / Show / Add / Delete for properties, tenants, leases,
//     maintenance requests, payments and transactions
//   - Read-only fallback to cached records while the server is unreachable
//
// Access tokens are refreshed transparently by the request pipeline. When a
// refresh is refused the session ends and the REPL prints a notice.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
