// Package session owns the credential pair of the signed-in user.
//
// A Session caches the pair in memory and mirrors every change to a Store
// (SQLite for the CLI, memory for tests), so a restart resumes the previous
// login. Its lifecycle is Init on login, Rotate on token refresh, and
// Teardown on logout. Terminate is Teardown plus a notification to every
// callback registered with OnTerminated; the request pipeline calls it when
// a refresh is rejected.
//
// Session is safe for concurrent use.
package session
