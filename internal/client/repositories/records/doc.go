// Package records caches API records locally so listings stay readable while
// the server is unreachable.
//
// Rows are keyed by (collection, id) and hold the JSON body exactly as the
// server returned it. The cache is a read-through copy: nothing written here
// is ever sent back to the server.
package records
