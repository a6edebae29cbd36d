// Package models defines the property-management records exchanged with the
// API and the page envelope the list endpoints wrap them in.
package models
