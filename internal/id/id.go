// Package id generates ULID order identifiers. ULIDs sort by creation time,
// which keeps journal rows and receipts naturally ordered.
package id

import "github.com/oklog/ulid/v2"

// New returns a fresh ULID string.
func New() string {
	return ulid.Make().String()
}
