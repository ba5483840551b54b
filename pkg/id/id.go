// Package id generates fill identifiers.
package id

import "github.com/oklog/ulid/v2"

// New returns a ULID string. ULIDs sort lexicographically by generation
// time, so journal rows keyed by fill ID come back in execution order.
func New() string {
	return ulid.Make().String()
}
