// pkg/entity/entity.go
package entity

import "sync/atomic"

// ID is a unique identifier for an agent or bullet. IDs are stable for
// the lifetime of a match and never reused.
type ID uint64

var nextID atomic.Uint64

// GenerateID returns a fresh match-unique ID. Safe for concurrent use.
func GenerateID() ID {
	return ID(nextID.Add(1))
}
