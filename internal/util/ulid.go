package util

import "github.com/oklog/ulid/v2"

// NewULID returns a lexically sortable 26-character ID. IDs created within the same
// millisecond still sort in creation order.
func NewULID() string {
	return ulid.Make().String()
}
