// Package id mints run identifiers.
package id

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

// New returns a ULID for the current time. IDs minted in the same
// millisecond still sort in creation order.
func New() string {
	return NewAt(time.Now())
}

// NewAt returns a ULID carrying t's millisecond timestamp.
func NewAt(t time.Time) string {
	mu.Lock()
	defer mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t.UTC()), entropy).String()
}

// Time extracts the creation time of a run id.
func Time(s string) (time.Time, error) {
	u, err := ulid.ParseStrict(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("run id %q: %w", s, err)
	}
	return ulid.Time(u.Time()).UTC(), nil
}
