package util

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyPool = sync.Pool{
		New: func() interface{} {
			return ulid.Monotonic(rand.Reader, 0)
		},
	}
)

// NewULID returns a lexicographically sortable unique identifier.
func NewULID() string {
	e := entropyPool.Get().(*ulid.MonotonicEntropy)
	defer entropyPool.Put(e)
	return ulid.MustNew(ulid.Timestamp(time.Now()), e).String()
}
