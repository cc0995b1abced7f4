package util

import (
	"sync/atomic"
	"time"
)

// idCounter is seeded once from wall-clock millis so ids stay in the same
// numeric range the data model always used, then incremented atomically.
// Two allocations in the same millisecond still get distinct ids.
var idCounter atomic.Int64

func init() {
	idCounter.Store(time.Now().UnixMilli())
}

// NextID returns a process-wide unique, strictly increasing identifier.
// Shared by products and delivery companies.
func NextID() int64 {
	return idCounter.Add(1)
}
