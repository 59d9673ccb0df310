package httpvalidator

import (
	"net/http"
	"sync"
)

// Pool capacities
const (
	captureSegmentsCap = 8
	// Captures that grew beyond this many segments are not pooled.
	maxPooledSegments = 256
)

var capturePool = sync.Pool{
	New: func() any {
		return &responseCapture{
			segments: make([][]byte, 0, captureSegmentsCap),
		}
	},
}

// acquireCapture retrieves a responseCapture wrapping w from the pool.
// Callers must defer release.
func acquireCapture(w http.ResponseWriter) *responseCapture {
	c := capturePool.Get().(*responseCapture)
	c.reset()
	c.w = w
	return c
}

// release returns the capture to the pool.
func (c *responseCapture) release() {
	if c == nil {
		return
	}
	if cap(c.segments) > maxPooledSegments {
		return
	}
	c.reset()
	capturePool.Put(c)
}

func (c *responseCapture) reset() {
	clear(c.segments)
	c.segments = c.segments[:0]
	c.w = nil
	c.status = 0
	c.size = 0
	c.hijacked = false
	c.released = false
}
