//go:build !tinygo

package hal

import "time"

// hostClock counts milliseconds since it was created.
type hostClock struct {
	start time.Time
}

func newHostClock() *hostClock {
	return &hostClock{start: time.Now()}
}

// NowMS uses the monotonic reading carried by time.Time.
func (c *hostClock) NowMS() uint64 {
	return uint64(time.Since(c.start) / time.Millisecond)
}
