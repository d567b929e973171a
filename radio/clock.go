package radio

import "time"

// SystemClock implements Clock over the host's wall clock.
type SystemClock struct{}

func (SystemClock) NowMillis() int64 { return time.Now().UnixMilli() }
