package timex

import "time"

// NowMillis returns the current wall-clock time in Unix milliseconds, the
// unit every record's createdAt/updatedAt uses. It is the conflict arbiter
// for last-writer-wins merging, so all replicas must use the same unit.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
