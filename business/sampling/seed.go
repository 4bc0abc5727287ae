package sampling

import (
	"hash/fnv"
	"strings"
	"time"
)

// sessionSeed derives the shuffle seed. The same session inside the same
// time bucket always yields the same seed; a blank session gets wall-clock
// time only.
func sessionSeed(sessionID string, now time.Time, bucket time.Duration) int64 {
	if strings.TrimSpace(sessionID) == "" {
		return now.UnixNano()
	}
	if bucket < time.Millisecond {
		bucket = defaultBucketWidth
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(sessionID))

	window := now.UnixMilli() / bucket.Milliseconds()
	return int64(h.Sum64()) ^ window
}
