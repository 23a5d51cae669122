package wavinspect

import (
	"math"
	"time"
)

func nullTermStr(b []byte) string {
	return string(b[:clen(b)])
}

func clen(num []byte) int {
	for i := range num {
		if num[i] == 0 {
			return i
		}
	}

	return len(num)
}

// durationFromBytes converts a byte count to a duration at the given byte
// rate. A zero rate yields 0.
func durationFromBytes(n int64, byteRate uint32) time.Duration {
	if byteRate == 0 || n <= 0 {
		return 0
	}

	return time.Duration(math.Round(float64(n) / float64(byteRate) * float64(time.Second)))
}
