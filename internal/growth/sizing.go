package growth

import (
	"math"
	"time"
)

// maxBatch caps one batch; the float result saturates here before it is
// converted to int.
const maxBatch = math.MaxInt32

func batchSize(u int64, pct float64) int {
	f := math.Round(float64(u) * pct / 100)
	if math.IsNaN(f) || f <= 0 {
		return 0
	}
	if f > maxBatch {
		return maxBatch
	}
	return int(f)
}

// NewUsersCount is the number of sign-ups for a population of u users growing
// by pct percent per simulated day, rounded half-up and never less than one.
func NewUsersCount(u int64, pct float64) int {
	n := batchSize(u, pct)
	if n < 1 {
		return 1
	}
	return n
}

// SigninsCount is the number of sign-ins drawn from a population of u users
// when pct percent of them sign in per simulated day, rounded half-up.
func SigninsCount(u int64, pct float64) int {
	if u <= 0 {
		return 0
	}
	return batchSize(u, pct)
}

// NextDelay is how long to wait before the next tick so ticks start every
// interval, or immediately when processing took longer than that.
func NextDelay(interval, elapsed time.Duration) time.Duration {
	return max(0, interval-elapsed)
}
