package pipeline

import (
	"errors"
	"math/rand"
	"time"

	"github.com/dgallion1/docsum/internal/summarize"
)

// IsRetryable reports whether a summarization error is worth retrying.
// Missing-template configuration errors cannot succeed on retry; anything
// else (transient API failures included) is retried.
func IsRetryable(err error) bool {
	return !errors.Is(err, summarize.ErrNoTemplate)
}

// Backoff returns the delay before attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int63n(int64(base) / 2))
	return base + jitter
}
