package explore

import (
	"context"
	"iter"
	"strings"
	"sync/atomic"
	"time"
)

// WordCount returns the number of whitespace-separated fields in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// Stream splits text on single spaces and yields each piece followed by a
// space, pausing delay between elements. The sequence is single-use: a
// second range over it yields nothing. It stops early when the consumer
// breaks or ctx is cancelled.
func Stream(ctx context.Context, text string, delay time.Duration) iter.Seq[string] {
	words := strings.Split(text, " ")
	var used atomic.Bool

	return func(yield func(string) bool) {
		if used.Swap(true) {
			return
		}

		var timer *time.Timer
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()

		for i, w := range words {
			if ctx.Err() != nil {
				return
			}
			if i > 0 && delay > 0 {
				if timer == nil {
					timer = time.NewTimer(delay)
				} else {
					timer.Reset(delay)
				}
				select {
				case <-ctx.Done():
					return
				case <-timer.C:
				}
			}
			if !yield(w + " ") {
				return
			}
		}
	}
}
