// Package scratch manages the per-request temp files that providers write audio into.
package scratch

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Retry calls fn up to attempts times with a constant delay between failures.
// It returns nil on the first success, otherwise the last error.
func Retry(attempts int, delay time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	_, err := backoff.Retry(context.Background(), func() (struct{}, error) {
		return struct{}{}, fn()
	},
		backoff.WithBackOff(backoff.NewConstantBackOff(delay)),
		backoff.WithMaxTries(uint(attempts)),
	)
	return err
}
