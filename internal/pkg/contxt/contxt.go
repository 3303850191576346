// Package contxt builds detached contexts for work that fires outside any
// request, such as the journal cleanup schedule.
package contxt

import (
	"context"
	"os"
	"time"
)

// NewContext returns a background context that expires after timeout.
// CONTEXT_TEST disables the deadline so tests can step through slowly.
func NewContext(timeout time.Duration) context.Context {
	if os.Getenv("CONTEXT_TEST") != "" {
		return context.Background()
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	go func() {
		<-ctx.Done()
		cancel()
	}()
	return ctx
}
