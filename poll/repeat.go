// Copyright 2026 Converter Systems LLC. All rights reserved.

package poll

import (
	"context"
	"time"
)

// Sleeper waits for d or until ctx is done, whichever is first. It returns ctx's error if ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Sleep is the Sleeper backed by a timer.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Repeat calls fn count times, waiting interval between calls. There is no wait after the last call.
// Repeat stops at the first error of fn, which it returns, or when ctx is done, returning ctx's error.
func Repeat(ctx context.Context, interval time.Duration, count int, sleep Sleeper, fn func(i int) error) error {
	if sleep == nil {
		sleep = Sleep
	}
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(i); err != nil {
			return err
		}
		if i < count-1 {
			if err := sleep(ctx, interval); err != nil {
				return err
			}
		}
	}
	return nil
}
