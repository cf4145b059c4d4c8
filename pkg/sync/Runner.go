// =================================================================
//
// Copyright (c) the onesync contributors.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package sync

import (
	"context"
	"errors"
	"time"
)

// Run drives the engine until the context is cancelled: one scan, then sleep
// the configured interval, then rescan.  Scans never overlap.  With RunOnce
// a single scan is performed.  Cancellation during or between scans is a
// normal shutdown and returns nil.
func Run(ctx context.Context, input *RunInput) error {
	timeZone := input.TimeZone
	if timeZone == nil {
		timeZone = time.Local
	}

	for {
		start := time.Now()

		result, err := input.Engine.Scan(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			if input.RunOnce {
				return err
			}
			_ = input.Logger.Error("Scan failed", map[string]interface{}{
				"err": err.Error(),
			})
		} else {
			fields := result.Fields()
			fields["duration"] = time.Since(start).String()
			fields["finished"] = input.TimeLayout.Format(time.Now().In(timeZone))
			_ = input.Logger.Info("Scan complete", fields)
		}

		if input.RunOnce {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(input.Interval):
		}
	}
}
