// =================================================================
//
// Copyright (c) the onesync contributors.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package sync

import (
	"time"

	"github.com/onesync/onesync/pkg/fs"
	"github.com/onesync/onesync/pkg/ts"
)

type RunInput struct {
	Engine     *Engine
	Interval   time.Duration
	RunOnce    bool
	Logger     fs.Logger
	TimeLayout ts.Layout
	TimeZone   *time.Location
}
