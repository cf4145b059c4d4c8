// =================================================================
//
// Copyright (c) the onesync contributors.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package sync

import (
	"github.com/onesync/onesync/pkg/filter"
	"github.com/onesync/onesync/pkg/fs"
	"github.com/onesync/onesync/pkg/manifest"
)

type EngineInput struct {
	SourceFileSystem      fs.FileSystem
	DestinationFileSystem fs.FileSystem
	Manifest              *manifest.Store
	Filter                *filter.Filter
	FlattenOutput         bool
	MaxThreads            int
	Logger                fs.Logger
}
