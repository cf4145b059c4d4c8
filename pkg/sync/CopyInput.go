// =================================================================
//
// Copyright (c) the onesync contributors.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package sync

import (
	"github.com/onesync/onesync/pkg/fs"
)

type CopyInput struct {
	SourceName            string
	SourceFileSystem      fs.FileSystem
	DestinationName       string
	DestinationFileSystem fs.FileSystem
	Logger                fs.Logger
}
