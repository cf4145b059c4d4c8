// =================================================================
//
// Copyright (c) the onesync contributors.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package layout

import (
	"path/filepath"
)

// DestinationFor returns the destination path, relative to the output root,
// for a source file at relativePath.  When flatten is false the relative
// directory structure is preserved.  When flatten is true only the base
// filename is kept, so every file lands directly in the output root.
//
// In flatten mode two source files with the same base filename map to the
// same destination: the one processed later overwrites the earlier one, and
// because enumeration order is unspecified the winner is nondeterministic.
// Both files are still recorded in the manifest under their own path and
// hash, so the loser is never reprocessed.
func DestinationFor(relativePath string, flatten bool) string {
	if flatten {
		return filepath.Base(relativePath)
	}
	return relativePath
}
