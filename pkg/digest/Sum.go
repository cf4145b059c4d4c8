// =================================================================
//
// Copyright (c) the onesync contributors.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package digest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/onesync/onesync/pkg/fs"
)

// Sum returns the SHA-256 digest of the full contents of the named file as a
// lowercase hexadecimal string.  The file is read as it exists at call time.
func Sum(ctx context.Context, fsys fs.FileSystem, name string) (string, error) {
	f, err := fsys.Open(ctx, name)
	if err != nil {
		return "", fmt.Errorf("error opening file at %q: %w", name, err)
	}

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		_ = f.Close() // silently close file
		return "", fmt.Errorf("error reading file at %q: %w", name, err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("error closing file after hashing: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
