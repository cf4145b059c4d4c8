// =================================================================
//
// Copyright (c) the onesync contributors.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package sync

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Copy copies a file byte for byte from the source filesystem to the
// destination filesystem, creating parent directories as needed and
// preserving the permission bits and modification time of the source.  The
// bytes are written to a temporary file next to the destination and renamed
// into place once complete, so a cancelled or crashed copy never leaves a
// partial destination file behind.
func Copy(ctx context.Context, input *CopyInput) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if input.Logger != nil {
		_ = input.Logger.Debug("Copying file", map[string]interface{}{
			"src": input.SourceName,
			"dst": input.DestinationName,
		})
	}

	sourceFileInfo, err := input.SourceFileSystem.Stat(ctx, input.SourceName)
	if err != nil {
		return fmt.Errorf("error stating source file at %q: %w", input.SourceName, err)
	}

	sourceFile, err := input.SourceFileSystem.Open(ctx, input.SourceName)
	if err != nil {
		return fmt.Errorf("error opening source file at %q: %w", input.SourceName, err)
	}

	parent := input.DestinationFileSystem.Dir(input.DestinationName)
	if err := input.DestinationFileSystem.MkdirAll(ctx, parent, 0755); err != nil {
		_ = sourceFile.Close() // silently close source file
		return fmt.Errorf("error creating destination directory %q: %w", parent, err)
	}

	temporaryName := input.DestinationFileSystem.Join(parent, fmt.Sprintf(
		".%s.%d.tmp",
		filepath.Base(input.DestinationName),
		time.Now().UnixNano(),
	))

	destinationFile, err := input.DestinationFileSystem.OpenFile(
		ctx,
		temporaryName,
		os.O_WRONLY|os.O_CREATE|os.O_TRUNC,
		sourceFileInfo.Mode().Perm(),
	)
	if err != nil {
		_ = sourceFile.Close() // silently close source file
		return fmt.Errorf("error creating destination file for %q: %w", input.DestinationName, err)
	}

	written, err := io.Copy(destinationFile, sourceFile)
	if err != nil {
		_ = sourceFile.Close()      // silently close source file
		_ = destinationFile.Close() // silently close destination file
		_ = input.DestinationFileSystem.Remove(ctx, temporaryName)
		return fmt.Errorf("error copying from %q to %q: %w", input.SourceName, input.DestinationName, err)
	}

	if err := sourceFile.Close(); err != nil {
		_ = destinationFile.Close() // silently close destination file
		_ = input.DestinationFileSystem.Remove(ctx, temporaryName)
		return fmt.Errorf("error closing source file after copying: %w", err)
	}

	if err := destinationFile.Close(); err != nil {
		_ = input.DestinationFileSystem.Remove(ctx, temporaryName)
		return fmt.Errorf("error closing destination file after copying: %w", err)
	}

	// OpenFile permissions are subject to the process umask
	if err := input.DestinationFileSystem.Chmod(ctx, temporaryName, sourceFileInfo.Mode().Perm()); err != nil {
		_ = input.DestinationFileSystem.Remove(ctx, temporaryName)
		return fmt.Errorf("error changing permissions for destination after copying: %w", err)
	}

	if err := input.DestinationFileSystem.Chtimes(ctx, temporaryName, time.Now(), sourceFileInfo.ModTime()); err != nil {
		_ = input.DestinationFileSystem.Remove(ctx, temporaryName)
		return fmt.Errorf("error changing timestamps for destination after copying: %w", err)
	}

	if err := input.DestinationFileSystem.Rename(ctx, temporaryName, input.DestinationName); err != nil {
		_ = input.DestinationFileSystem.Remove(ctx, temporaryName)
		return fmt.Errorf("error renaming %q to %q: %w", temporaryName, input.DestinationName, err)
	}

	if input.Logger != nil {
		_ = input.Logger.Debug("Done copying file", map[string]interface{}{
			"src":     input.SourceName,
			"dst":     input.DestinationName,
			"written": written,
		})
	}

	return nil
}
