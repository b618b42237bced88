package secondary

import (
	"context"
	"os"
)

// LocalFile is a file matched on the local filesystem.
type LocalFile struct {
	Path string
	Size int64
}

// WorkspaceAdapter defines the secondary port for local filesystem operations.
type WorkspaceAdapter interface {
	// ReadFile returns the file content; exists is false when the file is absent.
	ReadFile(ctx context.Context, path string) (data []byte, exists bool, err error)

	// WriteFile replaces the file atomically, creating parent directories.
	WriteFile(ctx context.Context, path string, data []byte, perm os.FileMode) error

	// DirectoryExists checks if a directory exists.
	DirectoryExists(ctx context.Context, path string) (bool, error)

	// Glob expands a doublestar pattern to regular files.
	Glob(ctx context.Context, pattern string) ([]LocalFile, error)
}
