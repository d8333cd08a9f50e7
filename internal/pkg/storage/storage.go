package storage

import (
	"context"
	"errors"
	"io"
)

var (
	ErrFileNotFound  = errors.New("file not found")
	ErrInvalidPath   = errors.New("invalid file path")
	ErrFileTooLarge  = errors.New("file exceeds the maximum allowed size")
	ErrExtNotAllowed = errors.New("file extension is not allowed")
)

type FileStorage interface {
	// Upload stores a file under key and returns the cleaned key
	Upload(ctx context.Context, file io.Reader, key string, opts UploadOptions) (string, error)

	// Download opens a stored file; callers close it
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes a file, missing files are not an error
	Delete(ctx context.Context, key string) error

	Exists(ctx context.Context, key string) (bool, error)
}

type UploadOptions struct {
	// MaxSize <= 0 disables the size check
	MaxSize     int64
	AllowedExts []string
}
