package ports

import (
	"context"
	"io"
)

// Meta describes an opened staging source.
type Meta struct {
	Source      string
	ContentType string
	Size        int64
	Bucket      string
	Key         string
}

// FileOpener resolves a passport image reference (https URL, s3 URL or local
// path) into a readable stream for staging into the upload queue.
type FileOpener interface {
	Open(ctx context.Context, filePath string) (io.ReadCloser, Meta, error)
}
