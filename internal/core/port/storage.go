package port

import (
	"context"
	"mime/multipart"
)

// ImageStore is the upload collaborator. Save validates the file type,
// stores the content under a generated name and returns that name.
type ImageStore interface {
	Save(ctx context.Context, file *multipart.FileHeader) (string, error)

	// Remove is best-effort cleanup for files stored ahead of a failed
	// transaction; a missing object is not an error.
	Remove(ctx context.Context, filename string) error
}
