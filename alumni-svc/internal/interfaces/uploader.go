package interfaces

import "context"

// Uploader stores an image and returns its public URL.
type Uploader interface {
	UploadBytes(ctx context.Context, folder string, publicID string, b []byte) (string, error)
}
