package cloudinary

import (
	"bytes"
	"context"
	"time"

	cld "github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const uploadTimeout = 20 * time.Second

type CloudinaryUploader struct {
	cld *cld.Cloudinary
}

func NewCloudinaryUploader(cloud *cld.Cloudinary) *CloudinaryUploader {
	return &CloudinaryUploader{cld: cloud}
}

// UploadBytes stores b under folder/publicID, replacing any earlier upload
// with the same id, and returns the https URL.
func (u *CloudinaryUploader) UploadBytes(ctx context.Context, folder, publicID string, b []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	res, err := u.cld.Upload.Upload(ctx, bytes.NewReader(b), uploader.UploadParams{
		Folder:       folder,
		PublicID:     publicID,
		ResourceType: "image",
		Overwrite:    api.Bool(true),
		Invalidate:   api.Bool(true),
	})
	if err != nil {
		return "", err
	}
	if res.Error.Message != "" {
		return "", &uploadError{msg: res.Error.Message}
	}
	return res.SecureURL, nil
}

type uploadError struct {
	msg string
}

func (e *uploadError) Error() string {
	return "cloudinary upload failed: " + e.msg
}
