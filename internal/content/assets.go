package content

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// ErrUnsupportedImageType is returned when an upload declares a content
// type outside the accepted image set.
var ErrUnsupportedImageType = errors.New("unsupported image content type")

// allowedImageTypes maps accepted upload content types to object name
// extensions. "image/svg" (not "image/svg+xml") matches what browser
// clients have always sent here; changing it would reject their uploads.
var allowedImageTypes = map[string]string{
	"image/png":  ".png",
	"image/svg":  ".svg",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/tiff": ".tiff",
}

// AllowedImageType reports whether the content type is accepted for
// upload. Callers check this before touching the store so invalid files
// never trigger a backend call.
func AllowedImageType(contentType string) bool {
	_, ok := allowedImageTypes[contentType]
	return ok
}

// Asset describes a stored binary, referenced from pin documents.
type Asset struct {
	ID               string `json:"id"`
	URL              string `json:"url"`
	OriginalFilename string `json:"original_filename"`
	ContentType      string `json:"content_type"`
}

// AssetStore stores uploaded binaries and returns references usable in a
// later create or patch.
type AssetStore interface {
	UploadAsset(ctx context.Context, r io.Reader, contentType, filename string) (*Asset, error)
}

// BucketAssetStore stores assets in a Cloud Storage bucket.
type BucketAssetStore struct {
	bucket     *storage.BucketHandle
	bucketName string
}

// NewBucketAssetStore creates an asset store over the given bucket.
func NewBucketAssetStore(bucket *storage.BucketHandle, bucketName string) *BucketAssetStore {
	return &BucketAssetStore{bucket: bucket, bucketName: bucketName}
}

// UploadAsset writes the binary to the bucket under a fresh object name
// and returns its descriptor. Upload failures are terminal; the caller
// reports them and does not retry.
func (s *BucketAssetStore) UploadAsset(ctx context.Context, r io.Reader, contentType, filename string) (*Asset, error) {
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return nil, ErrUnsupportedImageType
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("generate asset id: %w", err)
	}
	objectName := "assets/" + id + ext

	w := s.bucket.Object(objectName).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return nil, fmt.Errorf("upload asset %s: %w", objectName, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalize asset %s: %w", objectName, err)
	}

	return &Asset{
		ID:               objectName,
		URL:              fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucketName, objectName),
		OriginalFilename: filename,
		ContentType:      contentType,
	}, nil
}
