// Package storage keeps uploaded ticket and work-analysis images.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrUnsupportedType is returned for anything other than jpeg/jpg/png images.
	ErrUnsupportedType = errors.New("only jpeg, jpg and png images are accepted")
	// ErrTooLarge is returned when an upload exceeds the size ceiling.
	ErrTooLarge = errors.New("file exceeds upload size limit")
	// ErrForeignPath is returned when Delete gets a path this store did not issue.
	ErrForeignPath = errors.New("path not issued by this store")
)

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
}

var allowedExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

// Upload is one file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Store persists uploads and returns the stored path.
type Store interface {
	Save(ctx context.Context, upload Upload) (string, error)
	// Delete removes a file previously returned by Save. Unknown paths are
	// not an error.
	Delete(ctx context.Context, path string) error
}

// validate checks the type and size of u and returns the generated object name.
func validate(u Upload, maxBytes int64) (string, error) {
	contentType := strings.ToLower(strings.TrimSpace(u.ContentType))
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	ext, ok := allowedTypes[contentType]
	if !ok {
		return "", ErrUnsupportedType
	}
	if orig := strings.ToLower(filepath.Ext(u.Filename)); orig != "" {
		if !allowedExts[orig] {
			return "", ErrUnsupportedType
		}
		ext = orig
	}
	if maxBytes > 0 && u.Size > maxBytes {
		return "", ErrTooLarge
	}
	return fmt.Sprintf("%s%s", uuid.NewString(), ext), nil
}

// limitedBody guards against a Size header that understates the real body.
func limitedBody(u Upload, maxBytes int64) io.Reader {
	if maxBytes <= 0 {
		return u.Body
	}
	return io.LimitReader(u.Body, maxBytes+1)
}
