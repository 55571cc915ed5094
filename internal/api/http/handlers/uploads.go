package handlers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/deskflow/helpdesk-service/internal/storage"
	apperrors "github.com/deskflow/helpdesk-service/pkg/util/errorutil"
)

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEMultipartForm)
}

// formFiles returns the parts stored under any of the given field names.
func formFiles(form *multipart.Form, names ...string) []*multipart.FileHeader {
	var out []*multipart.FileHeader
	for _, name := range names {
		out = append(out, form.File[name]...)
	}
	return out
}

func formValue(form *multipart.Form, name string) string {
	if values := form.Value[name]; len(values) > 0 {
		return values[0]
	}
	return ""
}

func optionalFormValue(form *multipart.Form, name string) *string {
	values, ok := form.Value[name]
	if !ok || len(values) == 0 || strings.TrimSpace(values[0]) == "" {
		return nil
	}
	v := values[0]
	return &v
}

func saveUploads(ctx context.Context, store storage.Store, files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}
	if store == nil {
		return nil, apperrors.NewValidationError("file uploads are not enabled", nil)
	}
	paths := make([]string, 0, len(files))
	for _, fh := range files {
		path, err := saveUpload(ctx, store, fh)
		if err != nil {
			discardUploads(ctx, store, paths)
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// discardUploads removes files saved for a request that later failed.
func discardUploads(ctx context.Context, store storage.Store, paths []string) {
	if store == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	for _, path := range paths {
		_ = store.Delete(ctx, path)
	}
}

func saveUpload(ctx context.Context, store storage.Store, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", apperrors.NewValidationError("unreadable upload", map[string]any{"file": fh.Filename})
	}
	defer f.Close()

	path, err := store.Save(ctx, storage.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
	})
	switch {
	case errors.Is(err, storage.ErrUnsupportedType):
		return "", apperrors.NewValidationError(err.Error(), map[string]any{"file": fh.Filename})
	case errors.Is(err, storage.ErrTooLarge):
		return "", apperrors.NewDomainError("PAYLOAD_TOO_LARGE", err.Error(), http.StatusRequestEntityTooLarge,
			map[string]any{"file": fh.Filename})
	case err != nil:
		return "", err
	}
	return path, nil
}
