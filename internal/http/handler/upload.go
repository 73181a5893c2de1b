package handler

import (
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"reviewapi/internal/model"
)

// formFiles returns the files posted under field, or nil when the request is
// not multipart.
func formFiles(c *fiber.Ctx, field string) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File[field]
}

// openUploads opens every file header. The returned closer must always be called.
func openUploads(fhs []*multipart.FileHeader) ([]model.Upload, func(), error) {
	uploads := make([]model.Upload, 0, len(fhs))
	files := make([]io.Closer, 0, len(fhs))
	closeAll := func() {
		for _, f := range files {
			_ = f.Close()
		}
	}

	for _, fh := range fhs {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		files = append(files, f)

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}
		uploads = append(uploads, model.Upload{
			Filename:    fh.Filename,
			ContentType: ct,
			Size:        fh.Size,
			Body:        f,
		})
	}
	return uploads, closeAll, nil
}
