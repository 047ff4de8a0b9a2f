package api

import (
	"alcyxob/fitness-admin/internal/media"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// maxUploadBytes bounds multipart bodies held in memory before spilling to disk.
const maxUploadBytes = 32 << 20

// formFile opens the optional upload in field. The returned func closes it and is never nil.
func formFile(c *gin.Context, field string) (*media.File, func(), error) {
	noop := func() {}
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, err
	}
	if fh.Filename == "" || fh.Size == 0 {
		return nil, noop, nil
	}
	file, closer, err := media.Open(fh)
	if err != nil {
		return nil, noop, err
	}
	return file, func() { _ = closer.Close() }, nil
}
