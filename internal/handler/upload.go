package handler

import (
    "errors"
    "io"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/joyas-pwa/joyas-api/internal/apperr"
    "github.com/joyas-pwa/joyas-api/internal/storage"
)

// ImageSaver stores an uploaded image and returns its public URL.
type ImageSaver interface {
    Save(contentType string, r io.Reader) (string, error)
}

// UploadHandler accepts product photos.
type UploadHandler struct {
    Images ImageSaver
}

func NewUploadHandler(images ImageSaver) *UploadHandler {
    return &UploadHandler{Images: images}
}

type uploadResp struct {
    URL string `json:"url"`
}

// Image expects a multipart form with the image in the "file" field.  The
// declared content type is checked before the body is read.
func (h *UploadHandler) Image(c echo.Context) error {
    fh, err := c.FormFile("file")
    if err != nil {
        return apperr.Validation("invalid upload", map[string]string{"file": "is required"})
    }
    contentType := fh.Header.Get(echo.HeaderContentType)
    if _, ok := storage.Extension(contentType); !ok {
        return unsupportedImage()
    }

    f, err := fh.Open()
    if err != nil {
        return apperr.Internal(err, "could not read upload")
    }
    defer f.Close()

    url, err := h.Images.Save(contentType, f)
    switch {
    case errors.Is(err, storage.ErrUnsupportedType):
        return unsupportedImage()
    case errors.Is(err, storage.ErrTooLarge):
        return apperr.Validation("image too large", map[string]string{"file": "exceeds the size limit"})
    case err != nil:
        return apperr.Internal(err, "could not store upload")
    }
    return c.JSON(http.StatusCreated, uploadResp{URL: url})
}

func unsupportedImage() error {
    return apperr.Validation("unsupported image type", map[string]string{"file": "must be JPEG, PNG or WebP"})
}
