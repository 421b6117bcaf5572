package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/peerview/peerview-api/internal/storage"
)

// maxUploadBytes caps a single media upload at 50 MiB.
const maxUploadBytes = 50 << 20

// MediaHandler proxies media uploads and downloads through the blob
// store so clients never talk to the backend storage directly.
type MediaHandler struct {
	Blobs storage.BlobStore
}

func NewMediaHandler(b storage.BlobStore) *MediaHandler {
	return &MediaHandler{Blobs: b}
}

type uploadURLReq struct {
	FileName string `json:"fileName"`
}

// UploadURL issues an upload ticket for a fresh blob name derived from
// the requested file name's extension.
func (h *MediaHandler) UploadURL(c echo.Context) error {
	var req uploadURLReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.FileName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "fileName required"})
	}
	return c.JSON(http.StatusOK, h.Blobs.NewUploadTicket(req.FileName))
}

// Upload stores the raw request body under the ticketed blob name.
func (h *MediaHandler) Upload(c echo.Context) error {
	name := c.Param("name")

	body := http.MaxBytesReader(c.Response(), c.Request().Body, maxUploadBytes)
	data, err := io.ReadAll(body)
	if err != nil {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "upload too large"})
	}
	if len(data) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "empty upload"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if err := h.Blobs.Put(ctx, name, contentType, data); err != nil {
		if errors.Is(err, storage.ErrBlobExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "blob name already used"})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "upload failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"blobName": name,
		"url":      "/v1/media/" + name,
	})
}

// Serve streams a blob back with its content type. Blob names are
// immutable uuids, so responses are cacheable for a year.
func (h *MediaHandler) Serve(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	blob, err := h.Blobs.Get(ctx, c.Param("name"))
	if err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "media not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "media fetch failed"})
	}

	c.Response().Header().Set(echo.HeaderContentLength, strconv.FormatInt(blob.Size, 10))
	c.Response().Header().Set("Cache-Control", "public, max-age=31536000")
	return c.Blob(http.StatusOK, blob.ContentType, blob.Data)
}
