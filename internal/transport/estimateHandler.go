package transport

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/apcaballes87/cake-genie/internal/entity"
)

// UploadCake accepts a multipart photo upload, runs it through the upload
// pipeline and kicks off pricing in the background.
func (h *EstimateHandler) UploadCake(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded file"})
		return
	}
	defer f.Close()

	// Read one byte past the limit so oversized files are rejected by the
	// orchestrator's own validation instead of silently truncated.
	data, err := io.ReadAll(io.LimitReader(f, h.maxFileSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded file"})
		return
	}

	src := &entity.SourceFile{
		Data:      data,
		Filename:  fileHeader.Filename,
		MediaType: fileHeader.Header.Get("Content-Type"),
		Size:      int64(len(data)),
	}

	rec, comp, err := h.uploads.Submit(c.Request.Context(), src)
	if err != nil {
		status, kind := statusForError(err)
		c.JSON(status, gin.H{"error": err.Error(), "kind": kind})
		return
	}

	c.JSON(http.StatusAccepted, entity.UploadResponse{
		ID:          rec.ID,
		PublicURL:   rec.PublicURL,
		Status:      "processing",
		Compression: comp,
	})
}

// GetEstimate reports the current pricing state for an upload.
func (h *EstimateHandler) GetEstimate(c *gin.Context) {
	id := c.Param("id")

	estimate, err := h.pricing.Lookup(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not read pricing record"})
		return
	}

	resp := entity.EstimateResponse{ID: id, Status: "processing"}
	if estimate != nil {
		resp.Status = "complete"
		resp.Estimate = estimate
	}
	c.JSON(http.StatusOK, resp)
}

// RefreshEstimate is the manual one-shot read offered after polling gives up.
func (h *EstimateHandler) RefreshEstimate(c *gin.Context) {
	id := c.Param("id")

	estimate, err := h.pricing.Refresh(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not read pricing record"})
		return
	}

	c.JSON(http.StatusOK, entity.EstimateResponse{
		ID:       id,
		Status:   "complete",
		Estimate: estimate,
	})
}

func (h *EstimateHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.uploads.State())
}

// DismissError clears the error display without touching results.
func (h *EstimateHandler) DismissError(c *gin.Context) {
	h.uploads.Dismiss()
	c.JSON(http.StatusOK, h.uploads.State())
}

func statusForError(err error) (int, entity.ErrorKind) {
	if errors.Is(err, entity.ErrUploadInFlight) {
		return http.StatusConflict, entity.KindGeneric
	}
	kind := entity.ClassifyError(err)
	switch kind {
	case entity.KindValidation:
		return http.StatusBadRequest, kind
	case entity.KindConfiguration:
		return http.StatusInternalServerError, kind
	case entity.KindStorage, entity.KindDatabase, entity.KindNetwork:
		return http.StatusBadGateway, kind
	default:
		return http.StatusInternalServerError, kind
	}
}
