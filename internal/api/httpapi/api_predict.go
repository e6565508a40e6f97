package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Jeevanbnj/F-Glu/internal/domain/entity"
)

// POST /api/upload
func (h *Handler) Upload(ctx *gin.Context) {
	if h.Options.MaxUploadSize > 0 {
		// запас на заголовки multipart
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, h.Options.MaxUploadSize+1<<20)
	}

	fh, err := ctx.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.errorHandler(ctx, http.StatusRequestEntityTooLarge, err)
			return
		}
		h.fail(ctx, fmt.Errorf("%w: no file uploaded", entity.ErrNoImage))
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.fail(ctx, err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		h.fail(ctx, err)
		return
	}

	imagePath, err := h.UploadService.Save(ctx.Request.Context(), fh.Filename, data)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "imagePath": imagePath})
}

// POST /api/predict
func (h *Handler) Predict(ctx *gin.Context) {
	type requestBody struct {
		ImagePath string `json:"imagePath" binding:"required"`
	}

	var body requestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		h.fail(ctx, fmt.Errorf("%w: %v", entity.ErrNoImage, err))
		return
	}

	d, err := h.DiagnosisService.DiagnoseStored(ctx.Request.Context(), body.ImagePath, true)
	if err != nil {
		h.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"diagnosis":     d.Prediction.Label,
		"confidence":    d.Prediction.FormatConfidence(),
		"gradcam":       d.OverlayPath,
		"probabilities": d.Prediction.Probabilities,
	})
}
