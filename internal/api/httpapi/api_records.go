package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Jeevanbnj/F-Glu/internal/domain/entity"
)

// GET /api/records
func (h *Handler) ListRecords(ctx *gin.Context) {
	records, err := h.RecordService.List(ctx.Request.Context())
	if err != nil {
		h.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, records)
}

// POST /api/records
func (h *Handler) CreateRecord(ctx *gin.Context) {
	type requestBody struct {
		PatientID        string   `json:"patientId" binding:"required"`
		PatientName      string   `json:"patientName"`
		Eye              string   `json:"eye"`
		Diagnosis        string   `json:"diagnosis" binding:"required"`
		Confidence       *float64 `json:"confidence" binding:"required"`
		FundusImagePath  string   `json:"fundusImagePath"`
		GradcamImagePath string   `json:"gradcamImagePath"`
		Notes            string   `json:"notes"`
	}

	var body requestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		h.fail(ctx, fmt.Errorf("%w: %v", entity.ErrInvalidInput, err))
		return
	}

	record := &entity.Record{
		PatientID:        body.PatientID,
		PatientName:      body.PatientName,
		Eye:              body.Eye,
		Diagnosis:        body.Diagnosis,
		Confidence:       *body.Confidence,
		FundusImagePath:  body.FundusImagePath,
		GradcamImagePath: body.GradcamImagePath,
		Notes:            body.Notes,
		DoctorEmail:      CurrentDoctorEmail(ctx),
	}
	if err := h.RecordService.Create(ctx.Request.Context(), record); err != nil {
		h.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "id": record.ID})
}

// GET /api/records/:id
func (h *Handler) GetRecord(ctx *gin.Context) {
	id, err := parseID(ctx)
	if err != nil {
		h.fail(ctx, err)
		return
	}

	record, err := h.RecordService.Get(ctx.Request.Context(), id)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, record)
}
