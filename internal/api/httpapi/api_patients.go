package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Jeevanbnj/F-Glu/internal/domain/entity"
)

// POST /api/patients/add
func (h *Handler) AddPatient(ctx *gin.Context) {
	type requestBody struct {
		Name      string `json:"name" binding:"required"`
		Age       *int   `json:"age"`
		Gender    string `json:"gender"`
		Diagnosis string `json:"diagnosis"`
		Eye       string `json:"eye"`
		IOP       string `json:"iop"`
		CDR       string `json:"cdr"`
		Symptoms  string `json:"symptoms"`
		ImagePath string `json:"image_path"`
		DoctorID  uint   `json:"doctor_id"`
	}

	var body requestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		h.fail(ctx, fmt.Errorf("%w: %v", entity.ErrInvalidInput, err))
		return
	}

	// Без явного doctor_id пациент закрепляется за автором запроса.
	if body.DoctorID == 0 {
		id, ok := CurrentDoctorID(ctx)
		if !ok {
			h.fail(ctx, fmt.Errorf("%w: doctor_id is required", entity.ErrInvalidInput))
			return
		}
		body.DoctorID = id
	}

	patient := &entity.Patient{
		Name:      body.Name,
		Age:       body.Age,
		Gender:    body.Gender,
		Diagnosis: body.Diagnosis,
		Eye:       body.Eye,
		IOP:       body.IOP,
		CDR:       body.CDR,
		Symptoms:  body.Symptoms,
		ImagePath: body.ImagePath,
		DoctorID:  body.DoctorID,
	}
	if err := h.PatientService.Add(ctx.Request.Context(), patient); err != nil {
		h.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, patient)
}

// GET /api/patients/all
func (h *Handler) ListPatients(ctx *gin.Context) {
	patients, err := h.PatientService.List(ctx.Request.Context())
	if err != nil {
		h.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, patients)
}

// GET /api/patients/:id
func (h *Handler) GetPatient(ctx *gin.Context) {
	id, err := parseID(ctx)
	if err != nil {
		h.fail(ctx, err)
		return
	}

	patient, err := h.PatientService.Get(ctx.Request.Context(), id)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, patient)
}

// POST /api/patients/image
func (h *Handler) AttachPatientImage(ctx *gin.Context) {
	type requestBody struct {
		PatientID uint   `json:"patientId" binding:"required"`
		ImagePath string `json:"imagePath" binding:"required"`
	}

	var body requestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		h.fail(ctx, fmt.Errorf("%w: %v", entity.ErrInvalidInput, err))
		return
	}

	if err := h.PatientService.AttachImage(ctx.Request.Context(), body.PatientID, body.ImagePath); err != nil {
		h.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}
