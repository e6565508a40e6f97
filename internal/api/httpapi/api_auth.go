package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	app "github.com/Jeevanbnj/F-Glu/internal/application"
	"github.com/Jeevanbnj/F-Glu/internal/domain/entity"
	"github.com/Jeevanbnj/F-Glu/internal/infrastructure/auth"
)

// POST /api/auth/register
func (h *Handler) Register(ctx *gin.Context) {
	type requestBody struct {
		Name            string  `json:"name" binding:"required"`
		Email           string  `json:"email" binding:"required"`
		Password        string  `json:"password" binding:"required"`
		Qualification   *string `json:"qualification"`
		Specialization  *string `json:"specialization"`
		ExperienceYears *int    `json:"experience_years"`
		Hospital        *string `json:"hospital"`
		ClinicAddress   *string `json:"clinic_address"`
		City            *string `json:"city"`
		ClinicPhone     *string `json:"clinic_phone"`
	}

	var body requestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		h.fail(ctx, fmt.Errorf("%w: %v", entity.ErrInvalidInput, err))
		return
	}

	res, err := h.AuthService.Register(ctx.Request.Context(), app.RegisterInput{
		Name:            body.Name,
		Email:           body.Email,
		Password:        body.Password,
		Qualification:   body.Qualification,
		Specialization:  body.Specialization,
		ExperienceYears: body.ExperienceYears,
		Hospital:        body.Hospital,
		ClinicAddress:   body.ClinicAddress,
		City:            body.City,
		ClinicPhone:     body.ClinicPhone,
	})
	if err != nil {
		h.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":   "Registration successful",
		"doctor_id": res.Doctor.ID,
		"name":      res.Doctor.Name,
		"email":     res.Doctor.Email,
		"token":     res.Token,
	})
}

// POST /api/auth/login
func (h *Handler) Login(ctx *gin.Context) {
	type requestBody struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var body requestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		h.fail(ctx, fmt.Errorf("%w: %v", entity.ErrInvalidInput, err))
		return
	}

	res, err := h.AuthService.Login(ctx.Request.Context(), body.Email, body.Password)
	if err != nil {
		h.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"doctor_id": res.Doctor.ID,
		"name":      res.Doctor.Name,
		"email":     res.Doctor.Email,
		"token":     res.Token,
	})
}

// GET /api/auth/me
func (h *Handler) Me(ctx *gin.Context) {
	id, ok := CurrentDoctorID(ctx)
	if !ok {
		h.fail(ctx, auth.ErrInvalidToken)
		return
	}

	doctor, err := h.AuthService.Me(ctx.Request.Context(), id)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, doctor)
}
