package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Jeevanbnj/F-Glu/internal/domain/entity"
	"github.com/Jeevanbnj/F-Glu/internal/domain/port"
)

type PatientService struct {
	patients port.PatientRepository
	doctors  port.DoctorRepository
}

func NewPatientService(patients port.PatientRepository, doctors port.DoctorRepository) *PatientService {
	return &PatientService{patients: patients, doctors: doctors}
}

// Add заводит карточку. Врач должен существовать.
func (s *PatientService) Add(ctx context.Context, patient *entity.Patient) error {
	patient.Name = strings.TrimSpace(patient.Name)
	if patient.Name == "" {
		return fmt.Errorf("%w: patient name is required", entity.ErrInvalidInput)
	}
	if patient.Age != nil && *patient.Age < 0 {
		return fmt.Errorf("%w: age must not be negative", entity.ErrInvalidInput)
	}

	if _, err := s.doctors.GetByID(ctx, patient.DoctorID); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return fmt.Errorf("doctor %d: %w", patient.DoctorID, entity.ErrNotFound)
		}
		return err
	}

	patient.ID = 0
	return s.patients.Create(ctx, patient)
}

func (s *PatientService) List(ctx context.Context) ([]entity.Patient, error) {
	return s.patients.List(ctx)
}

func (s *PatientService) Get(ctx context.Context, id uint) (*entity.Patient, error) {
	return s.patients.GetByID(ctx, id)
}

// AttachImage привязывает загруженный снимок к пациенту.
func (s *PatientService) AttachImage(ctx context.Context, id uint, imagePath string) error {
	if strings.TrimSpace(imagePath) == "" {
		return fmt.Errorf("%w: image path is required", entity.ErrInvalidInput)
	}
	return s.patients.SetImagePath(ctx, id, imagePath)
}
