package storage

import (
	"context"

	"gorm.io/gorm"

	"github.com/Jeevanbnj/F-Glu/internal/domain/entity"
	"github.com/Jeevanbnj/F-Glu/internal/domain/port"
)

type PatientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

func (r *PatientRepository) Create(ctx context.Context, patient *entity.Patient) error {
	return r.db.WithContext(ctx).Omit("Doctor").Create(patient).Error
}

func (r *PatientRepository) List(ctx context.Context) ([]entity.Patient, error) {
	patients := make([]entity.Patient, 0)
	err := r.db.WithContext(ctx).Order("id").Find(&patients).Error
	return patients, err
}

func (r *PatientRepository) GetByID(ctx context.Context, id uint) (*entity.Patient, error) {
	var p entity.Patient
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// SetImagePath привязывает снимок к пациенту.
func (r *PatientRepository) SetImagePath(ctx context.Context, id uint, path string) error {
	res := r.db.WithContext(ctx).Model(&entity.Patient{}).Where("id = ?", id).Update("image_path", path)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return entity.ErrNotFound
	}
	return nil
}

var _ port.PatientRepository = (*PatientRepository)(nil)
