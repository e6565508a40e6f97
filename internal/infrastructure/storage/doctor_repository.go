package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Jeevanbnj/F-Glu/internal/domain/entity"
	"github.com/Jeevanbnj/F-Glu/internal/domain/port"
)

type DoctorRepository struct {
	db *gorm.DB
}

func NewDoctorRepository(db *gorm.DB) *DoctorRepository {
	return &DoctorRepository{db: db}
}

// Create сохраняет врача. Повтор email возвращает ErrEmailTaken.
func (r *DoctorRepository) Create(ctx context.Context, doctor *entity.Doctor) error {
	err := r.db.WithContext(ctx).Create(doctor).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return entity.ErrEmailTaken
	}
	return err
}

func (r *DoctorRepository) GetByEmail(ctx context.Context, email string) (*entity.Doctor, error) {
	var d entity.Doctor
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&d).Error; err != nil {
		return nil, notFound(err)
	}
	return &d, nil
}

func (r *DoctorRepository) GetByID(ctx context.Context, id uint) (*entity.Doctor, error) {
	var d entity.Doctor
	if err := r.db.WithContext(ctx).First(&d, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &d, nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entity.ErrNotFound
	}
	return err
}

var _ port.DoctorRepository = (*DoctorRepository)(nil)
