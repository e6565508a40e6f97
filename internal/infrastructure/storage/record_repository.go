package storage

import (
	"context"

	"gorm.io/gorm"

	"github.com/Jeevanbnj/F-Glu/internal/domain/entity"
	"github.com/Jeevanbnj/F-Glu/internal/domain/port"
)

type RecordRepository struct {
	db *gorm.DB
}

func NewRecordRepository(db *gorm.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

func (r *RecordRepository) Create(ctx context.Context, record *entity.Record) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// List возвращает записи, новые первыми.
func (r *RecordRepository) List(ctx context.Context) ([]entity.Record, error) {
	records := make([]entity.Record, 0)
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&records).Error
	return records, err
}

func (r *RecordRepository) GetByID(ctx context.Context, id uint) (*entity.Record, error) {
	var rec entity.Record
	if err := r.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &rec, nil
}

var _ port.RecordRepository = (*RecordRepository)(nil)
