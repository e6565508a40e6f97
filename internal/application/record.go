package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/Jeevanbnj/F-Glu/internal/domain/entity"
	"github.com/Jeevanbnj/F-Glu/internal/domain/port"
)

type RecordService struct {
	records port.RecordRepository
}

func NewRecordService(records port.RecordRepository) *RecordService {
	return &RecordService{records: records}
}

// Create сохраняет запись обследования.
func (s *RecordService) Create(ctx context.Context, record *entity.Record) error {
	record.PatientID = strings.TrimSpace(record.PatientID)
	if record.PatientID == "" || strings.TrimSpace(record.Diagnosis) == "" {
		return fmt.Errorf("%w: patientId and diagnosis are required", entity.ErrInvalidInput)
	}
	if record.Confidence < 0 || record.Confidence > 1 {
		return fmt.Errorf("%w: confidence must be within [0,1]", entity.ErrInvalidInput)
	}

	record.ID = 0
	return s.records.Create(ctx, record)
}

func (s *RecordService) List(ctx context.Context) ([]entity.Record, error) {
	return s.records.List(ctx)
}

func (s *RecordService) Get(ctx context.Context, id uint) (*entity.Record, error) {
	return s.records.GetByID(ctx, id)
}
