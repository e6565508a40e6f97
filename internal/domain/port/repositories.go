package port

import (
	"context"

	"github.com/Jeevanbnj/F-Glu/internal/domain/entity"
)

// DoctorRepository хранилище врачей
type DoctorRepository interface {
	Create(ctx context.Context, doctor *entity.Doctor) error
	GetByEmail(ctx context.Context, email string) (*entity.Doctor, error)
	GetByID(ctx context.Context, id uint) (*entity.Doctor, error)
}

// PatientRepository хранилище пациентов
type PatientRepository interface {
	Create(ctx context.Context, patient *entity.Patient) error
	List(ctx context.Context) ([]entity.Patient, error)
	GetByID(ctx context.Context, id uint) (*entity.Patient, error)
	SetImagePath(ctx context.Context, id uint, path string) error
}

// RecordRepository хранилище записей обследований
type RecordRepository interface {
	Create(ctx context.Context, record *entity.Record) error
	List(ctx context.Context) ([]entity.Record, error)
	GetByID(ctx context.Context, id uint) (*entity.Record, error)
}

// DashboardRepository агрегаты для дашборда
type DashboardRepository interface {
	Summary(ctx context.Context) (*entity.DiagnosisSummary, error)
	PatientsOverTime(ctx context.Context) ([]entity.DateCount, error)
	AgeDistribution(ctx context.Context) ([]entity.AgeGroupCount, error)
}
