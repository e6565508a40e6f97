package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Jeevanbnj/F-Glu/config"
	"github.com/Jeevanbnj/F-Glu/internal/domain/entity"
)

func intPtr(v int) *int { return &v }

func seedDoctor(t *testing.T, repo *DoctorRepository, email string) *entity.Doctor {
	t.Helper()
	d := &entity.Doctor{Name: "Dr. " + email, Email: email, PasswordHash: "hash"}
	require.NoError(t, repo.Create(context.Background(), d))
	return d
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Driver: "oracle"})
	require.Error(t, err)
}

func TestDoctorRepository_UniqueEmail(t *testing.T) {
	db := newTestDB(t)
	repo := NewDoctorRepository(db)
	ctx := context.Background()

	d := seedDoctor(t, repo, "a@clinic.org")
	require.NotZero(t, d.ID)

	err := repo.Create(ctx, &entity.Doctor{Name: "Other", Email: "a@clinic.org", PasswordHash: "x"})
	require.ErrorIs(t, err, entity.ErrEmailTaken)

	var count int64
	require.NoError(t, db.Model(&entity.Doctor{}).Count(&count).Error)
	require.Equal(t, int64(1), count)

	got, err := repo.GetByEmail(ctx, "a@clinic.org")
	require.NoError(t, err)
	require.Equal(t, d.ID, got.ID)

	_, err = repo.GetByEmail(ctx, "nobody@clinic.org")
	require.ErrorIs(t, err, entity.ErrNotFound)

	_, err = repo.GetByID(ctx, 999)
	require.ErrorIs(t, err, entity.ErrNotFound)
}

func TestPatientRepository_CRUD(t *testing.T) {
	db := newTestDB(t)
	doctor := seedDoctor(t, NewDoctorRepository(db), "p@clinic.org")
	repo := NewPatientRepository(db)
	ctx := context.Background()

	p := &entity.Patient{Name: "Ann", Age: intPtr(54), Gender: "F", Diagnosis: "Early", DoctorID: doctor.ID}
	require.NoError(t, repo.Create(ctx, p))
	require.NotZero(t, p.ID)
	require.False(t, p.CreatedAt.IsZero())

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Ann", list[0].Name)

	require.NoError(t, repo.SetImagePath(ctx, p.ID, "/uploads/eye.png"))
	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, "/uploads/eye.png", got.ImagePath)

	require.ErrorIs(t, repo.SetImagePath(ctx, 999, "x"), entity.ErrNotFound)
	_, err = repo.GetByID(ctx, 999)
	require.ErrorIs(t, err, entity.ErrNotFound)
}

func TestPatientRepository_ForeignKey(t *testing.T) {
	repo := NewPatientRepository(newTestDB(t))
	err := repo.Create(context.Background(), &entity.Patient{Name: "Orphan", DoctorID: 42})
	require.Error(t, err)
}

func TestRecordRepository(t *testing.T) {
	repo := NewRecordRepository(newTestDB(t))
	ctx := context.Background()

	first := &entity.Record{PatientID: "P-1", Diagnosis: "normal", Confidence: 0.91}
	second := &entity.Record{PatientID: "P-2", Diagnosis: "early", Confidence: 0.55}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, second.ID, list[0].ID)

	got, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, "P-1", got.PatientID)

	_, err = repo.GetByID(ctx, 999)
	require.ErrorIs(t, err, entity.ErrNotFound)
}

func TestDashboardRepository(t *testing.T) {
	db := newTestDB(t)
	doctor := seedDoctor(t, NewDoctorRepository(db), "d@clinic.org")
	ctx := context.Background()

	day1 := time.Date(2024, time.March, 4, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, time.March, 6, 9, 0, 0, 0, time.UTC)
	patients := []entity.Patient{
		{Name: "a", Age: intPtr(15), Diagnosis: "Normal", CreatedAt: day1},
		{Name: "b", Age: intPtr(35), Diagnosis: "normal", CreatedAt: day1.Add(time.Hour)},
		{Name: "c", Age: intPtr(45), Diagnosis: "Early", CreatedAt: day2},
		{Name: "d", Age: intPtr(70), Diagnosis: "Advanced", CreatedAt: day2},
		{Name: "e", Age: intPtr(60), Diagnosis: "", CreatedAt: day2},
	}
	for i := range patients {
		patients[i].DoctorID = doctor.ID
		require.NoError(t, db.Omit("Doctor").Create(&patients[i]).Error)
	}

	repo := NewDashboardRepository(db)

	summary, err := repo.Summary(ctx)
	require.NoError(t, err)
	require.Equal(t, &entity.DiagnosisSummary{TotalPatients: 5, Normal: 2, Early: 1, Advanced: 1}, summary)

	overTime, err := repo.PatientsOverTime(ctx)
	require.NoError(t, err)
	require.Equal(t, []entity.DateCount{{Date: "Mar 04", Count: 2}, {Date: "Mar 06", Count: 3}}, overTime)

	ages, err := repo.AgeDistribution(ctx)
	require.NoError(t, err)
	require.Equal(t, []entity.AgeGroupCount{
		{AgeGroup: "0-20", Count: 1},
		{AgeGroup: "21-40", Count: 1},
		{AgeGroup: "41-60", Count: 2},
		{AgeGroup: "60+", Count: 1},
	}, ages)
}

func TestDashboardRepository_Empty(t *testing.T) {
	repo := NewDashboardRepository(newTestDB(t))
	ctx := context.Background()

	overTime, err := repo.PatientsOverTime(ctx)
	require.NoError(t, err)
	require.Empty(t, overTime)

	ages, err := repo.AgeDistribution(ctx)
	require.NoError(t, err)
	require.Empty(t, ages)
}
