package storage

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Jeevanbnj/F-Glu/internal/domain/entity"
	"github.com/Jeevanbnj/F-Glu/internal/domain/port"
)

const ageGroupExpr = `CASE
	WHEN age <= 20 THEN '0-20'
	WHEN age <= 40 THEN '21-40'
	WHEN age <= 60 THEN '41-60'
	ELSE '60+'
END`

type DashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// Summary число пациентов всего и по стадиям, без учёта регистра диагноза.
func (r *DashboardRepository) Summary(ctx context.Context) (*entity.DiagnosisSummary, error) {
	db := r.db.WithContext(ctx)
	var s entity.DiagnosisSummary

	if err := db.Model(&entity.Patient{}).Count(&s.TotalPatients).Error; err != nil {
		return nil, err
	}

	counts := map[entity.Stage]*int64{
		entity.StageNormal:   &s.Normal,
		entity.StageEarly:    &s.Early,
		entity.StageAdvanced: &s.Advanced,
	}
	for stage, dst := range counts {
		err := db.Model(&entity.Patient{}).
			Where("LOWER(diagnosis) = ?", string(stage)).
			Count(dst).Error
		if err != nil {
			return nil, err
		}
	}

	return &s, nil
}

// PatientsOverTime число новых пациентов по дням (UTC), по возрастанию даты.
func (r *DashboardRepository) PatientsOverTime(ctx context.Context) ([]entity.DateCount, error) {
	var created []time.Time
	err := r.db.WithContext(ctx).Model(&entity.Patient{}).
		Order("created_at").
		Pluck("created_at", &created).Error
	if err != nil {
		return nil, err
	}

	out := make([]entity.DateCount, 0)
	var lastDay string
	for _, ts := range created {
		day := ts.UTC().Format("2006-01-02")
		if day != lastDay {
			out = append(out, entity.DateCount{Date: ts.UTC().Format("Jan 02")})
			lastDay = day
		}
		out[len(out)-1].Count++
	}
	return out, nil
}

// AgeDistribution число пациентов по возрастным группам.
func (r *DashboardRepository) AgeDistribution(ctx context.Context) ([]entity.AgeGroupCount, error) {
	rows := make([]entity.AgeGroupCount, 0)
	err := r.db.WithContext(ctx).Model(&entity.Patient{}).
		Select(ageGroupExpr + " AS age_group, COUNT(id) AS count").
		Group("age_group").
		Order("age_group").
		Scan(&rows).Error
	return rows, err
}

var _ port.DashboardRepository = (*DashboardRepository)(nil)
