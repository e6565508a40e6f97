package app

import (
	"context"

	"github.com/Jeevanbnj/F-Glu/internal/domain/entity"
	"github.com/Jeevanbnj/F-Glu/internal/domain/port"
)

// DashboardService агрегаты по пациентам для главной страницы.
type DashboardService struct {
	repo port.DashboardRepository
}

func NewDashboardService(repo port.DashboardRepository) *DashboardService {
	return &DashboardService{repo: repo}
}

func (s *DashboardService) Summary(ctx context.Context) (*entity.DiagnosisSummary, error) {
	return s.repo.Summary(ctx)
}

func (s *DashboardService) PatientsOverTime(ctx context.Context) ([]entity.DateCount, error) {
	return s.repo.PatientsOverTime(ctx)
}

func (s *DashboardService) AgeDistribution(ctx context.Context) ([]entity.AgeGroupCount, error) {
	return s.repo.AgeDistribution(ctx)
}
