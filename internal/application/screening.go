package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/Jeevanbnj/F-Glu/internal/domain/entity"
)

// ErrNotAwaitingFundus снимок пришёл вне сценария проверки.
var ErrNotAwaitingFundus = errors.New("fundus photo is not expected now")

// ScreeningService сценарий проверки снимка в боте.
type ScreeningService struct {
	users     *UserService
	diagnosis *DiagnosisService
	newName   func() string
}

// NewScreeningService создаёт сервис, который ведёт пользователя через проверку снимка.
func NewScreeningService(users *UserService, diagnosis *DiagnosisService) *ScreeningService {
	return &ScreeningService{
		users:     users,
		diagnosis: diagnosis,
		newName:   func() string { return "tg-" + uuid.NewString() + ".jpg" },
	}
}

// AcceptFundusPhoto прогоняет снимок через диагностику.
// Пользователь возвращается в главное меню при любом исходе.
func (s *ScreeningService) AcceptFundusPhoto(ctx context.Context, userID, chatID int64, photo []byte) (*entity.Diagnosis, error) {
	user, err := s.users.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	if user.State != entity.StateAwaitingFundus {
		return nil, ErrNotAwaitingFundus
	}

	if _, err := s.users.SetState(ctx, userID, chatID, entity.StateProcessing); err != nil {
		return nil, err
	}
	defer func() {
		if _, err := s.users.Cancel(ctx, userID, chatID); err != nil {
			log.WithError(err).WithField("user_id", userID).Warn("reset dialogue state")
		}
	}()

	diagnosis, err := s.diagnosis.Diagnose(ctx, s.newName(), photo, true)
	if err != nil {
		return nil, fmt.Errorf("screening: %w", err)
	}
	return diagnosis, nil
}
