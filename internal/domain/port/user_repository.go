package port

import (
	"context"

	"github.com/Jeevanbnj/F-Glu/internal/domain/entity"
)

// UserRepository хранит состояние диалога с пользователем бота.
// Реализации: в памяти процесса и в Redis.
type UserRepository interface {
	// Get возвращает пользователя, неизвестный создаётся в главном меню
	Get(ctx context.Context, userID, chatID int64) (*entity.User, error)

	// Save записывает пользователя целиком
	Save(ctx context.Context, user *entity.User) error

	// UpdateState меняет только состояние, неизвестный пользователь игнорируется
	UpdateState(ctx context.Context, userID int64, state entity.UserState) error
}
