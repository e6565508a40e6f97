package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Jeevanbnj/F-Glu/internal/domain/entity"
	"github.com/Jeevanbnj/F-Glu/internal/domain/port"
)

const userKeyPrefix = "glaucoma:bot:user:"

// RedisUserRepository хранит состояние диалогов в Redis,
// чтобы оно переживало перезапуск бота
type RedisUserRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisUserRepository подключается к Redis и проверяет соединение
func NewRedisUserRepository(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisUserRepository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &RedisUserRepository{client: client, ttl: ttl}, nil
}

func userKey(userID int64) string {
	return userKeyPrefix + strconv.FormatInt(userID, 10)
}

// Get возвращает пользователя по ID, создаёт нового если не найден
func (r *RedisUserRepository) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	val, err := r.client.Get(ctx, userKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		user := entity.NewUser(userID, chatID)
		return user, r.Save(ctx, user)
	}
	if err != nil {
		return nil, err
	}

	var user entity.User
	if err := json.Unmarshal(val, &user); err != nil {
		return nil, fmt.Errorf("decode user %d: %w", userID, err)
	}
	return &user, nil
}

// Save сохраняет состояние пользователя
func (r *RedisUserRepository) Save(ctx context.Context, user *entity.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, userKey(user.ID), data, r.ttl).Err()
}

// UpdateState меняет состояние известного пользователя
func (r *RedisUserRepository) UpdateState(ctx context.Context, userID int64, state entity.UserState) error {
	val, err := r.client.Get(ctx, userKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}

	var user entity.User
	if err := json.Unmarshal(val, &user); err != nil {
		return fmt.Errorf("decode user %d: %w", userID, err)
	}
	user.SetState(state)
	return r.Save(ctx, &user)
}

// Close закрывает соединение с Redis
func (r *RedisUserRepository) Close() error {
	return r.client.Close()
}

var _ port.UserRepository = (*RedisUserRepository)(nil)
