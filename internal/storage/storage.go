package storage

import (
	"context"
	"errors"
	"time"

	"battlegogo/backend/internal/config"
	"battlegogo/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Storage is everything outside the matchmaking core that needs durable or
// shared state: the user directory, presence counters and moderation.
type Storage interface {
	SaveUserIfNotExists(principalID string) (*models.User, error)
	GetUserByID(principalID string) (*models.User, error)
	SetUserOnline(principalID string, online bool) error

	IncrPresence(principalID string) (int64, error)
	DecrPresence(principalID string) (int64, error)

	IsUserBanned(principalID string) (bool, error)
	BanUser(principalID string, duration time.Duration) error
	UnbanUser(principalID string) error
	PublishKick(principalID string) error
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
	Log   *zap.Logger
}

// NewStorageService Constructor. db may be nil for tools that only touch Redis.
func NewStorageService(db *gorm.DB, rdb *redis.Client, log *zap.Logger) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
		Log:   log,
	}
}

// SaveUserIfNotExists returns the directory record for principalID, creating
// it on first contact.
func (s *Service) SaveUserIfNotExists(principalID string) (*models.User, error) {
	var user models.User
	result := s.DB.Where("id = ?", principalID).FirstOrCreate(&user, models.User{ID: principalID})
	if result.Error != nil {
		s.Log.Error("failed to save user on first contact", zap.String("principal_id", principalID), zap.Error(result.Error))
		return nil, result.Error
	}
	if result.RowsAffected > 0 {
		s.Log.Info("new user saved", zap.String("principal_id", principalID))
	}
	return &user, nil
}

func (s *Service) GetUserByID(principalID string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("id = ?", principalID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.New("user not found")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SetUserOnline flips the online flag and stamps LastSeenAt.
func (s *Service) SetUserOnline(principalID string, online bool) error {
	return s.DB.Model(&models.User{}).
		Where("id = ?", principalID).
		Updates(map[string]interface{}{
			"is_online":    online,
			"last_seen_at": time.Now(),
		}).Error
}

// IncrPresence counts one more open connection for the principal and returns
// the new total.
func (s *Service) IncrPresence(principalID string) (int64, error) {
	return s.Redis.Incr(s.Ctx, config.PresenceKeyPrefix+principalID).Result()
}

// DecrPresence counts one connection less. The key is removed once it
// reaches zero, so the result is never negative.
func (s *Service) DecrPresence(principalID string) (int64, error) {
	key := config.PresenceKeyPrefix + principalID
	n, err := s.Redis.Decr(s.Ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		if err := s.Redis.Del(s.Ctx, key).Err(); err != nil {
			return 0, err
		}
		return 0, nil
	}
	return n, nil
}

// IsUserBanned checks the ban key in Redis.
func (s *Service) IsUserBanned(principalID string) (bool, error) {
	status, err := s.Redis.Get(s.Ctx, config.BanKeyPrefix+principalID).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return status != "", nil
}

// BanUser bans principalID. A zero duration bans until UnbanUser.
func (s *Service) BanUser(principalID string, duration time.Duration) error {
	return s.Redis.Set(s.Ctx, config.BanKeyPrefix+principalID, "banned", duration).Err()
}

func (s *Service) UnbanUser(principalID string) error {
	return s.Redis.Del(s.Ctx, config.BanKeyPrefix+principalID).Err()
}

// PublishKick asks every server instance to drop the principal's connections.
func (s *Service) PublishKick(principalID string) error {
	return s.Redis.Publish(s.Ctx, config.KickChannel, principalID).Err()
}

// SubscribeKicks subscribes to kick requests. Callers close the PubSub.
func (s *Service) SubscribeKicks() *redis.PubSub {
	return s.Redis.Subscribe(s.Ctx, config.KickChannel)
}
