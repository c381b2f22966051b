// Package presence keeps the user directory's online flags in step with
// connection events. Nothing here can hold up or fail matchmaking; storage
// errors are logged and swallowed.
package presence

import (
	"battlegogo/backend/internal/storage"

	"go.uber.org/zap"
)

type Service struct {
	Storage storage.Storage
	log     *zap.Logger
}

func NewService(s storage.Storage, log *zap.Logger) *Service {
	return &Service{Storage: s, log: log}
}

// Online records a new connection. The first open connection of a principal
// marks the user online.
func (s *Service) Online(principalID string) {
	if _, err := s.Storage.SaveUserIfNotExists(principalID); err != nil {
		s.log.Warn("directory upsert failed", zap.String("principal_id", principalID), zap.Error(err))
	}

	n, err := s.Storage.IncrPresence(principalID)
	if err != nil {
		s.log.Warn("presence increment failed", zap.String("principal_id", principalID), zap.Error(err))
		return
	}
	if n != 1 {
		return
	}
	if err := s.Storage.SetUserOnline(principalID, true); err != nil {
		s.log.Warn("marking user online failed", zap.String("principal_id", principalID), zap.Error(err))
	}
}

// Offline records a closed connection. The last one marks the user offline.
func (s *Service) Offline(principalID string) {
	n, err := s.Storage.DecrPresence(principalID)
	if err != nil {
		s.log.Warn("presence decrement failed", zap.String("principal_id", principalID), zap.Error(err))
		return
	}
	if n > 0 {
		return
	}
	if err := s.Storage.SetUserOnline(principalID, false); err != nil {
		s.log.Warn("marking user offline failed", zap.String("principal_id", principalID), zap.Error(err))
	}
}
