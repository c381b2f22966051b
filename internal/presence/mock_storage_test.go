package presence_test

import (
	"time"

	"battlegogo/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockStorage is a testify mock of storage.Storage.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) SaveUserIfNotExists(principalID string) (*models.User, error) {
	args := m.Called(principalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) GetUserByID(principalID string) (*models.User, error) {
	args := m.Called(principalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) SetUserOnline(principalID string, online bool) error {
	args := m.Called(principalID, online)
	return args.Error(0)
}

func (m *MockStorage) IncrPresence(principalID string) (int64, error) {
	args := m.Called(principalID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) DecrPresence(principalID string) (int64, error) {
	args := m.Called(principalID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) IsUserBanned(principalID string) (bool, error) {
	args := m.Called(principalID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) BanUser(principalID string, duration time.Duration) error {
	args := m.Called(principalID, duration)
	return args.Error(0)
}

func (m *MockStorage) UnbanUser(principalID string) error {
	args := m.Called(principalID)
	return args.Error(0)
}

func (m *MockStorage) PublishKick(principalID string) error {
	args := m.Called(principalID)
	return args.Error(0)
}
