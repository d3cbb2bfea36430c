package services

import (
	"context"
	"errors"

	"github.com/go-authgate/hvgate/internal/core"
	"github.com/go-authgate/hvgate/internal/models"
	"github.com/go-authgate/hvgate/internal/store"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
)

type UserService struct {
	store   *store.Store
	metrics core.Recorder
	logger  *zap.Logger
}

func NewUserService(s *store.Store, m core.Recorder, log *zap.Logger) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{store: s, metrics: m, logger: log}
}

// Authenticate checks username and password against the local users table.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, store.ErrRecordNotFound) {
			s.logger.Warn("user lookup failed", zap.String("username", username), zap.Error(err))
			s.metrics.RecordDatabaseQueryError("get_user_by_username")
		}
		s.metrics.RecordLogin(false)
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.metrics.RecordLogin(false)
		return nil, ErrInvalidCredentials
	}

	s.metrics.RecordLogin(true)
	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
