package service

import (
	"context"
	"errors"
	"time"

	"github.com/SergeiKhy/shortener-gateway/internal/models"
	"github.com/SergeiKhy/shortener-gateway/internal/token"
	"go.uber.org/zap"
)

// ErrAuthFailed единственная ошибка аутентификации, видимая снаружи.
// Любой сбой (неверный пароль, недоступный бэкенд, битый JSON) схлопывается
// в неё: детали наружу не отдаём, чтобы не давать перебирать пользователей.
var ErrAuthFailed = errors.New("authentication failed")

// AuthInput учётные данные попытки входа. Token опционален и приходит
// только сразу после регистрации.
type AuthInput struct {
	Email    string
	Password string
	Token    string
}

// AuthBackend часть клиента бэкенда, нужная аутентификатору.
type AuthBackend interface {
	Login(ctx context.Context, email, password string) (*models.AuthResponse, error)
}

// AuthService мост "учётные данные -> сессия с bearer-токеном".
type AuthService interface {
	Authenticate(ctx context.Context, input AuthInput) (*models.Session, error)
}

type authService struct {
	backend AuthBackend
	logger  *zap.Logger
}

func NewAuthService(backend AuthBackend, logger *zap.Logger) AuthService {
	return &authService{
		backend: backend,
		logger:  logger,
	}
}

// Authenticate производит сессию из учётных данных.
//
// Если передан токен (после регистрации), его payload декодируется без
// проверки подписи: подпись проверит бэкенд при первом же вызове шлюза.
// Ошибка декодирования не фатальна — проваливаемся в обычный вход по паролю.
// Если при этом пароль пуст, отказываем сразу: повторять вход нечем.
func (s *authService) Authenticate(ctx context.Context, input AuthInput) (*models.Session, error) {
	if input.Token != "" {
		claims, err := token.DecodeUnverified(input.Token)
		if err == nil {
			return &models.Session{
				Identity: models.Identity{
					ID:    claims.UserID,
					Email: claims.Email,
					// имени в токене нет
				},
				BearerToken: input.Token,
				IssuedAt:    time.Now(),
			}, nil
		}

		s.logger.Debug("Token decode failed, falling back to password login", zap.Error(err))
		if input.Password == "" {
			return nil, ErrAuthFailed
		}
	}

	if input.Email == "" || input.Password == "" {
		return nil, ErrAuthFailed
	}

	auth, err := s.backend.Login(ctx, input.Email, input.Password)
	if err != nil {
		s.logger.Info("Login rejected", zap.String("email", input.Email), zap.Error(err))
		return nil, ErrAuthFailed
	}

	// Успешный ответ без токена — нарушение контракта, закрываемся
	if auth.Token == "" {
		s.logger.Error("Login response carries no token", zap.String("email", input.Email))
		return nil, ErrAuthFailed
	}

	return &models.Session{
		Identity: models.Identity{
			ID:    auth.UserID,
			Email: auth.Email,
			Name:  auth.Name,
		},
		BearerToken: auth.Token,
		IssuedAt:    time.Now(),
	}, nil
}
