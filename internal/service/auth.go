package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"healthfirst/config"
	"healthfirst/internal/domain"
	"healthfirst/internal/repository"
	"healthfirst/pkg/auth"
)

type AuthServiceImpl struct {
	providerRepo repository.ProviderRepository
	patientRepo  repository.PatientRepository
	cfg          config.JWTConfig
	logger       *zap.Logger
	now          func() time.Time
}

func NewAuthService(
	providerRepo repository.ProviderRepository,
	patientRepo repository.PatientRepository,
	cfg config.JWTConfig,
	logger *zap.Logger,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		providerRepo: providerRepo,
		patientRepo:  patientRepo,
		cfg:          cfg,
		logger:       logger,
		now:          time.Now,
	}
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// LoginProvider выдает токен врачу. Вход разрешен только активным аккаунтам,
// прошедшим верификацию.
func (s *AuthServiceImpl) LoginProvider(ctx context.Context, dto domain.LoginRequest) (*domain.ProviderLoginResponse, error) {
	provider, err := s.providerRepo.GetByEmail(ctx, dto.Email)
	if err != nil {
		s.logger.Error("ошибка получения врача", zap.Error(err))
		return nil, fmt.Errorf("ошибка получения врача: %w", err)
	}
	if provider == nil {
		return nil, domain.ErrInvalidCredentials
	}

	ok, err := auth.VerifyPassword(dto.Password, provider.PasswordHash)
	if err != nil {
		s.logger.Error("ошибка проверки пароля", zap.Error(err))
		return nil, fmt.Errorf("ошибка проверки пароля: %w", err)
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	if !provider.IsActive {
		return nil, domain.ErrAccountInactive
	}

	if provider.VerificationStatus != domain.VerificationStatusVerified {
		return nil, domain.ErrAccountNotVerified
	}

	token, err := s.signToken(provider.ID, provider.Email, domain.UserRoleProvider, s.cfg.ProviderTokenTTL)
	if err != nil {
		s.logger.Error("ошибка подписи токена", zap.Error(err))
		return nil, fmt.Errorf("ошибка подписи токена: %w", err)
	}

	return &domain.ProviderLoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.cfg.ProviderTokenTTL.Seconds()),
		TokenType:   "Bearer",
		Provider:    provider,
	}, nil
}

// LoginPatient выдает токен пациенту. Верификация аккаунта для входа не
// требуется, достаточно активности.
func (s *AuthServiceImpl) LoginPatient(ctx context.Context, dto domain.LoginRequest) (*domain.PatientLoginResponse, error) {
	patient, err := s.patientRepo.GetByEmail(ctx, dto.Email)
	if err != nil {
		s.logger.Error("ошибка получения пациента", zap.Error(err))
		return nil, fmt.Errorf("ошибка получения пациента: %w", err)
	}
	if patient == nil {
		return nil, domain.ErrInvalidCredentials
	}

	ok, err := auth.VerifyPassword(dto.Password, patient.PasswordHash)
	if err != nil {
		s.logger.Error("ошибка проверки пароля", zap.Error(err))
		return nil, fmt.Errorf("ошибка проверки пароля: %w", err)
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	if !patient.IsActive {
		return nil, domain.ErrAccountInactive
	}

	token, err := s.signToken(patient.ID, patient.Email, domain.UserRolePatient, s.cfg.PatientTokenTTL)
	if err != nil {
		s.logger.Error("ошибка подписи токена", zap.Error(err))
		return nil, fmt.Errorf("ошибка подписи токена: %w", err)
	}

	return &domain.PatientLoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.cfg.PatientTokenTTL.Seconds()),
		TokenType:   "Bearer",
		Patient:     patient,
	}, nil
}

func (s *AuthServiceImpl) signToken(userID uuid.UUID, email string, role domain.UserRole, ttl time.Duration) (string, error) {
	now := s.now()

	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
		Role:  string(role),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(s.cfg.SigningKey))
}

func (s *AuthServiceImpl) ParseToken(tokenString string) (*domain.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("неожиданный метод подписи: %v", token.Header["alg"])
		}
		return []byte(s.cfg.SigningKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCredentials, err)
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, domain.ErrInvalidCredentials
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: некорректный subject", domain.ErrInvalidCredentials)
	}

	role := domain.UserRole(claims.Role)
	if role != domain.UserRoleProvider && role != domain.UserRolePatient {
		return nil, errors.New("неизвестная роль в токене")
	}

	return &domain.TokenClaims{
		UserID: userID,
		Email:  claims.Email,
		Role:   role,
	}, nil
}
