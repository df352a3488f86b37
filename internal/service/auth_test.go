package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"healthfirst/config"
	"healthfirst/internal/domain"
	"healthfirst/pkg/auth"
)

func newAuthFixture(t *testing.T) (*AuthServiceImpl, *fakeProviderRepo, *fakePatientRepo) {
	t.Helper()

	providerRepo := newFakeProviderRepo()
	patientRepo := newFakePatientRepo()

	cfg := config.JWTConfig{
		SigningKey:       "test-signing-key",
		ProviderTokenTTL: time.Hour,
		PatientTokenTTL:  30 * time.Minute,
	}

	return NewAuthService(providerRepo, patientRepo, cfg, zap.NewNop()), providerRepo, patientRepo
}

func mustHash(t *testing.T, password string) string {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("хеширование пароля: %v", err)
	}

	return hash
}

func TestLoginProvider(t *testing.T) {
	svc, providerRepo, _ := newAuthFixture(t)
	ctx := context.Background()

	providerID := uuid.New()
	_ = providerRepo.Create(ctx, domain.Provider{
		ID:                 providerID,
		Email:              "doctor@example.com",
		PasswordHash:       mustHash(t, "Sup3rSecret!"),
		VerificationStatus: domain.VerificationStatusVerified,
		IsActive:           true,
	})

	response, err := svc.LoginProvider(ctx, domain.LoginRequest{
		Email:    "doctor@example.com",
		Password: "Sup3rSecret!",
	})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if response.AccessToken == "" {
		t.Fatal("пустой токен доступа")
	}
	if response.TokenType != "Bearer" {
		t.Errorf("тип токена: %s", response.TokenType)
	}
	if response.ExpiresIn != 3600 {
		t.Errorf("срок жизни токена: %d", response.ExpiresIn)
	}

	claims, err := svc.ParseToken(response.AccessToken)
	if err != nil {
		t.Fatalf("разбор токена: %v", err)
	}
	if claims.UserID != providerID {
		t.Errorf("subject токена: %s", claims.UserID)
	}
	if claims.Role != domain.UserRoleProvider {
		t.Errorf("роль в токене: %s", claims.Role)
	}
}

func TestLoginProviderRejections(t *testing.T) {
	svc, providerRepo, _ := newAuthFixture(t)
	ctx := context.Background()

	hash := mustHash(t, "Sup3rSecret!")

	cases := []struct {
		name     string
		provider domain.Provider
		password string
		wantErr  error
	}{
		{
			name: "неверный пароль",
			provider: domain.Provider{
				ID: uuid.New(), Email: "a@example.com", PasswordHash: hash,
				VerificationStatus: domain.VerificationStatusVerified, IsActive: true,
			},
			password: "wrong-password",
			wantErr:  domain.ErrInvalidCredentials,
		},
		{
			name: "аккаунт деактивирован",
			provider: domain.Provider{
				ID: uuid.New(), Email: "b@example.com", PasswordHash: hash,
				VerificationStatus: domain.VerificationStatusVerified, IsActive: false,
			},
			password: "Sup3rSecret!",
			wantErr:  domain.ErrAccountInactive,
		},
		{
			name: "верификация не пройдена",
			provider: domain.Provider{
				ID: uuid.New(), Email: "c@example.com", PasswordHash: hash,
				VerificationStatus: domain.VerificationStatusPending, IsActive: true,
			},
			password: "Sup3rSecret!",
			wantErr:  domain.ErrAccountNotVerified,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_ = providerRepo.Create(ctx, tc.provider)

			_, err := svc.LoginProvider(ctx, domain.LoginRequest{
				Email:    tc.provider.Email,
				Password: tc.password,
			})
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("ожидалась %v, получено %v", tc.wantErr, err)
			}
		})
	}
}

func TestLoginProviderUnknownEmail(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.LoginProvider(context.Background(), domain.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("ожидалась ErrInvalidCredentials, получено %v", err)
	}
}

func TestLoginPatientDoesNotRequireVerification(t *testing.T) {
	svc, _, patientRepo := newAuthFixture(t)
	ctx := context.Background()

	patientID := uuid.New()
	_ = patientRepo.Create(ctx, domain.Patient{
		ID:                 patientID,
		Email:              "patient@example.com",
		PasswordHash:       mustHash(t, "Sup3rSecret!"),
		VerificationStatus: domain.VerificationStatusPending,
		IsActive:           true,
	})

	response, err := svc.LoginPatient(ctx, domain.LoginRequest{
		Email:    "patient@example.com",
		Password: "Sup3rSecret!",
	})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	claims, err := svc.ParseToken(response.AccessToken)
	if err != nil {
		t.Fatalf("разбор токена: %v", err)
	}
	if claims.Role != domain.UserRolePatient {
		t.Errorf("роль в токене: %s", claims.Role)
	}
	if claims.UserID != patientID {
		t.Errorf("subject токена: %s", claims.UserID)
	}
}

func TestParseTokenWrongKey(t *testing.T) {
	svc, providerRepo, _ := newAuthFixture(t)
	ctx := context.Background()

	_ = providerRepo.Create(ctx, domain.Provider{
		ID:                 uuid.New(),
		Email:              "doctor@example.com",
		PasswordHash:       mustHash(t, "Sup3rSecret!"),
		VerificationStatus: domain.VerificationStatusVerified,
		IsActive:           true,
	})

	response, err := svc.LoginProvider(ctx, domain.LoginRequest{
		Email:    "doctor@example.com",
		Password: "Sup3rSecret!",
	})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	other, _, _ := newAuthFixture(t)
	other.cfg.SigningKey = "another-key"

	if _, err := other.ParseToken(response.AccessToken); err == nil {
		t.Fatal("токен с чужой подписью должен отклоняться")
	}
}

func TestParseTokenGarbage(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	if _, err := svc.ParseToken("not-a-jwt"); err == nil {
		t.Fatal("мусорный токен должен отклоняться")
	}
}
