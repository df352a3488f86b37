package service

import (
	"context"

	"go.uber.org/zap"

	"healthfirst/internal/domain"
)

// Notifier уведомляет пользователей о событиях регистрации и верификации.
// В dev-окружении письма не отправляются, события только логируются.
type Notifier interface {
	ProviderRegistered(ctx context.Context, provider domain.Provider)
	PatientRegistered(ctx context.Context, patient domain.Patient)
	VerificationStatusChanged(ctx context.Context, email string, status domain.VerificationStatus)
}

type logNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) Notifier {
	return &logNotifier{logger: logger}
}

func (n *logNotifier) ProviderRegistered(_ context.Context, provider domain.Provider) {
	n.logger.Info("уведомление: зарегистрирован врач",
		zap.String("provider_id", provider.ID.String()),
		zap.String("email", provider.Email),
	)
}

func (n *logNotifier) PatientRegistered(_ context.Context, patient domain.Patient) {
	n.logger.Info("уведомление: зарегистрирован пациент",
		zap.String("patient_id", patient.ID.String()),
		zap.String("email", patient.Email),
	)
}

func (n *logNotifier) VerificationStatusChanged(_ context.Context, email string, status domain.VerificationStatus) {
	n.logger.Info("уведомление: изменен статус верификации",
		zap.String("email", email),
		zap.String("status", string(status)),
	)
}
