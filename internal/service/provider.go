package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"healthfirst/internal/domain"
	"healthfirst/internal/repository"
	"healthfirst/internal/storage"
	"healthfirst/pkg/auth"
	"healthfirst/pkg/validator"
)

type ProviderServiceImpl struct {
	repo        repository.ProviderRepository
	fileStorage storage.FileStorage
	notifier    Notifier
	logger      *zap.Logger
	now         func() time.Time
}

func NewProviderService(
	repo repository.ProviderRepository,
	fileStorage storage.FileStorage,
	notifier Notifier,
	logger *zap.Logger,
) *ProviderServiceImpl {
	return &ProviderServiceImpl{
		repo:        repo,
		fileStorage: fileStorage,
		notifier:    notifier,
		logger:      logger,
		now:         time.Now,
	}
}

// Register создает аккаунт врача со статусом верификации PENDING. Уникальность
// email, телефона и номера лицензии проверяется до вставки, чтобы вернуть
// точную причину конфликта.
func (s *ProviderServiceImpl) Register(ctx context.Context, dto domain.RegisterProviderDTO) (*domain.Provider, error) {
	if !validator.ValidateNamePart(dto.FirstName) || !validator.ValidateNamePart(dto.LastName) {
		return nil, fmt.Errorf("%w: имя и фамилия должны содержать не менее 2 букв", domain.ErrValidation)
	}

	if !validator.ValidateEmail(dto.Email) {
		return nil, fmt.Errorf("%w: некорректный email", domain.ErrValidation)
	}

	if !validator.ValidatePhone(dto.PhoneNumber) {
		return nil, fmt.Errorf("%w: номер телефона должен быть в формате E.164", domain.ErrValidation)
	}

	if !validator.ValidatePassword(dto.Password) {
		return nil, fmt.Errorf("%w: пароль должен быть не короче 8 символов и содержать заглавную букву, цифру и спецсимвол", domain.ErrValidation)
	}

	if !validator.ValidateLicenseNumber(dto.LicenseNumber) {
		return nil, fmt.Errorf("%w: номер лицензии должен состоять из 5-20 букв и цифр", domain.ErrValidation)
	}

	if dto.Specialization == "" {
		return nil, fmt.Errorf("%w: не указана специализация", domain.ErrValidation)
	}

	if dto.YearsOfExperience < 0 || dto.YearsOfExperience > 70 {
		return nil, fmt.Errorf("%w: стаж должен быть от 0 до 70 лет", domain.ErrValidation)
	}

	phone := validator.FormatPhone(dto.PhoneNumber)

	existing, err := s.repo.GetByEmail(ctx, dto.Email)
	if err != nil {
		s.logger.Error("ошибка проверки email", zap.Error(err))
		return nil, fmt.Errorf("ошибка проверки email: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	existing, err = s.repo.GetByPhone(ctx, phone)
	if err != nil {
		s.logger.Error("ошибка проверки телефона", zap.Error(err))
		return nil, fmt.Errorf("ошибка проверки телефона: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrPhoneTaken
	}

	existing, err = s.repo.GetByLicenseNumber(ctx, dto.LicenseNumber)
	if err != nil {
		s.logger.Error("ошибка проверки номера лицензии", zap.Error(err))
		return nil, fmt.Errorf("ошибка проверки номера лицензии: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrLicenseTaken
	}

	passwordHash, err := auth.HashPassword(dto.Password)
	if err != nil {
		s.logger.Error("ошибка хеширования пароля", zap.Error(err))
		return nil, fmt.Errorf("ошибка хеширования пароля: %w", err)
	}

	now := s.now()
	provider := domain.Provider{
		ID:                 uuid.New(),
		FirstName:          dto.FirstName,
		LastName:           dto.LastName,
		Email:              dto.Email,
		PhoneNumber:        phone,
		PasswordHash:       passwordHash,
		Specialization:     dto.Specialization,
		LicenseNumber:      dto.LicenseNumber,
		YearsOfExperience:  dto.YearsOfExperience,
		ClinicAddress:      dto.ClinicAddress,
		VerificationStatus: domain.VerificationStatusPending,
		IsActive:           true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.Create(ctx, provider); err != nil {
		s.logger.Error("ошибка создания врача", zap.Error(err))
		return nil, fmt.Errorf("ошибка создания врача: %w", err)
	}

	s.notifier.ProviderRegistered(ctx, provider)

	s.logger.Info("зарегистрирован врач",
		zap.String("provider_id", provider.ID.String()),
		zap.String("specialization", provider.Specialization),
	)

	return &provider, nil
}

func (s *ProviderServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*domain.Provider, error) {
	provider, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения врача", zap.Error(err))
		return nil, fmt.Errorf("ошибка получения врача: %w", err)
	}
	if provider == nil {
		return nil, fmt.Errorf("%w: врач %s", domain.ErrNotFound, id)
	}

	return provider, nil
}

func (s *ProviderServiceImpl) List(ctx context.Context, filter domain.ProviderFilter) ([]domain.Provider, int, error) {
	providers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ошибка получения списка врачей", zap.Error(err))
		return nil, 0, fmt.Errorf("ошибка получения списка врачей: %w", err)
	}

	return providers, total, nil
}

// UploadLicenseDocument сохраняет скан лицензии в объектное хранилище и
// привязывает его URL к врачу для последующей верификации.
func (s *ProviderServiceImpl) UploadLicenseDocument(ctx context.Context, providerID uuid.UUID, document []byte, filename string) (string, error) {
	provider, err := s.repo.GetByID(ctx, providerID)
	if err != nil {
		s.logger.Error("ошибка получения врача", zap.Error(err))
		return "", fmt.Errorf("ошибка получения врача: %w", err)
	}
	if provider == nil {
		return "", fmt.Errorf("%w: врач %s", domain.ErrNotFound, providerID)
	}

	if s.fileStorage == nil {
		return "", fmt.Errorf("%w: хранилище файлов не настроено", domain.ErrValidation)
	}

	url, err := s.fileStorage.UploadLicenseDocument(ctx, document, filename)
	if err != nil {
		s.logger.Error("ошибка загрузки документа", zap.Error(err))
		return "", fmt.Errorf("ошибка загрузки документа: %w", err)
	}

	if provider.LicenseDocumentURL != nil {
		if err := s.fileStorage.DeleteFile(ctx, *provider.LicenseDocumentURL); err != nil {
			s.logger.Warn("не удалось удалить прежний документ", zap.Error(err))
		}
	}

	if err := s.repo.UpdateLicenseDocument(ctx, providerID, url); err != nil {
		s.logger.Error("ошибка сохранения ссылки на документ", zap.Error(err))
		return "", fmt.Errorf("ошибка сохранения ссылки на документ: %w", err)
	}

	return url, nil
}

func (s *ProviderServiceImpl) UpdateVerificationStatus(ctx context.Context, id uuid.UUID, status string) error {
	parsed, err := domain.ParseVerificationStatus(status)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	provider, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения врача", zap.Error(err))
		return fmt.Errorf("ошибка получения врача: %w", err)
	}
	if provider == nil {
		return fmt.Errorf("%w: врач %s", domain.ErrNotFound, id)
	}

	if err := s.repo.UpdateVerificationStatus(ctx, id, parsed); err != nil {
		s.logger.Error("ошибка обновления статуса верификации", zap.Error(err))
		return fmt.Errorf("ошибка обновления статуса верификации: %w", err)
	}

	s.notifier.VerificationStatusChanged(ctx, provider.Email, parsed)

	return nil
}
