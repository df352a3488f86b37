package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"healthfirst/internal/domain"
	"healthfirst/internal/repository"
	"healthfirst/pkg/auth"
	"healthfirst/pkg/validator"
)

// minPatientAge — минимальный возраст пациента для самостоятельной
// регистрации.
const minPatientAge = 13

type PatientServiceImpl struct {
	repo     repository.PatientRepository
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

func NewPatientService(repo repository.PatientRepository, notifier Notifier, logger *zap.Logger) *PatientServiceImpl {
	return &PatientServiceImpl{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *PatientServiceImpl) Register(ctx context.Context, dto domain.RegisterPatientDTO) (*domain.Patient, error) {
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

	if !validator.ValidateSSN(dto.SSN) {
		return nil, fmt.Errorf("%w: SSN должен состоять из девяти цифр", domain.ErrValidation)
	}

	dateOfBirth, err := time.Parse(dateLayout, dto.DateOfBirth)
	if err != nil {
		return nil, fmt.Errorf("%w: дата рождения должна быть в формате YYYY-MM-DD", domain.ErrInvalidFormat)
	}

	if age := yearsSince(dateOfBirth, s.now()); age < minPatientAge {
		return nil, fmt.Errorf("%w: пациент должен быть старше %d лет", domain.ErrValidation, minPatientAge)
	}

	phone := validator.FormatPhone(dto.PhoneNumber)
	ssn := validator.NormalizeSSN(dto.SSN)

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

	existing, err = s.repo.GetBySSN(ctx, ssn)
	if err != nil {
		s.logger.Error("ошибка проверки SSN", zap.Error(err))
		return nil, fmt.Errorf("ошибка проверки SSN: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrSSNTaken
	}

	passwordHash, err := auth.HashPassword(dto.Password)
	if err != nil {
		s.logger.Error("ошибка хеширования пароля", zap.Error(err))
		return nil, fmt.Errorf("ошибка хеширования пароля: %w", err)
	}

	now := s.now()
	patient := domain.Patient{
		ID:                 uuid.New(),
		FirstName:          dto.FirstName,
		LastName:           dto.LastName,
		Email:              dto.Email,
		PhoneNumber:        phone,
		PasswordHash:       passwordHash,
		DateOfBirth:        dateOfBirth,
		SSN:                ssn,
		Gender:             dto.Gender,
		BloodType:          dto.BloodType,
		Address:            dto.Address,
		EmergencyContact:   dto.EmergencyContact,
		MedicalHistory:     dto.MedicalHistory,
		Allergies:          dto.Allergies,
		CurrentMedications: dto.CurrentMedications,
		VerificationStatus: domain.VerificationStatusPending,
		IsActive:           true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		s.logger.Error("ошибка создания пациента", zap.Error(err))
		return nil, fmt.Errorf("ошибка создания пациента: %w", err)
	}

	s.notifier.PatientRegistered(ctx, patient)

	s.logger.Info("зарегистрирован пациент", zap.String("patient_id", patient.ID.String()))

	return &patient, nil
}

func (s *PatientServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*domain.Patient, error) {
	patient, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения пациента", zap.Error(err))
		return nil, fmt.Errorf("ошибка получения пациента: %w", err)
	}
	if patient == nil {
		return nil, fmt.Errorf("%w: пациент %s", domain.ErrNotFound, id)
	}

	return patient, nil
}

func (s *PatientServiceImpl) UpdateVerificationStatus(ctx context.Context, id uuid.UUID, status string) error {
	parsed, err := domain.ParseVerificationStatus(status)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	patient, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения пациента", zap.Error(err))
		return fmt.Errorf("ошибка получения пациента: %w", err)
	}
	if patient == nil {
		return fmt.Errorf("%w: пациент %s", domain.ErrNotFound, id)
	}

	if err := s.repo.UpdateVerificationStatus(ctx, id, parsed); err != nil {
		s.logger.Error("ошибка обновления статуса верификации", zap.Error(err))
		return fmt.Errorf("ошибка обновления статуса верификации: %w", err)
	}

	s.notifier.VerificationStatusChanged(ctx, patient.Email, parsed)

	return nil
}

// yearsSince считает полные годы между двумя датами.
func yearsSince(from, to time.Time) int {
	years := to.Year() - from.Year()
	if to.Month() < from.Month() || (to.Month() == from.Month() && to.Day() < from.Day()) {
		years--
	}

	return years
}
