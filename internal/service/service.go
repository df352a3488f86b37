package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"healthfirst/config"
	"healthfirst/internal/domain"
	"healthfirst/internal/redis"
	"healthfirst/internal/repository"
	"healthfirst/internal/storage"
)

type Deps struct {
	Repos       *repository.Repositories
	Logger      *zap.Logger
	Config      *config.Config
	FileStorage storage.FileStorage
	SlotLocker  redis.Locker
	Notifier    Notifier
}

type Services struct {
	Provider     ProviderService
	Patient      PatientService
	Auth         AuthService
	Availability AvailabilityService
	Booking      BookingService
	Search       SearchService
}

func NewServices(deps Deps) *Services {
	notifier := deps.Notifier
	if notifier == nil {
		notifier = NewLogNotifier(deps.Logger)
	}

	locker := deps.SlotLocker
	if locker == nil {
		locker = redis.NewNoopLocker()
	}

	return &Services{
		Provider:     NewProviderService(deps.Repos.Provider, deps.FileStorage, notifier, deps.Logger),
		Patient:      NewPatientService(deps.Repos.Patient, notifier, deps.Logger),
		Auth:         NewAuthService(deps.Repos.Provider, deps.Repos.Patient, deps.Config.JWT, deps.Logger),
		Availability: NewAvailabilityService(deps.Repos.Availability, deps.Repos.Slot, deps.Repos.Provider, deps.Logger),
		Booking:      NewBookingService(deps.Repos.Slot, deps.Repos.Availability, deps.Repos.Patient, locker, deps.Logger),
		Search:       NewSearchService(deps.Repos.Slot, deps.Repos.Availability, deps.Repos.Provider, deps.Logger),
	}
}

type ProviderService interface {
	Register(ctx context.Context, dto domain.RegisterProviderDTO) (*domain.Provider, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Provider, error)
	List(ctx context.Context, filter domain.ProviderFilter) ([]domain.Provider, int, error)
	UploadLicenseDocument(ctx context.Context, providerID uuid.UUID, document []byte, filename string) (string, error)
	UpdateVerificationStatus(ctx context.Context, id uuid.UUID, status string) error
}

type PatientService interface {
	Register(ctx context.Context, dto domain.RegisterPatientDTO) (*domain.Patient, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Patient, error)
	UpdateVerificationStatus(ctx context.Context, id uuid.UUID, status string) error
}

type AuthService interface {
	LoginProvider(ctx context.Context, dto domain.LoginRequest) (*domain.ProviderLoginResponse, error)
	LoginPatient(ctx context.Context, dto domain.LoginRequest) (*domain.PatientLoginResponse, error)
	ParseToken(tokenString string) (*domain.TokenClaims, error)
}

type AvailabilityService interface {
	Create(ctx context.Context, providerID uuid.UUID, dto domain.CreateAvailabilityDTO) (*domain.CreateAvailabilityResult, error)
	GetByProviderInRange(ctx context.Context, providerID uuid.UUID, startDate, endDate string) ([]domain.Availability, error)
	List(ctx context.Context, filter domain.AvailabilityFilter) ([]domain.Availability, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*domain.Availability, error)
	Delete(ctx context.Context, id uuid.UUID) error

	GetSlots(ctx context.Context, filter domain.SlotFilter) ([]domain.AppointmentSlot, error)
	GetAvailableSlots(ctx context.Context, providerID uuid.UUID) ([]domain.AppointmentSlot, error)
	GetSlotByBookingReference(ctx context.Context, reference string) (*domain.AppointmentSlot, error)
	GetUpcomingForProvider(ctx context.Context, providerID uuid.UUID) ([]domain.AppointmentSlot, error)
	GetUpcomingForPatient(ctx context.Context, patientID uuid.UUID) ([]domain.AppointmentSlot, error)
}

type BookingService interface {
	Book(ctx context.Context, slotID, patientID uuid.UUID) (*domain.AppointmentSlot, error)
	Cancel(ctx context.Context, slotID uuid.UUID) (*domain.AppointmentSlot, error)
	UpdateSlot(ctx context.Context, slotID uuid.UUID, dto domain.UpdateSlotDTO) (*domain.AppointmentSlot, error)
	DeleteSlot(ctx context.Context, slotID uuid.UUID, deleteRecurring bool, reason string) error
}

type SearchService interface {
	SearchAvailableSlots(ctx context.Context, criteria domain.SearchCriteria) (*domain.SearchResult, error)
}
