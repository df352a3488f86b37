package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"healthfirst/internal/domain"
)

type Repositories struct {
	Provider     ProviderRepository
	Patient      PatientRepository
	Availability AvailabilityRepository
	Slot         SlotRepository
}

func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		Provider:     NewProviderRepository(db),
		Patient:      NewPatientRepository(db),
		Availability: NewAvailabilityRepository(db),
		Slot:         NewSlotRepository(db),
	}
}

type ProviderRepository interface {
	Create(ctx context.Context, provider domain.Provider) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Provider, error)
	GetByEmail(ctx context.Context, email string) (*domain.Provider, error)
	GetByPhone(ctx context.Context, phone string) (*domain.Provider, error)
	GetByLicenseNumber(ctx context.Context, licenseNumber string) (*domain.Provider, error)
	GetAllByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Provider, error)
	UpdateVerificationStatus(ctx context.Context, id uuid.UUID, status domain.VerificationStatus) error
	UpdateLicenseDocument(ctx context.Context, id uuid.UUID, documentURL string) error
	List(ctx context.Context, filter domain.ProviderFilter) ([]domain.Provider, int, error)
}

type PatientRepository interface {
	Create(ctx context.Context, patient domain.Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Patient, error)
	GetByEmail(ctx context.Context, email string) (*domain.Patient, error)
	GetByPhone(ctx context.Context, phone string) (*domain.Patient, error)
	GetBySSN(ctx context.Context, ssn string) (*domain.Patient, error)
	UpdateVerificationStatus(ctx context.Context, id uuid.UUID, status domain.VerificationStatus) error
}

type AvailabilityRepository interface {
	// CreateWithSlots сохраняет окна приема и сгенерированные слоты одной
	// транзакцией: окно без слотов не должно быть видно снаружи.
	CreateWithSlots(ctx context.Context, availabilities []domain.Availability, slots []domain.AppointmentSlot) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Availability, error)
	GetByProviderAndRange(ctx context.Context, providerID uuid.UUID, startDate, endDate time.Time) ([]domain.Availability, error)
	List(ctx context.Context, filter domain.AvailabilityFilter) ([]domain.Availability, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AvailabilityStatus) error
	UpdateNotesAndPricing(ctx context.Context, id uuid.UUID, notes *string, pricing *domain.Pricing) error
	// DeleteCascade удаляет окно вместе со всеми его слотами одной транзакцией.
	DeleteCascade(ctx context.Context, id uuid.UUID) error
}

type SlotRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.AppointmentSlot, error)
	GetByBookingReference(ctx context.Context, reference string) (*domain.AppointmentSlot, error)
	GetByAvailabilityID(ctx context.Context, availabilityID uuid.UUID) ([]domain.AppointmentSlot, error)
	List(ctx context.Context, filter domain.SlotFilter) ([]domain.AppointmentSlot, error)
	ListAvailableInRange(ctx context.Context, from, to time.Time) ([]domain.AppointmentSlot, error)

	// BookIfAvailable выполняет условное обновление: переход в BOOKED
	// происходит только если слот все еще AVAILABLE. При проигрыше гонки
	// возвращается (nil, nil).
	BookIfAvailable(ctx context.Context, id uuid.UUID, patientID uuid.UUID, bookingReference string) (*domain.AppointmentSlot, error)
	// CancelIfBooked переводит BOOKED слот в CANCELLED, очищая пациента и
	// номер брони. Для слота в другом статусе возвращается (nil, nil).
	CancelIfBooked(ctx context.Context, id uuid.UUID) (*domain.AppointmentSlot, error)

	Update(ctx context.Context, slot domain.AppointmentSlot) (*domain.AppointmentSlot, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
