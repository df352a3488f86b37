package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"healthfirst/internal/domain"
)

// Потокобезопасные реализации репозиториев в памяти для тестов сервисов.

type fakeProviderRepo struct {
	mu        sync.Mutex
	providers map[uuid.UUID]domain.Provider
}

func newFakeProviderRepo() *fakeProviderRepo {
	return &fakeProviderRepo{providers: make(map[uuid.UUID]domain.Provider)}
}

func (r *fakeProviderRepo) Create(_ context.Context, provider domain.Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[provider.ID] = provider
	return nil
}

func (r *fakeProviderRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.providers[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (r *fakeProviderRepo) GetByEmail(_ context.Context, email string) (*domain.Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.providers {
		if p.Email == email {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (r *fakeProviderRepo) GetByPhone(_ context.Context, phone string) (*domain.Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.providers {
		if p.PhoneNumber == phone {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (r *fakeProviderRepo) GetByLicenseNumber(_ context.Context, license string) (*domain.Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.providers {
		if p.LicenseNumber == license {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (r *fakeProviderRepo) GetAllByIDs(_ context.Context, ids []uuid.UUID) ([]domain.Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Provider
	for _, id := range ids {
		if p, ok := r.providers[id]; ok {
			result = append(result, p)
		}
	}
	return result, nil
}

func (r *fakeProviderRepo) UpdateVerificationStatus(_ context.Context, id uuid.UUID, status domain.VerificationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.providers[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.VerificationStatus = status
	r.providers[id] = p
	return nil
}

func (r *fakeProviderRepo) UpdateLicenseDocument(_ context.Context, id uuid.UUID, documentURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.providers[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.LicenseDocumentURL = &documentURL
	r.providers[id] = p
	return nil
}

func (r *fakeProviderRepo) List(_ context.Context, filter domain.ProviderFilter) ([]domain.Provider, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Provider
	for _, p := range r.providers {
		if filter.Specialization != nil && p.Specialization != *filter.Specialization {
			continue
		}
		result = append(result, p)
	}
	return result, len(result), nil
}

type fakePatientRepo struct {
	mu       sync.Mutex
	patients map[uuid.UUID]domain.Patient
}

func newFakePatientRepo() *fakePatientRepo {
	return &fakePatientRepo{patients: make(map[uuid.UUID]domain.Patient)}
}

func (r *fakePatientRepo) Create(_ context.Context, patient domain.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.patients[patient.ID] = patient
	return nil
}

func (r *fakePatientRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.patients[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (r *fakePatientRepo) GetByEmail(_ context.Context, email string) (*domain.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.patients {
		if p.Email == email {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (r *fakePatientRepo) GetByPhone(_ context.Context, phone string) (*domain.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.patients {
		if p.PhoneNumber == phone {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (r *fakePatientRepo) GetBySSN(_ context.Context, ssn string) (*domain.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.patients {
		if p.SSN == ssn {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (r *fakePatientRepo) UpdateVerificationStatus(_ context.Context, id uuid.UUID, status domain.VerificationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.patients[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.VerificationStatus = status
	r.patients[id] = p
	return nil
}

type fakeAvailabilityRepo struct {
	mu             sync.Mutex
	availabilities map[uuid.UUID]domain.Availability
	slots          *fakeSlotRepo

	// notesErr подставляется тестами для имитации сбоя записи окна.
	notesErr error
}

func newFakeAvailabilityRepo(slots *fakeSlotRepo) *fakeAvailabilityRepo {
	return &fakeAvailabilityRepo{
		availabilities: make(map[uuid.UUID]domain.Availability),
		slots:          slots,
	}
}

func (r *fakeAvailabilityRepo) CreateWithSlots(_ context.Context, availabilities []domain.Availability, slots []domain.AppointmentSlot) error {
	r.mu.Lock()
	for _, av := range availabilities {
		r.availabilities[av.ID] = av
	}
	r.mu.Unlock()

	r.slots.mu.Lock()
	defer r.slots.mu.Unlock()
	for _, slot := range slots {
		r.slots.slots[slot.ID] = slot
	}
	return nil
}

func (r *fakeAvailabilityRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Availability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if av, ok := r.availabilities[id]; ok {
		return &av, nil
	}
	return nil, nil
}

func (r *fakeAvailabilityRepo) GetByProviderAndRange(_ context.Context, providerID uuid.UUID, startDate, endDate time.Time) ([]domain.Availability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Availability
	for _, av := range r.availabilities {
		if av.ProviderID != providerID {
			continue
		}
		if av.Date.Before(startDate) || av.Date.After(endDate) {
			continue
		}
		result = append(result, av)
	}
	return result, nil
}

func (r *fakeAvailabilityRepo) List(_ context.Context, filter domain.AvailabilityFilter) ([]domain.Availability, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Availability
	for _, av := range r.availabilities {
		if filter.ProviderID != nil && av.ProviderID != *filter.ProviderID {
			continue
		}
		if filter.Status != nil && av.Status != *filter.Status {
			continue
		}
		result = append(result, av)
	}
	return result, len(result), nil
}

func (r *fakeAvailabilityRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.AvailabilityStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	av, ok := r.availabilities[id]
	if !ok {
		return domain.ErrNotFound
	}
	av.Status = status
	r.availabilities[id] = av
	return nil
}

func (r *fakeAvailabilityRepo) UpdateNotesAndPricing(_ context.Context, id uuid.UUID, notes *string, pricing *domain.Pricing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.notesErr != nil {
		return r.notesErr
	}
	av, ok := r.availabilities[id]
	if !ok {
		return domain.ErrNotFound
	}
	if notes != nil {
		av.Notes = *notes
	}
	if pricing != nil {
		p := *pricing
		av.Pricing = &p
	}
	r.availabilities[id] = av
	return nil
}

func (r *fakeAvailabilityRepo) DeleteCascade(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	if _, ok := r.availabilities[id]; !ok {
		r.mu.Unlock()
		return domain.ErrNotFound
	}
	delete(r.availabilities, id)
	r.mu.Unlock()

	r.slots.mu.Lock()
	defer r.slots.mu.Unlock()
	for slotID, slot := range r.slots.slots {
		if slot.AvailabilityID == id {
			delete(r.slots.slots, slotID)
		}
	}
	return nil
}

type fakeSlotRepo struct {
	mu    sync.Mutex
	slots map[uuid.UUID]domain.AppointmentSlot
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{slots: make(map[uuid.UUID]domain.AppointmentSlot)}
}

func (r *fakeSlotRepo) put(slot domain.AppointmentSlot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots[slot.ID] = slot
}

func (r *fakeSlotRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.AppointmentSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if slot, ok := r.slots[id]; ok {
		return &slot, nil
	}
	return nil, nil
}

func (r *fakeSlotRepo) GetByBookingReference(_ context.Context, reference string) (*domain.AppointmentSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, slot := range r.slots {
		if slot.BookingReference != nil && *slot.BookingReference == reference {
			slot := slot
			return &slot, nil
		}
	}
	return nil, nil
}

func (r *fakeSlotRepo) GetByAvailabilityID(_ context.Context, availabilityID uuid.UUID) ([]domain.AppointmentSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.AppointmentSlot
	for _, slot := range r.slots {
		if slot.AvailabilityID == availabilityID {
			result = append(result, slot)
		}
	}
	return result, nil
}

func (r *fakeSlotRepo) List(_ context.Context, filter domain.SlotFilter) ([]domain.AppointmentSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.AppointmentSlot
	for _, slot := range r.slots {
		if filter.ProviderID != nil && slot.ProviderID != *filter.ProviderID {
			continue
		}
		if filter.PatientID != nil && (slot.PatientID == nil || *slot.PatientID != *filter.PatientID) {
			continue
		}
		if filter.Status != nil && slot.Status != *filter.Status {
			continue
		}
		if filter.From != nil && slot.SlotStartTime.Before(*filter.From) {
			continue
		}
		if filter.To != nil && slot.SlotStartTime.After(*filter.To) {
			continue
		}
		result = append(result, slot)
	}
	return result, nil
}

func (r *fakeSlotRepo) ListAvailableInRange(_ context.Context, from, to time.Time) ([]domain.AppointmentSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.AppointmentSlot
	for _, slot := range r.slots {
		if slot.Status != domain.SlotStatusAvailable {
			continue
		}
		if slot.SlotStartTime.Before(from) || slot.SlotStartTime.After(to) {
			continue
		}
		result = append(result, slot)
	}
	return result, nil
}

func (r *fakeSlotRepo) BookIfAvailable(_ context.Context, id uuid.UUID, patientID uuid.UUID, bookingReference string) (*domain.AppointmentSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot, ok := r.slots[id]
	if !ok || slot.Status != domain.SlotStatusAvailable {
		return nil, nil
	}
	slot.Status = domain.SlotStatusBooked
	slot.PatientID = &patientID
	slot.BookingReference = &bookingReference
	r.slots[id] = slot
	return &slot, nil
}

func (r *fakeSlotRepo) CancelIfBooked(_ context.Context, id uuid.UUID) (*domain.AppointmentSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot, ok := r.slots[id]
	if !ok || slot.Status != domain.SlotStatusBooked {
		return nil, nil
	}
	slot.Status = domain.SlotStatusCancelled
	slot.PatientID = nil
	slot.BookingReference = nil
	r.slots[id] = slot
	return &slot, nil
}

func (r *fakeSlotRepo) Update(_ context.Context, slot domain.AppointmentSlot) (*domain.AppointmentSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.slots[slot.ID]; !ok {
		return nil, nil
	}
	r.slots[slot.ID] = slot
	return &slot, nil
}

func (r *fakeSlotRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.slots[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.slots, id)
	return nil
}
