package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"healthfirst/internal/domain"
	"healthfirst/internal/redis"
)

type bookingFixture struct {
	svc              *BookingServiceImpl
	slotRepo         *fakeSlotRepo
	availabilityRepo *fakeAvailabilityRepo
	patientRepo      *fakePatientRepo
	providerID       uuid.UUID
	availabilityID   uuid.UUID
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	slotRepo := newFakeSlotRepo()
	availabilityRepo := newFakeAvailabilityRepo(slotRepo)
	patientRepo := newFakePatientRepo()

	providerID := uuid.New()
	availabilityID := uuid.New()

	pattern := domain.RecurrenceWeekly
	endDate := date(2025, time.June, 16)
	_ = availabilityRepo.CreateWithSlots(context.Background(), []domain.Availability{{
		ID:                availabilityID,
		ProviderID:        providerID,
		Date:              date(2025, time.June, 2),
		StartTime:         "09:00",
		EndTime:           "10:00",
		Timezone:          "UTC",
		IsRecurring:       true,
		RecurrencePattern: &pattern,
		RecurrenceEndDate: &endDate,
		SlotDuration:      30,
		Status:            domain.AvailabilityStatusAvailable,
		AppointmentType:   domain.AppointmentTypeConsultation,
	}}, nil)

	svc := NewBookingService(slotRepo, availabilityRepo, patientRepo, redis.NewNoopLocker(), zap.NewNop())
	svc.now = func() time.Time {
		return time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	}

	return &bookingFixture{
		svc:              svc,
		slotRepo:         slotRepo,
		availabilityRepo: availabilityRepo,
		patientRepo:      patientRepo,
		providerID:       providerID,
		availabilityID:   availabilityID,
	}
}

func (f *bookingFixture) addSlot(t *testing.T, status domain.SlotStatus, start time.Time) domain.AppointmentSlot {
	t.Helper()

	slot := domain.AppointmentSlot{
		ID:              uuid.New(),
		AvailabilityID:  f.availabilityID,
		ProviderID:      f.providerID,
		SlotStartTime:   start,
		SlotEndTime:     start.Add(30 * time.Minute),
		Status:          status,
		AppointmentType: domain.AppointmentTypeConsultation,
	}
	f.slotRepo.put(slot)

	return slot
}

func (f *bookingFixture) addPatient(t *testing.T) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_ = f.patientRepo.Create(context.Background(), domain.Patient{ID: id, IsActive: true})

	return id
}

func slotStart(day, hour, minute int) time.Time {
	return time.Date(2025, time.June, day, hour, minute, 0, 0, time.UTC)
}

func TestBookSlot(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	slot := f.addSlot(t, domain.SlotStatusAvailable, slotStart(2, 9, 0))
	patientID := f.addPatient(t)

	booked, err := f.svc.Book(ctx, slot.ID, patientID)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if booked.Status != domain.SlotStatusBooked {
		t.Errorf("статус после бронирования: %s", booked.Status)
	}
	if booked.PatientID == nil || *booked.PatientID != patientID {
		t.Errorf("пациент не привязан к слоту")
	}
	if booked.BookingReference == nil || !strings.HasPrefix(*booked.BookingReference, "REF-") {
		t.Errorf("номер брони: %v", booked.BookingReference)
	}
}

func TestBookSlotNotAvailable(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	slot := f.addSlot(t, domain.SlotStatusBlocked, slotStart(2, 9, 0))
	patientID := f.addPatient(t)

	_, err := f.svc.Book(ctx, slot.ID, patientID)
	if !errors.Is(err, domain.ErrSlotNotAvailable) {
		t.Fatalf("ожидалась ErrSlotNotAvailable, получено %v", err)
	}
}

func TestBookSlotUnknownPatient(t *testing.T) {
	f := newBookingFixture(t)

	slot := f.addSlot(t, domain.SlotStatusAvailable, slotStart(2, 9, 0))

	_, err := f.svc.Book(context.Background(), slot.ID, uuid.New())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("ожидалась ErrNotFound, получено %v", err)
	}
}

func TestBookSlotConcurrentSingleWinner(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	slot := f.addSlot(t, domain.SlotStatusAvailable, slotStart(2, 9, 0))

	const attempts = 20

	patients := make([]uuid.UUID, attempts)
	for i := range patients {
		patients[i] = f.addPatient(t)
	}

	var wg sync.WaitGroup
	results := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = f.svc.Book(ctx, slot.ID, patients[i])
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range results {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, domain.ErrSlotNotAvailable):
		default:
			t.Errorf("неожиданная ошибка конкурента: %v", err)
		}
	}

	if winners != 1 {
		t.Fatalf("ровно один запрос должен выиграть бронирование, выиграло %d", winners)
	}
}

func TestCancelBooking(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	slot := f.addSlot(t, domain.SlotStatusAvailable, slotStart(2, 9, 0))
	patientID := f.addPatient(t)

	if _, err := f.svc.Book(ctx, slot.ID, patientID); err != nil {
		t.Fatalf("бронирование в фикстуре: %v", err)
	}

	cancelled, err := f.svc.Cancel(ctx, slot.ID)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if cancelled.Status != domain.SlotStatusCancelled {
		t.Errorf("статус после отмены: %s", cancelled.Status)
	}
	if cancelled.PatientID != nil {
		t.Errorf("привязка к пациенту должна быть очищена")
	}
	if cancelled.BookingReference != nil {
		t.Errorf("номер брони должен быть очищен")
	}
}

func TestCancelNotBookedSlot(t *testing.T) {
	f := newBookingFixture(t)

	for _, status := range []domain.SlotStatus{
		domain.SlotStatusAvailable,
		domain.SlotStatusCancelled,
		domain.SlotStatusBlocked,
	} {
		slot := f.addSlot(t, status, slotStart(2, 9, 0))

		_, err := f.svc.Cancel(context.Background(), slot.ID)
		if !errors.Is(err, domain.ErrSlotNotBooked) {
			t.Errorf("статус %s: ожидалась ErrSlotNotBooked, получено %v", status, err)
		}
	}
}

func TestUpdateSlotRejectsDirectBooking(t *testing.T) {
	f := newBookingFixture(t)

	slot := f.addSlot(t, domain.SlotStatusAvailable, slotStart(2, 9, 0))

	status := "BOOKED"
	_, err := f.svc.UpdateSlot(context.Background(), slot.ID, domain.UpdateSlotDTO{Status: &status})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("прямой перевод в BOOKED должен отклоняться, получено %v", err)
	}
}

func TestUpdateSlotClearsBookingOnStatusChange(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	slot := f.addSlot(t, domain.SlotStatusAvailable, slotStart(2, 9, 0))
	patientID := f.addPatient(t)

	if _, err := f.svc.Book(ctx, slot.ID, patientID); err != nil {
		t.Fatalf("бронирование в фикстуре: %v", err)
	}

	status := "BLOCKED"
	updated, err := f.svc.UpdateSlot(ctx, slot.ID, domain.UpdateSlotDTO{Status: &status})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if updated.Status != domain.SlotStatusBlocked {
		t.Errorf("статус после обновления: %s", updated.Status)
	}
	if updated.PatientID != nil || updated.BookingReference != nil {
		t.Errorf("уход из BOOKED должен очищать пациента и номер брони")
	}
}

func TestUpdateSlotTimes(t *testing.T) {
	f := newBookingFixture(t)

	slot := f.addSlot(t, domain.SlotStatusAvailable, slotStart(2, 9, 0))

	start := "11:00"
	end := "11:30"
	updated, err := f.svc.UpdateSlot(context.Background(), slot.ID, domain.UpdateSlotDTO{
		StartTime: &start,
		EndTime:   &end,
	})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if updated.SlotStartTime.Hour() != 11 || updated.SlotStartTime.Minute() != 0 {
		t.Errorf("новое время начала: %v", updated.SlotStartTime)
	}
	if updated.SlotEndTime.Hour() != 11 || updated.SlotEndTime.Minute() != 30 {
		t.Errorf("новое время окончания: %v", updated.SlotEndTime)
	}

	badEnd := "08:00"
	_, err = f.svc.UpdateSlot(context.Background(), slot.ID, domain.UpdateSlotDTO{EndTime: &badEnd})
	if !errors.Is(err, domain.ErrInvalidTimeRange) {
		t.Fatalf("ожидалась ErrInvalidTimeRange, получено %v", err)
	}
}

func TestUpdateSlotWritesSlotBeforeWindow(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	slot := f.addSlot(t, domain.SlotStatusAvailable, slotStart(2, 9, 0))

	f.availabilityRepo.notesErr = errors.New("обрыв соединения")

	status := "BLOCKED"
	notes := "санитарный день"
	_, err := f.svc.UpdateSlot(ctx, slot.ID, domain.UpdateSlotDTO{Status: &status, Notes: &notes})
	if err == nil {
		t.Fatal("сбой записи окна должен возвращать ошибку")
	}

	// Слот записывается первым, его изменения сохраняются и при сбое окна.
	got, _ := f.slotRepo.GetByID(ctx, slot.ID)
	if got == nil || got.Status != domain.SlotStatusBlocked {
		t.Errorf("изменения слота должны быть зафиксированы до записи окна")
	}
}

func TestDeleteSlot(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	slot := f.addSlot(t, domain.SlotStatusAvailable, slotStart(2, 9, 0))

	if err := f.svc.DeleteSlot(ctx, slot.ID, false, "перерыв"); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	got, _ := f.slotRepo.GetByID(ctx, slot.ID)
	if got != nil {
		t.Errorf("слот должен быть удален")
	}
}

func TestDeleteBookedSlot(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	slot := f.addSlot(t, domain.SlotStatusAvailable, slotStart(2, 9, 0))
	patientID := f.addPatient(t)

	if _, err := f.svc.Book(ctx, slot.ID, patientID); err != nil {
		t.Fatalf("бронирование в фикстуре: %v", err)
	}

	err := f.svc.DeleteSlot(ctx, slot.ID, false, "")
	if !errors.Is(err, domain.ErrCannotDeleteBooked) {
		t.Fatalf("ожидалась ErrCannotDeleteBooked, получено %v", err)
	}
}

func addSeriesWindow(f *bookingFixture, day int) uuid.UUID {
	pattern := domain.RecurrenceWeekly
	endDate := date(2025, time.June, 16)
	id := uuid.New()
	_ = f.availabilityRepo.CreateWithSlots(context.Background(), []domain.Availability{{
		ID:                id,
		ProviderID:        f.providerID,
		Date:              date(2025, time.June, day),
		StartTime:         "09:00",
		EndTime:           "10:00",
		Timezone:          "UTC",
		IsRecurring:       true,
		RecurrencePattern: &pattern,
		RecurrenceEndDate: &endDate,
		SlotDuration:      30,
		Status:            domain.AvailabilityStatusAvailable,
		AppointmentType:   domain.AppointmentTypeConsultation,
	}}, nil)

	return id
}

func TestDeleteSlotRecurringRemovesWindowWithSlots(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	otherWindow := addSeriesWindow(f, 9)

	slot := f.addSlot(t, domain.SlotStatusAvailable, slotStart(2, 9, 0))
	sibling := f.addSlot(t, domain.SlotStatusAvailable, slotStart(2, 9, 30))

	foreign := domain.AppointmentSlot{
		ID:              uuid.New(),
		AvailabilityID:  otherWindow,
		ProviderID:      f.providerID,
		SlotStartTime:   slotStart(9, 9, 0),
		SlotEndTime:     slotStart(9, 9, 30),
		Status:          domain.SlotStatusAvailable,
		AppointmentType: domain.AppointmentTypeConsultation,
	}
	f.slotRepo.put(foreign)

	if err := f.svc.DeleteSlot(ctx, slot.ID, true, ""); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if got, _ := f.slotRepo.GetByID(ctx, slot.ID); got != nil {
		t.Errorf("исходный слот должен быть удален")
	}
	if got, _ := f.slotRepo.GetByID(ctx, sibling.ID); got != nil {
		t.Errorf("соседний слот окна должен быть удален")
	}
	if got, _ := f.availabilityRepo.GetByID(ctx, f.availabilityID); got != nil {
		t.Errorf("окно приема должно быть удалено вместе со слотами")
	}

	// Другие окна врача не затрагиваются.
	if got, _ := f.slotRepo.GetByID(ctx, foreign.ID); got == nil {
		t.Errorf("слот другого окна должен остаться")
	}
	if got, _ := f.availabilityRepo.GetByID(ctx, otherWindow); got == nil {
		t.Errorf("другое окно должно остаться")
	}
}

func TestDeleteSlotRecurringWithBookedSibling(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	slot := f.addSlot(t, domain.SlotStatusAvailable, slotStart(2, 9, 0))

	patientID := f.addPatient(t)
	ref := "REF-1-booked"
	sibling := domain.AppointmentSlot{
		ID:               uuid.New(),
		AvailabilityID:   f.availabilityID,
		ProviderID:       f.providerID,
		SlotStartTime:    slotStart(2, 9, 30),
		SlotEndTime:      slotStart(2, 10, 0),
		Status:           domain.SlotStatusBooked,
		PatientID:        &patientID,
		BookingReference: &ref,
		AppointmentType:  domain.AppointmentTypeConsultation,
	}
	f.slotRepo.put(sibling)

	err := f.svc.DeleteSlot(ctx, slot.ID, true, "")
	if !errors.Is(err, domain.ErrCannotDeleteBooked) {
		t.Fatalf("ожидалась ErrCannotDeleteBooked, получено %v", err)
	}

	// Ничего не удалено, операция атомарна.
	if got, _ := f.slotRepo.GetByID(ctx, slot.ID); got == nil {
		t.Errorf("исходный слот должен остаться при отказе")
	}
	if got, _ := f.slotRepo.GetByID(ctx, sibling.ID); got == nil {
		t.Errorf("забронированный слот должен остаться при отказе")
	}
	if got, _ := f.availabilityRepo.GetByID(ctx, f.availabilityID); got == nil {
		t.Errorf("окно приема должно остаться при отказе")
	}
}
