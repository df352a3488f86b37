package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"healthfirst/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestExpandRecurrenceDaily(t *testing.T) {
	dates, err := expandRecurrence(date(2025, time.June, 1), date(2025, time.June, 3), domain.RecurrenceDaily)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if len(dates) != 3 {
		t.Fatalf("ожидалось 3 даты, получено %d", len(dates))
	}
	for i, d := range dates {
		want := date(2025, time.June, 1+i)
		if !d.Equal(want) {
			t.Errorf("дата %d: ожидалось %v, получено %v", i, want, d)
		}
	}
}

func TestExpandRecurrenceWeekly(t *testing.T) {
	dates, err := expandRecurrence(date(2025, time.June, 2), date(2025, time.June, 30), domain.RecurrenceWeekly)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if len(dates) != 5 {
		t.Fatalf("ожидалось 5 дат, получено %d", len(dates))
	}
	for i := 1; i < len(dates); i++ {
		if diff := dates[i].Sub(dates[i-1]); diff != 7*24*time.Hour {
			t.Errorf("интервал между датами %d и %d: %v", i-1, i, diff)
		}
	}
}

func TestExpandRecurrenceMonthlyInclusiveEnd(t *testing.T) {
	dates, err := expandRecurrence(date(2025, time.January, 15), date(2025, time.April, 15), domain.RecurrenceMonthly)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	// Конечная дата попадает на шаг и включается.
	if len(dates) != 4 {
		t.Fatalf("ожидалось 4 даты, получено %d", len(dates))
	}
	last := dates[len(dates)-1]
	if !last.Equal(date(2025, time.April, 15)) {
		t.Errorf("последняя дата: %v", last)
	}
}

func TestExpandRecurrenceStartAfterEnd(t *testing.T) {
	_, err := expandRecurrence(date(2025, time.June, 10), date(2025, time.June, 1), domain.RecurrenceDaily)
	if !errors.Is(err, domain.ErrInvalidTimeRange) {
		t.Fatalf("ожидалась ErrInvalidTimeRange, получено %v", err)
	}
}

func TestExpandRecurrenceUnknownPattern(t *testing.T) {
	_, err := expandRecurrence(date(2025, time.June, 1), date(2025, time.June, 2), domain.RecurrencePattern("YEARLY"))
	if !errors.Is(err, domain.ErrInvalidRecurrencePattern) {
		t.Fatalf("ожидалась ErrInvalidRecurrencePattern, получено %v", err)
	}
}

func testAvailability(start, end string, slotDuration, breakDuration int) domain.Availability {
	return domain.Availability{
		ID:              uuid.New(),
		ProviderID:      uuid.New(),
		Date:            date(2025, time.June, 2),
		StartTime:       start,
		EndTime:         end,
		SlotDuration:    slotDuration,
		BreakDuration:   breakDuration,
		AppointmentType: domain.AppointmentTypeConsultation,
	}
}

func TestGenerateSlotsExactFit(t *testing.T) {
	av := testAvailability("09:00", "10:00", 30, 0)

	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	slots, err := generateSlots(av, time.UTC, now)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if len(slots) != 2 {
		t.Fatalf("ожидалось 2 слота, получено %d", len(slots))
	}

	first := slots[0]
	if first.SlotStartTime.Hour() != 9 || first.SlotStartTime.Minute() != 0 {
		t.Errorf("начало первого слота: %v", first.SlotStartTime)
	}
	if first.SlotEndTime.Hour() != 9 || first.SlotEndTime.Minute() != 30 {
		t.Errorf("конец первого слота: %v", first.SlotEndTime)
	}

	second := slots[1]
	if second.SlotStartTime.Hour() != 9 || second.SlotStartTime.Minute() != 30 {
		t.Errorf("начало второго слота: %v", second.SlotStartTime)
	}
	if second.SlotEndTime.Hour() != 10 || second.SlotEndTime.Minute() != 0 {
		t.Errorf("конец второго слота: %v", second.SlotEndTime)
	}
}

func TestGenerateSlotsDiscardsPartialTrailingSlot(t *testing.T) {
	av := testAvailability("09:00", "10:00", 30, 15)

	slots, err := generateSlots(av, time.UTC, time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	// Второй слот начинался бы в 09:45 и кончался в 10:15, за границей окна.
	if len(slots) != 1 {
		t.Fatalf("ожидался 1 слот, получено %d", len(slots))
	}
}

func TestGenerateSlotsInheritFields(t *testing.T) {
	av := testAvailability("10:00", "11:00", 60, 0)

	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	slots, err := generateSlots(av, time.UTC, now)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("ожидался 1 слот, получено %d", len(slots))
	}

	slot := slots[0]
	if slot.AvailabilityID != av.ID {
		t.Errorf("availability_id не унаследован")
	}
	if slot.ProviderID != av.ProviderID {
		t.Errorf("provider_id не унаследован")
	}
	if slot.AppointmentType != av.AppointmentType {
		t.Errorf("тип приема не унаследован")
	}
	if slot.Status != domain.SlotStatusAvailable {
		t.Errorf("новый слот должен быть AVAILABLE, получен %s", slot.Status)
	}
	if slot.PatientID != nil || slot.BookingReference != nil {
		t.Errorf("новый слот не должен иметь пациента и номера брони")
	}
	if !slot.CreatedAt.Equal(now) || !slot.UpdatedAt.Equal(now) {
		t.Errorf("метки времени должны браться из переданных часов: %v / %v", slot.CreatedAt, slot.UpdatedAt)
	}
}

func TestGenerateSlotsWallClockOverDSTTransition(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("нет базы часовых поясов: %v", err)
	}

	av := testAvailability("01:00", "04:00", 60, 0)
	av.Date = date(2025, time.March, 9)

	slots, err := generateSlots(av, loc, time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	// Слоты считаются по настенным часам, перевод часов не добавляет и не
	// убирает слоты.
	if len(slots) != 3 {
		t.Fatalf("ожидалось 3 слота, получено %d", len(slots))
	}

	real := slots[len(slots)-1].SlotEndTime.Sub(slots[0].SlotStartTime)
	if real != 2*time.Hour {
		t.Errorf("реальная длительность окна при переводе часов: %v", real)
	}
}
