package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"healthfirst/internal/domain"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// expandRecurrence разворачивает шаблон повторения в упорядоченный список
// календарных дат. Обе границы включаются, если шаг попадает на них точно.
func expandRecurrence(startDate, endDate time.Time, pattern domain.RecurrencePattern) ([]time.Time, error) {
	if startDate.After(endDate) {
		return nil, fmt.Errorf("%w: дата начала позже даты окончания", domain.ErrInvalidTimeRange)
	}

	var dates []time.Time
	current := startDate

	for !current.After(endDate) {
		dates = append(dates, current)

		switch pattern {
		case domain.RecurrenceDaily:
			current = current.AddDate(0, 0, 1)
		case domain.RecurrenceWeekly:
			current = current.AddDate(0, 0, 7)
		case domain.RecurrenceMonthly:
			current = current.AddDate(0, 1, 0)
		default:
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRecurrencePattern, pattern)
		}
	}

	return dates, nil
}

// generateSlots материализует дискретные слоты записи для одного окна приема.
// Хвостовой слот, не помещающийся целиком до конца окна, отбрасывается.
//
// Арифметика выполняется по настенным часам в зоне окна: моменты начала и
// конца строятся через time.Date в loc. Перевод часов внутри окна не
// обрабатывается отдельно, поэтому фактическая длительность слота на границе
// DST может отличаться от slot_duration.
func generateSlots(av domain.Availability, loc *time.Location, now time.Time) ([]domain.AppointmentSlot, error) {
	startTime, err := time.Parse(timeLayout, av.StartTime)
	if err != nil {
		return nil, fmt.Errorf("неверный формат времени начала: %w", err)
	}

	endTime, err := time.Parse(timeLayout, av.EndTime)
	if err != nil {
		return nil, fmt.Errorf("неверный формат времени окончания: %w", err)
	}

	year, month, day := av.Date.Date()

	currentMin := startTime.Hour()*60 + startTime.Minute()
	endMin := endTime.Hour()*60 + endTime.Minute()

	var slots []domain.AppointmentSlot
	for currentMin < endMin {
		slotEndMin := currentMin + av.SlotDuration
		if slotEndMin > endMin {
			break
		}

		slotStart := time.Date(year, month, day, currentMin/60, currentMin%60, 0, 0, loc)
		slotEnd := time.Date(year, month, day, slotEndMin/60, slotEndMin%60, 0, 0, loc)

		slots = append(slots, domain.AppointmentSlot{
			ID:              uuid.New(),
			AvailabilityID:  av.ID,
			ProviderID:      av.ProviderID,
			SlotStartTime:   slotStart,
			SlotEndTime:     slotEnd,
			Status:          domain.SlotStatusAvailable,
			AppointmentType: av.AppointmentType,
			CreatedAt:       now,
			UpdatedAt:       now,
		})

		currentMin = slotEndMin + av.BreakDuration
	}

	return slots, nil
}
