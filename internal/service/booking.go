package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"healthfirst/internal/domain"
	"healthfirst/internal/redis"
	"healthfirst/internal/repository"
)

type BookingServiceImpl struct {
	slotRepo         repository.SlotRepository
	availabilityRepo repository.AvailabilityRepository
	patientRepo      repository.PatientRepository
	locker           redis.Locker
	logger           *zap.Logger
	now              func() time.Time
}

func NewBookingService(
	slotRepo repository.SlotRepository,
	availabilityRepo repository.AvailabilityRepository,
	patientRepo repository.PatientRepository,
	locker redis.Locker,
	logger *zap.Logger,
) *BookingServiceImpl {
	return &BookingServiceImpl{
		slotRepo:         slotRepo,
		availabilityRepo: availabilityRepo,
		patientRepo:      patientRepo,
		locker:           locker,
		logger:           logger,
		now:              time.Now,
	}
}

// newBookingReference собирает человекочитаемый номер брони вида
// REF-<millis>-<uuid8>.
func (s *BookingServiceImpl) newBookingReference() string {
	return fmt.Sprintf("REF-%d-%s", s.now().UnixMilli(), uuid.NewString()[:8])
}

// Book бронирует слот за пациентом. Гарантию единственного победителя дает
// условное обновление в репозитории; блокировка в Redis лишь отсеивает
// конкурентов до запроса к базе.
func (s *BookingServiceImpl) Book(ctx context.Context, slotID, patientID uuid.UUID) (*domain.AppointmentSlot, error) {
	patient, err := s.patientRepo.GetByID(ctx, patientID)
	if err != nil {
		s.logger.Error("ошибка получения пациента", zap.Error(err))
		return nil, fmt.Errorf("ошибка получения пациента: %w", err)
	}
	if patient == nil {
		return nil, fmt.Errorf("%w: пациент %s", domain.ErrNotFound, patientID)
	}

	var booked *domain.AppointmentSlot

	err = s.locker.WithSlotLock(ctx, slotID, func(ctx context.Context) error {
		slot, err := s.slotRepo.GetByID(ctx, slotID)
		if err != nil {
			return fmt.Errorf("ошибка получения слота: %w", err)
		}
		if slot == nil {
			return fmt.Errorf("%w: слот %s", domain.ErrNotFound, slotID)
		}
		if slot.Status != domain.SlotStatusAvailable {
			return domain.ErrSlotNotAvailable
		}

		booked, err = s.slotRepo.BookIfAvailable(ctx, slotID, patientID, s.newBookingReference())
		if err != nil {
			return err
		}
		if booked == nil {
			return domain.ErrSlotNotAvailable
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, redis.ErrLockNotAcquired) {
			return nil, domain.ErrSlotNotAvailable
		}
		return nil, err
	}

	s.logger.Info("слот забронирован",
		zap.String("slot_id", slotID.String()),
		zap.String("patient_id", patientID.String()),
		zap.Stringp("booking_reference", booked.BookingReference),
	)

	return booked, nil
}

// Cancel отменяет бронирование. Разрешен только переход BOOKED -> CANCELLED,
// для слота в любом другом статусе возвращается конфликт.
func (s *BookingServiceImpl) Cancel(ctx context.Context, slotID uuid.UUID) (*domain.AppointmentSlot, error) {
	slot, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		s.logger.Error("ошибка получения слота", zap.Error(err))
		return nil, fmt.Errorf("ошибка получения слота: %w", err)
	}
	if slot == nil {
		return nil, fmt.Errorf("%w: слот %s", domain.ErrNotFound, slotID)
	}

	cancelled, err := s.slotRepo.CancelIfBooked(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if cancelled == nil {
		return nil, domain.ErrSlotNotBooked
	}

	s.logger.Info("бронирование отменено", zap.String("slot_id", slotID.String()))

	return cancelled, nil
}

// UpdateSlot частично обновляет слот. Перевод в BOOKED напрямую запрещен,
// бронирование выполняется только операцией Book. При уходе из BOOKED в любой
// другой статус привязка к пациенту и номер брони очищаются.
func (s *BookingServiceImpl) UpdateSlot(ctx context.Context, slotID uuid.UUID, dto domain.UpdateSlotDTO) (*domain.AppointmentSlot, error) {
	slot, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		s.logger.Error("ошибка получения слота", zap.Error(err))
		return nil, fmt.Errorf("ошибка получения слота: %w", err)
	}
	if slot == nil {
		return nil, fmt.Errorf("%w: слот %s", domain.ErrNotFound, slotID)
	}

	availability, err := s.availabilityRepo.GetByID(ctx, slot.AvailabilityID)
	if err != nil {
		s.logger.Error("ошибка получения окна приема", zap.Error(err))
		return nil, fmt.Errorf("ошибка получения окна приема: %w", err)
	}
	if availability == nil {
		return nil, fmt.Errorf("%w: окно приема %s", domain.ErrNotFound, slot.AvailabilityID)
	}

	if dto.Status != nil {
		status, err := domain.ParseSlotStatus(*dto.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		if status == domain.SlotStatusBooked && slot.Status != domain.SlotStatusBooked {
			return nil, fmt.Errorf("%w: перевод в BOOKED выполняется только бронированием", domain.ErrValidation)
		}
		if slot.Status == domain.SlotStatusBooked && status != domain.SlotStatusBooked {
			slot.PatientID = nil
			slot.BookingReference = nil
		}
		slot.Status = status
	}

	if dto.AppointmentType != nil {
		appointmentType, err := domain.ParseAppointmentType(*dto.AppointmentType)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		slot.AppointmentType = appointmentType
	}

	if dto.StartTime != nil || dto.EndTime != nil {
		loc, err := time.LoadLocation(availability.Timezone)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidTimezone, availability.Timezone)
		}

		if dto.StartTime != nil {
			start, err := withWallTime(slot.SlotStartTime, *dto.StartTime, loc)
			if err != nil {
				return nil, err
			}
			slot.SlotStartTime = start
		}
		if dto.EndTime != nil {
			end, err := withWallTime(slot.SlotEndTime, *dto.EndTime, loc)
			if err != nil {
				return nil, err
			}
			slot.SlotEndTime = end
		}
		if !slot.SlotStartTime.Before(slot.SlotEndTime) {
			return nil, domain.ErrInvalidTimeRange
		}
	}

	updated, err := s.slotRepo.Update(ctx, *slot)
	if err != nil {
		s.logger.Error("ошибка обновления слота", zap.Error(err))
		return nil, fmt.Errorf("ошибка обновления слота: %w", err)
	}
	if updated == nil {
		return nil, fmt.Errorf("%w: слот %s", domain.ErrNotFound, slotID)
	}

	// Запись в окно приема идет отдельно от записи слота: при ошибке здесь
	// изменения слота уже зафиксированы, повторный вызов безопасен.
	if dto.Notes != nil || dto.Pricing != nil {
		if err := s.availabilityRepo.UpdateNotesAndPricing(ctx, availability.ID, dto.Notes, dto.Pricing); err != nil {
			s.logger.Error("ошибка обновления окна приема", zap.Error(err))
			return nil, fmt.Errorf("ошибка обновления окна приема: %w", err)
		}
	}

	return updated, nil
}

// withWallTime заменяет настенное время момента, сохраняя календарную дату в
// зоне окна приема.
func withWallTime(instant time.Time, wall string, loc *time.Location) (time.Time, error) {
	parsed, err := time.Parse(timeLayout, wall)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: время должно быть в формате HH:MM", domain.ErrInvalidFormat)
	}

	local := instant.In(loc)
	year, month, day := local.Date()

	return time.Date(year, month, day, parsed.Hour(), parsed.Minute(), 0, 0, loc), nil
}

// DeleteSlot удаляет слот. При deleteRecurring удаляется все окно приема
// вместе со всеми его слотами. Если среди удаляемых есть забронированный,
// операция отклоняется целиком и ничего не удаляется.
func (s *BookingServiceImpl) DeleteSlot(ctx context.Context, slotID uuid.UUID, deleteRecurring bool, reason string) error {
	slot, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		s.logger.Error("ошибка получения слота", zap.Error(err))
		return fmt.Errorf("ошибка получения слота: %w", err)
	}
	if slot == nil {
		return fmt.Errorf("%w: слот %s", domain.ErrNotFound, slotID)
	}

	if !deleteRecurring {
		if slot.Status == domain.SlotStatusBooked {
			return domain.ErrCannotDeleteBooked
		}

		if err := s.slotRepo.Delete(ctx, slot.ID); err != nil {
			s.logger.Error("ошибка удаления слота", zap.Error(err))
			return fmt.Errorf("ошибка удаления слота: %w", err)
		}

		s.logger.Info("слот удален",
			zap.String("slot_id", slotID.String()),
			zap.String("reason", reason),
		)

		return nil
	}

	siblings, err := s.slotRepo.GetByAvailabilityID(ctx, slot.AvailabilityID)
	if err != nil {
		s.logger.Error("ошибка получения слотов окна приема", zap.Error(err))
		return fmt.Errorf("ошибка получения слотов окна приема: %w", err)
	}

	for _, sibling := range siblings {
		if sibling.Status == domain.SlotStatusBooked {
			return domain.ErrCannotDeleteBooked
		}
	}

	if err := s.availabilityRepo.DeleteCascade(ctx, slot.AvailabilityID); err != nil {
		s.logger.Error("ошибка удаления окна приема", zap.Error(err))
		return fmt.Errorf("ошибка удаления окна приема: %w", err)
	}

	s.logger.Info("окно приема удалено вместе со слотами",
		zap.String("slot_id", slotID.String()),
		zap.String("availability_id", slot.AvailabilityID.String()),
		zap.Int("slots", len(siblings)),
		zap.String("reason", reason),
	)

	return nil
}
