package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"healthfirst/internal/domain"
	"healthfirst/internal/repository"
)

// defaultRecurrenceHorizonMonths — продуктовое правило: если дата окончания
// повторения не указана, окна создаются на 6 месяцев вперед от даты начала.
const defaultRecurrenceHorizonMonths = 6

type AvailabilityServiceImpl struct {
	availabilityRepo repository.AvailabilityRepository
	slotRepo         repository.SlotRepository
	providerRepo     repository.ProviderRepository
	logger           *zap.Logger
	now              func() time.Time
}

func NewAvailabilityService(
	availabilityRepo repository.AvailabilityRepository,
	slotRepo repository.SlotRepository,
	providerRepo repository.ProviderRepository,
	logger *zap.Logger,
) *AvailabilityServiceImpl {
	return &AvailabilityServiceImpl{
		availabilityRepo: availabilityRepo,
		slotRepo:         slotRepo,
		providerRepo:     providerRepo,
		logger:           logger,
		now:              time.Now,
	}
}

func (s *AvailabilityServiceImpl) Create(ctx context.Context, providerID uuid.UUID, dto domain.CreateAvailabilityDTO) (*domain.CreateAvailabilityResult, error) {
	provider, err := s.providerRepo.GetByID(ctx, providerID)
	if err != nil {
		s.logger.Error("ошибка при получении врача", zap.Error(err))
		return nil, fmt.Errorf("ошибка при получении врача: %w", err)
	}
	if provider == nil {
		return nil, fmt.Errorf("%w: врач %s", domain.ErrNotFound, providerID)
	}

	date, err := time.Parse(dateLayout, dto.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: дата должна быть в формате YYYY-MM-DD", domain.ErrInvalidFormat)
	}

	startTime, err := time.Parse(timeLayout, dto.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: время начала должно быть в формате HH:MM", domain.ErrInvalidFormat)
	}

	endTime, err := time.Parse(timeLayout, dto.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: время окончания должно быть в формате HH:MM", domain.ErrInvalidFormat)
	}

	if !startTime.Before(endTime) {
		return nil, domain.ErrInvalidTimeRange
	}

	nowYear, nowMonth, nowDay := s.now().Date()
	today := time.Date(nowYear, nowMonth, nowDay, 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return nil, domain.ErrPastDate
	}

	loc, err := time.LoadLocation(dto.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidTimezone, dto.Timezone)
	}

	appointmentType, err := domain.ParseAppointmentType(dto.AppointmentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if dto.SlotDuration < 15 || dto.SlotDuration > 480 {
		return nil, fmt.Errorf("%w: длительность слота должна быть от 15 до 480 минут", domain.ErrValidation)
	}

	if dto.BreakDuration < 0 || dto.BreakDuration > 120 {
		return nil, fmt.Errorf("%w: длительность перерыва должна быть от 0 до 120 минут", domain.ErrValidation)
	}

	maxPerSlot := dto.MaxAppointmentsPerSlot
	if maxPerSlot == 0 {
		maxPerSlot = 1
	}
	if maxPerSlot < 1 || maxPerSlot > 10 {
		return nil, fmt.Errorf("%w: число записей на слот должно быть от 1 до 10", domain.ErrValidation)
	}

	var dates []time.Time
	var pattern *domain.RecurrencePattern
	var recurrenceEnd *time.Time

	if dto.IsRecurring && dto.RecurrencePattern != nil {
		parsed, err := domain.ParseRecurrencePattern(*dto.RecurrencePattern)
		if err != nil {
			return nil, err
		}
		pattern = &parsed

		endDate := date.AddDate(0, defaultRecurrenceHorizonMonths, 0)
		if dto.RecurrenceEndDate != nil {
			endDate, err = time.Parse(dateLayout, *dto.RecurrenceEndDate)
			if err != nil {
				return nil, fmt.Errorf("%w: дата окончания повторения должна быть в формате YYYY-MM-DD", domain.ErrInvalidFormat)
			}
		}
		recurrenceEnd = &endDate

		dates, err = expandRecurrence(date, endDate, parsed)
		if err != nil {
			return nil, err
		}
	} else {
		dates = []time.Time{date}
	}

	createdAt := s.now()
	availabilities := make([]domain.Availability, 0, len(dates))
	var allSlots []domain.AppointmentSlot

	for _, d := range dates {
		av := domain.Availability{
			ID:                     uuid.New(),
			ProviderID:             providerID,
			Date:                   d,
			StartTime:              dto.StartTime,
			EndTime:                dto.EndTime,
			Timezone:               dto.Timezone,
			IsRecurring:            dto.IsRecurring,
			RecurrencePattern:      pattern,
			RecurrenceEndDate:      recurrenceEnd,
			SlotDuration:           dto.SlotDuration,
			BreakDuration:          dto.BreakDuration,
			Status:                 domain.AvailabilityStatusAvailable,
			MaxAppointmentsPerSlot: maxPerSlot,
			CurrentAppointments:    0,
			AppointmentType:        appointmentType,
			Location:               dto.Location,
			Pricing:                dto.Pricing,
			Notes:                  dto.Notes,
			SpecialRequirements:    dto.SpecialRequirements,
			CreatedAt:              createdAt,
			UpdatedAt:              createdAt,
		}

		slots, err := generateSlots(av, loc, createdAt)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidFormat, err)
		}

		availabilities = append(availabilities, av)
		allSlots = append(allSlots, slots...)
	}

	if err := s.availabilityRepo.CreateWithSlots(ctx, availabilities, allSlots); err != nil {
		s.logger.Error("ошибка сохранения окон приема", zap.Error(err))
		return nil, fmt.Errorf("ошибка сохранения окон приема: %w", err)
	}

	slotInfos := make([]domain.SlotInfo, 0, len(allSlots))
	for _, slot := range allSlots {
		slotInfos = append(slotInfos, toSlotInfo(slot, loc))
	}

	result := &domain.CreateAvailabilityResult{
		AvailabilityID: availabilities[0].ID,
		SlotsCreated:   len(allSlots),
		DateRange: domain.DateRange{
			Start: dates[0],
			End:   dates[len(dates)-1],
		},
		TotalAppointmentsAvailable: len(allSlots),
		GeneratedSlots:             slotInfos,
	}

	s.logger.Info("созданы окна приема",
		zap.String("provider_id", providerID.String()),
		zap.Int("availabilities", len(availabilities)),
		zap.Int("slots", len(allSlots)),
	)

	return result, nil
}

func toSlotInfo(slot domain.AppointmentSlot, loc *time.Location) domain.SlotInfo {
	start := slot.SlotStartTime.In(loc)
	end := slot.SlotEndTime.In(loc)

	return domain.SlotInfo{
		SlotID:          slot.ID,
		Date:            start.Format(dateLayout),
		StartTime:       start.Format(timeLayout),
		EndTime:         end.Format(timeLayout),
		Timezone:        loc.String(),
		Status:          string(slot.Status),
		AppointmentType: string(slot.AppointmentType),
	}
}

func (s *AvailabilityServiceImpl) GetByProviderInRange(ctx context.Context, providerID uuid.UUID, startDate, endDate string) ([]domain.Availability, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return nil, fmt.Errorf("%w: дата начала должна быть в формате YYYY-MM-DD", domain.ErrInvalidFormat)
	}

	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return nil, fmt.Errorf("%w: дата окончания должна быть в формате YYYY-MM-DD", domain.ErrInvalidFormat)
	}

	if start.After(end) {
		return nil, domain.ErrInvalidTimeRange
	}

	availabilities, err := s.availabilityRepo.GetByProviderAndRange(ctx, providerID, start, end)
	if err != nil {
		s.logger.Error("ошибка получения окон приема", zap.Error(err))
		return nil, fmt.Errorf("ошибка получения окон приема: %w", err)
	}

	return availabilities, nil
}

func (s *AvailabilityServiceImpl) List(ctx context.Context, filter domain.AvailabilityFilter) ([]domain.Availability, int, error) {
	availabilities, total, err := s.availabilityRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ошибка получения списка окон приема", zap.Error(err))
		return nil, 0, fmt.Errorf("ошибка получения списка окон приема: %w", err)
	}

	return availabilities, total, nil
}

func (s *AvailabilityServiceImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*domain.Availability, error) {
	parsed, err := domain.ParseAvailabilityStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if err := s.availabilityRepo.UpdateStatus(ctx, id, parsed); err != nil {
		return nil, err
	}

	return s.availabilityRepo.GetByID(ctx, id)
}

// Delete удаляет окно приема вместе со слотами. Если хотя бы один слот окна
// забронирован, удаление отклоняется целиком.
func (s *AvailabilityServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	availability, err := s.availabilityRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения окна приема", zap.Error(err))
		return fmt.Errorf("ошибка получения окна приема: %w", err)
	}
	if availability == nil {
		return fmt.Errorf("%w: окно приема %s", domain.ErrNotFound, id)
	}

	slots, err := s.slotRepo.GetByAvailabilityID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения слотов окна приема", zap.Error(err))
		return fmt.Errorf("ошибка получения слотов окна приема: %w", err)
	}

	for _, slot := range slots {
		if slot.Status == domain.SlotStatusBooked {
			return domain.ErrCannotDeleteBooked
		}
	}

	if err := s.availabilityRepo.DeleteCascade(ctx, id); err != nil {
		s.logger.Error("ошибка удаления окна приема", zap.Error(err))
		return fmt.Errorf("ошибка удаления окна приема: %w", err)
	}

	s.logger.Info("удалено окно приема",
		zap.String("availability_id", id.String()),
		zap.Int("slots", len(slots)),
	)

	return nil
}

func (s *AvailabilityServiceImpl) GetSlots(ctx context.Context, filter domain.SlotFilter) ([]domain.AppointmentSlot, error) {
	slots, err := s.slotRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ошибка получения списка слотов", zap.Error(err))
		return nil, fmt.Errorf("ошибка получения списка слотов: %w", err)
	}

	return slots, nil
}

func (s *AvailabilityServiceImpl) GetAvailableSlots(ctx context.Context, providerID uuid.UUID) ([]domain.AppointmentSlot, error) {
	status := domain.SlotStatusAvailable
	return s.GetSlots(ctx, domain.SlotFilter{ProviderID: &providerID, Status: &status})
}

func (s *AvailabilityServiceImpl) GetSlotByBookingReference(ctx context.Context, reference string) (*domain.AppointmentSlot, error) {
	slot, err := s.slotRepo.GetByBookingReference(ctx, reference)
	if err != nil {
		s.logger.Error("ошибка поиска брони", zap.Error(err))
		return nil, fmt.Errorf("ошибка поиска брони: %w", err)
	}
	if slot == nil {
		return nil, fmt.Errorf("%w: бронь %s", domain.ErrNotFound, reference)
	}

	return slot, nil
}

func (s *AvailabilityServiceImpl) GetUpcomingForProvider(ctx context.Context, providerID uuid.UUID) ([]domain.AppointmentSlot, error) {
	status := domain.SlotStatusBooked
	from := s.now()
	return s.GetSlots(ctx, domain.SlotFilter{ProviderID: &providerID, Status: &status, From: &from})
}

func (s *AvailabilityServiceImpl) GetUpcomingForPatient(ctx context.Context, patientID uuid.UUID) ([]domain.AppointmentSlot, error) {
	status := domain.SlotStatusBooked
	from := s.now()
	return s.GetSlots(ctx, domain.SlotFilter{PatientID: &patientID, Status: &status, From: &from})
}
