package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"healthfirst/internal/domain"
	"healthfirst/internal/repository"
)

// defaultSearchHorizonMonths — горизонт поиска по умолчанию, когда клиент не
// задал период.
const defaultSearchHorizonMonths = 1

type SearchServiceImpl struct {
	slotRepo         repository.SlotRepository
	availabilityRepo repository.AvailabilityRepository
	providerRepo     repository.ProviderRepository
	logger           *zap.Logger
	now              func() time.Time
}

func NewSearchService(
	slotRepo repository.SlotRepository,
	availabilityRepo repository.AvailabilityRepository,
	providerRepo repository.ProviderRepository,
	logger *zap.Logger,
) *SearchServiceImpl {
	return &SearchServiceImpl{
		slotRepo:         slotRepo,
		availabilityRepo: availabilityRepo,
		providerRepo:     providerRepo,
		logger:           logger,
		now:              time.Now,
	}
}

// SearchAvailableSlots ищет свободные слоты по критериям пациента и
// группирует их по врачам. Период по умолчанию: от текущего момента на месяц
// вперед.
func (s *SearchServiceImpl) SearchAvailableSlots(ctx context.Context, criteria domain.SearchCriteria) (*domain.SearchResult, error) {
	from, to, err := s.resolveRange(criteria)
	if err != nil {
		return nil, err
	}

	var appointmentType *domain.AppointmentType
	if criteria.AppointmentType != nil {
		parsed, err := domain.ParseAppointmentType(*criteria.AppointmentType)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		appointmentType = &parsed
	}

	slots, err := s.slotRepo.ListAvailableInRange(ctx, from, to)
	if err != nil {
		s.logger.Error("ошибка поиска свободных слотов", zap.Error(err))
		return nil, fmt.Errorf("ошибка поиска свободных слотов: %w", err)
	}

	availabilityCache := make(map[uuid.UUID]*domain.Availability)
	slotsByProvider := make(map[uuid.UUID][]domain.AppointmentSlot)

	for _, slot := range slots {
		if appointmentType != nil && slot.AppointmentType != *appointmentType {
			continue
		}

		availability, ok := availabilityCache[slot.AvailabilityID]
		if !ok {
			availability, err = s.availabilityRepo.GetByID(ctx, slot.AvailabilityID)
			if err != nil {
				s.logger.Error("ошибка получения окна приема", zap.Error(err))
				return nil, fmt.Errorf("ошибка получения окна приема: %w", err)
			}
			availabilityCache[slot.AvailabilityID] = availability
		}
		if availability == nil {
			continue
		}

		if !matchesPricing(availability.Pricing, criteria) {
			continue
		}

		slotsByProvider[slot.ProviderID] = append(slotsByProvider[slot.ProviderID], slot)
	}

	providerIDs := make([]uuid.UUID, 0, len(slotsByProvider))
	for id := range slotsByProvider {
		providerIDs = append(providerIDs, id)
	}

	var providers []domain.Provider
	if len(providerIDs) > 0 {
		providers, err = s.providerRepo.GetAllByIDs(ctx, providerIDs)
		if err != nil {
			s.logger.Error("ошибка получения врачей", zap.Error(err))
			return nil, fmt.Errorf("ошибка получения врачей: %w", err)
		}
	}

	result := &domain.SearchResult{
		Criteria: criteria,
		Results:  []domain.ProviderSearchResult{},
	}

	for _, provider := range providers {
		if provider.VerificationStatus != domain.VerificationStatusVerified || !provider.IsActive {
			continue
		}

		if criteria.Specialization != nil &&
			!strings.EqualFold(provider.Specialization, *criteria.Specialization) {
			continue
		}

		providerSlots := slotsByProvider[provider.ID]
		slotInfos := make([]domain.SlotInfo, 0, len(providerSlots))
		for _, slot := range providerSlots {
			loc := time.UTC
			if availability := availabilityCache[slot.AvailabilityID]; availability != nil {
				if parsed, err := time.LoadLocation(availability.Timezone); err == nil {
					loc = parsed
				}
			}
			slotInfos = append(slotInfos, toSlotInfo(slot, loc))
		}

		result.Results = append(result.Results, domain.ProviderSearchResult{
			Provider: domain.ProviderSummary{
				ID:                provider.ID,
				FirstName:         provider.FirstName,
				LastName:          provider.LastName,
				Specialization:    provider.Specialization,
				YearsOfExperience: provider.YearsOfExperience,
				ClinicAddress:     provider.ClinicAddress,
			},
			Slots: slotInfos,
		})
		result.TotalResults += len(slotInfos)
	}

	sort.Slice(result.Results, func(i, j int) bool {
		return result.Results[i].Provider.ID.String() < result.Results[j].Provider.ID.String()
	})

	return result, nil
}

func (s *SearchServiceImpl) resolveRange(criteria domain.SearchCriteria) (time.Time, time.Time, error) {
	if criteria.Date != nil {
		day, err := time.Parse(dateLayout, *criteria.Date)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: дата должна быть в формате YYYY-MM-DD", domain.ErrInvalidFormat)
		}

		return day, day.AddDate(0, 0, 1).Add(-time.Second), nil
	}

	from := s.now()
	to := from.AddDate(0, defaultSearchHorizonMonths, 0)

	if criteria.StartDate != nil {
		parsed, err := time.Parse(dateLayout, *criteria.StartDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: дата начала должна быть в формате YYYY-MM-DD", domain.ErrInvalidFormat)
		}
		from = parsed
		to = from.AddDate(0, defaultSearchHorizonMonths, 0)
	}

	if criteria.EndDate != nil {
		parsed, err := time.Parse(dateLayout, *criteria.EndDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: дата окончания должна быть в формате YYYY-MM-DD", domain.ErrInvalidFormat)
		}
		to = parsed.AddDate(0, 0, 1).Add(-time.Second)
	}

	if from.After(to) {
		return time.Time{}, time.Time{}, domain.ErrInvalidTimeRange
	}

	return from, to, nil
}

func matchesPricing(pricing *domain.Pricing, criteria domain.SearchCriteria) bool {
	if criteria.InsuranceAccepted != nil {
		if pricing == nil || pricing.InsuranceAccepted != *criteria.InsuranceAccepted {
			return false
		}
	}

	if criteria.MaxPrice != nil {
		if pricing == nil || pricing.BaseFee > *criteria.MaxPrice {
			return false
		}
	}

	return true
}
