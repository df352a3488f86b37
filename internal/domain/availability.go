package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type RecurrencePattern string

const (
	RecurrenceDaily   RecurrencePattern = "DAILY"
	RecurrenceWeekly  RecurrencePattern = "WEEKLY"
	RecurrenceMonthly RecurrencePattern = "MONTHLY"
)

type AvailabilityStatus string

const (
	AvailabilityStatusAvailable   AvailabilityStatus = "AVAILABLE"
	AvailabilityStatusBooked      AvailabilityStatus = "BOOKED"
	AvailabilityStatusCancelled   AvailabilityStatus = "CANCELLED"
	AvailabilityStatusBlocked     AvailabilityStatus = "BLOCKED"
	AvailabilityStatusMaintenance AvailabilityStatus = "MAINTENANCE"
)

type AppointmentType string

const (
	AppointmentTypeConsultation AppointmentType = "CONSULTATION"
	AppointmentTypeFollowUp     AppointmentType = "FOLLOW_UP"
	AppointmentTypeEmergency    AppointmentType = "EMERGENCY"
	AppointmentTypeTelemedicine AppointmentType = "TELEMEDICINE"
)

type LocationType string

const (
	LocationTypeClinic       LocationType = "CLINIC"
	LocationTypeHospital     LocationType = "HOSPITAL"
	LocationTypeTelemedicine LocationType = "TELEMEDICINE"
	LocationTypeHomeVisit    LocationType = "HOME_VISIT"
)

type Location struct {
	Type       LocationType `json:"type"`
	Address    string       `json:"address,omitempty"`
	RoomNumber string       `json:"room_number,omitempty"`
}

type Pricing struct {
	BaseFee           float64 `json:"base_fee"`
	InsuranceAccepted bool    `json:"insurance_accepted"`
	Currency          string  `json:"currency"`
}

// Availability — объявленное врачом окно приема на одну календарную дату.
// Слоты записи генерируются из окна при его создании.
type Availability struct {
	ID                     uuid.UUID          `json:"id"`
	ProviderID             uuid.UUID          `json:"provider_id"`
	Date                   time.Time          `json:"date"`
	StartTime              string             `json:"start_time"`
	EndTime                string             `json:"end_time"`
	Timezone               string             `json:"timezone"`
	IsRecurring            bool               `json:"is_recurring"`
	RecurrencePattern      *RecurrencePattern `json:"recurrence_pattern,omitempty"`
	RecurrenceEndDate      *time.Time         `json:"recurrence_end_date,omitempty"`
	SlotDuration           int                `json:"slot_duration"`
	BreakDuration          int                `json:"break_duration"`
	Status                 AvailabilityStatus `json:"status"`
	MaxAppointmentsPerSlot int                `json:"max_appointments_per_slot"`
	CurrentAppointments    int                `json:"current_appointments"`
	AppointmentType        AppointmentType    `json:"appointment_type"`
	Location               *Location          `json:"location,omitempty"`
	Pricing                *Pricing           `json:"pricing,omitempty"`
	Notes                  string             `json:"notes,omitempty"`
	SpecialRequirements    []string           `json:"special_requirements,omitempty"`
	CreatedAt              time.Time          `json:"created_at"`
	UpdatedAt              time.Time          `json:"updated_at"`
}

type CreateAvailabilityDTO struct {
	Date                   string        `json:"date" binding:"required"`
	StartTime              string        `json:"start_time" binding:"required"`
	EndTime                string        `json:"end_time" binding:"required"`
	Timezone               string        `json:"timezone" binding:"required"`
	IsRecurring            bool          `json:"is_recurring"`
	RecurrencePattern      *string       `json:"recurrence_pattern,omitempty"`
	RecurrenceEndDate      *string       `json:"recurrence_end_date,omitempty"`
	SlotDuration           int           `json:"slot_duration" binding:"required"`
	BreakDuration          int           `json:"break_duration"`
	MaxAppointmentsPerSlot int           `json:"max_appointments_per_slot"`
	AppointmentType        string        `json:"appointment_type" binding:"required"`
	Location               *Location     `json:"location,omitempty"`
	Pricing                *Pricing      `json:"pricing,omitempty"`
	Notes                  string        `json:"notes,omitempty"`
	SpecialRequirements    []string      `json:"special_requirements,omitempty"`
}

type AvailabilityFilter struct {
	ProviderID *uuid.UUID          `json:"provider_id"`
	StartDate  *time.Time          `json:"start_date"`
	EndDate    *time.Time          `json:"end_date"`
	Status     *AvailabilityStatus `json:"status"`
	Limit      int                 `json:"limit"`
	Offset     int                 `json:"offset"`
}

type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type SlotInfo struct {
	SlotID          uuid.UUID `json:"slot_id"`
	Date            string    `json:"date"`
	StartTime       string    `json:"start_time"`
	EndTime         string    `json:"end_time"`
	Timezone        string    `json:"timezone"`
	Status          string    `json:"status"`
	AppointmentType string    `json:"appointment_type"`
}

// CreateAvailabilityResult — сводка по созданным окнам. При повторяющемся
// расписании создается несколько окон, но в ответе возвращается ID только
// первого из них.
type CreateAvailabilityResult struct {
	AvailabilityID             uuid.UUID  `json:"availability_id"`
	SlotsCreated               int        `json:"slots_created"`
	DateRange                  DateRange  `json:"date_range"`
	TotalAppointmentsAvailable int        `json:"total_appointments_available"`
	GeneratedSlots             []SlotInfo `json:"generated_slots"`
}

// ParseRecurrencePattern нормализует строку из внешнего запроса в закрытый
// enum. Неизвестные значения отклоняются.
func ParseRecurrencePattern(s string) (RecurrencePattern, error) {
	switch RecurrencePattern(strings.ToUpper(strings.TrimSpace(s))) {
	case RecurrenceDaily:
		return RecurrenceDaily, nil
	case RecurrenceWeekly:
		return RecurrenceWeekly, nil
	case RecurrenceMonthly:
		return RecurrenceMonthly, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRecurrencePattern, s)
	}
}

func ParseAppointmentType(s string) (AppointmentType, error) {
	switch AppointmentType(strings.ToUpper(strings.TrimSpace(s))) {
	case AppointmentTypeConsultation:
		return AppointmentTypeConsultation, nil
	case AppointmentTypeFollowUp:
		return AppointmentTypeFollowUp, nil
	case AppointmentTypeEmergency:
		return AppointmentTypeEmergency, nil
	case AppointmentTypeTelemedicine:
		return AppointmentTypeTelemedicine, nil
	default:
		return "", fmt.Errorf("неизвестный тип приема: %q", s)
	}
}

func ParseAvailabilityStatus(s string) (AvailabilityStatus, error) {
	switch AvailabilityStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case AvailabilityStatusAvailable:
		return AvailabilityStatusAvailable, nil
	case AvailabilityStatusBooked:
		return AvailabilityStatusBooked, nil
	case AvailabilityStatusCancelled:
		return AvailabilityStatusCancelled, nil
	case AvailabilityStatusBlocked:
		return AvailabilityStatusBlocked, nil
	case AvailabilityStatusMaintenance:
		return AvailabilityStatusMaintenance, nil
	default:
		return "", fmt.Errorf("неизвестный статус доступности: %q", s)
	}
}
