package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "AVAILABLE"
	SlotStatusBooked    SlotStatus = "BOOKED"
	SlotStatusCancelled SlotStatus = "CANCELLED"
	SlotStatusBlocked   SlotStatus = "BLOCKED"
)

// AppointmentSlot — один дискретный слот записи, порожденный окном приема.
// PatientID и BookingReference заполнены только в статусе BOOKED.
type AppointmentSlot struct {
	ID               uuid.UUID       `json:"id"`
	AvailabilityID   uuid.UUID       `json:"availability_id"`
	ProviderID       uuid.UUID       `json:"provider_id"`
	SlotStartTime    time.Time       `json:"slot_start_time"`
	SlotEndTime      time.Time       `json:"slot_end_time"`
	Status           SlotStatus      `json:"status"`
	PatientID        *uuid.UUID      `json:"patient_id,omitempty"`
	AppointmentType  AppointmentType `json:"appointment_type"`
	BookingReference *string         `json:"booking_reference,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

type UpdateSlotDTO struct {
	StartTime       *string  `json:"start_time,omitempty"`
	EndTime         *string  `json:"end_time,omitempty"`
	Status          *string  `json:"status,omitempty"`
	AppointmentType *string  `json:"appointment_type,omitempty"`
	Notes           *string  `json:"notes,omitempty"`
	Pricing         *Pricing `json:"pricing,omitempty"`
}

type SlotFilter struct {
	ProviderID *uuid.UUID  `json:"provider_id"`
	PatientID  *uuid.UUID  `json:"patient_id"`
	Status     *SlotStatus `json:"status"`
	From       *time.Time  `json:"from"`
	To         *time.Time  `json:"to"`
	Limit      int         `json:"limit"`
	Offset     int         `json:"offset"`
}

func ParseSlotStatus(s string) (SlotStatus, error) {
	switch SlotStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case SlotStatusAvailable:
		return SlotStatusAvailable, nil
	case SlotStatusBooked:
		return SlotStatusBooked, nil
	case SlotStatusCancelled:
		return SlotStatusCancelled, nil
	case SlotStatusBlocked:
		return SlotStatusBlocked, nil
	default:
		return "", fmt.Errorf("неизвестный статус слота: %q", s)
	}
}
