package domain

import (
	"time"

	"github.com/google/uuid"
)

type EmergencyContact struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
}

type Patient struct {
	ID                 uuid.UUID          `json:"id"`
	FirstName          string             `json:"first_name"`
	LastName           string             `json:"last_name"`
	Email              string             `json:"email"`
	PhoneNumber        string             `json:"phone_number"`
	PasswordHash       string             `json:"-"`
	DateOfBirth        time.Time          `json:"date_of_birth"`
	SSN                string             `json:"-"`
	Gender             string             `json:"gender"`
	BloodType          string             `json:"blood_type,omitempty"`
	Address            ClinicAddress      `json:"address"`
	EmergencyContact   EmergencyContact   `json:"emergency_contact"`
	MedicalHistory     string             `json:"medical_history,omitempty"`
	Allergies          string             `json:"allergies,omitempty"`
	CurrentMedications string             `json:"current_medications,omitempty"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	IsActive           bool               `json:"is_active"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

type RegisterPatientDTO struct {
	FirstName          string           `json:"first_name" binding:"required"`
	LastName           string           `json:"last_name" binding:"required"`
	Email              string           `json:"email" binding:"required"`
	PhoneNumber        string           `json:"phone_number" binding:"required"`
	Password           string           `json:"password" binding:"required"`
	DateOfBirth        string           `json:"date_of_birth" binding:"required"`
	SSN                string           `json:"ssn" binding:"required"`
	Gender             string           `json:"gender"`
	BloodType          string           `json:"blood_type"`
	Address            ClinicAddress    `json:"address"`
	EmergencyContact   EmergencyContact `json:"emergency_contact"`
	MedicalHistory     string           `json:"medical_history"`
	Allergies          string           `json:"allergies"`
	CurrentMedications string           `json:"current_medications"`
}
