package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type VerificationStatus string

const (
	VerificationStatusPending  VerificationStatus = "PENDING"
	VerificationStatusVerified VerificationStatus = "VERIFIED"
	VerificationStatusRejected VerificationStatus = "REJECTED"
)

type ClinicAddress struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

type Provider struct {
	ID                 uuid.UUID          `json:"id"`
	FirstName          string             `json:"first_name"`
	LastName           string             `json:"last_name"`
	Email              string             `json:"email"`
	PhoneNumber        string             `json:"phone_number"`
	PasswordHash       string             `json:"-"`
	Specialization     string             `json:"specialization"`
	LicenseNumber      string             `json:"license_number"`
	YearsOfExperience  int                `json:"years_of_experience"`
	ClinicAddress      ClinicAddress      `json:"clinic_address"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	LicenseDocumentURL *string            `json:"license_document_url,omitempty"`
	IsActive           bool               `json:"is_active"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

type RegisterProviderDTO struct {
	FirstName         string        `json:"first_name" binding:"required"`
	LastName          string        `json:"last_name" binding:"required"`
	Email             string        `json:"email" binding:"required"`
	PhoneNumber       string        `json:"phone_number" binding:"required"`
	Password          string        `json:"password" binding:"required"`
	Specialization    string        `json:"specialization" binding:"required"`
	LicenseNumber     string        `json:"license_number" binding:"required"`
	YearsOfExperience int           `json:"years_of_experience"`
	ClinicAddress     ClinicAddress `json:"clinic_address"`
}

func ParseVerificationStatus(s string) (VerificationStatus, error) {
	switch VerificationStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case VerificationStatusPending:
		return VerificationStatusPending, nil
	case VerificationStatusVerified:
		return VerificationStatusVerified, nil
	case VerificationStatusRejected:
		return VerificationStatusRejected, nil
	default:
		return "", fmt.Errorf("неизвестный статус верификации: %q", s)
	}
}

type ProviderFilter struct {
	Specialization     *string             `json:"specialization"`
	City               *string             `json:"city"`
	State              *string             `json:"state"`
	VerificationStatus *VerificationStatus `json:"verification_status"`
	Limit              int                 `json:"limit"`
	Offset             int                 `json:"offset"`
}
