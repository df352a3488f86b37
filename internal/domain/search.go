package domain

import "github.com/google/uuid"

type SearchCriteria struct {
	Date            *string  `json:"date,omitempty"`
	StartDate       *string  `json:"start_date,omitempty"`
	EndDate         *string  `json:"end_date,omitempty"`
	Specialization  *string  `json:"specialization,omitempty"`
	AppointmentType *string  `json:"appointment_type,omitempty"`
	InsuranceAccepted *bool  `json:"insurance_accepted,omitempty"`
	MaxPrice        *float64 `json:"max_price,omitempty"`
}

type ProviderSummary struct {
	ID                uuid.UUID `json:"id"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	Specialization    string    `json:"specialization"`
	YearsOfExperience int       `json:"years_of_experience"`
	ClinicAddress     ClinicAddress `json:"clinic_address"`
}

type ProviderSearchResult struct {
	Provider ProviderSummary `json:"provider"`
	Slots    []SlotInfo      `json:"slots"`
}

type SearchResult struct {
	Criteria     SearchCriteria         `json:"search_criteria"`
	TotalResults int                    `json:"total_results"`
	Results      []ProviderSearchResult `json:"results"`
}
