package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"healthfirst/internal/domain"
)

const patientColumns = `
	id, first_name, last_name, email, phone_number, password_hash,
	date_of_birth, ssn, gender, blood_type,
	street, city, state, zip,
	emergency_contact_name, emergency_contact_phone, emergency_contact_relationship,
	medical_history, allergies, current_medications,
	verification_status, is_active, created_at, updated_at
`

type PatientRepo struct {
	db *pgxpool.Pool
}

func NewPatientRepository(db *pgxpool.Pool) PatientRepository {
	return &PatientRepo{db: db}
}

func (r *PatientRepo) Create(ctx context.Context, patient domain.Patient) error {
	query := `
		INSERT INTO patients (
			id, first_name, last_name, email, phone_number, password_hash,
			date_of_birth, ssn, gender, blood_type,
			street, city, state, zip,
			emergency_contact_name, emergency_contact_phone, emergency_contact_relationship,
			medical_history, allergies, current_medications,
			verification_status, is_active, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24
		)
	`

	_, err := r.db.Exec(
		ctx,
		query,
		patient.ID,
		patient.FirstName,
		patient.LastName,
		patient.Email,
		patient.PhoneNumber,
		patient.PasswordHash,
		patient.DateOfBirth,
		patient.SSN,
		patient.Gender,
		patient.BloodType,
		patient.Address.Street,
		patient.Address.City,
		patient.Address.State,
		patient.Address.Zip,
		patient.EmergencyContact.Name,
		patient.EmergencyContact.Phone,
		patient.EmergencyContact.Relationship,
		patient.MedicalHistory,
		patient.Allergies,
		patient.CurrentMedications,
		patient.VerificationStatus,
		patient.IsActive,
		patient.CreatedAt,
		patient.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("ошибка создания пациента: %w", err)
	}

	return nil
}

func (r *PatientRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

func (r *PatientRepo) GetByEmail(ctx context.Context, email string) (*domain.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE email = $1`
	return r.scanOne(ctx, query, email)
}

func (r *PatientRepo) GetByPhone(ctx context.Context, phone string) (*domain.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE phone_number = $1`
	return r.scanOne(ctx, query, phone)
}

func (r *PatientRepo) GetBySSN(ctx context.Context, ssn string) (*domain.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE ssn = $1`
	return r.scanOne(ctx, query, ssn)
}

func (r *PatientRepo) UpdateVerificationStatus(ctx context.Context, id uuid.UUID, status domain.VerificationStatus) error {
	query := `UPDATE patients SET verification_status = $1, updated_at = now() WHERE id = $2`

	tag, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("ошибка обновления статуса верификации: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *PatientRepo) scanOne(ctx context.Context, query string, arg interface{}) (*domain.Patient, error) {
	var patient domain.Patient
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&patient.ID,
		&patient.FirstName,
		&patient.LastName,
		&patient.Email,
		&patient.PhoneNumber,
		&patient.PasswordHash,
		&patient.DateOfBirth,
		&patient.SSN,
		&patient.Gender,
		&patient.BloodType,
		&patient.Address.Street,
		&patient.Address.City,
		&patient.Address.State,
		&patient.Address.Zip,
		&patient.EmergencyContact.Name,
		&patient.EmergencyContact.Phone,
		&patient.EmergencyContact.Relationship,
		&patient.MedicalHistory,
		&patient.Allergies,
		&patient.CurrentMedications,
		&patient.VerificationStatus,
		&patient.IsActive,
		&patient.CreatedAt,
		&patient.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка получения пациента: %w", err)
	}

	return &patient, nil
}
