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

const providerColumns = `
	id, first_name, last_name, email, phone_number, password_hash,
	specialization, license_number, years_of_experience,
	clinic_street, clinic_city, clinic_state, clinic_zip,
	verification_status, license_document_url, is_active, created_at, updated_at
`

type ProviderRepo struct {
	db *pgxpool.Pool
}

func NewProviderRepository(db *pgxpool.Pool) ProviderRepository {
	return &ProviderRepo{db: db}
}

func (r *ProviderRepo) Create(ctx context.Context, provider domain.Provider) error {
	query := `
		INSERT INTO providers (
			id, first_name, last_name, email, phone_number, password_hash,
			specialization, license_number, years_of_experience,
			clinic_street, clinic_city, clinic_state, clinic_zip,
			verification_status, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := r.db.Exec(
		ctx,
		query,
		provider.ID,
		provider.FirstName,
		provider.LastName,
		provider.Email,
		provider.PhoneNumber,
		provider.PasswordHash,
		provider.Specialization,
		provider.LicenseNumber,
		provider.YearsOfExperience,
		provider.ClinicAddress.Street,
		provider.ClinicAddress.City,
		provider.ClinicAddress.State,
		provider.ClinicAddress.Zip,
		provider.VerificationStatus,
		provider.IsActive,
		provider.CreatedAt,
		provider.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("ошибка создания врача: %w", err)
	}

	return nil
}

func (r *ProviderRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Provider, error) {
	query := `SELECT ` + providerColumns + ` FROM providers WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

func (r *ProviderRepo) GetByEmail(ctx context.Context, email string) (*domain.Provider, error) {
	query := `SELECT ` + providerColumns + ` FROM providers WHERE email = $1`
	return r.scanOne(ctx, query, email)
}

func (r *ProviderRepo) GetByPhone(ctx context.Context, phone string) (*domain.Provider, error) {
	query := `SELECT ` + providerColumns + ` FROM providers WHERE phone_number = $1`
	return r.scanOne(ctx, query, phone)
}

func (r *ProviderRepo) GetByLicenseNumber(ctx context.Context, licenseNumber string) (*domain.Provider, error) {
	query := `SELECT ` + providerColumns + ` FROM providers WHERE license_number = $1`
	return r.scanOne(ctx, query, licenseNumber)
}

func (r *ProviderRepo) scanOne(ctx context.Context, query string, arg interface{}) (*domain.Provider, error) {
	var provider domain.Provider
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&provider.ID,
		&provider.FirstName,
		&provider.LastName,
		&provider.Email,
		&provider.PhoneNumber,
		&provider.PasswordHash,
		&provider.Specialization,
		&provider.LicenseNumber,
		&provider.YearsOfExperience,
		&provider.ClinicAddress.Street,
		&provider.ClinicAddress.City,
		&provider.ClinicAddress.State,
		&provider.ClinicAddress.Zip,
		&provider.VerificationStatus,
		&provider.LicenseDocumentURL,
		&provider.IsActive,
		&provider.CreatedAt,
		&provider.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка получения врача: %w", err)
	}

	return &provider, nil
}

func (r *ProviderRepo) GetAllByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Provider, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + providerColumns + ` FROM providers WHERE id = ANY($1)`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка врачей: %w", err)
	}
	defer rows.Close()

	return scanProviders(rows)
}

func (r *ProviderRepo) UpdateVerificationStatus(ctx context.Context, id uuid.UUID, status domain.VerificationStatus) error {
	query := `UPDATE providers SET verification_status = $1, updated_at = now() WHERE id = $2`

	tag, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("ошибка обновления статуса верификации: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *ProviderRepo) UpdateLicenseDocument(ctx context.Context, id uuid.UUID, documentURL string) error {
	query := `UPDATE providers SET license_document_url = $1, updated_at = now() WHERE id = $2`

	tag, err := r.db.Exec(ctx, query, documentURL, id)
	if err != nil {
		return fmt.Errorf("ошибка сохранения документа лицензии: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *ProviderRepo) List(ctx context.Context, filter domain.ProviderFilter) ([]domain.Provider, int, error) {
	countQuery := `SELECT COUNT(*) FROM providers WHERE is_active = true`
	selectQuery := `SELECT ` + providerColumns + ` FROM providers WHERE is_active = true`

	var conditions string
	var args []interface{}
	argPos := 1

	if filter.Specialization != nil {
		conditions += fmt.Sprintf(" AND lower(specialization) = lower($%d)", argPos)
		args = append(args, *filter.Specialization)
		argPos++
	}

	if filter.City != nil {
		conditions += fmt.Sprintf(" AND clinic_city = $%d", argPos)
		args = append(args, *filter.City)
		argPos++
	}

	if filter.State != nil {
		conditions += fmt.Sprintf(" AND clinic_state = $%d", argPos)
		args = append(args, *filter.State)
		argPos++
	}

	if filter.VerificationStatus != nil {
		conditions += fmt.Sprintf(" AND verification_status = $%d", argPos)
		args = append(args, *filter.VerificationStatus)
		argPos++
	}

	countQuery += conditions
	selectQuery += conditions

	selectQuery += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, filter.Limit, filter.Offset)

	var total int
	err := r.db.QueryRow(ctx, countQuery, args[:argPos-1]...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения количества врачей: %w", err)
	}

	rows, err := r.db.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения списка врачей: %w", err)
	}
	defer rows.Close()

	providers, err := scanProviders(rows)
	if err != nil {
		return nil, 0, err
	}

	return providers, total, nil
}

func scanProviders(rows pgx.Rows) ([]domain.Provider, error) {
	var providers []domain.Provider
	for rows.Next() {
		var provider domain.Provider
		err := rows.Scan(
			&provider.ID,
			&provider.FirstName,
			&provider.LastName,
			&provider.Email,
			&provider.PhoneNumber,
			&provider.PasswordHash,
			&provider.Specialization,
			&provider.LicenseNumber,
			&provider.YearsOfExperience,
			&provider.ClinicAddress.Street,
			&provider.ClinicAddress.City,
			&provider.ClinicAddress.State,
			&provider.ClinicAddress.Zip,
			&provider.VerificationStatus,
			&provider.LicenseDocumentURL,
			&provider.IsActive,
			&provider.CreatedAt,
			&provider.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки врача: %w", err)
		}
		providers = append(providers, provider)
	}

	return providers, nil
}
