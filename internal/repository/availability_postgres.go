package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"healthfirst/internal/domain"
)

const availabilityColumns = `
	id, provider_id, date, start_time, end_time, timezone,
	is_recurring, recurrence_pattern, recurrence_end_date,
	slot_duration, break_duration, status,
	max_appointments_per_slot, current_appointments, appointment_type,
	location_type, location_address, location_room,
	pricing_base_fee, pricing_insurance_accepted, pricing_currency,
	notes, special_requirements, created_at, updated_at
`

type AvailabilityRepo struct {
	db *pgxpool.Pool
}

func NewAvailabilityRepository(db *pgxpool.Pool) AvailabilityRepository {
	return &AvailabilityRepo{db: db}
}

func (r *AvailabilityRepo) CreateWithSlots(ctx context.Context, availabilities []domain.Availability, slots []domain.AppointmentSlot) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	insertAvailability := `
		INSERT INTO availabilities (
			id, provider_id, date, start_time, end_time, timezone,
			is_recurring, recurrence_pattern, recurrence_end_date,
			slot_duration, break_duration, status,
			max_appointments_per_slot, current_appointments, appointment_type,
			location_type, location_address, location_room,
			pricing_base_fee, pricing_insurance_accepted, pricing_currency,
			notes, special_requirements, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25
		)
	`

	for _, av := range availabilities {
		var locType, locAddress, locRoom *string
		if av.Location != nil {
			t := string(av.Location.Type)
			locType = &t
			locAddress = &av.Location.Address
			locRoom = &av.Location.RoomNumber
		}

		var baseFee *float64
		var insurance *bool
		var currency *string
		if av.Pricing != nil {
			baseFee = &av.Pricing.BaseFee
			insurance = &av.Pricing.InsuranceAccepted
			currency = &av.Pricing.Currency
		}

		_, err = tx.Exec(
			ctx,
			insertAvailability,
			av.ID,
			av.ProviderID,
			av.Date,
			av.StartTime,
			av.EndTime,
			av.Timezone,
			av.IsRecurring,
			av.RecurrencePattern,
			av.RecurrenceEndDate,
			av.SlotDuration,
			av.BreakDuration,
			av.Status,
			av.MaxAppointmentsPerSlot,
			av.CurrentAppointments,
			av.AppointmentType,
			locType,
			locAddress,
			locRoom,
			baseFee,
			insurance,
			currency,
			av.Notes,
			av.SpecialRequirements,
			av.CreatedAt,
			av.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("ошибка создания окна приема: %w", err)
		}
	}

	insertSlot := `
		INSERT INTO appointment_slots (
			id, availability_id, provider_id, slot_start_time, slot_end_time,
			status, patient_id, appointment_type, booking_reference, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	for _, slot := range slots {
		_, err = tx.Exec(
			ctx,
			insertSlot,
			slot.ID,
			slot.AvailabilityID,
			slot.ProviderID,
			slot.SlotStartTime,
			slot.SlotEndTime,
			slot.Status,
			slot.PatientID,
			slot.AppointmentType,
			slot.BookingReference,
			slot.CreatedAt,
			slot.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("ошибка создания слота записи: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}

	return nil
}

func (r *AvailabilityRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Availability, error) {
	query := `SELECT ` + availabilityColumns + ` FROM availabilities WHERE id = $1`

	row := r.db.QueryRow(ctx, query, id)
	av, err := scanAvailability(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка получения окна приема: %w", err)
	}

	return av, nil
}

func (r *AvailabilityRepo) GetByProviderAndRange(ctx context.Context, providerID uuid.UUID, startDate, endDate time.Time) ([]domain.Availability, error) {
	query := `
		SELECT ` + availabilityColumns + `
		FROM availabilities
		WHERE provider_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date, start_time
	`

	rows, err := r.db.Query(ctx, query, providerID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения окон приема: %w", err)
	}
	defer rows.Close()

	var availabilities []domain.Availability
	for rows.Next() {
		av, err := scanAvailability(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки окна приема: %w", err)
		}
		availabilities = append(availabilities, *av)
	}

	return availabilities, nil
}

func (r *AvailabilityRepo) List(ctx context.Context, filter domain.AvailabilityFilter) ([]domain.Availability, int, error) {
	countQuery := `SELECT COUNT(*) FROM availabilities WHERE 1=1`
	selectQuery := `SELECT ` + availabilityColumns + ` FROM availabilities WHERE 1=1`

	var conditions string
	var args []interface{}
	argPos := 1

	if filter.ProviderID != nil {
		conditions += fmt.Sprintf(" AND provider_id = $%d", argPos)
		args = append(args, *filter.ProviderID)
		argPos++
	}

	if filter.StartDate != nil {
		conditions += fmt.Sprintf(" AND date >= $%d", argPos)
		args = append(args, *filter.StartDate)
		argPos++
	}

	if filter.EndDate != nil {
		conditions += fmt.Sprintf(" AND date <= $%d", argPos)
		args = append(args, *filter.EndDate)
		argPos++
	}

	if filter.Status != nil {
		conditions += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, *filter.Status)
		argPos++
	}

	countQuery += conditions
	selectQuery += conditions

	selectQuery += fmt.Sprintf(" ORDER BY date, start_time LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, filter.Limit, filter.Offset)

	var total int
	err := r.db.QueryRow(ctx, countQuery, args[:argPos-1]...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения количества окон приема: %w", err)
	}

	rows, err := r.db.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения списка окон приема: %w", err)
	}
	defer rows.Close()

	var availabilities []domain.Availability
	for rows.Next() {
		av, err := scanAvailability(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("ошибка сканирования строки окна приема: %w", err)
		}
		availabilities = append(availabilities, *av)
	}

	return availabilities, total, nil
}

func (r *AvailabilityRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AvailabilityStatus) error {
	query := `UPDATE availabilities SET status = $1, updated_at = now() WHERE id = $2`

	tag, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("ошибка обновления статуса окна приема: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *AvailabilityRepo) UpdateNotesAndPricing(ctx context.Context, id uuid.UUID, notes *string, pricing *domain.Pricing) error {
	query := `UPDATE availabilities SET updated_at = now()`

	var args []interface{}
	argPos := 1

	if notes != nil {
		query += fmt.Sprintf(", notes = $%d", argPos)
		args = append(args, *notes)
		argPos++
	}

	if pricing != nil {
		query += fmt.Sprintf(", pricing_base_fee = $%d, pricing_insurance_accepted = $%d, pricing_currency = $%d",
			argPos, argPos+1, argPos+2)
		args = append(args, pricing.BaseFee, pricing.InsuranceAccepted, pricing.Currency)
		argPos += 3
	}

	query += fmt.Sprintf(" WHERE id = $%d", argPos)
	args = append(args, id)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка обновления окна приема: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *AvailabilityRepo) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `DELETE FROM appointment_slots WHERE availability_id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления слотов окна приема: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM availabilities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления окна приема: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}

	return nil
}

func scanAvailability(row pgx.Row) (*domain.Availability, error) {
	var av domain.Availability
	var locType, locAddress, locRoom *string
	var baseFee *float64
	var insurance *bool
	var currency *string

	err := row.Scan(
		&av.ID,
		&av.ProviderID,
		&av.Date,
		&av.StartTime,
		&av.EndTime,
		&av.Timezone,
		&av.IsRecurring,
		&av.RecurrencePattern,
		&av.RecurrenceEndDate,
		&av.SlotDuration,
		&av.BreakDuration,
		&av.Status,
		&av.MaxAppointmentsPerSlot,
		&av.CurrentAppointments,
		&av.AppointmentType,
		&locType,
		&locAddress,
		&locRoom,
		&baseFee,
		&insurance,
		&currency,
		&av.Notes,
		&av.SpecialRequirements,
		&av.CreatedAt,
		&av.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if locType != nil {
		av.Location = &domain.Location{Type: domain.LocationType(*locType)}
		if locAddress != nil {
			av.Location.Address = *locAddress
		}
		if locRoom != nil {
			av.Location.RoomNumber = *locRoom
		}
	}

	if baseFee != nil {
		av.Pricing = &domain.Pricing{BaseFee: *baseFee}
		if insurance != nil {
			av.Pricing.InsuranceAccepted = *insurance
		}
		if currency != nil {
			av.Pricing.Currency = *currency
		}
	}

	return &av, nil
}
