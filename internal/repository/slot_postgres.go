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

const slotColumns = `
	id, availability_id, provider_id, slot_start_time, slot_end_time,
	status, patient_id, appointment_type, booking_reference, created_at, updated_at
`

type SlotRepo struct {
	db *pgxpool.Pool
}

func NewSlotRepository(db *pgxpool.Pool) SlotRepository {
	return &SlotRepo{db: db}
}

func (r *SlotRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.AppointmentSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM appointment_slots WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

func (r *SlotRepo) GetByBookingReference(ctx context.Context, reference string) (*domain.AppointmentSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM appointment_slots WHERE booking_reference = $1`
	return r.scanOne(ctx, query, reference)
}

func (r *SlotRepo) scanOne(ctx context.Context, query string, arg interface{}) (*domain.AppointmentSlot, error) {
	row := r.db.QueryRow(ctx, query, arg)
	slot, err := scanSlot(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка получения слота записи: %w", err)
	}

	return slot, nil
}

func (r *SlotRepo) GetByAvailabilityID(ctx context.Context, availabilityID uuid.UUID) ([]domain.AppointmentSlot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM appointment_slots
		WHERE availability_id = $1
		ORDER BY slot_start_time
	`

	rows, err := r.db.Query(ctx, query, availabilityID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения слотов окна приема: %w", err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

func (r *SlotRepo) List(ctx context.Context, filter domain.SlotFilter) ([]domain.AppointmentSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM appointment_slots WHERE 1=1`

	var args []interface{}
	argPos := 1

	if filter.ProviderID != nil {
		query += fmt.Sprintf(" AND provider_id = $%d", argPos)
		args = append(args, *filter.ProviderID)
		argPos++
	}

	if filter.PatientID != nil {
		query += fmt.Sprintf(" AND patient_id = $%d", argPos)
		args = append(args, *filter.PatientID)
		argPos++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, *filter.Status)
		argPos++
	}

	if filter.From != nil {
		query += fmt.Sprintf(" AND slot_start_time >= $%d", argPos)
		args = append(args, *filter.From)
		argPos++
	}

	if filter.To != nil {
		query += fmt.Sprintf(" AND slot_start_time <= $%d", argPos)
		args = append(args, *filter.To)
		argPos++
	}

	query += " ORDER BY slot_start_time"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argPos, argPos+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка слотов: %w", err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

func (r *SlotRepo) ListAvailableInRange(ctx context.Context, from, to time.Time) ([]domain.AppointmentSlot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM appointment_slots
		WHERE status = 'AVAILABLE' AND slot_start_time >= $1 AND slot_start_time <= $2
		ORDER BY slot_start_time
	`

	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска свободных слотов: %w", err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// BookIfAvailable — условное обновление, гарантирующее не более одного
// победителя при конкурентном бронировании одного слота.
func (r *SlotRepo) BookIfAvailable(ctx context.Context, id uuid.UUID, patientID uuid.UUID, bookingReference string) (*domain.AppointmentSlot, error) {
	query := `
		UPDATE appointment_slots
		SET status = 'BOOKED', patient_id = $2, booking_reference = $3, updated_at = now()
		WHERE id = $1 AND status = 'AVAILABLE'
		RETURNING ` + slotColumns

	row := r.db.QueryRow(ctx, query, id, patientID, bookingReference)
	slot, err := scanSlot(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка бронирования слота: %w", err)
	}

	return slot, nil
}

func (r *SlotRepo) CancelIfBooked(ctx context.Context, id uuid.UUID) (*domain.AppointmentSlot, error) {
	query := `
		UPDATE appointment_slots
		SET status = 'CANCELLED', patient_id = NULL, booking_reference = NULL, updated_at = now()
		WHERE id = $1 AND status = 'BOOKED'
		RETURNING ` + slotColumns

	row := r.db.QueryRow(ctx, query, id)
	slot, err := scanSlot(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка отмены бронирования: %w", err)
	}

	return slot, nil
}

func (r *SlotRepo) Update(ctx context.Context, slot domain.AppointmentSlot) (*domain.AppointmentSlot, error) {
	query := `
		UPDATE appointment_slots
		SET slot_start_time = $2, slot_end_time = $3, status = $4,
			patient_id = $5, appointment_type = $6, booking_reference = $7, updated_at = now()
		WHERE id = $1
		RETURNING ` + slotColumns

	row := r.db.QueryRow(
		ctx,
		query,
		slot.ID,
		slot.SlotStartTime,
		slot.SlotEndTime,
		slot.Status,
		slot.PatientID,
		slot.AppointmentType,
		slot.BookingReference,
	)

	updated, err := scanSlot(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка обновления слота: %w", err)
	}

	return updated, nil
}

func (r *SlotRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM appointment_slots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления слота: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func scanSlot(row pgx.Row) (*domain.AppointmentSlot, error) {
	var slot domain.AppointmentSlot
	err := row.Scan(
		&slot.ID,
		&slot.AvailabilityID,
		&slot.ProviderID,
		&slot.SlotStartTime,
		&slot.SlotEndTime,
		&slot.Status,
		&slot.PatientID,
		&slot.AppointmentType,
		&slot.BookingReference,
		&slot.CreatedAt,
		&slot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &slot, nil
}

func scanSlots(rows pgx.Rows) ([]domain.AppointmentSlot, error) {
	var slots []domain.AppointmentSlot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки слота: %w", err)
		}
		slots = append(slots, *slot)
	}

	return slots, nil
}
