package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"parking_manager/internal/domain"
	"parking_manager/internal/repository"
)

type pgSlotRepository struct {
	db *sql.DB
}

func NewPgSlotRepository(db *sql.DB) repository.SlotRepository {
	return &pgSlotRepository{db: db}
}

const slotColumns = `id, section_id, slot_number, slot_type, charging_available, booked, reserved, available, created_at, updated_at`

func (r *pgSlotRepository) Create(ctx context.Context, slot *domain.ParkingSlot) (*domain.ParkingSlot, error) {
	if slot.ID == uuid.Nil {
		slot.ID = uuid.New()
	}
	query := `INSERT INTO parking_slots (id, section_id, slot_number, slot_type, charging_available, booked, reserved, available, created_at, updated_at)
	           VALUES ($1, $2, $3, $4, $5, $6, $7, $8, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	           RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		slot.ID, slot.SectionID, slot.SlotNumber,
		sql.NullString{String: slot.SlotType, Valid: slot.SlotType != ""},
		slot.ChargingAvailable, slot.Booked, slot.Reserved, slot.Available,
	).Scan(&slot.CreatedAt, &slot.UpdatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code.Name() {
			case "unique_violation":
				return nil, fmt.Errorf("%w: slot '%s' already exists in section %s",
					repository.ErrDuplicateEntry, slot.SlotNumber, slot.SectionID)
			case "foreign_key_violation":
				return nil, fmt.Errorf("%w: section %s does not exist", repository.ErrNotFound, slot.SectionID)
			}
		}
		return nil, fmt.Errorf("SlotRepository.Create: %w", err)
	}
	slot.CreatedAt = slot.CreatedAt.In(time.UTC)
	slot.UpdatedAt = slot.UpdatedAt.In(time.UTC)
	return slot, nil
}

func (r *pgSlotRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ParkingSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM parking_slots WHERE id = $1`
	slot, err := r.scanOne(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("SlotRepository.FindByID: %w", err)
	}
	return slot, nil
}

func (r *pgSlotRepository) FindBySectionID(ctx context.Context, sectionID uuid.UUID) ([]domain.ParkingSlot, error) {
	return r.findMany(ctx, `SELECT `+slotColumns+` FROM parking_slots WHERE section_id = $1 ORDER BY slot_number`, sectionID)
}

func (r *pgSlotRepository) FindAll(ctx context.Context) ([]domain.ParkingSlot, error) {
	return r.findMany(ctx, `SELECT `+slotColumns+` FROM parking_slots ORDER BY created_at`)
}

func (r *pgSlotRepository) Update(ctx context.Context, slot *domain.ParkingSlot) (*domain.ParkingSlot, error) {
	query := `UPDATE parking_slots
	           SET section_id = $1, slot_number = $2, slot_type = $3, charging_available = $4,
	               booked = $5, reserved = $6, available = $7, updated_at = CURRENT_TIMESTAMP
	           WHERE id = $8 RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query,
		slot.SectionID, slot.SlotNumber,
		sql.NullString{String: slot.SlotType, Valid: slot.SlotType != ""},
		slot.ChargingAvailable, slot.Booked, slot.Reserved, slot.Available, slot.ID,
	).Scan(&slot.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return nil, fmt.Errorf("%w: slot '%s' already exists in section %s",
				repository.ErrDuplicateEntry, slot.SlotNumber, slot.SectionID)
		}
		return nil, fmt.Errorf("SlotRepository.Update: %w", err)
	}
	slot.UpdatedAt = slot.UpdatedAt.In(time.UTC)
	return slot, nil
}

func (r *pgSlotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM parking_slots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("SlotRepository.Delete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("SlotRepository.Delete (checking rows affected): %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ReserveFirstAvailable flips the slot in the same statement that finds
// it, so the check and the booking cannot interleave with a concurrent
// request. Slots are walked in slot_number order (first-fit).
func (r *pgSlotRepository) ReserveFirstAvailable(ctx context.Context, sectionID uuid.UUID, vehicleSize domain.ParkingSize, needsCharging bool) (*domain.ParkingSlot, error) {
	query := `UPDATE parking_slots
	           SET booked = TRUE, available = FALSE, updated_at = CURRENT_TIMESTAMP
	           WHERE id = (
	               SELECT id FROM parking_slots
	                WHERE section_id = $1
	                  AND available = TRUE
	                  AND booked = FALSE
	                  AND reserved = FALSE
	                  AND (slot_type IS NULL OR slot_type = '' OR slot_type = $2)
	                  AND ($3 = FALSE OR charging_available = TRUE)
	                ORDER BY slot_number
	                LIMIT 1
	                FOR UPDATE SKIP LOCKED
	           )
	           RETURNING ` + slotColumns
	slot, err := r.scanOne(r.db.QueryRowContext(ctx, query, sectionID, string(vehicleSize), needsCharging))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNoCapacity
		}
		return nil, fmt.Errorf("SlotRepository.ReserveFirstAvailable: %w", err)
	}
	return slot, nil
}

func (r *pgSlotRepository) Release(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE parking_slots
	           SET booked = FALSE, available = TRUE, updated_at = CURRENT_TIMESTAMP
	           WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("SlotRepository.Release: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("SlotRepository.Release (checking rows affected): %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *pgSlotRepository) scanOne(row *sql.Row) (*domain.ParkingSlot, error) {
	slot := &domain.ParkingSlot{}
	var slotType sql.NullString
	err := row.Scan(
		&slot.ID, &slot.SectionID, &slot.SlotNumber, &slotType, &slot.ChargingAvailable,
		&slot.Booked, &slot.Reserved, &slot.Available, &slot.CreatedAt, &slot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if slotType.Valid {
		slot.SlotType = slotType.String
	}
	slot.CreatedAt = slot.CreatedAt.In(time.UTC)
	slot.UpdatedAt = slot.UpdatedAt.In(time.UTC)
	return slot, nil
}

func (r *pgSlotRepository) findMany(ctx context.Context, query string, args ...interface{}) ([]domain.ParkingSlot, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("SlotRepository.findMany: %w", err)
	}
	defer rows.Close()

	var slots []domain.ParkingSlot
	for rows.Next() {
		var slot domain.ParkingSlot
		var slotType sql.NullString
		if err := rows.Scan(
			&slot.ID, &slot.SectionID, &slot.SlotNumber, &slotType, &slot.ChargingAvailable,
			&slot.Booked, &slot.Reserved, &slot.Available, &slot.CreatedAt, &slot.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("SlotRepository.findMany (scanning row): %w", err)
		}
		if slotType.Valid {
			slot.SlotType = slotType.String
		}
		slot.CreatedAt = slot.CreatedAt.In(time.UTC)
		slot.UpdatedAt = slot.UpdatedAt.In(time.UTC)
		slots = append(slots, slot)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("SlotRepository.findMany (rows error): %w", err)
	}
	return slots, nil
}
