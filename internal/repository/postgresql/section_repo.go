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

type pgSectionRepository struct {
	db *sql.DB
}

func NewPgSectionRepository(db *sql.DB) repository.SectionRepository {
	return &pgSectionRepository{db: db}
}

func (r *pgSectionRepository) Create(ctx context.Context, section *domain.ParkingSection) (*domain.ParkingSection, error) {
	if section.ID == uuid.Nil {
		section.ID = uuid.New()
	}
	query := `INSERT INTO parking_sections (id, user_id, parking_id, floor, parking_type, capacity, created_at, updated_at)
	           VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	           RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		section.ID, section.UserID, section.ParkingID, section.Floor,
		section.ParkingType, section.Capacity,
	).Scan(&section.CreatedAt, &section.UpdatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "foreign_key_violation" {
			return nil, fmt.Errorf("%w: parking %d does not exist", repository.ErrNotFound, section.ParkingID)
		}
		return nil, fmt.Errorf("SectionRepository.Create: %w", err)
	}
	section.CreatedAt = section.CreatedAt.In(time.UTC)
	section.UpdatedAt = section.UpdatedAt.In(time.UTC)
	return section, nil
}

func (r *pgSectionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ParkingSection, error) {
	section := &domain.ParkingSection{}
	query := `SELECT id, user_id, parking_id, floor, parking_type, capacity, created_at, updated_at
	           FROM parking_sections WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&section.ID, &section.UserID, &section.ParkingID, &section.Floor,
		&section.ParkingType, &section.Capacity, &section.CreatedAt, &section.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("SectionRepository.FindByID: %w", err)
	}
	section.CreatedAt = section.CreatedAt.In(time.UTC)
	section.UpdatedAt = section.UpdatedAt.In(time.UTC)
	return section, nil
}

func (r *pgSectionRepository) FindByParkingID(ctx context.Context, parkingID int) ([]domain.ParkingSection, error) {
	return r.findMany(ctx, `SELECT id, user_id, parking_id, floor, parking_type, capacity, created_at, updated_at
	           FROM parking_sections WHERE parking_id = $1 ORDER BY floor`, parkingID)
}

func (r *pgSectionRepository) FindAll(ctx context.Context) ([]domain.ParkingSection, error) {
	return r.findMany(ctx, `SELECT id, user_id, parking_id, floor, parking_type, capacity, created_at, updated_at
	           FROM parking_sections ORDER BY created_at`)
}

func (r *pgSectionRepository) findMany(ctx context.Context, query string, args ...interface{}) ([]domain.ParkingSection, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("SectionRepository.findMany: %w", err)
	}
	defer rows.Close()

	var sections []domain.ParkingSection
	for rows.Next() {
		var section domain.ParkingSection
		if err := rows.Scan(
			&section.ID, &section.UserID, &section.ParkingID, &section.Floor,
			&section.ParkingType, &section.Capacity, &section.CreatedAt, &section.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("SectionRepository.findMany (scanning row): %w", err)
		}
		section.CreatedAt = section.CreatedAt.In(time.UTC)
		section.UpdatedAt = section.UpdatedAt.In(time.UTC)
		sections = append(sections, section)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("SectionRepository.findMany (rows error): %w", err)
	}
	return sections, nil
}

func (r *pgSectionRepository) Update(ctx context.Context, section *domain.ParkingSection) (*domain.ParkingSection, error) {
	query := `UPDATE parking_sections
	           SET parking_id = $1, floor = $2, parking_type = $3, capacity = $4, updated_at = CURRENT_TIMESTAMP
	           WHERE id = $5 RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query,
		section.ParkingID, section.Floor, section.ParkingType, section.Capacity, section.ID,
	).Scan(&section.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("SectionRepository.Update: %w", err)
	}
	section.UpdatedAt = section.UpdatedAt.In(time.UTC)
	return section, nil
}

func (r *pgSectionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM parking_sections WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("SectionRepository.Delete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("SectionRepository.Delete (checking rows affected): %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
