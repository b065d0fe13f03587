package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"parking_manager/internal/domain"
	"parking_manager/internal/repository"
)

type pgParkingRepository struct {
	db *sql.DB
}

func NewPgParkingRepository(db *sql.DB) repository.ParkingRepository {
	return &pgParkingRepository{db: db}
}

func (r *pgParkingRepository) Create(ctx context.Context, parking *domain.Parking) (*domain.Parking, error) {
	query := `INSERT INTO parkings (user_id, area_id, name, location, size, status, created_at, updated_at)
	           VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	           RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		parking.UserID, parking.AreaID, parking.Name,
		sql.NullString{String: parking.Location, Valid: parking.Location != ""},
		parking.Size, parking.Status,
	).Scan(&parking.ID, &parking.CreatedAt, &parking.UpdatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "foreign_key_violation" {
			return nil, fmt.Errorf("%w: area %d does not exist", repository.ErrNotFound, parking.AreaID)
		}
		return nil, fmt.Errorf("ParkingRepository.Create: %w", err)
	}
	parking.CreatedAt = parking.CreatedAt.In(time.UTC)
	parking.UpdatedAt = parking.UpdatedAt.In(time.UTC)
	return parking, nil
}

func (r *pgParkingRepository) FindByID(ctx context.Context, id int) (*domain.Parking, error) {
	parking := &domain.Parking{}
	var location sql.NullString
	query := `SELECT id, user_id, area_id, name, location, size, status, created_at, updated_at
	           FROM parkings WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&parking.ID, &parking.UserID, &parking.AreaID, &parking.Name, &location,
		&parking.Size, &parking.Status, &parking.CreatedAt, &parking.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("ParkingRepository.FindByID: %w", err)
	}
	if location.Valid {
		parking.Location = location.String
	}
	parking.CreatedAt = parking.CreatedAt.In(time.UTC)
	parking.UpdatedAt = parking.UpdatedAt.In(time.UTC)
	return parking, nil
}

func (r *pgParkingRepository) FindAll(ctx context.Context) ([]domain.Parking, error) {
	return r.findMany(ctx, `SELECT id, user_id, area_id, name, location, size, status, created_at, updated_at
	           FROM parkings ORDER BY id`)
}

func (r *pgParkingRepository) FindByAreaID(ctx context.Context, areaID int) ([]domain.Parking, error) {
	return r.findMany(ctx, `SELECT id, user_id, area_id, name, location, size, status, created_at, updated_at
	           FROM parkings WHERE area_id = $1 ORDER BY id`, areaID)
}

func (r *pgParkingRepository) findMany(ctx context.Context, query string, args ...interface{}) ([]domain.Parking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ParkingRepository.findMany: %w", err)
	}
	defer rows.Close()

	var parkings []domain.Parking
	for rows.Next() {
		var parking domain.Parking
		var location sql.NullString
		if err := rows.Scan(
			&parking.ID, &parking.UserID, &parking.AreaID, &parking.Name, &location,
			&parking.Size, &parking.Status, &parking.CreatedAt, &parking.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ParkingRepository.findMany (scanning row): %w", err)
		}
		if location.Valid {
			parking.Location = location.String
		}
		parking.CreatedAt = parking.CreatedAt.In(time.UTC)
		parking.UpdatedAt = parking.UpdatedAt.In(time.UTC)
		parkings = append(parkings, parking)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("ParkingRepository.findMany (rows error): %w", err)
	}
	return parkings, nil
}

func (r *pgParkingRepository) Update(ctx context.Context, parking *domain.Parking) (*domain.Parking, error) {
	query := `UPDATE parkings
	           SET area_id = $1, name = $2, location = $3, size = $4, status = $5, updated_at = CURRENT_TIMESTAMP
	           WHERE id = $6 RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query,
		parking.AreaID, parking.Name,
		sql.NullString{String: parking.Location, Valid: parking.Location != ""},
		parking.Size, parking.Status, parking.ID,
	).Scan(&parking.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("ParkingRepository.Update: %w", err)
	}
	parking.UpdatedAt = parking.UpdatedAt.In(time.UTC)
	return parking, nil
}

func (r *pgParkingRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM parkings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ParkingRepository.Delete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ParkingRepository.Delete (checking rows affected): %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
