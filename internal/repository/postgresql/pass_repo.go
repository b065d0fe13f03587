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

type pgPassRepository struct {
	db *sql.DB
}

func NewPgPassRepository(db *sql.DB) repository.PassRepository {
	return &pgPassRepository{db: db}
}

const passColumns = `id, user_id, parking_id, vehicle_id, start_date, end_date, price, created_at, updated_at`

func (r *pgPassRepository) Create(ctx context.Context, pass *domain.Pass) (*domain.Pass, error) {
	if pass.ID == uuid.Nil {
		pass.ID = uuid.New()
	}
	query := `INSERT INTO passes (id, user_id, parking_id, vehicle_id, start_date, end_date, price, created_at, updated_at)
	           VALUES ($1, $2, $3, $4, $5, $6, $7, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	           RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		pass.ID, pass.UserID, pass.ParkingID, pass.VehicleID,
		pass.StartDate, pass.EndDate, pass.Price,
	).Scan(&pass.CreatedAt, &pass.UpdatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "foreign_key_violation" {
			return nil, fmt.Errorf("%w: referenced parking or vehicle does not exist", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("PassRepository.Create: %w", err)
	}
	pass.CreatedAt = pass.CreatedAt.In(time.UTC)
	pass.UpdatedAt = pass.UpdatedAt.In(time.UTC)
	return pass, nil
}

func (r *pgPassRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Pass, error) {
	pass := &domain.Pass{}
	query := `SELECT ` + passColumns + ` FROM passes WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&pass.ID, &pass.UserID, &pass.ParkingID, &pass.VehicleID,
		&pass.StartDate, &pass.EndDate, &pass.Price, &pass.CreatedAt, &pass.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("PassRepository.FindByID: %w", err)
	}
	r.normalize(pass)
	return pass, nil
}

func (r *pgPassRepository) FindByUserID(ctx context.Context, userID int) ([]domain.Pass, error) {
	return r.findMany(ctx, `SELECT `+passColumns+` FROM passes WHERE user_id = $1 ORDER BY start_date DESC`, userID)
}

func (r *pgPassRepository) FindAll(ctx context.Context) ([]domain.Pass, error) {
	return r.findMany(ctx, `SELECT `+passColumns+` FROM passes ORDER BY start_date DESC`)
}

func (r *pgPassRepository) Update(ctx context.Context, pass *domain.Pass) (*domain.Pass, error) {
	query := `UPDATE passes
	           SET parking_id = $1, vehicle_id = $2, start_date = $3, end_date = $4, price = $5, updated_at = CURRENT_TIMESTAMP
	           WHERE id = $6 RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query,
		pass.ParkingID, pass.VehicleID, pass.StartDate, pass.EndDate, pass.Price, pass.ID,
	).Scan(&pass.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("PassRepository.Update: %w", err)
	}
	pass.UpdatedAt = pass.UpdatedAt.In(time.UTC)
	return pass, nil
}

func (r *pgPassRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM passes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("PassRepository.Delete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("PassRepository.Delete (checking rows affected): %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *pgPassRepository) normalize(pass *domain.Pass) {
	pass.StartDate = pass.StartDate.In(time.UTC)
	pass.EndDate = pass.EndDate.In(time.UTC)
	pass.CreatedAt = pass.CreatedAt.In(time.UTC)
	pass.UpdatedAt = pass.UpdatedAt.In(time.UTC)
}

func (r *pgPassRepository) findMany(ctx context.Context, query string, args ...interface{}) ([]domain.Pass, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("PassRepository.findMany: %w", err)
	}
	defer rows.Close()

	var passes []domain.Pass
	for rows.Next() {
		var pass domain.Pass
		if err := rows.Scan(
			&pass.ID, &pass.UserID, &pass.ParkingID, &pass.VehicleID,
			&pass.StartDate, &pass.EndDate, &pass.Price, &pass.CreatedAt, &pass.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("PassRepository.findMany (scanning row): %w", err)
		}
		r.normalize(&pass)
		passes = append(passes, pass)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("PassRepository.findMany (rows error): %w", err)
	}
	return passes, nil
}
