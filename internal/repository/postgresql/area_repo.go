package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"parking_manager/internal/domain"
	"parking_manager/internal/repository"
)

type pgAreaRepository struct {
	db *sql.DB
}

func NewPgAreaRepository(db *sql.DB) repository.AreaRepository {
	return &pgAreaRepository{db: db}
}

func (r *pgAreaRepository) Create(ctx context.Context, area *domain.Area) (*domain.Area, error) {
	query := `INSERT INTO areas (name, capacity, created_at, updated_at)
	           VALUES ($1, $2, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	           RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, area.Name, area.Capacity).
		Scan(&area.ID, &area.CreatedAt, &area.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("AreaRepository.Create: %w", err)
	}
	area.CreatedAt = area.CreatedAt.In(time.UTC)
	area.UpdatedAt = area.UpdatedAt.In(time.UTC)
	return area, nil
}

func (r *pgAreaRepository) FindByID(ctx context.Context, id int) (*domain.Area, error) {
	area := &domain.Area{}
	query := `SELECT id, name, capacity, created_at, updated_at FROM areas WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&area.ID, &area.Name, &area.Capacity, &area.CreatedAt, &area.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("AreaRepository.FindByID: %w", err)
	}
	area.CreatedAt = area.CreatedAt.In(time.UTC)
	area.UpdatedAt = area.UpdatedAt.In(time.UTC)
	return area, nil
}

func (r *pgAreaRepository) FindAll(ctx context.Context) ([]domain.Area, error) {
	query := `SELECT id, name, capacity, created_at, updated_at FROM areas ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("AreaRepository.FindAll: %w", err)
	}
	defer rows.Close()

	var areas []domain.Area
	for rows.Next() {
		var area domain.Area
		if err := rows.Scan(&area.ID, &area.Name, &area.Capacity, &area.CreatedAt, &area.UpdatedAt); err != nil {
			return nil, fmt.Errorf("AreaRepository.FindAll (scanning row): %w", err)
		}
		area.CreatedAt = area.CreatedAt.In(time.UTC)
		area.UpdatedAt = area.UpdatedAt.In(time.UTC)
		areas = append(areas, area)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("AreaRepository.FindAll (rows error): %w", err)
	}
	return areas, nil
}

func (r *pgAreaRepository) Update(ctx context.Context, area *domain.Area) (*domain.Area, error) {
	query := `UPDATE areas SET name = $1, capacity = $2, updated_at = CURRENT_TIMESTAMP
	           WHERE id = $3 RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, area.Name, area.Capacity, area.ID).
		Scan(&area.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("AreaRepository.Update: %w", err)
	}
	area.UpdatedAt = area.UpdatedAt.In(time.UTC)
	return area, nil
}

func (r *pgAreaRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM areas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("AreaRepository.Delete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("AreaRepository.Delete (checking rows affected): %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// AllocateFirstFit runs the capacity check-and-decrement as a single
// statement so two concurrent requests can never both pass the check.
// The inner select walks areas in insertion order; SKIP LOCKED lets a
// second transaction move past a row another allocation is holding.
func (r *pgAreaRepository) AllocateFirstFit(ctx context.Context, amount int) (*domain.Area, error) {
	area := &domain.Area{}
	query := `UPDATE areas
	           SET capacity = capacity - $1, updated_at = CURRENT_TIMESTAMP
	           WHERE id = (
	               SELECT id FROM areas
	                WHERE capacity >= $1
	                ORDER BY id
	                LIMIT 1
	                FOR UPDATE SKIP LOCKED
	           )
	           RETURNING id, name, capacity, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, amount).Scan(
		&area.ID, &area.Name, &area.Capacity, &area.CreatedAt, &area.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNoCapacity
		}
		return nil, fmt.Errorf("AreaRepository.AllocateFirstFit: %w", err)
	}
	area.CreatedAt = area.CreatedAt.In(time.UTC)
	area.UpdatedAt = area.UpdatedAt.In(time.UTC)
	return area, nil
}

// AllocateCapacity is the targeted variant: the capacity guard sits in
// the WHERE clause, so a failed check touches nothing.
func (r *pgAreaRepository) AllocateCapacity(ctx context.Context, id int, amount int) (*domain.Area, error) {
	area := &domain.Area{}
	query := `UPDATE areas
	           SET capacity = capacity - $1, updated_at = CURRENT_TIMESTAMP
	           WHERE id = $2 AND capacity >= $1
	           RETURNING id, name, capacity, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, amount, id).Scan(
		&area.ID, &area.Name, &area.Capacity, &area.CreatedAt, &area.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// No row updated: either the area is gone or it cannot
			// cover the amount.
			if _, findErr := r.FindByID(ctx, id); findErr != nil {
				return nil, findErr
			}
			return nil, repository.ErrNoCapacity
		}
		return nil, fmt.Errorf("AreaRepository.AllocateCapacity: %w", err)
	}
	area.CreatedAt = area.CreatedAt.In(time.UTC)
	area.UpdatedAt = area.UpdatedAt.In(time.UTC)
	return area, nil
}

func (r *pgAreaRepository) RestoreCapacity(ctx context.Context, id int, amount int) (*domain.Area, error) {
	area := &domain.Area{}
	query := `UPDATE areas
	           SET capacity = capacity + $1, updated_at = CURRENT_TIMESTAMP
	           WHERE id = $2
	           RETURNING id, name, capacity, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, amount, id).Scan(
		&area.ID, &area.Name, &area.Capacity, &area.CreatedAt, &area.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("AreaRepository.RestoreCapacity: %w", err)
	}
	area.CreatedAt = area.CreatedAt.In(time.UTC)
	area.UpdatedAt = area.UpdatedAt.In(time.UTC)
	return area, nil
}
