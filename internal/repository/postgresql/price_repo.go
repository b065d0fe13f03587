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

type pgPriceRepository struct {
	db *sql.DB
}

func NewPgPriceRepository(db *sql.DB) repository.PriceRepository {
	return &pgPriceRepository{db: db}
}

const priceColumns = `id, section_id, rate_type, price, vehicle_size, has_charging, created_at, updated_at`

func (r *pgPriceRepository) Create(ctx context.Context, price *domain.ParkingPrice) (*domain.ParkingPrice, error) {
	if price.ID == uuid.Nil {
		price.ID = uuid.New()
	}
	query := `INSERT INTO parking_prices (id, section_id, rate_type, price, vehicle_size, has_charging, created_at, updated_at)
	           VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	           RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		price.ID, price.SectionID, price.RateType, price.Price, price.VehicleSize, price.HasCharging,
	).Scan(&price.CreatedAt, &price.UpdatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "foreign_key_violation" {
			return nil, fmt.Errorf("%w: section %s does not exist", repository.ErrNotFound, price.SectionID)
		}
		return nil, fmt.Errorf("PriceRepository.Create: %w", err)
	}
	price.CreatedAt = price.CreatedAt.In(time.UTC)
	price.UpdatedAt = price.UpdatedAt.In(time.UTC)
	return price, nil
}

func (r *pgPriceRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ParkingPrice, error) {
	price := &domain.ParkingPrice{}
	query := `SELECT ` + priceColumns + ` FROM parking_prices WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&price.ID, &price.SectionID, &price.RateType, &price.Price,
		&price.VehicleSize, &price.HasCharging, &price.CreatedAt, &price.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("PriceRepository.FindByID: %w", err)
	}
	price.CreatedAt = price.CreatedAt.In(time.UTC)
	price.UpdatedAt = price.UpdatedAt.In(time.UTC)
	return price, nil
}

func (r *pgPriceRepository) FindBySectionID(ctx context.Context, sectionID uuid.UUID) ([]domain.ParkingPrice, error) {
	return r.findMany(ctx, `SELECT `+priceColumns+` FROM parking_prices WHERE section_id = $1 ORDER BY created_at DESC`, sectionID)
}

func (r *pgPriceRepository) FindAll(ctx context.Context) ([]domain.ParkingPrice, error) {
	return r.findMany(ctx, `SELECT `+priceColumns+` FROM parking_prices ORDER BY created_at DESC`)
}

// ResolveRate picks one rate row for the lookup key. Duplicate matching
// rows are legal; the newest one wins.
func (r *pgPriceRepository) ResolveRate(ctx context.Context, sectionID uuid.UUID, vehicleSize domain.ParkingSize, hasCharging bool) (*domain.ParkingPrice, error) {
	price := &domain.ParkingPrice{}
	query := `SELECT ` + priceColumns + `
	           FROM parking_prices
	           WHERE section_id = $1 AND vehicle_size = $2 AND has_charging = $3
	           ORDER BY created_at DESC
	           LIMIT 1`
	err := r.db.QueryRowContext(ctx, query, sectionID, vehicleSize, hasCharging).Scan(
		&price.ID, &price.SectionID, &price.RateType, &price.Price,
		&price.VehicleSize, &price.HasCharging, &price.CreatedAt, &price.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("PriceRepository.ResolveRate: %w", err)
	}
	price.CreatedAt = price.CreatedAt.In(time.UTC)
	price.UpdatedAt = price.UpdatedAt.In(time.UTC)
	return price, nil
}

func (r *pgPriceRepository) Update(ctx context.Context, price *domain.ParkingPrice) (*domain.ParkingPrice, error) {
	query := `UPDATE parking_prices
	           SET section_id = $1, rate_type = $2, price = $3, vehicle_size = $4, has_charging = $5, updated_at = CURRENT_TIMESTAMP
	           WHERE id = $6 RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query,
		price.SectionID, price.RateType, price.Price, price.VehicleSize, price.HasCharging, price.ID,
	).Scan(&price.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("PriceRepository.Update: %w", err)
	}
	price.UpdatedAt = price.UpdatedAt.In(time.UTC)
	return price, nil
}

func (r *pgPriceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM parking_prices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("PriceRepository.Delete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("PriceRepository.Delete (checking rows affected): %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *pgPriceRepository) findMany(ctx context.Context, query string, args ...interface{}) ([]domain.ParkingPrice, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("PriceRepository.findMany: %w", err)
	}
	defer rows.Close()

	var prices []domain.ParkingPrice
	for rows.Next() {
		var price domain.ParkingPrice
		if err := rows.Scan(
			&price.ID, &price.SectionID, &price.RateType, &price.Price,
			&price.VehicleSize, &price.HasCharging, &price.CreatedAt, &price.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("PriceRepository.findMany (scanning row): %w", err)
		}
		price.CreatedAt = price.CreatedAt.In(time.UTC)
		price.UpdatedAt = price.UpdatedAt.In(time.UTC)
		prices = append(prices, price)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("PriceRepository.findMany (rows error): %w", err)
	}
	return prices, nil
}
