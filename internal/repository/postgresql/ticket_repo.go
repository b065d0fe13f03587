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

type pgTicketRepository struct {
	db *sql.DB
}

func NewPgTicketRepository(db *sql.DB) repository.TicketRepository {
	return &pgTicketRepository{db: db}
}

const ticketColumns = `id, user_id, slot_id, vehicle_id, price_id, entry_time, exit_time, charge, created_at, updated_at`

func (r *pgTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error) {
	query := `INSERT INTO tickets (user_id, slot_id, vehicle_id, price_id, entry_time, created_at, updated_at)
	           VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	           RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		ticket.UserID, ticket.SlotID, ticket.VehicleID, ticket.PriceID, ticket.EntryTime,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "foreign_key_violation" {
			return nil, fmt.Errorf("%w: referenced slot, vehicle or price does not exist", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("TicketRepository.Create: %w", err)
	}
	ticket.CreatedAt = ticket.CreatedAt.In(time.UTC)
	ticket.UpdatedAt = ticket.UpdatedAt.In(time.UTC)
	return ticket, nil
}

func (r *pgTicketRepository) FindByID(ctx context.Context, id int) (*domain.Ticket, error) {
	ticket := &domain.Ticket{}
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&ticket.ID, &ticket.UserID, &ticket.SlotID, &ticket.VehicleID, &ticket.PriceID,
		&ticket.EntryTime, &ticket.ExitTime, &ticket.Charge, &ticket.CreatedAt, &ticket.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("TicketRepository.FindByID: %w", err)
	}
	r.normalize(ticket)
	return ticket, nil
}

func (r *pgTicketRepository) FindByUserID(ctx context.Context, userID int) ([]domain.Ticket, error) {
	return r.findMany(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE user_id = $1 ORDER BY entry_time DESC`, userID)
}

func (r *pgTicketRepository) FindAll(ctx context.Context) ([]domain.Ticket, error) {
	return r.findMany(ctx, `SELECT `+ticketColumns+` FROM tickets ORDER BY entry_time DESC`)
}

// Update never touches entry_time: it is set once at creation.
func (r *pgTicketRepository) Update(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error) {
	query := `UPDATE tickets
	           SET price_id = $1, exit_time = $2, charge = $3, updated_at = CURRENT_TIMESTAMP
	           WHERE id = $4 RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query,
		ticket.PriceID, ticket.ExitTime, ticket.Charge, ticket.ID,
	).Scan(&ticket.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("TicketRepository.Update: %w", err)
	}
	ticket.UpdatedAt = ticket.UpdatedAt.In(time.UTC)
	return ticket, nil
}

func (r *pgTicketRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tickets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("TicketRepository.Delete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("TicketRepository.Delete (checking rows affected): %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *pgTicketRepository) normalize(ticket *domain.Ticket) {
	ticket.EntryTime = ticket.EntryTime.In(time.UTC)
	if ticket.ExitTime.Valid {
		ticket.ExitTime.Time = ticket.ExitTime.Time.In(time.UTC)
	}
	ticket.CreatedAt = ticket.CreatedAt.In(time.UTC)
	ticket.UpdatedAt = ticket.UpdatedAt.In(time.UTC)
}

func (r *pgTicketRepository) findMany(ctx context.Context, query string, args ...interface{}) ([]domain.Ticket, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("TicketRepository.findMany: %w", err)
	}
	defer rows.Close()

	var tickets []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID, &ticket.UserID, &ticket.SlotID, &ticket.VehicleID, &ticket.PriceID,
			&ticket.EntryTime, &ticket.ExitTime, &ticket.Charge, &ticket.CreatedAt, &ticket.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("TicketRepository.findMany (scanning row): %w", err)
		}
		r.normalize(&ticket)
		tickets = append(tickets, ticket)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("TicketRepository.findMany (rows error): %w", err)
	}
	return tickets, nil
}
