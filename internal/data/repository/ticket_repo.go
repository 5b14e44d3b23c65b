package repository

import (
	"context"
	"errors"
	"fmt"

	"cinema-tickets/internal/data/entity"
	"cinema-tickets/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type TicketRepository interface {
	// CreateReserving inserts the ticket and takes one seat from its showing
	// as a single unit of work. Returns ErrNoSeats when the showing has no
	// remaining seats; no ticket is persisted in that case.
	CreateReserving(ctx context.Context, ticket *entity.Ticket) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Ticket, error)
	FindAll(ctx context.Context) ([]*entity.Ticket, error)
	FindByClientID(ctx context.Context, clientID uuid.UUID) ([]*entity.Ticket, error)
	UpdateShowTime(ctx context.Context, ticket *entity.Ticket) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Referential-integrity lookups used by the account and showing delete guards.
	CountByClientID(ctx context.Context, clientID uuid.UUID) (int64, error)
	CountByShowingID(ctx context.Context, showingID uuid.UUID) (int64, error)
}

type ticketRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTicketRepository(db database.PgxIface, log *zap.Logger) TicketRepository {
	return &ticketRepository{
		db:  db,
		log: log.With(zap.String("repository", "ticket")),
	}
}

// CreateReserving runs the seat decrement and the ticket insert in one
// transaction. The decrement is conditional on available_seats > 0, so two
// concurrent bookings against the last seat cannot both commit; the loser's
// update matches zero rows and the whole transaction rolls back.
func (r *ticketRepository) CreateReserving(ctx context.Context, ticket *entity.Ticket) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin booking transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	reserve := `
		UPDATE showings
		SET available_seats = available_seats - 1, updated_at = NOW()
		WHERE id = $1 AND available_seats > 0
	`

	result, err := tx.Exec(ctx, reserve, ticket.ShowingID)
	if err != nil {
		r.log.Error("Failed to reserve seat",
			zap.Error(err),
			zap.String("showing_id", ticket.ShowingID.String()),
		)
		return fmt.Errorf("reserve seat for showing %s: %w", ticket.ShowingID.String(), err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("reserve seat for showing %s: %w", ticket.ShowingID.String(), ErrNoSeats)
	}

	insert := `
		INSERT INTO tickets (id, show_time, final_price, client_id, showing_id, class, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = tx.Exec(ctx, insert,
		ticket.ID,
		ticket.ShowTime,
		ticket.FinalPrice,
		ticket.ClientID,
		ticket.ShowingID,
		ticket.Class,
		ticket.CreatedAt,
		ticket.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to insert ticket",
			zap.Error(err),
			zap.String("ticket_id", ticket.ID.String()),
		)
		return fmt.Errorf("insert ticket %s: %w", ticket.ID.String(), err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit booking transaction: %w", err)
	}

	return nil
}

func (r *ticketRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Ticket, error) {
	query := `
		SELECT id, show_time, final_price, client_id, showing_id, class, created_at, updated_at
		FROM tickets
		WHERE id = $1
	`

	var ticket entity.Ticket
	err := r.db.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.ShowTime,
		&ticket.FinalPrice,
		&ticket.ClientID,
		&ticket.ShowingID,
		&ticket.Class,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("ticket %s: %w", id.String(), ErrNotFound)
	}
	if err != nil {
		r.log.Error("Failed to find ticket by ID",
			zap.Error(err),
			zap.String("ticket_id", id.String()),
		)
		return nil, fmt.Errorf("find ticket by ID %s: %w", id.String(), err)
	}

	return &ticket, nil
}

func (r *ticketRepository) FindAll(ctx context.Context) ([]*entity.Ticket, error) {
	query := `
		SELECT id, show_time, final_price, client_id, showing_id, class, created_at, updated_at
		FROM tickets
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to get all tickets", zap.Error(err))
		return nil, fmt.Errorf("find all tickets: %w", err)
	}
	defer rows.Close()

	return collectTickets(rows)
}

func (r *ticketRepository) FindByClientID(ctx context.Context, clientID uuid.UUID) ([]*entity.Ticket, error) {
	query := `
		SELECT id, show_time, final_price, client_id, showing_id, class, created_at, updated_at
		FROM tickets
		WHERE client_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, clientID)
	if err != nil {
		r.log.Error("Failed to find tickets by client ID",
			zap.Error(err),
			zap.String("client_id", clientID.String()),
		)
		return nil, fmt.Errorf("find tickets by client ID %s: %w", clientID.String(), err)
	}
	defer rows.Close()

	return collectTickets(rows)
}

func collectTickets(rows pgx.Rows) ([]*entity.Ticket, error) {
	var tickets []*entity.Ticket
	for rows.Next() {
		var ticket entity.Ticket
		err := rows.Scan(
			&ticket.ID,
			&ticket.ShowTime,
			&ticket.FinalPrice,
			&ticket.ClientID,
			&ticket.ShowingID,
			&ticket.Class,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan ticket row: %w", err)
		}
		tickets = append(tickets, &ticket)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ticket rows: %w", err)
	}

	return tickets, nil
}

// UpdateShowTime persists the one mutable ticket field. Price and references
// are immutable post-creation, so they never appear in the SET clause.
func (r *ticketRepository) UpdateShowTime(ctx context.Context, ticket *entity.Ticket) error {
	query := `UPDATE tickets SET show_time = $2, updated_at = $3 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, ticket.ID, ticket.ShowTime, ticket.UpdatedAt)
	if err != nil {
		r.log.Error("Failed to update ticket show time",
			zap.Error(err),
			zap.String("ticket_id", ticket.ID.String()),
		)
		return fmt.Errorf("update ticket %s show time: %w", ticket.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("ticket %s: %w", ticket.ID.String(), ErrNotFound)
	}

	return nil
}

// Delete removes the ticket without touching the showing's seat count;
// cancelled inventory stays off sale.
func (r *ticketRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM tickets WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete ticket",
			zap.Error(err),
			zap.String("ticket_id", id.String()),
		)
		return fmt.Errorf("delete ticket %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("ticket %s: %w", id.String(), ErrNotFound)
	}

	r.log.Info("Ticket deleted", zap.String("ticket_id", id.String()))
	return nil
}

func (r *ticketRepository) CountByClientID(ctx context.Context, clientID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM tickets WHERE client_id = $1`

	var count int64
	err := r.db.QueryRow(ctx, query, clientID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count tickets by client ID",
			zap.Error(err),
			zap.String("client_id", clientID.String()),
		)
		return 0, fmt.Errorf("count tickets by client ID %s: %w", clientID.String(), err)
	}

	return count, nil
}

func (r *ticketRepository) CountByShowingID(ctx context.Context, showingID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM tickets WHERE showing_id = $1`

	var count int64
	err := r.db.QueryRow(ctx, query, showingID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count tickets by showing ID",
			zap.Error(err),
			zap.String("showing_id", showingID.String()),
		)
		return 0, fmt.Errorf("count tickets by showing ID %s: %w", showingID.String(), err)
	}

	return count, nil
}
