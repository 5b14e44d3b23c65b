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

type ShowingRepository interface {
	Create(ctx context.Context, showing *entity.Showing) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Showing, error)
	FindAll(ctx context.Context) ([]*entity.Showing, error)
	FindAllMatchingTitle(ctx context.Context, substring string) ([]*entity.Showing, error)
	Update(ctx context.Context, showing *entity.Showing) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type showingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewShowingRepository(db database.PgxIface, log *zap.Logger) ShowingRepository {
	return &showingRepository{
		db:  db,
		log: log.With(zap.String("repository", "showing")),
	}
}

func (r *showingRepository) Create(ctx context.Context, showing *entity.Showing) error {
	query := `
		INSERT INTO showings (id, title, base_price, room_number, available_seats, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		showing.ID,
		showing.Title,
		showing.BasePrice,
		showing.RoomNumber,
		showing.AvailableSeats,
		showing.CreatedAt,
		showing.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create showing",
			zap.Error(err),
			zap.String("title", showing.Title),
		)
		return fmt.Errorf("create showing %s: %w", showing.Title, err)
	}

	return nil
}

func (r *showingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Showing, error) {
	query := `
		SELECT id, title, base_price, room_number, available_seats, created_at, updated_at
		FROM showings
		WHERE id = $1
	`

	var showing entity.Showing
	err := r.db.QueryRow(ctx, query, id).Scan(
		&showing.ID,
		&showing.Title,
		&showing.BasePrice,
		&showing.RoomNumber,
		&showing.AvailableSeats,
		&showing.CreatedAt,
		&showing.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("showing %s: %w", id.String(), ErrNotFound)
	}
	if err != nil {
		r.log.Error("Failed to find showing by ID",
			zap.Error(err),
			zap.String("showing_id", id.String()),
		)
		return nil, fmt.Errorf("find showing by ID %s: %w", id.String(), err)
	}

	return &showing, nil
}

func (r *showingRepository) FindAll(ctx context.Context) ([]*entity.Showing, error) {
	query := `
		SELECT id, title, base_price, room_number, available_seats, created_at, updated_at
		FROM showings
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to get all showings", zap.Error(err))
		return nil, fmt.Errorf("find all showings: %w", err)
	}
	defer rows.Close()

	return collectShowings(rows)
}

func (r *showingRepository) FindAllMatchingTitle(ctx context.Context, substring string) ([]*entity.Showing, error) {
	query := `
		SELECT id, title, base_price, room_number, available_seats, created_at, updated_at
		FROM showings
		WHERE title ILIKE '%' || $1 || '%'
		ORDER BY title
	`

	rows, err := r.db.Query(ctx, query, substring)
	if err != nil {
		r.log.Error("Failed to search showings by title",
			zap.Error(err),
			zap.String("substring", substring),
		)
		return nil, fmt.Errorf("find showings matching title %q: %w", substring, err)
	}
	defer rows.Close()

	return collectShowings(rows)
}

func collectShowings(rows pgx.Rows) ([]*entity.Showing, error) {
	var showings []*entity.Showing
	for rows.Next() {
		var showing entity.Showing
		err := rows.Scan(
			&showing.ID,
			&showing.Title,
			&showing.BasePrice,
			&showing.RoomNumber,
			&showing.AvailableSeats,
			&showing.CreatedAt,
			&showing.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan showing row: %w", err)
		}
		showings = append(showings, &showing)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate showing rows: %w", err)
	}

	return showings, nil
}

func (r *showingRepository) Update(ctx context.Context, showing *entity.Showing) error {
	query := `
		UPDATE showings
		SET title = $2, base_price = $3, room_number = $4, available_seats = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		showing.ID,
		showing.Title,
		showing.BasePrice,
		showing.RoomNumber,
		showing.AvailableSeats,
		showing.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update showing",
			zap.Error(err),
			zap.String("showing_id", showing.ID.String()),
		)
		return fmt.Errorf("update showing %s: %w", showing.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("showing %s: %w", showing.ID.String(), ErrNotFound)
	}

	return nil
}

func (r *showingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM showings WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete showing",
			zap.Error(err),
			zap.String("showing_id", id.String()),
		)
		return fmt.Errorf("delete showing %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("showing %s: %w", id.String(), ErrNotFound)
	}

	r.log.Info("Showing deleted", zap.String("showing_id", id.String()))
	return nil
}
