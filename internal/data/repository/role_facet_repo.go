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

// RoleFacetRepository persists the role markers attached to accounts. Facets
// of different roles share one table; the role column is the discriminator
// that resolves a facet back to "the client", "the staff member" or "the
// admin" that legacy endpoints address by facet id.
type RoleFacetRepository interface {
	Create(ctx context.Context, facet *entity.RoleFacet) error
	Delete(ctx context.Context, accountID uuid.UUID, role entity.Role) error
	DeleteAllForAccount(ctx context.Context, accountID uuid.UUID) error
	FindByAccountAndRole(ctx context.Context, accountID uuid.UUID, role entity.Role) (*entity.RoleFacet, error)
	FindAllForAccount(ctx context.Context, accountID uuid.UUID) ([]*entity.RoleFacet, error)
	// ResolveAccount finds the single account owning the facet with the given
	// id and role discriminator.
	ResolveAccount(ctx context.Context, facetID uuid.UUID, role entity.Role) (*entity.Account, error)
}

type roleFacetRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewRoleFacetRepository(db database.PgxIface, log *zap.Logger) RoleFacetRepository {
	return &roleFacetRepository{
		db:  db,
		log: log.With(zap.String("repository", "role_facet")),
	}
}

// Create inserts a facet row. The unique constraint on (account_id, role)
// turns a double grant into ErrConflict.
func (r *roleFacetRepository) Create(ctx context.Context, facet *entity.RoleFacet) error {
	query := `
		INSERT INTO role_facets (id, account_id, role, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(ctx, query,
		facet.ID,
		facet.AccountID,
		facet.Role,
		facet.CreatedAt,
	)

	if isUniqueViolation(err) {
		return fmt.Errorf("grant role %s to account %s: %w", facet.Role, facet.AccountID.String(), ErrConflict)
	}
	if err != nil {
		r.log.Error("Failed to create role facet",
			zap.Error(err),
			zap.String("account_id", facet.AccountID.String()),
			zap.String("role", string(facet.Role)),
		)
		return fmt.Errorf("create role facet %s: %w", facet.ID.String(), err)
	}

	return nil
}

func (r *roleFacetRepository) Delete(ctx context.Context, accountID uuid.UUID, role entity.Role) error {
	query := `DELETE FROM role_facets WHERE account_id = $1 AND role = $2`

	result, err := r.db.Exec(ctx, query, accountID, role)
	if err != nil {
		r.log.Error("Failed to delete role facet",
			zap.Error(err),
			zap.String("account_id", accountID.String()),
			zap.String("role", string(role)),
		)
		return fmt.Errorf("delete role facet %s of account %s: %w", role, accountID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("role facet %s of account %s: %w", role, accountID.String(), ErrNotFound)
	}

	return nil
}

// DeleteAllForAccount removes every facet owned by the account. Used by the
// account delete cascade once the ticket guard has passed.
func (r *roleFacetRepository) DeleteAllForAccount(ctx context.Context, accountID uuid.UUID) error {
	query := `DELETE FROM role_facets WHERE account_id = $1`

	_, err := r.db.Exec(ctx, query, accountID)
	if err != nil {
		r.log.Error("Failed to delete role facets for account",
			zap.Error(err),
			zap.String("account_id", accountID.String()),
		)
		return fmt.Errorf("delete role facets for account %s: %w", accountID.String(), err)
	}

	return nil
}

func (r *roleFacetRepository) FindByAccountAndRole(ctx context.Context, accountID uuid.UUID, role entity.Role) (*entity.RoleFacet, error) {
	query := `
		SELECT id, account_id, role, created_at
		FROM role_facets
		WHERE account_id = $1 AND role = $2
	`

	var facet entity.RoleFacet
	err := r.db.QueryRow(ctx, query, accountID, role).Scan(
		&facet.ID,
		&facet.AccountID,
		&facet.Role,
		&facet.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("role facet %s of account %s: %w", role, accountID.String(), ErrNotFound)
	}
	if err != nil {
		r.log.Error("Failed to find role facet",
			zap.Error(err),
			zap.String("account_id", accountID.String()),
			zap.String("role", string(role)),
		)
		return nil, fmt.Errorf("find role facet %s of account %s: %w", role, accountID.String(), err)
	}

	return &facet, nil
}

func (r *roleFacetRepository) FindAllForAccount(ctx context.Context, accountID uuid.UUID) ([]*entity.RoleFacet, error) {
	query := `
		SELECT id, account_id, role, created_at
		FROM role_facets
		WHERE account_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, accountID)
	if err != nil {
		r.log.Error("Failed to find role facets for account",
			zap.Error(err),
			zap.String("account_id", accountID.String()),
		)
		return nil, fmt.Errorf("find role facets for account %s: %w", accountID.String(), err)
	}
	defer rows.Close()

	var facets []*entity.RoleFacet
	for rows.Next() {
		var facet entity.RoleFacet
		err := rows.Scan(
			&facet.ID,
			&facet.AccountID,
			&facet.Role,
			&facet.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan role facet row: %w", err)
		}
		facets = append(facets, &facet)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate role facet rows: %w", err)
	}

	return facets, nil
}

// ResolveAccount joins a facet row back to its owning account. The role
// discriminator is part of the lookup so a staff facet id never resolves as
// a client.
func (r *roleFacetRepository) ResolveAccount(ctx context.Context, facetID uuid.UUID, role entity.Role) (*entity.Account, error) {
	query := `
		SELECT a.id, a.login, a.password, a.is_active, a.is_blocked, a.created_at, a.updated_at, a.deleted_at
		FROM role_facets f
		JOIN accounts a ON a.id = f.account_id
		WHERE f.id = $1 AND f.role = $2 AND a.deleted_at IS NULL
	`

	account, err := scanAccount(r.db.QueryRow(ctx, query, facetID, role))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s facet %s: %w", role, facetID.String(), ErrNotFound)
	}
	if err != nil {
		r.log.Error("Failed to resolve account from role facet",
			zap.Error(err),
			zap.String("facet_id", facetID.String()),
			zap.String("role", string(role)),
		)
		return nil, fmt.Errorf("resolve account from %s facet %s: %w", role, facetID.String(), err)
	}

	return account, nil
}
