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

type AccountRepository interface {
	// CreateWithFacet inserts the account and its initial role facet as a
	// single unit of work; a failed registration leaves no row behind.
	CreateWithFacet(ctx context.Context, account *entity.Account, facet *entity.RoleFacet) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)
	FindByLogin(ctx context.Context, login string) (*entity.Account, error)
	FindAllMatchingLogin(ctx context.Context, substring string) ([]*entity.Account, error)
	FindAll(ctx context.Context) ([]*entity.Account, error)
	Update(ctx context.Context, account *entity.Account) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type accountRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewAccountRepository(db database.PgxIface, log *zap.Logger) AccountRepository {
	return &accountRepository{
		db:  db,
		log: log.With(zap.String("repository", "account")),
	}
}

const accountColumns = `id, login, password, is_active, is_blocked, created_at, updated_at, deleted_at`

func scanAccount(row pgx.Row) (*entity.Account, error) {
	var account entity.Account
	err := row.Scan(
		&account.ID,
		&account.Login,
		&account.PasswordHash,
		&account.IsActive,
		&account.IsBlocked,
		&account.CreatedAt,
		&account.UpdatedAt,
		&account.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// CreateWithFacet runs the account insert and the facet insert in one
// transaction. Either both rows commit or neither does, so the login is never
// reserved by a registration that reported failure. The unique index on login
// covers both active and soft-deleted rows, so a login is never reused.
func (r *accountRepository) CreateWithFacet(ctx context.Context, account *entity.Account, facet *entity.RoleFacet) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin registration transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	insertAccount := `
		INSERT INTO accounts (id, login, password, is_active, is_blocked, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = tx.Exec(ctx, insertAccount,
		account.ID,
		account.Login,
		account.PasswordHash,
		account.IsActive,
		account.IsBlocked,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("create account %s: %w", account.Login, ErrConflict)
	}
	if err != nil {
		r.log.Error("Failed to create account",
			zap.Error(err),
			zap.String("login", account.Login),
		)
		return fmt.Errorf("create account %s: %w", account.Login, err)
	}

	insertFacet := `
		INSERT INTO role_facets (id, account_id, role, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err = tx.Exec(ctx, insertFacet,
		facet.ID,
		facet.AccountID,
		facet.Role,
		facet.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create initial role facet",
			zap.Error(err),
			zap.String("account_id", facet.AccountID.String()),
			zap.String("role", string(facet.Role)),
		)
		return fmt.Errorf("create initial %s facet for account %s: %w", facet.Role, account.Login, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit registration transaction: %w", err)
	}

	return nil
}

func (r *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE id = $1 AND deleted_at IS NULL
	`

	account, err := scanAccount(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("account %s: %w", id.String(), ErrNotFound)
	}
	if err != nil {
		r.log.Error("Failed to find account by ID",
			zap.Error(err),
			zap.String("account_id", id.String()),
		)
		return nil, fmt.Errorf("find account by ID %s: %w", id.String(), err)
	}

	return account, nil
}

func (r *accountRepository) FindByLogin(ctx context.Context, login string) (*entity.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE login = $1 AND deleted_at IS NULL
	`

	account, err := scanAccount(r.db.QueryRow(ctx, query, login))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("account %s: %w", login, ErrNotFound)
	}
	if err != nil {
		r.log.Error("Failed to find account by login",
			zap.Error(err),
			zap.String("login", login),
		)
		return nil, fmt.Errorf("find account by login %s: %w", login, err)
	}

	return account, nil
}

// FindAllMatchingLogin retrieves all accounts whose login contains substring.
func (r *accountRepository) FindAllMatchingLogin(ctx context.Context, substring string) ([]*entity.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE login ILIKE '%' || $1 || '%' AND deleted_at IS NULL
		ORDER BY login
	`

	rows, err := r.db.Query(ctx, query, substring)
	if err != nil {
		r.log.Error("Failed to search accounts by login",
			zap.Error(err),
			zap.String("substring", substring),
		)
		return nil, fmt.Errorf("find accounts matching login %q: %w", substring, err)
	}
	defer rows.Close()

	return collectAccounts(rows)
}

func (r *accountRepository) FindAll(ctx context.Context) ([]*entity.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to get all accounts", zap.Error(err))
		return nil, fmt.Errorf("find all accounts: %w", err)
	}
	defer rows.Close()

	return collectAccounts(rows)
}

func collectAccounts(rows pgx.Rows) ([]*entity.Account, error) {
	var accounts []*entity.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account row: %w", err)
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate account rows: %w", err)
	}

	return accounts, nil
}

func (r *accountRepository) Update(ctx context.Context, account *entity.Account) error {
	query := `
		UPDATE accounts
		SET login = $2, password = $3, is_active = $4, is_blocked = $5, updated_at = $6
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query,
		account.ID,
		account.Login,
		account.PasswordHash,
		account.IsActive,
		account.IsBlocked,
		account.UpdatedAt,
	)

	if isUniqueViolation(err) {
		return fmt.Errorf("update account %s: %w", account.ID.String(), ErrConflict)
	}
	if err != nil {
		r.log.Error("Failed to update account",
			zap.Error(err),
			zap.String("account_id", account.ID.String()),
		)
		return fmt.Errorf("update account %s: %w", account.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("account %s: %w", account.ID.String(), ErrNotFound)
	}

	return nil
}

func (r *accountRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `UPDATE accounts SET is_active = $2, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.Exec(ctx, query, id, active)
	if err != nil {
		r.log.Error("Failed to set account active flag",
			zap.Error(err),
			zap.String("account_id", id.String()),
			zap.Bool("active", active),
		)
		return fmt.Errorf("set account %s active to %t: %w", id.String(), active, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("account %s: %w", id.String(), ErrNotFound)
	}

	return nil
}

// Delete soft-deletes the account. The login stays reserved because the row
// survives; callers guard against surviving tickets before getting here.
func (r *accountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE accounts SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete account",
			zap.Error(err),
			zap.String("account_id", id.String()),
		)
		return fmt.Errorf("delete account %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("account %s: %w", id.String(), ErrNotFound)
	}

	r.log.Info("Account deleted", zap.String("account_id", id.String()))
	return nil
}
