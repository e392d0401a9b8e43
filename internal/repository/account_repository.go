package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uav-store/backend/internal/domain"
)

// AccountRepository defines persistence access for customer accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	UpdateProfile(ctx context.Context, account *domain.Account) error
	UpdatePassword(ctx context.Context, id, passwordHash string, changedAt time.Time) error
	UpdateRole(ctx context.Context, id string, role domain.Role) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	List(ctx context.Context, page Page) ([]domain.Account, error)
}

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository returns a Postgres-backed implementation.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

const accountColumns = `id, name, email, password_hash, role, password_changed_at, created_at, updated_at`

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	const query = `
        INSERT INTO customers (name, email, password_hash, role)
        VALUES ($1, LOWER($2), $3, $4)
        RETURNING id, email, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		account.Name,
		account.Email,
		account.PasswordHash,
		account.Role,
	).Scan(&account.ID, &account.Email, &account.CreatedAt, &account.UpdatedAt)
}

func (r *accountRepository) UpdateProfile(ctx context.Context, account *domain.Account) error {
	if err := checkID(account.ID); err != nil {
		return err
	}
	const query = `
        UPDATE customers SET name=$1, email=LOWER($2), updated_at=NOW()
        WHERE id=$3
        RETURNING email, updated_at`

	return r.pool.QueryRow(ctx, query,
		account.Name,
		account.Email,
		account.ID,
	).Scan(&account.Email, &account.UpdatedAt)
}

func (r *accountRepository) UpdatePassword(ctx context.Context, id, passwordHash string, changedAt time.Time) error {
	if err := checkID(id); err != nil {
		return err
	}
	const query = `
        UPDATE customers SET password_hash=$1, password_changed_at=$2, updated_at=NOW()
        WHERE id=$3`
	return execOne(ctx, r.pool, query, passwordHash, changedAt, id)
}

func (r *accountRepository) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	if err := checkID(id); err != nil {
		return err
	}
	const query = `UPDATE customers SET role=$1, updated_at=NOW() WHERE id=$2`
	return execOne(ctx, r.pool, query, role, id)
}

func (r *accountRepository) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return execOne(ctx, r.pool, `DELETE FROM customers WHERE id=$1`, id)
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	query := `SELECT ` + accountColumns + ` FROM customers WHERE id=$1`
	return scanAccount(r.pool.QueryRow(ctx, query, id))
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM customers WHERE email=LOWER($1)`
	return scanAccount(r.pool.QueryRow(ctx, query, email))
}

func (r *accountRepository) List(ctx context.Context, page Page) ([]domain.Account, error) {
	page = page.normalize()
	query := `SELECT ` + accountColumns + ` FROM customers ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *account)
	}
	return result, rows.Err()
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	if err := row.Scan(
		&account.ID,
		&account.Name,
		&account.Email,
		&account.PasswordHash,
		&account.Role,
		&account.PasswordChangedAt,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &account, nil
}
