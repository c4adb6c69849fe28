package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"asinlookup/internal/model"
)

var (
	ErrNotFound  = errors.New("repository: not found")
	ErrDuplicate = errors.New("repository: already exists")
)

type AccountRepository struct {
	DB *sql.DB
}

func (r *AccountRepository) List(ctx context.Context) ([]model.Account, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, email, description, status, created_at, updated_at
		FROM accounts
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		var a model.Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.Description, &a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *AccountRepository) Create(ctx context.Context, a *model.Account) (*model.Account, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM accounts WHERE name = $1 OR email = $2)`,
		a.Name, a.Email).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicate
	}

	a.ID = uuid.New().String()
	if a.Status == "" {
		a.Status = "active"
	}

	err = r.DB.QueryRowContext(ctx, `
		INSERT INTO accounts (id, name, email, description, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, a.ID, a.Name, a.Email, a.Description, a.Status).Scan(&a.CreatedAt, &a.UpdatedAt)
	if isUniqueViolation(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *AccountRepository) Get(ctx context.Context, id string) (*model.Account, error) {
	var a model.Account
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, email, description, status, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`, id).Scan(&a.ID, &a.Name, &a.Email, &a.Description, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AccountRepository) Update(ctx context.Context, a *model.Account) (*model.Account, error) {
	err := r.DB.QueryRowContext(ctx, `
		UPDATE accounts
		SET name = $2, email = $3, description = $4, status = $5, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at
	`, a.ID, a.Name, a.Email, a.Description, a.Status).Scan(&a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if isUniqueViolation(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
