package users

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ruchidavda1/todoapp/internal/common"
	"github.com/ruchidavda1/todoapp/internal/dbx"
	"github.com/ruchidavda1/todoapp/internal/server/models"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (id, email, password_hash, first_name, last_name, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 `

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName, user.CreatedAt, user.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrDuplicateEmail
		}
		return nil, common.Unavailable(err)
	}

	return user, nil
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT id, email, password_hash, first_name, last_name, created_at, updated_at FROM users
		 WHERE email = $1
		 `

	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query :=
		`SELECT id, email, password_hash, first_name, last_name, created_at, updated_at FROM users
		 WHERE id = $1
		 `

	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, common.Unavailable(err)
	}

	return user, nil
}

func (r *PostgresRepository) Save(ctx context.Context, user *models.User) error {
	query :=
		`UPDATE users SET first_name = $1, last_name = $2, updated_at = $3
		 WHERE id = $4
		 `

	res, err := r.db.ExecContext(ctx, query, user.FirstName, user.LastName, user.UpdatedAt, user.ID)
	if err != nil {
		return common.Unavailable(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return common.Unavailable(err)
	}
	if n == 0 {
		return common.ErrNotFound
	}

	return nil
}

var _ Repository = (*PostgresRepository)(nil)
