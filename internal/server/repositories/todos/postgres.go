package todos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ruchidavda1/todoapp/internal/common"
	"github.com/ruchidavda1/todoapp/internal/dbx"
	"github.com/ruchidavda1/todoapp/internal/server/models"
)

const columns = `id, user_id, title, description, completed, priority, due_date, created_at, updated_at`

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// where renders the filter predicate with positional parameters starting at $1.
func where(f ListFilter) (string, []any) {
	clauses := []string{"user_id = $1"}
	args := []any{f.OwnerID}

	if f.Completed != nil {
		args = append(args, *f.Completed)
		clauses = append(clauses, fmt.Sprintf("completed = $%d", len(args)))
	}
	if f.Priority != "" {
		args = append(args, string(f.Priority))
		clauses = append(clauses, fmt.Sprintf("priority = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+likeEscaper.Replace(f.Search)+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf(`(title ILIKE $%d ESCAPE '\' OR description ILIKE $%d ESCAPE '\')`, n, n))
	}

	return strings.Join(clauses, " AND "), args
}

// List runs the count and the page query in one read-only snapshot when the
// repository is bound to a pool, so total and items agree.
func (r *PostgresRepository) List(ctx context.Context, f ListFilter) ([]*models.Todo, int, error) {
	var (
		items []*models.Todo
		total int
	)

	run := func(ctx context.Context, q dbx.DBTX) error {
		cond, args := where(f)

		if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM todos WHERE `+cond, args...).Scan(&total); err != nil {
			return err
		}

		page := fmt.Sprintf(`SELECT %s FROM todos WHERE %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
			columns, cond, len(args)+1, len(args)+2)

		rows, err := q.QueryContext(ctx, page, append(args, f.Limit, f.Offset)...)
		if err != nil {
			return err
		}
		defer rows.Close()

		items = make([]*models.Todo, 0, f.Limit)
		for rows.Next() {
			t, err := scanTodo(rows)
			if err != nil {
				return err
			}
			items = append(items, t)
		}
		return rows.Err()
	}

	var err error
	if db, ok := r.db.(*sql.DB); ok {
		err = dbx.WithTx(ctx, db, dbx.SnapshotRead, run)
	} else {
		err = run(ctx, r.db)
	}
	if err != nil {
		return nil, 0, common.Unavailable(err)
	}

	return items, total, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id, ownerID string) (*models.Todo, error) {
	query := `SELECT ` + columns + ` FROM todos WHERE id = $1 AND user_id = $2`

	return scanOne(r.db.QueryRowContext(ctx, query, id, ownerID))
}

func (r *PostgresRepository) Create(ctx context.Context, todo *models.Todo) (*models.Todo, error) {
	query :=
		`INSERT INTO todos (` + columns + `)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 `

	_, err := r.db.ExecContext(ctx, query,
		todo.ID, todo.UserID, todo.Title, todo.Description, todo.Completed,
		string(todo.Priority), dueDateArg(todo.DueDate), todo.CreatedAt, todo.UpdatedAt)
	if err != nil {
		return nil, common.Unavailable(err)
	}

	return todo, nil
}

func (r *PostgresRepository) Update(ctx context.Context, todo *models.Todo) (*models.Todo, error) {
	query :=
		`UPDATE todos
		 SET title = $1, description = $2, completed = $3, priority = $4, due_date = $5, updated_at = $6
		 WHERE id = $7 AND user_id = $8
		 RETURNING ` + columns

	return scanOne(r.db.QueryRowContext(ctx, query,
		todo.Title, todo.Description, todo.Completed, string(todo.Priority), dueDateArg(todo.DueDate), todo.UpdatedAt,
		todo.ID, todo.UserID))
}

func (r *PostgresRepository) Toggle(ctx context.Context, id, ownerID string, at time.Time) (*models.Todo, error) {
	query :=
		`UPDATE todos SET completed = NOT completed, updated_at = $1
		 WHERE id = $2 AND user_id = $3
		 RETURNING ` + columns

	return scanOne(r.db.QueryRowContext(ctx, query, at, id, ownerID))
}

func (r *PostgresRepository) Delete(ctx context.Context, id, ownerID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = $1 AND user_id = $2`, id, ownerID)
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

func (r *PostgresRepository) DeleteCompleted(ctx context.Context, ownerID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE user_id = $1 AND completed = TRUE`, ownerID)
	if err != nil {
		return 0, common.Unavailable(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, common.Unavailable(err)
	}

	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTodo(s scanner) (*models.Todo, error) {
	var (
		t        models.Todo
		desc     sql.NullString
		priority string
		due      sql.NullTime
	)

	if err := s.Scan(&t.ID, &t.UserID, &t.Title, &desc, &t.Completed, &priority, &due, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}

	t.Priority = models.Priority(priority)
	if desc.Valid {
		t.Description = &desc.String
	}
	if due.Valid {
		d := models.NewDate(due.Time)
		t.DueDate = &d
	}

	return &t, nil
}

func scanOne(row *sql.Row) (*models.Todo, error) {
	t, err := scanTodo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, common.Unavailable(err)
	}
	return t, nil
}

func dueDateArg(d *models.Date) any {
	if d == nil {
		return nil
	}
	return d.Time
}

var _ Repository = (*PostgresRepository)(nil)
