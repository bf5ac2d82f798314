package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/ruchidavda1/todoapp/internal/server/config"
	"github.com/ruchidavda1/todoapp/internal/server/migrations"
	"github.com/ruchidavda1/todoapp/internal/server/repositories/todos"
	"github.com/ruchidavda1/todoapp/internal/server/repositories/users"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories sharing one
// connection pool.
type PostgresRepositoryManager struct {
	db    *sql.DB
	users *users.PostgresRepository
	todos *todos.PostgresRepository
}

// OpenPostgres opens a pgx-backed pool sized from cfg.
func OpenPostgres(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	return db, nil
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager(db *sql.DB) (*PostgresRepositoryManager, error) {
	if db == nil {
		return nil, fmt.Errorf("nil database handle")
	}
	return &PostgresRepositoryManager{
		db:    db,
		users: users.NewPostgresRepository(db),
		todos: todos.NewPostgresRepository(db),
	}, nil
}

func (m *PostgresRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *PostgresRepositoryManager) Todos() todos.Repository {
	return m.todos
}

// DB exposes the pool, e.g. for connection statistics.
func (m *PostgresRepositoryManager) DB() *sql.DB {
	return m.db
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and applies them.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, m.db, "."); err != nil {
		return err
	}
	return nil
}

func (m *PostgresRepositoryManager) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

func (m *PostgresRepositoryManager) Close() error {
	return m.db.Close()
}

var _ RepositoryManager = (*PostgresRepositoryManager)(nil)
