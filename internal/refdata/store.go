package refdata

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
)

// Config configures the embedded reference-data store.
type Config struct {
	// DataDir is the single database file/directory co-located with the
	// installation, per the "embedded database file" requirement.
	DataDir  string
	Port     uint32
	Username string
	Password string
	Database string
}

func (c Config) dsn() string {
	return fmt.Sprintf("postgres://%s:%s@localhost:%d/%s?sslmode=disable",
		c.Username, c.Password, c.Port, c.Database)
}

// Store wraps both a database/sql handle (lib/pq, for simple point lookups)
// and a pgx pool (for the batched bulk loader), backed by an embedded
// Postgres instance started against the install workspace.
type Store struct {
	embedded *embeddedpostgres.EmbeddedPostgres
	db       *sql.DB
	pool     *pgxpool.Pool
}

// NewEmbedded starts (or reuses) an embedded Postgres instance rooted at
// cfg.DataDir and opens both connection handles against it.
func NewEmbedded(ctx context.Context, cfg Config) (*Store, error) {
	ep := embeddedpostgres.NewDatabase(embeddedpostgres.DefaultConfig().
		Username(cfg.Username).
		Password(cfg.Password).
		Database(cfg.Database).
		Port(cfg.Port).
		DataPath(cfg.DataDir).
		RuntimePath(cfg.DataDir + "/runtime").
		BinariesPath(cfg.DataDir + "/bin"))

	if err := ep.Start(); err != nil {
		return nil, fmt.Errorf("refdata: starting embedded postgres: %w", err)
	}

	sqldb, err := sql.Open("postgres", cfg.dsn())
	if err != nil {
		ep.Stop()
		return nil, fmt.Errorf("refdata: opening database/sql handle: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqldb.PingContext(pingCtx); err != nil {
		sqldb.Close()
		ep.Stop()
		return nil, fmt.Errorf("refdata: pinging database: %w", err)
	}

	pool, err := pgxpool.New(ctx, cfg.dsn())
	if err != nil {
		sqldb.Close()
		ep.Stop()
		return nil, fmt.Errorf("refdata: opening pgx pool: %w", err)
	}

	return &Store{embedded: ep, db: sqldb, pool: pool}, nil
}

// NewExternal wraps an already-running Postgres instance (e.g. one started
// by the caller, or one reached from a long-lived deployment rather than an
// embedded process), skipping the embedded-postgres bootstrap.
func NewExternal(ctx context.Context, connString string) (*Store, error) {
	sqldb, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, fmt.Errorf("refdata: opening database/sql handle: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqldb.PingContext(pingCtx); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("refdata: pinging database: %w", err)
	}
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("refdata: opening pgx pool: %w", err)
	}
	return &Store{db: sqldb, pool: pool}, nil
}

// Close releases both handles and, if this Store started its own embedded
// instance, stops it.
func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	var err error
	if s.db != nil {
		err = s.db.Close()
	}
	if s.embedded != nil {
		if stopErr := s.embedded.Stop(); stopErr != nil && err == nil {
			err = stopErr
		}
	}
	return err
}

// Health checks connectivity through the database/sql handle.
func (s *Store) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate creates the IPSF, OPSF, and ZIP9 schemas and their composite
// indexes if they do not already exist.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("refdata: running migration: %w", err)
		}
	}
	return nil
}
