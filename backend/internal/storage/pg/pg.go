package pg

import (
	"context"
	"database/sql"
	"embed"

	"github.com/samber/oops"

	"github.com/MoniqueMiko/watch-auth-microservice/shared/config"
	"github.com/MoniqueMiko/watch-auth-microservice/shared/logger"
	sharedpg "github.com/MoniqueMiko/watch-auth-microservice/shared/storage/pg"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

type Storage struct {
	db  *sql.DB
	cfg config.Pg
}

func New(ctx context.Context, cfg config.Pg) (*Storage, error) {
	return NewWithConfig(ctx, cfg, sharedpg.DefaultConnectionConfig())
}

func NewWithConfig(ctx context.Context, cfg config.Pg, connCfg sharedpg.ConnectionConfig) (*Storage, error) {
	logger.Log.Info("connecting to db", "host", cfg.Host, "dbname", cfg.Dbname)
	db, err := sharedpg.Connect(ctx, cfg, connCfg)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("successfully connected to db")
	return &Storage{db: db, cfg: cfg}, nil
}

func (s *Storage) Cleanup() error {
	return s.db.Close()
}

// Ping is used by the readiness probe.
func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrator returns a migrator over the embedded schema. Caller closes it.
func (s *Storage) Migrator() (*sharedpg.Migrator, error) {
	return sharedpg.NewMigrator(migrationsFS, migrationsDir, s.cfg.Url())
}

// Migrate applies pending schema migrations.
func (s *Storage) Migrate() error {
	m, err := s.Migrator()
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			logger.LogError("failed to close migrator", err)
		}
	}()

	if err := m.Up(); err != nil {
		return err
	}
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	if dirty {
		return oops.Code("MIGRATION_DIRTY").With("version", version).Errorf("schema is dirty at version %d", version)
	}
	logger.Log.Info("schema up to date", "version", version)
	return nil
}
