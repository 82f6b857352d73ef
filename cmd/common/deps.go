// Package common provides shared dependency construction for commands.
package common

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/viper"

	"github.com/jonesrussell/aiwatch/internal/config"
	"github.com/jonesrussell/aiwatch/internal/database"
	"github.com/jonesrussell/aiwatch/internal/logger"
	"github.com/jonesrussell/aiwatch/internal/sources"
)

// Deps bundles the dependencies every command starts from.
type Deps struct {
	Config   *config.Config
	Logger   logger.Interface
	Registry *sources.Registry
}

// NewCommandDeps loads configuration, builds the logger, and loads the
// source registry. Any failure here is fatal to the command.
func NewCommandDeps() (*Deps, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(&cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	registry, err := sources.LoadFromFile(cfg.SourcesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load sources: %w", err)
	}

	return &Deps{Config: cfg, Logger: log, Registry: registry}, nil
}

// Storage bundles the database handle and repositories.
type Storage struct {
	DB       *sqlx.DB
	Articles *database.ArticleRepository
	Digests  *database.DigestRepository
}

// OpenStorage connects to PostgreSQL, applies the schema, and builds the
// repositories.
func OpenStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Storage{
		DB:       db,
		Articles: database.NewArticleRepository(db),
		Digests:  database.NewDigestRepository(db),
	}, nil
}

// Close releases the database handle.
func (s *Storage) Close() error {
	return s.DB.Close()
}
