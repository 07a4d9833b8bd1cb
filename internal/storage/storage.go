package storage

import (
	"context"
	"fmt"

	"github.com/marcelsud/library-catalog/book"
	"github.com/marcelsud/library-catalog/book/inmemory"
	"github.com/marcelsud/library-catalog/book/orm"
	"github.com/marcelsud/library-catalog/book/postgres"
	"github.com/marcelsud/library-catalog/book/sqlite"
	"github.com/marcelsud/library-catalog/config"
)

// Open returns the book store selected by cfg.Store
func Open(ctx context.Context, cfg *config.Config) (book.Repository, error) {
	switch cfg.Store {
	case config.StorePostgres:
		repo, err := postgres.NewRepositoryWithPoolConfig(
			cfg.PostgresConnectionString(),
			cfg.GetPostgresMaxOpenConns(),
			cfg.GetPostgresMaxIdleConns(),
			cfg.GetPostgresConnMaxLifeMinutes(),
		)
		if err != nil {
			return nil, err
		}
		if err := repo.Migrate(); err != nil {
			repo.Close(ctx)
			return nil, err
		}
		return repo, nil
	case config.StoreSQLite:
		repo, err := sqlite.NewRepository(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case config.StoreGorm:
		open := orm.OpenSQLite
		dsn := cfg.SQLitePath
		if cfg.GormDialect == config.StorePostgres {
			open, dsn = orm.OpenPostgres, cfg.PostgresConnectionString()
		}
		repo, err := open(dsn)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case config.StoreMemory:
		repo, err := inmemory.NewRepository()
		if err != nil {
			return nil, err
		}
		return repo, nil
	}
	return nil, fmt.Errorf("unsupported store %q", cfg.Store)
}
