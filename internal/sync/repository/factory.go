package repository

import (
	"log/slog"

	"github.com/central-university-dev/go-hotel-sync/internal/config"
	"github.com/central-university-dev/go-hotel-sync/internal/database"
	"github.com/central-university-dev/go-hotel-sync/internal/domain/errors"
	"github.com/central-university-dev/go-hotel-sync/internal/sync/repository/orm"
	sqlrepo "github.com/central-university-dev/go-hotel-sync/internal/sync/repository/sql"
)

type Factory struct {
	db     *database.PostgresDB
	config *config.Config
	logger *slog.Logger
}

func NewFactory(db *database.PostgresDB, config *config.Config, logger *slog.Logger) *Factory {
	return &Factory{
		db:     db,
		config: config,
		logger: logger,
	}
}

func (f *Factory) CreateTopicRepository() (TopicRepository, error) {
	switch f.config.DatabaseAccessType {
	case config.SquirrelAccess:
		f.logger.Info("Создание ORM (Squirrel) репозитория топиков")
		return orm.NewTopicRepository(f.db), nil
	case config.SQLAccess:
		f.logger.Info("Создание SQL репозитория топиков")
		return sqlrepo.NewTopicRepository(f.db), nil
	default:
		return nil, &errors.ErrUnknownDBAccessType{AccessType: string(f.config.DatabaseAccessType)}
	}
}

func (f *Factory) CreateWatermarkRepository() (WatermarkRepository, error) {
	switch f.config.DatabaseAccessType {
	case config.SquirrelAccess:
		f.logger.Info("Создание ORM (Squirrel) репозитория вотермарок")
		return orm.NewWatermarkRepository(f.db), nil
	case config.SQLAccess:
		f.logger.Info("Создание SQL репозитория вотермарок")
		return sqlrepo.NewWatermarkRepository(f.db), nil
	default:
		return nil, &errors.ErrUnknownDBAccessType{AccessType: string(f.config.DatabaseAccessType)}
	}
}
