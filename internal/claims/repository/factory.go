package repository

import (
	"log/slog"

	sqlrepo "github.com/central-university-dev/go-hotel-sync/internal/claims/repository/sql"
	"github.com/central-university-dev/go-hotel-sync/internal/config"
	"github.com/central-university-dev/go-hotel-sync/internal/database"
	"github.com/central-university-dev/go-hotel-sync/internal/domain/errors"
	"github.com/central-university-dev/go-hotel-sync/pkg/txs"
)

type Factory struct {
	db        *database.PostgresDB
	txManager *txs.TxManager
	config    *config.Config
	logger    *slog.Logger
}

func NewFactory(db *database.PostgresDB, txManager *txs.TxManager, config *config.Config, logger *slog.Logger) *Factory {
	return &Factory{
		db:        db,
		txManager: txManager,
		config:    config,
		logger:    logger,
	}
}

// CreateConversationRepository возвращает хранилище диалогов. Условное
// обновление при взятии диалога выражается одним запросом, поэтому оба
// режима доступа обслуживает pgx-реализация; in-memory вариант используется
// в тестах.
func (f *Factory) CreateConversationRepository() (ConversationRepository, error) {
	switch f.config.DatabaseAccessType {
	case config.SQLAccess, config.SquirrelAccess:
		f.logger.Info("Создание SQL репозитория диалогов")
		return sqlrepo.NewConversationRepository(f.db, f.txManager), nil
	default:
		return nil, &errors.ErrUnknownDBAccessType{AccessType: string(f.config.DatabaseAccessType)}
	}
}
