package flags

import (
	"log/slog"

	"github.com/central-university-dev/go-hotel-sync/internal/config"
	"github.com/central-university-dev/go-hotel-sync/internal/domain/errors"
)

func NewFlagStore(cfg *config.Config, logger *slog.Logger) (FlagStore, error) {
	switch cfg.NotificationStore {
	case config.RedisFlagStore:
		logger.Info("Создание Redis хранилища флагов уведомлений")
		return NewRedisFlagStore(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB, cfg.NotificationTTL, logger)
	case config.MemoryFlagStore:
		logger.Info("Создание in-memory хранилища флагов уведомлений")
		return NewMemoryFlagStore(), nil
	default:
		return nil, &errors.ErrUnknownFlagStore{Kind: string(cfg.NotificationStore)}
	}
}
