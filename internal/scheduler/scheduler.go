package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

type SyncService interface {
	SyncState(ctx context.Context) error
}

type CheckoutService interface {
	RunSweep(ctx context.Context) error
}

// Scheduler запускает два периодических задания: синхронизацию состояния
// отеля и обход бронирований для выселения. Оба задания в SingletonMode:
// затянувшийся запуск не накладывается на следующий.
type Scheduler struct {
	scheduler        *gocron.Scheduler
	syncService      SyncService
	checkoutService  CheckoutService
	logger           *slog.Logger
	syncInterval     time.Duration
	checkoutInterval time.Duration
}

func NewScheduler(
	syncService SyncService,
	checkoutService CheckoutService,
	syncInterval time.Duration,
	checkoutInterval time.Duration,
	logger *slog.Logger,
) *Scheduler {
	scheduler := gocron.NewScheduler(time.UTC)

	return &Scheduler{
		scheduler:        scheduler,
		syncService:      syncService,
		checkoutService:  checkoutService,
		logger:           logger,
		syncInterval:     syncInterval,
		checkoutInterval: checkoutInterval,
	}
}

func (s *Scheduler) Start() {
	s.logger.Info("Запуск планировщика",
		"syncInterval", s.syncInterval.String(),
		"checkoutInterval", s.checkoutInterval.String(),
	)

	_, err := s.scheduler.Every(s.syncInterval).SingletonMode().Do(func() {
		ctx := context.Background()
		if err := s.syncService.SyncState(ctx); err != nil {
			s.logger.Error("Ошибка при синхронизации состояния отеля",
				"error", err,
			)
		}
	})
	if err != nil {
		s.logger.Error("Ошибка при настройке задания синхронизации",
			"error", err,
		)

		return
	}

	_, err = s.scheduler.Every(s.checkoutInterval).SingletonMode().Do(func() {
		ctx := context.Background()
		if err := s.checkoutService.RunSweep(ctx); err != nil {
			s.logger.Error("Ошибка при обходе бронирований",
				"error", err,
			)
		}
	})
	if err != nil {
		s.logger.Error("Ошибка при настройке задания выселения",
			"error", err,
		)

		return
	}

	s.scheduler.StartAsync()
}

func (s *Scheduler) Stop() {
	s.logger.Info("Остановка планировщика")
	s.scheduler.Stop()
}
