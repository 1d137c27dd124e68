package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/central-university-dev/go-hotel-sync/internal/checkout"
	"github.com/central-university-dev/go-hotel-sync/internal/checkout/flags"
	"github.com/central-university-dev/go-hotel-sync/internal/claims"
	claimsrepo "github.com/central-university-dev/go-hotel-sync/internal/claims/repository"
	"github.com/central-university-dev/go-hotel-sync/internal/clients/hotelapi"
	"github.com/central-university-dev/go-hotel-sync/internal/common/metrics"
	"github.com/central-university-dev/go-hotel-sync/internal/config"
	"github.com/central-university-dev/go-hotel-sync/internal/database"
	"github.com/central-university-dev/go-hotel-sync/internal/notify"
	"github.com/central-university-dev/go-hotel-sync/internal/scheduler"
	syncservice "github.com/central-university-dev/go-hotel-sync/internal/sync"
	syncrepo "github.com/central-university-dev/go-hotel-sync/internal/sync/repository"
	"github.com/central-university-dev/go-hotel-sync/internal/telegram"
	"github.com/central-university-dev/go-hotel-sync/pkg"
	"github.com/central-university-dev/go-hotel-sync/pkg/txs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка запуска сервиса: %v\n", err)
		os.Exit(1)
	}
}

//nolint:funlen // Длина функции обусловлена необходимостью последовательной инициализации всех компонентов.
func run() error {
	appLogger := pkg.NewLogger(os.Stdout)

	cfg := config.LoadConfig()

	if cfg.TelegramBotToken == "" || cfg.SupergroupChatID == 0 {
		appLogger.Error("Ключевые переменные окружения не установлены, проверьте .env файл")

		return fmt.Errorf("не заданы TELEGRAM_BOT_TOKEN или SUPERGROUP_CHAT_ID")
	}

	ctx := context.Background()

	db, err := database.NewPostgresDB(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Error("Ошибка при подключении к базе данных",
			"error", err,
		)

		return fmt.Errorf("ошибка подключения к базе данных: %w", err)
	}

	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		appLogger.Error("Ошибка при применении миграций",
			"error", err,
		)

		return err
	}

	txManager := txs.NewTxManager(db.Pool, appLogger)

	repoFactory := syncrepo.NewFactory(db, cfg, appLogger)

	topicRepo, err := repoFactory.CreateTopicRepository()
	if err != nil {
		appLogger.Error("Ошибка при создании репозитория топиков",
			"error", err,
		)

		return err
	}

	watermarkRepo, err := repoFactory.CreateWatermarkRepository()
	if err != nil {
		appLogger.Error("Ошибка при создании репозитория вотермарок",
			"error", err,
		)

		return err
	}

	conversationRepo, err := claimsrepo.NewFactory(db, txManager, cfg, appLogger).CreateConversationRepository()
	if err != nil {
		appLogger.Error("Ошибка при создании репозитория диалогов",
			"error", err,
		)

		return err
	}

	claimService := claims.NewService(conversationRepo, appLogger)

	flagStore, err := flags.NewFlagStore(cfg, appLogger)
	if err != nil {
		appLogger.Error("Ошибка при создании хранилища флагов уведомлений",
			"error", err,
		)

		return err
	}

	if closer, ok := flagStore.(io.Closer); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				appLogger.Error("Ошибка при закрытии хранилища флагов",
					"error", err,
				)
			}
		}()
	}

	eventPublisher := notify.NewEventPublisher(cfg, appLogger)
	defer func() {
		if err := eventPublisher.Close(); err != nil {
			appLogger.Error("Ошибка при закрытии издателя событий",
				"error", err,
			)
		}
	}()

	hotelClient := hotelapi.NewClient(cfg, appLogger)

	telegramClient, err := telegram.NewClient(
		cfg.TelegramBotToken,
		cfg.SupergroupChatID,
		cfg.TelegramSendRate,
		cfg.TelegramSendBurst,
		appLogger,
	)
	if err != nil {
		appLogger.Error("Ошибка при создании Telegram клиента",
			"error", err,
		)

		return err
	}

	location, err := time.LoadLocation(cfg.HotelTimezone)
	if err != nil {
		appLogger.Error("Ошибка при загрузке часового пояса отеля",
			"error", err,
			"timezone", cfg.HotelTimezone,
		)

		return fmt.Errorf("неизвестный часовой пояс %s: %w", cfg.HotelTimezone, err)
	}

	topicManager := syncservice.NewTopicManager(telegramClient, topicRepo, appLogger)
	relay := syncservice.NewRelay(hotelClient, telegramClient, watermarkRepo, claimService, cfg.RelayPageLimit, appLogger)
	stateStore := syncservice.NewStateStore()

	syncSvc := syncservice.NewService(
		hotelClient,
		telegramClient,
		topicManager,
		relay,
		stateStore,
		claimService,
		eventPublisher,
		appLogger,
	)

	checkoutSvc := checkout.NewService(hotelClient, telegramClient, flagStore, eventPublisher, location, appLogger)

	appLogger.Info("Первоначальная синхронизация состояний")

	if err := syncSvc.SyncState(ctx); err != nil {
		appLogger.Error("Ошибка первоначальной синхронизации",
			"error", err,
		)
	} else {
		appLogger.Info("Синхронизация завершена")
	}

	sch := scheduler.NewScheduler(syncSvc, checkoutSvc, cfg.SyncInterval, cfg.CheckoutInterval, appLogger)
	sch.Start()

	poller := telegram.NewPoller(telegramClient, syncSvc, appLogger)
	go poller.Start()

	metricsCtx, cancelMetrics := context.WithCancel(ctx)
	defer cancelMetrics()

	metricsServer := metrics.NewMetricsServer(cfg.MetricsPort, appLogger)

	go func() {
		if err := metricsServer.Start(metricsCtx); err != nil {
			appLogger.Error("Ошибка сервера метрик",
				"error", err,
			)
		}
	}()

	appLogger.Info("Планировщик запущен, бот начинает работу")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	appLogger.Info("Получен системный сигнал",
		"signal", sig.String(),
	)

	poller.Stop()
	sch.Stop()
	cancelMetrics()

	appLogger.Info("Сервис остановлен")

	return nil
}
