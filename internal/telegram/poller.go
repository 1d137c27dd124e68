package telegram

import (
	"context"
	"log/slog"
	"time"
)

// ReplyService обрабатывает ответ сотрудника, написанный в топике комнаты,
// и возвращает текст подтверждения для отправки обратно в топик.
type ReplyService interface {
	ProcessEmployeeReply(ctx context.Context, topicID, employeeID int64, text string) (string, error)
}

// UpdateSource — транспорт поллера: длинный опрос обновлений супергруппы
// и ответы сотрудникам в топиках.
type UpdateSource interface {
	ChatID() int64
	GetUpdates(ctx context.Context, offset int64) ([]Update, error)
	DropPendingUpdates(ctx context.Context) (int64, error)
	Reply(ctx context.Context, topicID, messageID int64, text string) error
}

// Poller слушает сообщения сотрудников в супергруппе. Сообщения ботов,
// сообщения вне топиков и сообщения из других чатов игнорируются.
type Poller struct {
	client       UpdateSource
	replyService ReplyService
	logger       *slog.Logger
	offset       int64
	stopChan     chan struct{}
}

func NewPoller(client UpdateSource, replyService ReplyService, logger *slog.Logger) *Poller {
	return &Poller{
		client:       client,
		replyService: replyService,
		logger:       logger,
		stopChan:     make(chan struct{}),
	}
}

func (p *Poller) Start() {
	p.logger.Info("Запуск Telegram поллера")

	p.dropPending()

	for {
		select {
		case <-p.stopChan:
			p.logger.Info("Получен сигнал остановки поллера")
			return
		default:
		}

		ctx, cancel := context.WithTimeout(context.Background(), pollTimeout)
		updates, err := p.client.GetUpdates(ctx, p.offset)

		cancel()

		if err != nil {
			p.logger.Error("Ошибка при получении обновлений", "error", err)

			select {
			case <-p.stopChan:
				return
			case <-time.After(5 * time.Second):
			}

			continue
		}

		for _, update := range updates {
			p.processUpdate(update)
			p.offset = update.UpdateID + 1
		}
	}
}

// dropPending подтверждает обновления, накопившиеся за время простоя:
// ответы сотрудников, уже ушедшие гостям до перезапуска, нельзя отправлять
// повторно.
func (p *Poller) dropPending() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	offset, err := p.client.DropPendingUpdates(ctx)
	if err != nil {
		p.logger.Warn("Не удалось сбросить накопленные обновления", "error", err)
		return
	}

	p.offset = offset
}

func (p *Poller) Stop() {
	p.logger.Info("Остановка Telegram поллера")
	close(p.stopChan)
}

func (p *Poller) processUpdate(update Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return
	}

	if msg.From.IsBot || msg.Chat.ID != p.client.ChatID() || msg.MessageThreadID == 0 || msg.Text == "" {
		return
	}

	p.logger.Info("Получен ответ сотрудника",
		"topic_id", msg.MessageThreadID,
		"employee", msg.From.Username,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	response, err := p.replyService.ProcessEmployeeReply(ctx, msg.MessageThreadID, msg.From.ID, msg.Text)
	if err != nil {
		p.logger.Error("Ошибка при обработке ответа сотрудника",
			"error", err,
			"topic_id", msg.MessageThreadID,
		)
	}

	if response == "" {
		return
	}

	if err := p.client.Reply(ctx, msg.MessageThreadID, msg.MessageID, response); err != nil {
		p.logger.Error("Ошибка при отправке подтверждения",
			"error", err,
			"topic_id", msg.MessageThreadID,
		)
	}
}
