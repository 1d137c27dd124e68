package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	customerrors "github.com/central-university-dev/go-hotel-sync/internal/domain/errors"
)

const (
	// requestTimeout ограничивает любой одиночный вызов API: зависший
	// sendMessage не должен блокировать очередной тик синхронизации.
	requestTimeout = 30 * time.Second

	// longPollWait — время ожидания getUpdates на стороне сервера, секунды.
	longPollWait = 30

	// pollTimeout должен быть больше longPollWait, иначе HTTP-клиент
	// оборвет штатное ожидание обновлений.
	pollTimeout = 45 * time.Second
)

// Update и Message разбираются из сырого ответа getUpdates: библиотечные типы
// не знают про топики супергрупп (message_thread_id).
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

type Message struct {
	MessageID       int64  `json:"message_id"`
	MessageThreadID int64  `json:"message_thread_id"`
	Text            string `json:"text"`
	From            *User  `json:"from"`
	Chat            *Chat  `json:"chat"`
}

type User struct {
	ID       int64  `json:"id"`
	IsBot    bool   `json:"is_bot"`
	Username string `json:"username"`
}

type Chat struct {
	ID int64 `json:"id"`
}

// Client — транспорт супергруппы с топиками. Все исходящие вызовы проходят
// через лимитер, чтобы не упираться в лимиты Telegram на частоту отправки.
type Client struct {
	bot     *tgbotapi.BotAPI
	pollBot *tgbotapi.BotAPI
	chatID  int64
	limiter *rate.Limiter
	logger  *slog.Logger
}

func NewClient(token string, chatID int64, sendRate float64, sendBurst int, logger *slog.Logger) (*Client, error) {
	return NewClientWithEndpoint(token, tgbotapi.APIEndpoint, chatID, sendRate, sendBurst, logger)
}

// NewClientWithEndpoint создает клиента с переопределенным адресом API
// (используется в тестах).
func NewClientWithEndpoint(token, endpoint string, chatID int64, sendRate float64, sendBurst int, logger *slog.Logger) (*Client, error) {
	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, &http.Client{Timeout: requestTimeout})
	if err != nil {
		return nil, fmt.Errorf("ошибка при создании Telegram клиента: %w", err)
	}

	// Отдельный HTTP-клиент для длинного опроса: общий таймаут запросов
	// короче ожидания getUpdates и обрывал бы его до прихода обновлений.
	pollBot := &tgbotapi.BotAPI{
		Token:  token,
		Client: &http.Client{Timeout: pollTimeout},
		Buffer: 100,
	}
	pollBot.SetAPIEndpoint(endpoint)

	return &Client{
		bot:     bot,
		pollBot: pollBot,
		chatID:  chatID,
		limiter: rate.NewLimiter(rate.Limit(sendRate), sendBurst),
		logger:  logger,
	}, nil
}

func (c *Client) ChatID() int64 {
	return c.chatID
}

// mapError переводит ответ Telegram о превышении лимита в типизированную
// ошибку с длительностью ожидания.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var tgErr *tgbotapi.Error
	if errors.As(err, &tgErr) && tgErr.RetryAfter > 0 {
		return &customerrors.ErrRetryAfter{Wait: time.Duration(tgErr.RetryAfter) * time.Second}
	}

	return err
}

// CreateTopic создает новый топик в супергруппе и возвращает его ID.
func (c *Client) CreateTopic(ctx context.Context, name string) (int64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	params := tgbotapi.Params{}
	params.AddNonZero64("chat_id", c.chatID)
	params.AddNonEmpty("name", name)

	resp, err := c.bot.MakeRequest("createForumTopic", params)
	if err != nil {
		return 0, mapError(err)
	}

	var topic struct {
		MessageThreadID int64 `json:"message_thread_id"`
	}

	if err := json.Unmarshal(resp.Result, &topic); err != nil {
		return 0, fmt.Errorf("ошибка при разборе ответа createForumTopic: %w", err)
	}

	return topic.MessageThreadID, nil
}

// DeleteTopic удаляет топик вместе со всей историей сообщений.
func (c *Client) DeleteTopic(ctx context.Context, topicID int64) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	params := tgbotapi.Params{}
	params.AddNonZero64("chat_id", c.chatID)
	params.AddNonZero64("message_thread_id", topicID)

	_, err := c.bot.MakeRequest("deleteForumTopic", params)

	return mapError(err)
}

// SendTopicMessage отправляет сообщение в топик. topicID == 0 означает общий чат.
func (c *Client) SendTopicMessage(ctx context.Context, topicID int64, text string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	params := tgbotapi.Params{}
	params.AddNonZero64("chat_id", c.chatID)
	params.AddNonZero64("message_thread_id", topicID)
	params.AddNonEmpty("text", text)
	params.AddNonEmpty("parse_mode", "HTML")

	_, err := c.bot.MakeRequest("sendMessage", params)

	return mapError(err)
}

// Reply отвечает на конкретное сообщение сотрудника в топике.
func (c *Client) Reply(ctx context.Context, topicID, messageID int64, text string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	params := tgbotapi.Params{}
	params.AddNonZero64("chat_id", c.chatID)
	params.AddNonZero64("message_thread_id", topicID)
	params.AddNonZero64("reply_to_message_id", messageID)
	params.AddNonEmpty("text", text)
	params.AddNonEmpty("parse_mode", "HTML")

	_, err := c.bot.MakeRequest("sendMessage", params)

	return mapError(err)
}

// GetUpdates выполняет длинный опрос getUpdates и разбирает ответ в локальные
// типы, чтобы не потерять message_thread_id.
func (c *Client) GetUpdates(ctx context.Context, offset int64) ([]Update, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params := tgbotapi.Params{}
	params.AddNonZero64("offset", offset)
	params.AddNonZero("timeout", longPollWait)

	resp, err := c.pollBot.MakeRequest("getUpdates", params)
	if err != nil {
		return nil, mapError(err)
	}

	var updates []Update
	if err := json.Unmarshal(resp.Result, &updates); err != nil {
		return nil, fmt.Errorf("ошибка при разборе обновлений: %w", err)
	}

	return updates, nil
}

// DropPendingUpdates подтверждает накопленные на сервере обновления и
// возвращает смещение для следующего getUpdates. Вызывается перед началом
// опроса: ответы сотрудников, обработанные до перезапуска, не должны
// доставляться повторно.
func (c *Client) DropPendingUpdates(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	params := tgbotapi.Params{}
	params.AddNonZero64("offset", -1)

	resp, err := c.bot.MakeRequest("getUpdates", params)
	if err != nil {
		return 0, mapError(err)
	}

	var updates []Update
	if err := json.Unmarshal(resp.Result, &updates); err != nil {
		return 0, fmt.Errorf("ошибка при разборе обновлений: %w", err)
	}

	if len(updates) == 0 {
		return 0, nil
	}

	return updates[len(updates)-1].UpdateID + 1, nil
}
