package hotelapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/central-university-dev/go-hotel-sync/internal/common/httputil"
	"github.com/central-university-dev/go-hotel-sync/internal/config"
	customerrors "github.com/central-university-dev/go-hotel-sync/internal/domain/errors"
	"github.com/central-university-dev/go-hotel-sync/internal/domain/models"
	"github.com/go-resty/resty/v2"
)

// Client — клиент API отеля с bearer-авторизацией. При истечении токена
// выполняется один прозрачный повторный вход и повтор запроса.
type Client struct {
	client  *resty.Client
	baseURL string

	username string
	password string

	mu    sync.Mutex
	token string

	logger *slog.Logger
}

func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	client := httputil.CreateResilientHTTPClient(cfg, logger, "hotel_api")

	return &Client{
		client:   client,
		baseURL:  cfg.HotelAPIBaseURL,
		username: cfg.HotelAPIUsername,
		password: cfg.HotelAPIPassword,
		logger:   logger,
	}
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

// Login получает новый токен доступа. Вызывается лениво при первом запросе
// и повторно при ответе 401.
func (c *Client) Login(ctx context.Context) error {
	c.logger.Info("Попытка входа в API отеля")

	var result loginResponse

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"username": c.username, "password": c.password}).
		SetResult(&result).
		Post(c.baseURL + "/admin/login")
	if err != nil {
		return fmt.Errorf("ошибка при входе в API: %w", err)
	}

	if !resp.IsSuccess() {
		return fmt.Errorf("ошибка при входе в API: статус %d", resp.StatusCode())
	}

	if result.AccessToken == "" {
		return fmt.Errorf("в ответе API отсутствует токен доступа")
	}

	c.mu.Lock()
	c.token = result.AccessToken
	c.mu.Unlock()

	c.logger.Info("Успешный вход в API отеля")

	return nil
}

func (c *Client) currentToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.token
}

// execute выполняет запрос с токеном; на 401 — один повторный вход и повтор.
func (c *Client) execute(ctx context.Context, build func(*resty.Request) (*resty.Response, error)) (*resty.Response, error) {
	if c.currentToken() == "" {
		if err := c.Login(ctx); err != nil {
			return nil, err
		}
	}

	resp, err := build(c.client.R().SetContext(ctx).SetAuthToken(c.currentToken()))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode() != http.StatusUnauthorized {
		return resp, nil
	}

	c.logger.Warn("Токен истек, выполняется повторный вход")

	if err := c.Login(ctx); err != nil {
		return nil, err
	}

	resp, err = build(c.client.R().SetContext(ctx).SetAuthToken(c.currentToken()))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode() == http.StatusUnauthorized {
		return nil, &customerrors.ErrUnauthorized{}
	}

	return resp, nil
}

type roomResponse struct {
	RoomNumber     string `json:"room_number"`
	Status         string `json:"status"`
	CurrentBooking *struct {
		ReceptionChatID *int64 `json:"reception_chat_id"`
		User            *struct {
			FirstName  string `json:"first_name"`
			LastName   string `json:"last_name"`
			Patronymic string `json:"patronymic"`
		} `json:"user"`
	} `json:"current_booking"`
}

// GetRooms возвращает свежий снимок состояния всех комнат.
func (c *Client) GetRooms(ctx context.Context) ([]models.RoomSnapshot, error) {
	var rooms []roomResponse

	resp, err := c.execute(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetResult(&rooms).Get(c.baseURL + "/reception/rooms")
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка при запросе списка комнат: %w", err)
	}

	if !resp.IsSuccess() {
		return nil, fmt.Errorf("API отеля вернул статус %d при запросе комнат", resp.StatusCode())
	}

	snapshots := make([]models.RoomSnapshot, 0, len(rooms))

	for _, room := range rooms {
		snapshot := models.RoomSnapshot{
			RoomNumber: room.RoomNumber,
			Status:     models.RoomStatus(room.Status),
			GuestName:  "Гость",
		}

		if room.CurrentBooking != nil {
			if u := room.CurrentBooking.User; u != nil {
				snapshot.GuestName = models.GuestDisplayName(u.LastName, u.FirstName, u.Patronymic)
			}

			if id := room.CurrentBooking.ReceptionChatID; id != nil {
				snapshot.ChatID = *id
				snapshot.HasChat = true
			}
		}

		snapshots = append(snapshots, snapshot)
	}

	return snapshots, nil
}

type bookingResponse struct {
	BookingID     int64  `json:"booking_id"`
	BookingStatus string `json:"booking_status"`
	LastName      string `json:"last_name"`
	CheckOutDate  string `json:"check_out_date"`
}

// GetBookings возвращает все бронирования для задачи выселения.
func (c *Client) GetBookings(ctx context.Context) ([]models.Booking, error) {
	var bookings []bookingResponse

	resp, err := c.execute(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetResult(&bookings).Get(c.baseURL + "/reception/getusers")
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка при запросе списка бронирований: %w", err)
	}

	if !resp.IsSuccess() {
		return nil, fmt.Errorf("API отеля вернул статус %d при запросе бронирований", resp.StatusCode())
	}

	result := make([]models.Booking, 0, len(bookings))

	for _, b := range bookings {
		result = append(result, models.Booking{
			ID:            b.BookingID,
			Status:        models.BookingStatus(b.BookingStatus),
			GuestLastName: b.LastName,
			CheckOutRaw:   b.CheckOutDate,
		})
	}

	return result, nil
}

// CompleteBooking помечает бронирование завершенным (автовыселение).
func (c *Client) CompleteBooking(ctx context.Context, bookingID int64) error {
	resp, err := c.execute(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(map[string]string{"status": string(models.BookingCompleted)}).
			Patch(fmt.Sprintf("%s/reception/bookings/%d", c.baseURL, bookingID))
	})
	if err != nil {
		return fmt.Errorf("ошибка при завершении бронирования %d: %w", bookingID, err)
	}

	if !resp.IsSuccess() {
		return fmt.Errorf("API отеля вернул статус %d при завершении бронирования %d", resp.StatusCode(), bookingID)
	}

	return nil
}

type messageResponse struct {
	ID      int64  `json:"id"`
	Content string `json:"content"`
	Sender  struct {
		Type string `json:"type"`
	} `json:"sender"`
}

// GetChatMessages возвращает сообщения чата с ID строго больше sinceID в порядке
// возрастания. При sinceID == 0 API отдает ограниченную страницу последних сообщений.
func (c *Client) GetChatMessages(ctx context.Context, chatID, sinceID int64, limit int) ([]models.ChatMessage, error) {
	var messages []messageResponse

	resp, err := c.execute(ctx, func(r *resty.Request) (*resty.Response, error) {
		if sinceID > 0 {
			r.SetQueryParam("since_id", strconv.FormatInt(sinceID, 10))
		} else if limit > 0 {
			r.SetQueryParam("limit", strconv.Itoa(limit))
		}

		return r.SetResult(&messages).
			Get(fmt.Sprintf("%s/reception/chats/%d/messages", c.baseURL, chatID))
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка при запросе сообщений чата %d: %w", chatID, err)
	}

	if !resp.IsSuccess() {
		return nil, fmt.Errorf("API отеля вернул статус %d при запросе сообщений чата %d", resp.StatusCode(), chatID)
	}

	result := make([]models.ChatMessage, 0, len(messages))

	for _, m := range messages {
		result = append(result, models.ChatMessage{
			ID:      m.ID,
			ChatID:  chatID,
			Content: m.Content,
			Sender:  models.SenderType(m.Sender.Type),
		})
	}

	return result, nil
}

// SendEmployeeMessage отправляет ответ сотрудника в удаленный чат гостя.
func (c *Client) SendEmployeeMessage(ctx context.Context, chatID int64, text string) error {
	resp, err := c.execute(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(map[string]string{"content": text}).
			Post(fmt.Sprintf("%s/reception/chats/%d/messages", c.baseURL, chatID))
	})
	if err != nil {
		return fmt.Errorf("ошибка при отправке сообщения в чат %d: %w", chatID, err)
	}

	if !resp.IsSuccess() {
		return fmt.Errorf("API отеля вернул статус %d при отправке сообщения в чат %d", resp.StatusCode(), chatID)
	}

	return nil
}
