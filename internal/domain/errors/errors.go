package errors

import (
	"fmt"
	"time"
)

type ErrInvalidInterval struct {
	CheckIn  time.Time
	CheckOut time.Time
}

func (e *ErrInvalidInterval) Error() string {
	return fmt.Sprintf("дата выезда должна быть позже даты заезда: %s >= %s",
		e.CheckIn.Format(time.RFC3339), e.CheckOut.Format(time.RFC3339))
}

func (e *ErrInvalidInterval) Is(target error) bool {
	_, ok := target.(*ErrInvalidInterval)
	return ok
}

type ErrBookingConflict struct {
	RoomID int64
}

func (e *ErrBookingConflict) Error() string {
	return fmt.Sprintf("комната %d уже забронирована на выбранные даты", e.RoomID)
}

func (e *ErrBookingConflict) Is(target error) bool {
	_, ok := target.(*ErrBookingConflict)
	return ok
}

type ErrConversationNotFound struct {
	ChatID int64
}

func (e *ErrConversationNotFound) Error() string {
	return fmt.Sprintf("диалог не найден: %d", e.ChatID)
}

func (e *ErrConversationNotFound) Is(target error) bool {
	_, ok := target.(*ErrConversationNotFound)
	return ok
}

// ErrAlreadyClaimed возвращается проигравшему при одновременной попытке взять диалог.
type ErrAlreadyClaimed struct {
	ChatID int64
}

func (e *ErrAlreadyClaimed) Error() string {
	return fmt.Sprintf("диалог %d уже взят другим сотрудником или закрыт", e.ChatID)
}

func (e *ErrAlreadyClaimed) Is(target error) bool {
	_, ok := target.(*ErrAlreadyClaimed)
	return ok
}

type ErrTopicNotFound struct {
	RoomNumber string
}

func (e *ErrTopicNotFound) Error() string {
	return "топик для комнаты не найден: " + e.RoomNumber
}

func (e *ErrTopicNotFound) Is(target error) bool {
	_, ok := target.(*ErrTopicNotFound)
	return ok
}

type ErrRoomNotOccupied struct {
	RoomNumber string
}

func (e *ErrRoomNotOccupied) Error() string {
	return "в комнате сейчас нет гостя: " + e.RoomNumber
}

func (e *ErrRoomNotOccupied) Is(target error) bool {
	_, ok := target.(*ErrRoomNotOccupied)
	return ok
}

type ErrChatNotLinked struct {
	RoomNumber string
}

func (e *ErrChatNotLinked) Error() string {
	return "для гостя комнаты не найден ID чата: " + e.RoomNumber
}

func (e *ErrChatNotLinked) Is(target error) bool {
	_, ok := target.(*ErrChatNotLinked)
	return ok
}

// ErrRetryAfter сообщает, что транспорт просит подождать указанное время
// перед повтором того же запроса.
type ErrRetryAfter struct {
	Wait time.Duration
}

func (e *ErrRetryAfter) Error() string {
	return fmt.Sprintf("превышен лимит запросов, повтор через %s", e.Wait)
}

func (e *ErrRetryAfter) Is(target error) bool {
	_, ok := target.(*ErrRetryAfter)
	return ok
}

type ErrUnauthorized struct{}

func (e *ErrUnauthorized) Error() string {
	return "токен доступа недействителен"
}

func (e *ErrUnauthorized) Is(target error) bool {
	_, ok := target.(*ErrUnauthorized)
	return ok
}

type ErrInvalidCheckOutDate struct {
	BookingID int64
	Value     string
	Cause     error
}

func (e *ErrInvalidCheckOutDate) Error() string {
	return fmt.Sprintf("не удалось обработать дату выезда '%s' для бронирования %d: %v",
		e.Value, e.BookingID, e.Cause)
}

func (e *ErrInvalidCheckOutDate) Unwrap() error {
	return e.Cause
}

type ErrBuildSQLQuery struct {
	Operation string
	Cause     error
}

func (e *ErrBuildSQLQuery) Error() string {
	return fmt.Sprintf("ошибка при построении SQL запроса для %s: %v", e.Operation, e.Cause)
}

func (e *ErrBuildSQLQuery) Unwrap() error {
	return e.Cause
}

type ErrSQLExecution struct {
	Operation string
	Cause     error
}

func (e *ErrSQLExecution) Error() string {
	return fmt.Sprintf("ошибка при выполнении SQL запроса для %s: %v", e.Operation, e.Cause)
}

func (e *ErrSQLExecution) Unwrap() error {
	return e.Cause
}

type ErrUnknownDBAccessType struct {
	AccessType string
}

func (e *ErrUnknownDBAccessType) Error() string {
	return fmt.Sprintf("неизвестный тип доступа к базе данных: %s", e.AccessType)
}

type ErrUnknownFlagStore struct {
	Kind string
}

func (e *ErrUnknownFlagStore) Error() string {
	return fmt.Sprintf("неизвестное хранилище флагов уведомлений: %s", e.Kind)
}

type HTTPError struct {
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error: %d", e.StatusCode)
}
