package models

import "time"

type BookingStatus string

const (
	BookingActive    BookingStatus = "active"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// Terminal сообщает, что бронирование больше не участвует в выселении и уведомлениях.
func (s BookingStatus) Terminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

// Booking — бронирование в том виде, в котором его отдает API отеля.
// CheckOutRaw хранит исходную строку даты выезда: она приходит без часового
// пояса и нормализуется сервисом выселения.
type Booking struct {
	ID            int64
	Status        BookingStatus
	GuestLastName string
	RoomID        int64
	CheckOutRaw   string
}

// BookingInterval — полуоткрытый интервал [CheckIn, CheckOut) для проверки пересечений.
type BookingInterval struct {
	RoomID   int64
	Status   BookingStatus
	CheckIn  time.Time
	CheckOut time.Time
}

// NotificationTier — уровень предупреждения о скором выселении.
type NotificationTier struct {
	Name     string
	Duration time.Duration
}

// NotificationTiers — фиксированный набор уровней в порядке убывания срока.
// За один проход срабатывает не больше одного уровня: ближайшего к выезду
// из покрывающих оставшееся время.
var NotificationTiers = []NotificationTier{
	{Name: "3h", Duration: 3 * time.Hour},
	{Name: "2h", Duration: 2 * time.Hour},
	{Name: "1h", Duration: time.Hour},
	{Name: "30m", Duration: 30 * time.Minute},
}
