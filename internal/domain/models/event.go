package models

import "time"

type EventType string

const (
	EventRoomOccupied      EventType = "room_occupied"
	EventRoomVacated       EventType = "room_vacated"
	EventAutoCheckout      EventType = "auto_checkout"
	EventCheckoutReminder  EventType = "checkout_reminder"
	EventMessageRelayed    EventType = "message_relayed"
	EventEmployeeReplySent EventType = "employee_reply_sent"
)

// HotelEvent публикуется в Kafka для дашборда бэкенда.
type HotelEvent struct {
	Type       EventType `json:"type"`
	RoomNumber string    `json:"roomNumber,omitempty"`
	BookingID  int64     `json:"bookingId,omitempty"`
	ChatID     int64     `json:"chatId,omitempty"`
	GuestName  string    `json:"guestName,omitempty"`
	Tier       string    `json:"tier,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}
