package models

import "strings"

type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomMaintenance RoomStatus = "maintenance"
)

// RoomSnapshot — состояние комнаты на момент опроса API.
// Снимок никогда не изменяется, при следующем опросе заменяется целиком.
type RoomSnapshot struct {
	RoomNumber string
	Status     RoomStatus
	GuestName  string
	ChatID     int64
	HasChat    bool
}

func (s RoomSnapshot) Occupied() bool {
	return s.Status == RoomOccupied
}

// GuestDisplayName собирает отображаемое имя гостя из фамилии, имени и отчества.
func GuestDisplayName(lastName, firstName, patronymic string) string {
	parts := make([]string, 0, 3)

	for _, p := range []string{lastName, firstName, patronymic} {
		if p != "" {
			parts = append(parts, p)
		}
	}

	if len(parts) == 0 {
		return "Гость"
	}

	return strings.Join(parts, " ")
}
