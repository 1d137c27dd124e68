package booking

import (
	"time"

	customerrors "github.com/central-university-dev/go-hotel-sync/internal/domain/errors"
	"github.com/central-university-dev/go-hotel-sync/internal/domain/models"
)

// Candidate — проверяемый интервал нового бронирования.
type Candidate struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// Validate проверяет, что интервал не вырожден: заезд строго раньше выезда.
func (c Candidate) Validate() error {
	if !c.CheckIn.Before(c.CheckOut) {
		return &customerrors.ErrInvalidInterval{CheckIn: c.CheckIn, CheckOut: c.CheckOut}
	}

	return nil
}

// Overlaps проверяет пересечение двух полуоткрытых интервалов [check_in, check_out).
// Одна пара неравенств покрывает все случаи: начало внутри, конец внутри и полное
// поглощение. Совпадение границ пересечением не считается: выезд одного гостя и
// заезд следующего могут приходиться на один момент.
func Overlaps(existing models.BookingInterval, candidate Candidate) bool {
	return candidate.CheckIn.Before(existing.CheckOut) && existing.CheckIn.Before(candidate.CheckOut)
}

// HasConflict ищет пересечение кандидата с существующими бронированиями комнаты.
// Отмененные бронирования не участвуют в проверке.
func HasConflict(existing []models.BookingInterval, roomID int64, candidate Candidate) (bool, error) {
	if err := candidate.Validate(); err != nil {
		return false, err
	}

	for _, b := range existing {
		if b.RoomID != roomID || b.Status == models.BookingCancelled {
			continue
		}

		if Overlaps(b, candidate) {
			return true, nil
		}
	}

	return false, nil
}

// CheckAvailability возвращает типизированный конфликт, если даты заняты.
func CheckAvailability(existing []models.BookingInterval, roomID int64, candidate Candidate) error {
	conflict, err := HasConflict(existing, roomID, candidate)
	if err != nil {
		return err
	}

	if conflict {
		return &customerrors.ErrBookingConflict{RoomID: roomID}
	}

	return nil
}
