package flags

import (
	"context"

	"github.com/central-university-dev/go-hotel-sync/internal/domain/models"
)

// FlagStore помнит, какие уведомления о выселении уже отправлены.
// Флаг ставится до отправки: при сбое уведомление теряется, но не дублируется.
type FlagStore interface {
	IsSent(ctx context.Context, bookingID int64, tier models.NotificationTier) (bool, error)
	MarkSent(ctx context.Context, bookingID int64, tier models.NotificationTier) error
}
