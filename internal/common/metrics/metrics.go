package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	Namespace = "hotel_sync"

	SyncSubsystem     = "sync"
	CheckoutSubsystem = "checkout"
	RelaySubsystem    = "relay"
)

// Метрики синхронизации состояния комнат.
var (
	SyncTicksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: SyncSubsystem,
			Name:      "ticks_total",
			Help:      "Total number of state sync ticks",
		},
		[]string{"status"},
	)

	SyncTickDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: SyncSubsystem,
			Name:      "tick_duration_seconds",
			Help:      "State sync tick duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	RoomTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: SyncSubsystem,
			Name:      "room_transitions_total",
			Help:      "Total number of observed room status transitions",
		},
		[]string{"transition"},
	)

	TopicsRecreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: SyncSubsystem,
			Name:      "topics_recreated_total",
			Help:      "Total number of recreated room topics",
		},
	)

	OccupiedRooms = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: SyncSubsystem,
			Name:      "occupied_rooms",
			Help:      "Number of rooms currently occupied",
		},
	)
)

// Метрики ретрансляции сообщений.
var (
	MessagesRelayedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: RelaySubsystem,
			Name:      "messages_total",
			Help:      "Total number of relayed messages",
		},
		[]string{"direction", "status"},
	)

	ClaimAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: RelaySubsystem,
			Name:      "claim_attempts_total",
			Help:      "Total number of conversation claim attempts",
		},
		[]string{"result"},
	)
)

// Метрики автоматического выселения.
var (
	CheckoutSweepsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: CheckoutSubsystem,
			Name:      "sweeps_total",
			Help:      "Total number of checkout sweeps",
		},
		[]string{"status"},
	)

	AutoCheckoutsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: CheckoutSubsystem,
			Name:      "auto_checkouts_total",
			Help:      "Total number of automated checkouts",
		},
	)

	NotificationsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: CheckoutSubsystem,
			Name:      "notifications_sent_total",
			Help:      "Total number of pre-checkout notifications by tier",
		},
		[]string{"tier"},
	)
)

func RecordSyncTick(err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
	}

	SyncTicksTotal.WithLabelValues(status).Inc()
	SyncTickDuration.Observe(duration.Seconds())
}

func RecordRoomTransition(transition string) {
	RoomTransitionsTotal.WithLabelValues(transition).Inc()
}

func RecordRelayedMessage(direction string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	MessagesRelayedTotal.WithLabelValues(direction, status).Inc()
}

func RecordClaimAttempt(result string) {
	ClaimAttemptsTotal.WithLabelValues(result).Inc()
}

func RecordCheckoutSweep(err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	CheckoutSweepsTotal.WithLabelValues(status).Inc()
}
