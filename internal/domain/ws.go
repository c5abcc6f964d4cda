package domain

import (
	"encoding/json"

	"github.com/google/uuid"
)

const (
	WsChannelMetrics    = "metrics"
	WsChannelFilesystem = "filesystem"
	WsChannelExtensions = "extensions"
)

const (
	WsEventMetricsUpdated    = "metrics.updated"
	WsEventFilesystemChanged = "filesystem.changed"
	WsEventNotification      = "extension.notify"
	WsEventSurfaceCreated    = "surface.created"
	WsEventSurfaceRemoved    = "surface.removed"
)

const (
	WsSubscribe   = "subscribe"
	WsUnsubscribe = "unsubscribe"
)

type WsClientMessage struct {
	Type    string          `json:"type"`
	Channel string          `json:"channel,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type WsServerEvent struct {
	Channel string `json:"channel"`
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

type NotificationSeverity string

const (
	SeverityInfo     NotificationSeverity = "info"
	SeverityWarning  NotificationSeverity = "warning"
	SeverityCritical NotificationSeverity = "critical"
)

// Notification is what an operator sees in the dashboard toast area.
type Notification struct {
	ID       uuid.UUID            `json:"id"`
	Source   string               `json:"source"`
	Message  string               `json:"message"`
	Severity NotificationSeverity `json:"severity"`
	SentAt   int64                `json:"sent_at"`
}

// Surface is a dashboard tab contributed by an extension.
type Surface struct {
	ID    string `json:"id"`
	Owner string `json:"owner"`
	Title string `json:"title"`
	Icon  string `json:"icon,omitempty"`
	Body  string `json:"body,omitempty"`
}
