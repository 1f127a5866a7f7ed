package notify

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

const (
	EventsExchange = "genfity.events"
	NoticesQueue   = "genfity.admin.notices"
	NoticesBinding = "admin.notice.#"
)

type Publisher interface {
	PublishJSON(ctx context.Context, exchange, routingKey string, payload any) error
}

// Broker forwards notices to the message broker so other operator surfaces
// (push workers, the watch command) see them too.
type Broker struct {
	Publisher Publisher
	Logger    *zap.Logger
	Source    string
}

type brokerEvent struct {
	Type   string `json:"type"`
	Source string `json:"source,omitempty"`
	Notice Notice `json:"notice"`
}

func RoutingKey(level Level) string {
	return "admin.notice." + string(level)
}

func (b Broker) Notify(ctx context.Context, n Notice) {
	if b.Publisher == nil {
		return
	}
	if n.At.IsZero() {
		n.At = time.Now()
	}
	// publishing must not hold up the operator's request
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	event := brokerEvent{Type: "admin.notice", Source: b.Source, Notice: n}
	if err := b.Publisher.PublishJSON(pubCtx, EventsExchange, RoutingKey(n.Level), event); err != nil && b.Logger != nil {
		b.Logger.Warn("notice publish failed", zap.String("level", string(n.Level)), zap.Error(err))
	}
}

// DecodeEvent is the inverse of what Broker publishes.
func DecodeEvent(body []byte) (Notice, error) {
	var event brokerEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return Notice{}, err
	}
	return event.Notice, nil
}
