package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

type Notice struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	OrderID string    `json:"orderId,omitempty"`
	At      time.Time `json:"at"`
}

// Notifier delivers operator-facing notices. Delivery failures are the notifier's
// own problem; callers never branch on them.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n Notice) {
	if n.At.IsZero() {
		n.At = time.Now()
	}
	for _, target := range m {
		if target != nil {
			target.Notify(ctx, n)
		}
	}
}

const inboxLimit = 20

// Inbox holds notices until the next render drains them.
type Inbox struct {
	mu      sync.Mutex
	notices []Notice
}

func NewInbox() *Inbox {
	return &Inbox{}
}

func (i *Inbox) Notify(_ context.Context, n Notice) {
	if n.At.IsZero() {
		n.At = time.Now()
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.notices = append(i.notices, n)
	if len(i.notices) > inboxLimit {
		i.notices = i.notices[len(i.notices)-inboxLimit:]
	}
}

func (i *Inbox) Drain() []Notice {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := i.notices
	i.notices = nil
	if out == nil {
		return []Notice{}
	}
	return out
}

type Log struct {
	Logger *zap.Logger
}

func (l Log) Notify(_ context.Context, n Notice) {
	if l.Logger == nil {
		return
	}
	fields := []zap.Field{zap.String("level", string(n.Level)), zap.String("message", n.Message)}
	if n.OrderID != "" {
		fields = append(fields, zap.String("orderId", n.OrderID))
	}
	switch n.Level {
	case LevelError:
		l.Logger.Warn("operator notice", fields...)
	default:
		l.Logger.Info("operator notice", fields...)
	}
}
