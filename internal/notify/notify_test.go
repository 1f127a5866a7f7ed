package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordingPublisher struct {
	exchange   string
	routingKey string
	body       []byte
	err        error
}

func (p *recordingPublisher) PublishJSON(_ context.Context, exchange, routingKey string, payload any) error {
	p.exchange = exchange
	p.routingKey = routingKey
	p.body, _ = json.Marshal(payload)
	return p.err
}

func TestInboxDrain(t *testing.T) {
	inbox := NewInbox()
	if got := inbox.Drain(); len(got) != 0 {
		t.Fatalf("expected empty inbox")
	}

	for i := 0; i < inboxLimit+5; i++ {
		inbox.Notify(context.Background(), Notice{Level: LevelInfo, Message: "n"})
	}
	got := inbox.Drain()
	if len(got) != inboxLimit {
		t.Fatalf("expected %d notices, got %d", inboxLimit, len(got))
	}
	if got[0].At.IsZero() {
		t.Fatalf("expected timestamp to be set")
	}
	if len(inbox.Drain()) != 0 {
		t.Fatalf("expected drain to empty the inbox")
	}
}

func TestMultiFansOut(t *testing.T) {
	a, b := NewInbox(), NewInbox()
	Multi{a, nil, b}.Notify(context.Background(), Notice{Level: LevelSuccess, Message: "done"})
	if len(a.Drain()) != 1 || len(b.Drain()) != 1 {
		t.Fatalf("expected notice in both inboxes")
	}
}

func TestBrokerPublishesRoundTrip(t *testing.T) {
	pub := &recordingPublisher{}
	Broker{Publisher: pub, Source: "console"}.Notify(context.Background(), Notice{Level: LevelSuccess, Message: "Order ORD-1 marked as PAID (Cash)", OrderID: "o1"})

	if pub.exchange != EventsExchange || pub.routingKey != "admin.notice.success" {
		t.Fatalf("unexpected routing %s %s", pub.exchange, pub.routingKey)
	}
	notice, err := DecodeEvent(pub.body)
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if notice.OrderID != "o1" || notice.Level != LevelSuccess {
		t.Fatalf("unexpected notice %+v", notice)
	}
}

func TestBrokerLogsPublishFailure(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	pub := &recordingPublisher{err: errors.New("channel closed")}
	Broker{Publisher: pub, Logger: zap.New(core)}.Notify(context.Background(), Notice{Level: LevelError, Message: "x"})

	if logs.FilterMessage("notice publish failed").Len() != 1 {
		t.Fatalf("expected publish failure to be logged")
	}
}

func TestLogNotifier(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	Log{Logger: zap.New(core)}.Notify(context.Background(), Notice{Level: LevelWarning, Message: "amount received is less than the total", OrderID: "o1"})
	entries := logs.FilterMessage("operator notice").All()
	if len(entries) != 1 {
		t.Fatalf("expected one log entry, got %d", len(entries))
	}
	if entries[0].ContextMap()["orderId"] != "o1" {
		t.Fatalf("expected orderId field, got %v", entries[0].ContextMap())
	}
}
