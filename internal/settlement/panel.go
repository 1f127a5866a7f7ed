package settlement

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"genfity-order-admin/internal/notify"
	"genfity-order-admin/internal/orders"
	"genfity-order-admin/internal/refresh"
)

type State int

const (
	Closed State = iota
	Viewing
	Submitting
)

func (s State) String() string {
	switch s {
	case Viewing:
		return "viewing"
	case Submitting:
		return "submitting"
	}
	return "closed"
}

var (
	ErrNoSelection      = errors.New("no order selected")
	ErrInFlight         = errors.New("a cash payment is already being recorded")
	ErrNotSettleable    = errors.New("order is already paid or has a recorded payment")
	ErrInsufficientCash = errors.New("amount received is less than the total")
)

const fallbackFailureMessage = "failed to record cash payment"

type Settler interface {
	PayCash(ctx context.Context, orderID string, amount decimal.Decimal) error
}

// Snapshot is the order as it looked when the panel was opened, plus the
// operator's transient input. It is never shared with the list.
type Snapshot struct {
	Order      orders.Order
	CashText   string
	Submitting bool
}

// Panel is the detail and cash-settlement side panel for one operator.
type Panel struct {
	settler  Settler
	counter  *refresh.Counter
	notifier notify.Notifier

	mu       sync.Mutex
	state    State
	snapshot *Snapshot
}

func NewPanel(settler Settler, counter *refresh.Counter, notifier notify.Notifier) *Panel {
	if notifier == nil {
		notifier = notify.Multi{}
	}
	return &Panel{settler: settler, counter: counter, notifier: notifier}
}

func (p *Panel) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// OpenDetail shows the order with an empty cash input.
func (p *Panel) OpenDetail(order orders.Order) error {
	return p.open(order, "")
}

// OpenMarkPaid is the list shortcut: the cash input starts at the order total.
func (p *Panel) OpenMarkPaid(order orders.Order) error {
	if !order.CanSettle() {
		return ErrNotSettleable
	}
	return p.open(order, strconv.FormatInt(order.Total, 10))
}

func (p *Panel) open(order orders.Order, cash string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == Submitting {
		return ErrInFlight
	}
	p.snapshot = &Snapshot{Order: order.Clone(), CashText: cash}
	p.state = Viewing
	return nil
}

func (p *Panel) SetCash(text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch p.state {
	case Closed:
		return ErrNoSelection
	case Submitting:
		return ErrInFlight
	}
	p.snapshot.CashText = text
	return nil
}

func (p *Panel) FillTotal() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch p.state {
	case Closed:
		return ErrNoSelection
	case Submitting:
		return ErrInFlight
	}
	p.snapshot.CashText = strconv.FormatInt(p.snapshot.Order.Total, 10)
	return nil
}

// Close discards the snapshot and the cash input.
func (p *Panel) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == Submitting {
		return ErrInFlight
	}
	p.state = Closed
	p.snapshot = nil
	return nil
}

func (p *Panel) CanSettle() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.canSettleLocked()
}

func (p *Panel) canSettleLocked() bool {
	return p.snapshot != nil && p.snapshot.Order.CanSettle()
}

func (p *Panel) SettleEnabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settleEnabledLocked()
}

func (p *Panel) settleEnabledLocked() bool {
	if p.state != Viewing || !p.canSettleLocked() {
		return false
	}
	return Evaluate(p.snapshot.CashText, p.snapshot.Order.Total).Sufficient
}

// Settle records the tendered cash for the selected order. At most one request is
// in flight per panel; a call made while Submitting returns ErrInFlight without
// touching the backend.
func (p *Panel) Settle(ctx context.Context) error {
	p.mu.Lock()
	if p.state == Closed || p.snapshot == nil {
		p.mu.Unlock()
		return ErrNoSelection
	}
	if p.state == Submitting {
		p.mu.Unlock()
		return ErrInFlight
	}
	order := p.snapshot.Order
	if !order.CanSettle() {
		p.mu.Unlock()
		p.warn(ctx, order.ID, ErrNotSettleable.Error())
		return ErrNotSettleable
	}
	tender := Evaluate(p.snapshot.CashText, order.Total)
	if !tender.Sufficient {
		p.mu.Unlock()
		p.warn(ctx, order.ID, ErrInsufficientCash.Error())
		return ErrInsufficientCash
	}
	p.state = Submitting
	p.snapshot.Submitting = true
	p.mu.Unlock()

	err := p.settler.PayCash(ctx, order.ID, tender.Amount)

	p.mu.Lock()
	if err != nil {
		p.state = Viewing
		if p.snapshot != nil {
			p.snapshot.Submitting = false
		}
		p.mu.Unlock()

		message := strings.TrimSpace(err.Error())
		if message == "" {
			message = fallbackFailureMessage
		}
		p.notifier.Notify(ctx, notify.Notice{Level: notify.LevelError, Message: message, OrderID: order.ID, At: time.Now()})
		return err
	}
	p.state = Closed
	p.snapshot = nil
	p.mu.Unlock()

	if p.counter != nil {
		p.counter.Bump()
	}
	p.notifier.Notify(ctx, notify.Notice{
		Level:   notify.LevelSuccess,
		Message: "Order " + order.Code + " marked as PAID (Cash)",
		OrderID: order.ID,
		At:      time.Now(),
	})
	return nil
}

func (p *Panel) warn(ctx context.Context, orderID, message string) {
	p.notifier.Notify(ctx, notify.Notice{Level: notify.LevelWarning, Message: message, OrderID: orderID, At: time.Now()})
}

// Snapshot returns a copy of the selected order and input, if any.
func (p *Panel) Snapshot() (Snapshot, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.snapshot == nil {
		return Snapshot{}, false
	}
	snap := *p.snapshot
	snap.Order = p.snapshot.Order.Clone()
	return snap, true
}
