package console

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"genfity-order-admin/internal/listing"
	"genfity-order-admin/internal/notify"
	"genfity-order-admin/internal/query"
	"genfity-order-admin/internal/refresh"
	"genfity-order-admin/internal/settlement"
)

var ErrOrderNotFound = errors.New("order is not on the current page")

// Backend is everything the page needs from the orders API.
type Backend interface {
	listing.Fetcher
	settlement.Settler
}

// Page is one operator's orders screen. The location (a raw query string) is the
// only filter state; the list and the panel never call each other and meet only
// through the refresh counter.
type Page struct {
	list    *listing.List
	panel   *settlement.Panel
	counter *refresh.Counter
	inbox   *notify.Inbox
	notify  notify.Notifier
	loc     *time.Location

	mu       sync.Mutex
	location string
}

// NewPage wires a page. shared receives every notice the page emits in addition
// to the page's own inbox; it may be nil.
func NewPage(backend Backend, counter *refresh.Counter, shared notify.Notifier, loc *time.Location) *Page {
	if counter == nil {
		counter = refresh.NewCounter()
	}
	if loc == nil {
		loc = time.UTC
	}
	inbox := notify.NewInbox()
	notifier := notify.Multi{inbox, shared}
	return &Page{
		list:    listing.New(backend),
		panel:   settlement.NewPanel(backend, counter, notifier),
		counter: counter,
		inbox:   inbox,
		notify:  notifier,
		loc:     loc,
	}
}

func (p *Page) Location() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.location
}

func (p *Page) Filter() query.FilterState {
	return query.Decode(p.Location())
}

func (p *Page) Navigate(raw string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.location = strings.TrimPrefix(raw, "?")
}

// SetParam rewrites one key of the location and returns the new location.
func (p *Page) SetParam(key, value string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.location = query.Set(p.location, key, value)
	return p.location
}

func (p *Page) Reset() {
	p.Navigate("")
}

// Load always fetches the current filter.
func (p *Page) Load(ctx context.Context) error {
	return p.reported(ctx, p.list.Load(ctx, p.Filter(), p.counter.Current()))
}

// Sync fetches only when the filter or the refresh version moved, or the last
// fetch failed.
func (p *Page) Sync(ctx context.Context) error {
	return p.reported(ctx, p.list.Sync(ctx, p.Filter(), p.counter.Current()))
}

func (p *Page) reported(ctx context.Context, err error) error {
	if err == nil || errors.Is(err, listing.ErrStale) {
		return nil
	}
	p.notify.Notify(ctx, notify.Notice{Level: notify.LevelError, Message: err.Error(), At: time.Now()})
	return err
}

func (p *Page) OpenDetail(orderID string) error {
	order, ok := p.list.Find(orderID)
	if !ok {
		return ErrOrderNotFound
	}
	return p.panel.OpenDetail(order)
}

func (p *Page) OpenMarkPaid(orderID string) error {
	order, ok := p.list.Find(orderID)
	if !ok {
		return ErrOrderNotFound
	}
	return p.panel.OpenMarkPaid(order)
}

func (p *Page) SetCash(text string) error {
	return p.panel.SetCash(text)
}

func (p *Page) FillTotal() error {
	return p.panel.FillTotal()
}

func (p *Page) Settle(ctx context.Context) error {
	return p.panel.Settle(ctx)
}

func (p *Page) ClosePanel() error {
	return p.panel.Close()
}

// Selected returns the panel snapshot, if the panel is open.
func (p *Page) Selected() (settlement.Snapshot, bool) {
	return p.panel.Snapshot()
}

func (p *Page) Counter() *refresh.Counter {
	return p.counter
}

func (p *Page) TimeLocation() *time.Location {
	return p.loc
}
