package listing

import (
	"context"
	"errors"
	"net/url"
	"sync"

	"genfity-order-admin/internal/orders"
	"genfity-order-admin/internal/query"
)

// ErrStale is returned when a newer load was issued while this one was in flight;
// its result is dropped.
var ErrStale = errors.New("superseded by a newer list request")

type Fetcher interface {
	ListOrders(ctx context.Context, params url.Values) (orders.Page, error)
}

// key is everything that should trigger a reload when it changes.
type key struct {
	filter  query.FilterState
	version uint64
}

type List struct {
	fetcher Fetcher

	mu       sync.Mutex
	seq      uint64
	loading  bool
	rows     []orders.Order
	total    int
	errMsg   string
	lastKey  key
	issued   bool
	lastFail bool
}

func New(fetcher Fetcher) *List {
	return &List{fetcher: fetcher, loading: true}
}

// Sync loads only when the filter or the version changed since the last issued
// load, or when that load failed.
func (l *List) Sync(ctx context.Context, filter query.FilterState, version uint64) error {
	k := key{filter: filter, version: version}
	l.mu.Lock()
	if l.issued && l.lastKey == k && !l.lastFail {
		l.mu.Unlock()
		return nil
	}
	l.mu.Unlock()
	return l.Load(ctx, filter, version)
}

// Load always issues a request. Only the newest request may update the list.
func (l *List) Load(ctx context.Context, filter query.FilterState, version uint64) error {
	l.mu.Lock()
	l.seq++
	seq := l.seq
	l.loading = true
	l.issued = true
	l.lastKey = key{filter: filter, version: version}
	l.lastFail = false
	l.mu.Unlock()

	page, err := l.fetcher.ListOrders(ctx, filter.ListParams())

	l.mu.Lock()
	defer l.mu.Unlock()
	if seq != l.seq {
		return ErrStale
	}
	l.loading = false
	if err != nil {
		l.rows = nil
		l.total = 0
		l.errMsg = err.Error()
		l.lastFail = true
		return err
	}
	l.rows = page.Items
	l.total = page.Total
	l.errMsg = ""
	return nil
}

// Find returns a detached copy of a row on the current page.
func (l *List) Find(orderID string) (orders.Order, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, o := range l.rows {
		if o.ID == orderID {
			return o.Clone(), true
		}
	}
	return orders.Order{}, false
}

func (l *List) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

func (l *List) Total() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.total
}
