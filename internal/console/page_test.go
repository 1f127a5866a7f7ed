package console

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"genfity-order-admin/internal/notify"
	"genfity-order-admin/internal/orders"
	"genfity-order-admin/internal/ordersapi"
	"genfity-order-admin/internal/refresh"
	"genfity-order-admin/internal/settlement"
)

type fakeBackend struct {
	mu      sync.Mutex
	lists   []url.Values
	paid    map[string]decimal.Decimal
	items   []orders.Order
	listErr error
}

func (f *fakeBackend) ListOrders(ctx context.Context, params url.Values) (orders.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = append(f.lists, params)
	if f.listErr != nil {
		return orders.Page{}, f.listErr
	}
	items := make([]orders.Order, 0, len(f.items))
	for _, o := range f.items {
		items = append(items, o.Clone())
	}
	return orders.Page{Items: items, Page: 1, PerPage: 10, Total: len(items)}, nil
}

func (f *fakeBackend) PayCash(ctx context.Context, orderID string, amount decimal.Decimal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.paid == nil {
		f.paid = map[string]decimal.Decimal{}
	}
	f.paid[orderID] = amount
	for i := range f.items {
		if f.items[i].ID == orderID {
			f.items[i].Status = orders.StatusPaid
			f.items[i].Payments = append(f.items[i].Payments, orders.Payment{ID: "p-" + orderID, Method: orders.PaymentCash, Amount: amount.IntPart()})
		}
	}
	return nil
}

func (f *fakeBackend) listCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.lists)
}

func sampleOrders() []orders.Order {
	return []orders.Order{
		{ID: "o1", Code: "ORD-1", Status: orders.StatusOpen, DiningType: orders.DiningDineIn, Subtotal: 50000, Total: 50000},
		{ID: "o2", Code: "ORD-2", Status: orders.StatusPaid, DiningType: orders.DiningTakeAway, Total: 20000,
			Payments: []orders.Payment{{ID: "p2", Method: orders.PaymentQRIS, Amount: 20000}}},
	}
}

func TestPageSettleRefreshesList(t *testing.T) {
	backend := &fakeBackend{items: sampleOrders()}
	page := NewPage(backend, nil, nil, time.UTC)
	ctx := context.Background()

	page.Navigate("?status=OPEN")
	if err := page.Sync(ctx); err != nil {
		t.Fatalf("unexpected sync error: %v", err)
	}
	if err := page.Sync(ctx); err != nil {
		t.Fatalf("unexpected sync error: %v", err)
	}
	if backend.listCalls() != 1 {
		t.Fatalf("expected unchanged filter not to reload, got %d calls", backend.listCalls())
	}
	if got := backend.lists[0].Get("status"); got != "OPEN" {
		t.Fatalf("expected status param, got %q", got)
	}

	if err := page.OpenMarkPaid("o1"); err != nil {
		t.Fatalf("unexpected open error: %v", err)
	}
	if err := page.Settle(ctx); err != nil {
		t.Fatalf("unexpected settle error: %v", err)
	}
	if !backend.paid["o1"].Equal(decimal.NewFromInt(50000)) {
		t.Fatalf("expected settlement for the total, got %v", backend.paid)
	}

	if err := page.Sync(ctx); err != nil {
		t.Fatalf("unexpected sync error: %v", err)
	}
	if backend.listCalls() != 2 {
		t.Fatalf("expected exactly one reload after settlement, got %d calls", backend.listCalls())
	}

	view := page.View()
	if view.Panel.Open {
		t.Fatalf("expected panel closed after settlement")
	}
	if view.Version != 1 {
		t.Fatalf("expected version 1, got %d", view.Version)
	}
	if view.List.Rows[0].Status != orders.StatusPaid || view.List.Rows[0].CanMarkPaid {
		t.Fatalf("expected refreshed row to be paid, got %+v", view.List.Rows[0])
	}
	if len(view.Notices) != 1 || view.Notices[0].Level != notify.LevelSuccess {
		t.Fatalf("expected success notice, got %+v", view.Notices)
	}
	if again := page.View(); len(again.Notices) != 0 {
		t.Fatalf("expected notices drained, got %+v", again.Notices)
	}
}

func TestPageOpenUnknownOrder(t *testing.T) {
	page := NewPage(&fakeBackend{items: sampleOrders()}, nil, nil, time.UTC)
	_ = page.Load(context.Background())

	if err := page.OpenDetail("missing"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := page.OpenMarkPaid("o2"); !errors.Is(err, settlement.ErrNotSettleable) {
		t.Fatalf("expected paid order refused, got %v", err)
	}
	if err := page.OpenDetail("o2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	view := page.View()
	if !view.Panel.Open || view.Panel.Cash != nil {
		t.Fatalf("expected read-only detail, got %+v", view.Panel)
	}
}

func TestPageSetParamResetsPage(t *testing.T) {
	page := NewPage(&fakeBackend{}, nil, nil, time.UTC)
	page.Navigate("page=3&perPage=20")

	location := page.SetParam("status", "PAID")
	if location != "page=1&perPage=20&status=PAID" {
		t.Fatalf("unexpected location %q", location)
	}
	location = page.SetParam("page", "2")
	if location != "page=2&perPage=20&status=PAID" {
		t.Fatalf("unexpected location %q", location)
	}

	page.Reset()
	f := page.Filter()
	if page.Location() != "" || f.Page != 1 || f.PerPage != 10 || string(f.Range) != "7d" {
		t.Fatalf("expected defaults after reset, got %q %+v", page.Location(), f)
	}
}

func TestPageViewOptions(t *testing.T) {
	page := NewPage(&fakeBackend{}, nil, nil, time.UTC)
	page.Navigate("dining=TAKE_AWAY&range=30d")
	view := page.View()

	if !view.List.Loading {
		t.Fatalf("expected loading before the first fetch")
	}
	if len(view.Options.Status) != 5 || !view.Options.Status[0].Selected {
		t.Fatalf("unexpected status options %+v", view.Options.Status)
	}
	selected := ""
	for _, o := range view.Options.Dining {
		if o.Selected {
			selected = o.Label
		}
	}
	if selected != "Take-away" {
		t.Fatalf("expected take-away selected, got %q", selected)
	}
	for _, o := range view.Options.Range {
		if o.Selected && o.Value != "30d" {
			t.Fatalf("unexpected range selection %+v", o)
		}
	}
}

// Read failure surfaces the backend message and clears the loading state.
func TestPageLoadFailureFromBackend(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"db down"}`))
	}))
	defer srv.Close()

	client := ordersapi.New(srv.URL, nil, zap.NewNop())
	page := NewPage(client, refresh.NewCounter(), nil, time.UTC)

	err := page.Sync(context.Background())
	if err == nil || err.Error() != "db down" {
		t.Fatalf("expected backend message, got %v", err)
	}

	view := page.View()
	if view.List.Loading {
		t.Fatalf("expected loading cleared")
	}
	if view.List.Error != "db down" || len(view.List.Rows) != 0 {
		t.Fatalf("expected error state, got %+v", view.List)
	}
	if len(view.Notices) != 1 || view.Notices[0].Message != "db down" || view.Notices[0].Level != notify.LevelError {
		t.Fatalf("expected error notice, got %+v", view.Notices)
	}

	// a failed load is retried even though the filter did not change
	_ = page.Sync(context.Background())
	if calls.Load() != 2 {
		t.Fatalf("expected retry after failure, got %d calls", calls.Load())
	}
}

func TestSessions(t *testing.T) {
	counter := refresh.NewCounter()
	sessions := NewSessions(&fakeBackend{}, counter, nil, time.UTC)
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	sessions.now = func() time.Time { return now }

	page, id := sessions.Get("")
	if id == "" || page == nil {
		t.Fatalf("expected new session")
	}
	again, sameID := sessions.Get(id)
	if again != page || sameID != id {
		t.Fatalf("expected same page for known session")
	}
	if _, other := sessions.Get("not-a-uuid"); other == id || strings.TrimSpace(other) == "" {
		t.Fatalf("expected fresh id for malformed session")
	}
	if page.Counter() != counter {
		t.Fatalf("expected shared counter")
	}

	now = now.Add(2 * time.Hour)
	_, _ = sessions.Get(id)
	if removed := sessions.Prune(time.Hour); removed != 1 {
		t.Fatalf("expected one idle session pruned, got %d", removed)
	}
	if sessions.Len() != 1 {
		t.Fatalf("expected active session kept, got %d", sessions.Len())
	}
}
