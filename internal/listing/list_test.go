package listing

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"genfity-order-admin/internal/orders"
	"genfity-order-admin/internal/query"
)

type fakeFetcher struct {
	mu     sync.Mutex
	calls  []url.Values
	page   orders.Page
	err    error
	blocks map[string]chan struct{}
}

func (f *fakeFetcher) ListOrders(ctx context.Context, params url.Values) (orders.Page, error) {
	f.mu.Lock()
	f.calls = append(f.calls, params)
	block := f.blocks[params.Get("status")]
	page, err := f.page, f.err
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if err != nil {
		return orders.Page{}, err
	}
	if status := params.Get("status"); status != "" {
		page.Items = []orders.Order{{ID: status, Code: "ORD-" + status, Status: orders.Status(status)}}
		page.Total = 1
	}
	return page, nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func samplePage() orders.Page {
	return orders.Page{
		Items: []orders.Order{
			{ID: "o1", Code: "ORD-1", Status: orders.StatusOpen, DiningType: orders.DiningDineIn, Total: 50000},
			{ID: "o2", Code: "ORD-2", Status: orders.StatusPaid, DiningType: orders.DiningTakeAway, Total: 20000,
				Payments: []orders.Payment{{ID: "p1", Method: orders.PaymentCash, Amount: 20000}}},
		},
		Page: 1, PerPage: 10, Total: 2,
	}
}

func TestListLoadPopulatesRows(t *testing.T) {
	fetcher := &fakeFetcher{page: samplePage()}
	list := New(fetcher)

	if !list.Loading() {
		t.Fatalf("expected list to start loading")
	}
	filter := query.Defaults()
	if err := list.Load(context.Background(), filter, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	view := list.View("", filter, time.UTC)
	if view.Loading || view.Empty || len(view.Rows) != 2 {
		t.Fatalf("unexpected view %+v", view)
	}
	if !view.Rows[0].CanMarkPaid || view.Rows[1].CanMarkPaid {
		t.Fatalf("expected mark-paid only on eligible rows, got %+v", view.Rows)
	}
	if view.Rows[0].Total != "Rp 50.000" || view.Rows[1].DiningLabel != "Take-away" {
		t.Fatalf("unexpected formatting %+v", view.Rows)
	}
}

func TestListSyncOnlyOnKeyChange(t *testing.T) {
	fetcher := &fakeFetcher{page: samplePage()}
	list := New(fetcher)
	ctx := context.Background()
	filter := query.Defaults()

	_ = list.Sync(ctx, filter, 0)
	_ = list.Sync(ctx, filter, 0)
	if fetcher.callCount() != 1 {
		t.Fatalf("expected one fetch for unchanged key, got %d", fetcher.callCount())
	}

	_ = list.Sync(ctx, filter, 1)
	if fetcher.callCount() != 2 {
		t.Fatalf("expected version bump to reload, got %d", fetcher.callCount())
	}

	_ = list.Sync(ctx, filter.With(query.KeyDining, "DINE_IN"), 1)
	if fetcher.callCount() != 3 {
		t.Fatalf("expected filter change to reload, got %d", fetcher.callCount())
	}
}

func TestListFailureShowsErrorAndRetries(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("db down")}
	list := New(fetcher)
	ctx := context.Background()
	filter := query.Defaults()

	err := list.Sync(ctx, filter, 0)
	if err == nil || err.Error() != "db down" {
		t.Fatalf("expected db down, got %v", err)
	}
	view := list.View("", filter, time.UTC)
	if view.Loading {
		t.Fatalf("expected loading cleared after failure")
	}
	if view.Error != "db down" || !view.Empty || len(view.Rows) != 0 {
		t.Fatalf("unexpected error view %+v", view)
	}

	fetcher.mu.Lock()
	fetcher.err = nil
	fetcher.page = samplePage()
	fetcher.mu.Unlock()

	if err := list.Sync(ctx, filter, 0); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if fetcher.callCount() != 2 {
		t.Fatalf("expected failed key to be retried, got %d calls", fetcher.callCount())
	}
	if view := list.View("", filter, time.UTC); view.Error != "" || len(view.Rows) != 2 {
		t.Fatalf("unexpected view after retry %+v", view)
	}
}

func TestListDiscardsStaleResponses(t *testing.T) {
	slow := make(chan struct{})
	fetcher := &fakeFetcher{blocks: map[string]chan struct{}{"OPEN": slow}}
	list := New(fetcher)
	ctx := context.Background()

	older := query.Decode("status=OPEN")
	newer := query.Decode("status=PAID")

	done := make(chan error, 1)
	go func() { done <- list.Load(ctx, older, 0) }()

	for fetcher.callCount() == 0 {
		time.Sleep(time.Millisecond)
	}
	if err := list.Load(ctx, newer, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	close(slow)

	if err := <-done; !errors.Is(err, ErrStale) {
		t.Fatalf("expected stale error, got %v", err)
	}
	order, ok := list.Find("PAID")
	if !ok || order.Status != orders.StatusPaid {
		t.Fatalf("expected newer response to win")
	}
	if _, ok := list.Find("OPEN"); ok {
		t.Fatalf("stale response overwrote newer result")
	}
}

func TestListFindReturnsSnapshot(t *testing.T) {
	fetcher := &fakeFetcher{page: samplePage()}
	list := New(fetcher)
	_ = list.Load(context.Background(), query.Defaults(), 0)

	order, ok := list.Find("o2")
	if !ok {
		t.Fatalf("expected o2")
	}
	order.Payments[0].Amount = 1

	again, _ := list.Find("o2")
	if again.Payments[0].Amount != 20000 {
		t.Fatalf("snapshot mutation leaked into the list")
	}
}

func TestViewLoadingAndPagination(t *testing.T) {
	list := New(&fakeFetcher{})
	filter := query.Decode("perPage=5&page=2&status=PAID")
	view := list.View("status=PAID&perPage=5&page=2", filter, time.UTC)
	if !view.Loading || view.SkeletonRows != 5 {
		t.Fatalf("expected skeleton of 5 rows, got %+v", view)
	}

	p := paginate("status=PAID&page=2", query.Decode("status=PAID&page=2"), 95)
	if p.TotalPages != 10 || len(p.Links) != 6 {
		t.Fatalf("expected 10 pages with 6 links, got %+v", p)
	}
	if p.PrevDisabled || p.NextDisabled {
		t.Fatalf("expected prev and next enabled on page 2")
	}
	if p.PrevHref != "/admin/pesanan?status=PAID&page=1" || p.NextHref != "/admin/pesanan?status=PAID&page=3" {
		t.Fatalf("unexpected hrefs %q %q", p.PrevHref, p.NextHref)
	}
	if !p.Links[1].Active {
		t.Fatalf("expected page 2 active")
	}

	empty := paginate("", query.Defaults(), 0)
	if empty.TotalPages != 1 || len(empty.Links) != 1 || !empty.PrevDisabled || !empty.NextDisabled {
		t.Fatalf("unexpected empty pagination %+v", empty)
	}
}
