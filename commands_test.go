package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"genfity-order-admin/internal/console"
	"genfity-order-admin/internal/listing"
	"genfity-order-admin/internal/notify"
	"genfity-order-admin/internal/orders"
)

func TestParseSets(t *testing.T) {
	updates, err := parseSets([]string{"status=PAID", "q=budi=1", "page="})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updates) != 3 || updates[1].key != "q" || updates[1].value != "budi=1" || updates[2].value != "" {
		t.Fatalf("unexpected updates %+v", updates)
	}

	for _, bad := range []string{"status", "sort=asc"} {
		if _, err := parseSets([]string{bad}); err == nil {
			t.Fatalf("expected %q rejected", bad)
		}
	}
}

func TestWriteOrdersTable(t *testing.T) {
	view := console.PageView{
		Location: "status=OPEN",
		List: listing.View{
			Rows: []listing.RowView{{ID: "o1", Code: "ORD-1", CreatedAt: "1/3/2026, 08.30.00", DiningLabel: "Dine-in", Status: orders.StatusOpen, Total: "Rp 50.000"}},
			Pagination: listing.Pagination{
				Page: 1, TotalPages: 1, Total: 1,
			},
		},
	}
	var out bytes.Buffer
	writeOrdersTable(&out, view)

	text := out.String()
	for _, want := range []string{"location: status=OPEN", "ORD-1", "Rp 50.000", "page 1 of 1 (1 orders)"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in output:\n%s", want, text)
		}
	}

	out.Reset()
	writeOrdersTable(&out, console.PageView{List: listing.View{Empty: true, EmptyMessage: listing.EmptyMessage, Error: "db down"}})
	if !strings.Contains(out.String(), "(defaults)") || !strings.Contains(out.String(), "error: db down") || !strings.Contains(out.String(), "No orders found") {
		t.Fatalf("unexpected empty output:\n%s", out.String())
	}
}

func TestPrintNotice(t *testing.T) {
	var out bytes.Buffer
	printNotice(&out, notify.Notice{
		Level:   notify.LevelSuccess,
		Message: "Order ORD-1 marked as PAID (Cash)",
		OrderID: "o1",
		At:      time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC),
	})
	want := "2026-03-01T08:30:00Z [SUCCESS] Order ORD-1 marked as PAID (Cash) (order o1)\n"
	if out.String() != want {
		t.Fatalf("expected %q, got %q", want, out.String())
	}
}
