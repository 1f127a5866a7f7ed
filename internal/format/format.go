package format

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"genfity-order-admin/internal/orders"
)

// IDR formats whole rupiah the way id-ID currency formatting does, e.g. "Rp 50.000".
func IDR(amount int64) string {
	if amount < 0 {
		return "-Rp " + groupThousands(strconv.FormatInt(-amount, 10))
	}
	return "Rp " + groupThousands(strconv.FormatInt(amount, 10))
}

// IDRDecimal rounds to whole rupiah before formatting. Amounts beyond int64 keep
// every digit.
func IDRDecimal(amount decimal.Decimal) string {
	rounded := amount.Round(0)
	if rounded.IsNegative() {
		return "-Rp " + groupThousands(rounded.Neg().StringFixed(0))
	}
	return "Rp " + groupThousands(rounded.StringFixed(0))
}

func groupThousands(s string) string {
	if len(s) <= 3 {
		return s
	}
	var out strings.Builder
	start := len(s) % 3
	if start == 0 {
		start = 3
	}
	out.WriteString(s[:start])
	for i := start; i < len(s); i += 3 {
		out.WriteString(".")
		out.WriteString(s[i : i+3])
	}
	return out.String()
}

// Location resolves the display timezone, falling back to UTC.
func Location(tz string) *time.Location {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DateTime renders a timestamp like id-ID locale strings: "16/10/2026, 14.05.09".
func DateTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return "—"
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("2/1/2006, 15.04.05")
}

func DiningLabel(d orders.DiningType) string {
	switch d {
	case orders.DiningDineIn:
		return "Dine-in"
	case orders.DiningTakeAway:
		return "Take-away"
	}
	return string(d)
}

// StatusVariant is the badge style for a status.
func StatusVariant(s orders.Status) string {
	switch s {
	case orders.StatusPaid:
		return "default"
	case orders.StatusCancelled:
		return "destructive"
	}
	return "secondary"
}

func RefCode(ref *string) string {
	if ref == nil || strings.TrimSpace(*ref) == "" {
		return "—"
	}
	return *ref
}
