package settlement

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Tender is the cash-received input evaluated against an order total. Change and
// Shortfall are never both non-zero; which one applies is decided by Sufficient.
type Tender struct {
	Text       string
	Valid      bool
	Amount     decimal.Decimal
	Total      int64
	Sufficient bool
	Change     decimal.Decimal
	Shortfall  decimal.Decimal
}

// Evaluate parses the raw input. An empty input counts as zero; anything that is
// not a finite number is invalid and can never settle.
func Evaluate(text string, total int64) Tender {
	t := Tender{Text: text, Total: total}
	due := decimal.NewFromInt(total)

	trimmed := strings.TrimSpace(text)
	amount := decimal.Zero
	valid := true
	if trimmed != "" {
		amount, valid = parseFinite(trimmed)
	}

	t.Valid = valid
	t.Amount = amount
	if valid && amount.GreaterThanOrEqual(due) {
		t.Sufficient = true
		t.Change = amount.Sub(due)
		t.Shortfall = decimal.Zero
		return t
	}

	t.Change = decimal.Zero
	if !valid {
		t.Shortfall = due
	} else {
		t.Shortfall = decimal.Max(decimal.Zero, due.Sub(amount))
	}
	return t
}

// parseFinite rejects anything outside float64 range before handing the text to
// decimal, whose arithmetic grows with the exponent.
func parseFinite(s string) (decimal.Decimal, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return decimal.Zero, false
	}
	parsed, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return parsed, true
}
