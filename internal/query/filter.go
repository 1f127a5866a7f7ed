package query

import (
	"net/url"
	"strconv"
	"strings"

	"genfity-order-admin/internal/orders"
)

// All disables the status or dining filter.
const All = "all"

const (
	KeySearch  = "q"
	KeyStatus  = "status"
	KeyDining  = "dining"
	KeyRange   = "range"
	KeyPage    = "page"
	KeyPerPage = "perPage"
)

// Keys are the only location keys the console reads or writes.
var Keys = []string{KeySearch, KeyStatus, KeyDining, KeyRange, KeyPage, KeyPerPage}

type Range string

const (
	RangeToday Range = "today"
	Range7d    Range = "7d"
	Range30d   Range = "30d"
	RangeAll   Range = "all"
)

var Ranges = []Range{RangeToday, Range7d, Range30d, RangeAll}

func (r Range) Valid() bool {
	switch r {
	case RangeToday, Range7d, Range30d, RangeAll:
		return true
	}
	return false
}

const (
	DefaultRange   = Range7d
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 100
)

type FilterState struct {
	Search  string `json:"q"`
	Status  string `json:"status"`
	Dining  string `json:"dining"`
	Range   Range  `json:"range"`
	Page    int    `json:"page"`
	PerPage int    `json:"perPage"`
}

func Defaults() FilterState {
	return FilterState{
		Status:  All,
		Dining:  All,
		Range:   DefaultRange,
		Page:    DefaultPage,
		PerPage: DefaultPerPage,
	}
}

// Decode reads the filter state out of a location query string. It never fails:
// absent, unknown or malformed values fall back to their defaults.
func Decode(rawQuery string) FilterState {
	fs := Defaults()
	values := parse(rawQuery)

	if v, ok := values.get(KeySearch); ok {
		fs.Search = v
	}
	if v, ok := values.get(KeyStatus); ok && orders.Status(v).Valid() {
		fs.Status = v
	}
	if v, ok := values.get(KeyDining); ok && orders.DiningType(v).Valid() {
		fs.Dining = v
	}
	if v, ok := values.get(KeyRange); ok && Range(v).Valid() {
		fs.Range = Range(v)
	}
	if v, ok := values.get(KeyPage); ok {
		fs.Page = positiveInt(v, DefaultPage, 0)
	}
	if v, ok := values.get(KeyPerPage); ok {
		fs.PerPage = positiveInt(v, DefaultPerPage, MaxPerPage)
	}
	return fs
}

// Set writes key=value into the location query string and returns the new one.
// Existing pairs keep their position. Changing anything other than the page or the
// page size sends the operator back to page 1. Unknown keys leave rawQuery untouched.
func Set(rawQuery, key, value string) string {
	if !IsKey(key) {
		return rawQuery
	}
	values := parse(rawQuery)
	values = values.set(key, value)
	if resetsPage(key) {
		values = values.set(KeyPage, strconv.Itoa(DefaultPage))
	}
	return values.encode()
}

// With is Set for a decoded state.
func (f FilterState) With(key, value string) FilterState {
	return Decode(Set(Encode(f), key, value))
}

// Encode renders the state as a query string, omitting fields at their defaults.
func Encode(f FilterState) string {
	var values pairs
	if f.Search != "" {
		values = values.set(KeySearch, f.Search)
	}
	if f.Status != "" && f.Status != All {
		values = values.set(KeyStatus, f.Status)
	}
	if f.Dining != "" && f.Dining != All {
		values = values.set(KeyDining, f.Dining)
	}
	if f.Range != "" && f.Range != DefaultRange {
		values = values.set(KeyRange, string(f.Range))
	}
	if f.Page > 0 && f.Page != DefaultPage {
		values = values.set(KeyPage, strconv.Itoa(f.Page))
	}
	if f.PerPage > 0 && f.PerPage != DefaultPerPage {
		values = values.set(KeyPerPage, strconv.Itoa(f.PerPage))
	}
	return values.encode()
}

// ListParams is the listing request for this state. Empty and "all" filters, and
// range, page and perPage at their defaults, are left out entirely so the backend
// applies its own defaults.
func (f FilterState) ListParams() url.Values {
	params := url.Values{}
	if q := strings.TrimSpace(f.Search); q != "" {
		params.Set(KeySearch, q)
	}
	if f.Status != "" && f.Status != All {
		params.Set(KeyStatus, f.Status)
	}
	if f.Dining != "" && f.Dining != All {
		params.Set(KeyDining, f.Dining)
	}
	if f.Range != "" && f.Range != DefaultRange {
		params.Set(KeyRange, string(f.Range))
	}
	if f.Page > 0 && f.Page != DefaultPage {
		params.Set(KeyPage, strconv.Itoa(f.Page))
	}
	if f.PerPage > 0 && f.PerPage != DefaultPerPage {
		params.Set(KeyPerPage, strconv.Itoa(f.PerPage))
	}
	return params
}

func (f FilterState) TotalPages(total int) int {
	perPage := f.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	pages := (total + perPage - 1) / perPage
	if pages < 1 {
		return 1
	}
	return pages
}

func IsKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

func resetsPage(key string) bool {
	return key != KeyPage && key != KeyPerPage
}

func positiveInt(raw string, fallback int, max int) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || parsed < 1 {
		return fallback
	}
	if max > 0 && parsed > max {
		return max
	}
	return parsed
}

type pair struct {
	key   string
	value string
}

// pairs keeps location parameters in address-bar order.
type pairs []pair

func parse(rawQuery string) pairs {
	rawQuery = strings.TrimPrefix(rawQuery, "?")
	if rawQuery == "" {
		return nil
	}
	out := make(pairs, 0, 8)
	for _, part := range strings.Split(rawQuery, "&") {
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		out = append(out, pair{key: unescape(key), value: unescape(value)})
	}
	return out
}

func unescape(s string) string {
	decoded, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}

func (p pairs) get(key string) (string, bool) {
	for _, kv := range p {
		if kv.key == key {
			return kv.value, true
		}
	}
	return "", false
}

func (p pairs) set(key, value string) pairs {
	out := make(pairs, 0, len(p)+1)
	found := false
	for _, kv := range p {
		if kv.key != key {
			out = append(out, kv)
			continue
		}
		if !found {
			out = append(out, pair{key: key, value: value})
			found = true
		}
	}
	if !found {
		out = append(out, pair{key: key, value: value})
	}
	return out
}

func (p pairs) encode() string {
	if len(p) == 0 {
		return ""
	}
	parts := make([]string, 0, len(p))
	for _, kv := range p {
		parts = append(parts, url.QueryEscape(kv.key)+"="+url.QueryEscape(kv.value))
	}
	return strings.Join(parts, "&")
}
