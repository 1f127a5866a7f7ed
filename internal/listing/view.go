package listing

import (
	"strconv"
	"time"

	"genfity-order-admin/internal/format"
	"genfity-order-admin/internal/orders"
	"genfity-order-admin/internal/query"
)

const (
	EmptyMessage = "No orders found"
	maxPageLinks = 6
	pathPesanan  = "/admin/pesanan"
)

type RowView struct {
	ID            string            `json:"id"`
	Code          string            `json:"code"`
	QueueNumber   string            `json:"queueNumber"`
	CreatedAt     string            `json:"createdAt"`
	CustomerName  string            `json:"customerName"`
	Dining        orders.DiningType `json:"dining"`
	DiningLabel   string            `json:"diningLabel"`
	Status        orders.Status     `json:"status"`
	StatusVariant string            `json:"statusVariant"`
	Total         string            `json:"total"`
	CanMarkPaid   bool              `json:"canMarkPaid"`
}

type PageLink struct {
	Page   int    `json:"page"`
	Active bool   `json:"active"`
	Href   string `json:"href"`
}

type Pagination struct {
	Page         int        `json:"page"`
	PerPage      int        `json:"perPage"`
	Total        int        `json:"total"`
	TotalPages   int        `json:"totalPages"`
	Links        []PageLink `json:"links"`
	PrevDisabled bool       `json:"prevDisabled"`
	PrevHref     string     `json:"prevHref,omitempty"`
	NextDisabled bool       `json:"nextDisabled"`
	NextHref     string     `json:"nextHref,omitempty"`
}

type View struct {
	Loading      bool       `json:"loading"`
	SkeletonRows int        `json:"skeletonRows,omitempty"`
	Empty        bool       `json:"empty"`
	EmptyMessage string     `json:"emptyMessage,omitempty"`
	Error        string     `json:"error,omitempty"`
	Rows         []RowView  `json:"rows"`
	Pagination   Pagination `json:"pagination"`
}

// View renders the list for the given location. Rows are formatted copies; the
// view never exposes the cached orders themselves.
func (l *List) View(location string, filter query.FilterState, loc *time.Location) View {
	l.mu.Lock()
	loading := l.loading
	total := l.total
	errMsg := l.errMsg
	rows := make([]RowView, 0, len(l.rows))
	for _, o := range l.rows {
		rows = append(rows, rowView(o, loc))
	}
	l.mu.Unlock()

	view := View{
		Loading:    loading,
		Error:      errMsg,
		Rows:       []RowView{},
		Pagination: paginate(location, filter, total),
	}
	switch {
	case loading:
		view.SkeletonRows = filter.PerPage
	case len(rows) == 0:
		view.Empty = true
		view.EmptyMessage = EmptyMessage
	default:
		view.Rows = rows
	}
	return view
}

func rowView(o orders.Order, loc *time.Location) RowView {
	return RowView{
		ID:            o.ID,
		Code:          o.Code,
		QueueNumber:   o.QueueNumber,
		CreatedAt:     format.DateTime(o.CreatedAt, loc),
		CustomerName:  o.CustomerName,
		Dining:        o.DiningType,
		DiningLabel:   format.DiningLabel(o.DiningType),
		Status:        o.Status,
		StatusVariant: format.StatusVariant(o.Status),
		Total:         format.IDR(o.Total),
		CanMarkPaid:   o.CanSettle(),
	}
}

func paginate(location string, filter query.FilterState, total int) Pagination {
	perPage := filter.PerPage
	if perPage <= 0 {
		perPage = query.DefaultPerPage
	}
	lastPage := (total + perPage - 1) / perPage

	linkCount := lastPage
	if linkCount > maxPageLinks {
		linkCount = maxPageLinks
	}
	if linkCount < 1 {
		linkCount = 1
	}

	p := Pagination{
		Page:         filter.Page,
		PerPage:      perPage,
		Total:        total,
		TotalPages:   filter.TotalPages(total),
		Links:        make([]PageLink, 0, linkCount),
		PrevDisabled: filter.Page <= 1,
		NextDisabled: filter.Page >= lastPage,
	}
	for i := 1; i <= linkCount; i++ {
		p.Links = append(p.Links, PageLink{Page: i, Active: i == filter.Page, Href: pageHref(location, i)})
	}
	if !p.PrevDisabled {
		p.PrevHref = pageHref(location, filter.Page-1)
	}
	if !p.NextDisabled {
		p.NextHref = pageHref(location, filter.Page+1)
	}
	return p
}

func pageHref(location string, page int) string {
	next := query.Set(location, query.KeyPage, strconv.Itoa(page))
	if next == "" {
		return pathPesanan
	}
	return pathPesanan + "?" + next
}
