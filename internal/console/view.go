package console

import (
	"genfity-order-admin/internal/format"
	"genfity-order-admin/internal/listing"
	"genfity-order-admin/internal/notify"
	"genfity-order-admin/internal/orders"
	"genfity-order-admin/internal/query"
	"genfity-order-admin/internal/settlement"
)

type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

type FilterOptions struct {
	Status []Option `json:"status"`
	Dining []Option `json:"dining"`
	Range  []Option `json:"range"`
}

type PageView struct {
	Location string            `json:"location"`
	Filter   query.FilterState `json:"filter"`
	Options  FilterOptions     `json:"options"`
	Version  uint64            `json:"version"`
	List     listing.View      `json:"list"`
	Panel    settlement.View   `json:"panel"`
	Notices  []notify.Notice   `json:"notices"`
}

var statusLabels = map[orders.Status]string{
	orders.StatusOpen:            "Open",
	orders.StatusAwaitingPayment: "Awaiting payment",
	orders.StatusPaid:            "Paid",
	orders.StatusCancelled:       "Cancelled",
}

var rangeLabels = map[query.Range]string{
	query.RangeToday: "Today",
	query.Range7d:    "Last 7 days",
	query.Range30d:   "Last 30 days",
	query.RangeAll:   "All time",
}

// View renders the page and drains pending notices.
func (p *Page) View() PageView {
	location := p.Location()
	filter := query.Decode(location)
	return PageView{
		Location: location,
		Filter:   filter,
		Options:  filterOptions(filter),
		Version:  p.counter.Current(),
		List:     p.list.View(location, filter, p.loc),
		Panel:    p.panel.View(p.loc),
		Notices:  p.inbox.Drain(),
	}
}

func filterOptions(f query.FilterState) FilterOptions {
	opts := FilterOptions{
		Status: []Option{{Value: query.All, Label: "All statuses", Selected: f.Status == query.All}},
		Dining: []Option{{Value: query.All, Label: "All dining types", Selected: f.Dining == query.All}},
	}
	for _, s := range orders.Statuses {
		opts.Status = append(opts.Status, Option{Value: string(s), Label: statusLabels[s], Selected: f.Status == string(s)})
	}
	for _, d := range orders.DiningTypes {
		opts.Dining = append(opts.Dining, Option{Value: string(d), Label: format.DiningLabel(d), Selected: f.Dining == string(d)})
	}
	for _, r := range query.Ranges {
		opts.Range = append(opts.Range, Option{Value: string(r), Label: rangeLabels[r], Selected: f.Range == r})
	}
	return opts
}
