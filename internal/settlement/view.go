package settlement

import (
	"fmt"
	"strconv"
	"time"

	"genfity-order-admin/internal/format"
	"genfity-order-admin/internal/orders"
)

const (
	NoPaymentsMessage    = "No payments yet"
	settleDisabledReason = "Cash settlement is disabled because the order is already paid or has a non-cash payment."
)

type ItemView struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	QtyLine string `json:"qtyLine"`
	Total   string `json:"total"`
}

type PaymentView struct {
	ID      string               `json:"id"`
	Method  orders.PaymentMethod `json:"method"`
	RefCode string               `json:"refCode"`
	PaidAt  string               `json:"paidAt"`
	Amount  string               `json:"amount"`
}

type CashView struct {
	Text          string `json:"text"`
	Placeholder   string `json:"placeholder"`
	Sufficient    bool   `json:"sufficient"`
	Change        string `json:"change,omitempty"`
	Shortfall     string `json:"shortfall,omitempty"`
	SettleEnabled bool   `json:"settleEnabled"`
	Submitting    bool   `json:"submitting"`
}

type View struct {
	Open              bool          `json:"open"`
	State             string        `json:"state"`
	OrderID           string        `json:"orderId,omitempty"`
	Code              string        `json:"code,omitempty"`
	QueueNumber       string        `json:"queueNumber,omitempty"`
	CustomerName      string        `json:"customerName,omitempty"`
	Status            orders.Status `json:"status,omitempty"`
	StatusVariant     string        `json:"statusVariant,omitempty"`
	DiningLabel       string        `json:"diningLabel,omitempty"`
	CreatedAt         string        `json:"createdAt,omitempty"`
	Items             []ItemView    `json:"items,omitempty"`
	Subtotal          string        `json:"subtotal,omitempty"`
	Discount          string        `json:"discount,omitempty"`
	Tax               string        `json:"tax,omitempty"`
	Total             string        `json:"total,omitempty"`
	Payments          []PaymentView `json:"payments,omitempty"`
	NoPaymentsMessage string        `json:"noPaymentsMessage,omitempty"`
	Cash              *CashView     `json:"cash,omitempty"`
	DisabledReason    string        `json:"disabledReason,omitempty"`
}

func (p *Panel) View(loc *time.Location) View {
	p.mu.Lock()
	defer p.mu.Unlock()

	view := View{State: p.state.String()}
	if p.state == Closed || p.snapshot == nil {
		return view
	}

	o := p.snapshot.Order
	view.Open = true
	view.OrderID = o.ID
	view.Code = o.Code
	view.QueueNumber = o.QueueNumber
	view.CustomerName = o.CustomerName
	view.Status = o.Status
	view.StatusVariant = format.StatusVariant(o.Status)
	view.DiningLabel = format.DiningLabel(o.DiningType)
	view.CreatedAt = format.DateTime(o.CreatedAt, loc)
	view.Subtotal = format.IDR(o.Subtotal)
	view.Discount = "-" + format.IDR(o.Discount)
	view.Tax = format.IDR(o.Tax)
	view.Total = format.IDR(o.Total)

	view.Items = make([]ItemView, 0, len(o.Items))
	for _, it := range o.Items {
		view.Items = append(view.Items, ItemView{
			ID:      it.ID,
			Name:    it.Name,
			QtyLine: fmt.Sprintf("Qty %d × %s", it.Qty, format.IDR(it.Price)),
			Total:   format.IDR(it.Total),
		})
	}

	if len(o.Payments) == 0 {
		view.NoPaymentsMessage = NoPaymentsMessage
	}
	for _, pay := range o.Payments {
		view.Payments = append(view.Payments, PaymentView{
			ID:      pay.ID,
			Method:  pay.Method,
			RefCode: format.RefCode(pay.RefCode),
			PaidAt:  format.DateTime(pay.PaidAt, loc),
			Amount:  format.IDR(pay.Amount),
		})
	}

	if o.CanSettle() {
		tender := Evaluate(p.snapshot.CashText, o.Total)
		cash := &CashView{
			Text:          p.snapshot.CashText,
			Placeholder:   strconv.FormatInt(o.Total, 10),
			Sufficient:    tender.Sufficient,
			SettleEnabled: p.settleEnabledLocked(),
			Submitting:    p.state == Submitting,
		}
		if tender.Sufficient {
			cash.Change = format.IDRDecimal(tender.Change)
		} else {
			cash.Shortfall = format.IDRDecimal(tender.Shortfall)
		}
		view.Cash = cash
	} else if o.Status.Unpaid() {
		view.DisabledReason = settleDisabledReason
	}
	return view
}
