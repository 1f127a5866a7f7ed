package orders

import "time"

type Status string

const (
	StatusOpen            Status = "OPEN"
	StatusAwaitingPayment Status = "AWAITING_PAYMENT"
	StatusPaid            Status = "PAID"
	StatusCancelled       Status = "CANCELLED"
)

// Statuses is the display order used by filter pickers.
var Statuses = []Status{StatusOpen, StatusAwaitingPayment, StatusPaid, StatusCancelled}

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusAwaitingPayment, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// Unpaid reports whether the status still accepts a payment.
func (s Status) Unpaid() bool {
	return s == StatusOpen || s == StatusAwaitingPayment
}

type DiningType string

const (
	DiningDineIn   DiningType = "DINE_IN"
	DiningTakeAway DiningType = "TAKE_AWAY"
)

var DiningTypes = []DiningType{DiningDineIn, DiningTakeAway}

func (d DiningType) Valid() bool {
	return d == DiningDineIn || d == DiningTakeAway
}

type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "CASH"
	PaymentQRIS         PaymentMethod = "QRIS"
	PaymentCard         PaymentMethod = "CARD"
	PaymentBankTransfer PaymentMethod = "BANK_TRANSFER"
)

type OrderItem struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Qty       int64  `json:"qty"`
	Price     int64  `json:"price"`
	Total     int64  `json:"total"`
}

type Payment struct {
	ID      string        `json:"id"`
	Method  PaymentMethod `json:"method"`
	Amount  int64         `json:"amount"`
	RefCode *string       `json:"refCode,omitempty"`
	PaidAt  time.Time     `json:"paidAt"`
}

// Order mirrors the backend payload. Monetary fields are whole currency units and
// are displayed as supplied; total = subtotal - discount + tax is never re-derived here.
type Order struct {
	ID           string      `json:"id"`
	Code         string      `json:"code"`
	QueueNumber  string      `json:"queueNumber"`
	ServiceDate  string      `json:"serviceDate"`
	Status       Status      `json:"status"`
	DiningType   DiningType  `json:"diningType"`
	Subtotal     int64       `json:"subtotal"`
	Discount     int64       `json:"discount"`
	Tax          int64       `json:"tax"`
	Total        int64       `json:"total"`
	CreatedAt    time.Time   `json:"createdAt"`
	CustomerName string      `json:"customerName"`
	Items        []OrderItem `json:"items"`
	Payments     []Payment   `json:"payments"`
}

// CanSettle reports whether a cash payment may be recorded: the order is still
// unpaid and carries no payment of any method.
func (o Order) CanSettle() bool {
	return o.Status.Unpaid() && len(o.Payments) == 0
}

// Clone returns a copy that shares no slices or pointers with o.
func (o Order) Clone() Order {
	out := o
	if o.Items != nil {
		out.Items = make([]OrderItem, len(o.Items))
		copy(out.Items, o.Items)
	}
	if o.Payments != nil {
		out.Payments = make([]Payment, len(o.Payments))
		for i, p := range o.Payments {
			if p.RefCode != nil {
				ref := *p.RefCode
				p.RefCode = &ref
			}
			out.Payments[i] = p
		}
	}
	return out
}

// Page is one page of the listing endpoint.
type Page struct {
	Items   []Order `json:"items"`
	Page    int     `json:"page"`
	PerPage int     `json:"perPage"`
	Total   int     `json:"total"`
}
