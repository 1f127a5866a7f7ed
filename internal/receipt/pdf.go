package receipt

import (
	"bytes"
	"fmt"
	"time"

	"github.com/phpdave11/gofpdf"

	"genfity-order-admin/internal/format"
	"genfity-order-admin/internal/orders"
)

// RenderPDF renders an A4 receipt for the order as it was snapshotted.
func RenderPDF(order orders.Order, loc *time.Location) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("Order %s", order.Code)), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	if order.QueueNumber != "" {
		pdf.CellFormat(0, 5, tr(fmt.Sprintf("Queue %s", order.QueueNumber)), "", 1, "C", false, 0, "")
	}
	pdf.CellFormat(0, 5, tr(format.DiningLabel(order.DiningType)), "", 1, "C", false, 0, "")
	if order.CustomerName != "" {
		pdf.CellFormat(0, 5, tr(order.CustomerName), "", 1, "C", false, 0, "")
	}
	pdf.CellFormat(0, 5, tr(fmt.Sprintf("Placed: %s", format.DateTime(order.CreatedAt, loc))), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, tr(fmt.Sprintf("Status: %s", order.Status)), "", 1, "C", false, 0, "")

	pdf.Ln(3)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, "Items", "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	for _, item := range order.Items {
		pdf.CellFormat(120, 5, tr(item.Name), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 5, tr(format.IDR(item.Total)), "", 1, "R", false, 0, "")
		pdf.CellFormat(0, 4, tr(fmt.Sprintf("Qty %d × %s", item.Qty, format.IDR(item.Price))), "", 1, "L", false, 0, "")
		pdf.Ln(1)
	}

	pdf.Ln(2)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, "Totals", "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	amountLine(pdf, tr, "Subtotal", format.IDR(order.Subtotal))
	amountLine(pdf, tr, "Discount", "-"+format.IDR(order.Discount))
	amountLine(pdf, tr, "Tax", format.IDR(order.Tax))
	pdf.SetFont("Arial", "B", 11)
	amountLine(pdf, tr, "Total", format.IDR(order.Total))

	pdf.Ln(2)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, "Payments", "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	if len(order.Payments) == 0 {
		pdf.CellFormat(0, 5, "No payments yet", "", 1, "L", false, 0, "")
	}
	for _, p := range order.Payments {
		line := fmt.Sprintf("%s  ref %s  %s", p.Method, format.RefCode(p.RefCode), format.DateTime(p.PaidAt, loc))
		pdf.CellFormat(120, 5, tr(line), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 5, tr(format.IDR(p.Amount)), "", 1, "R", false, 0, "")
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func amountLine(pdf *gofpdf.Fpdf, tr func(string) string, label, amount string) {
	pdf.CellFormat(120, 5, tr(label), "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 5, tr(amount), "", 1, "R", false, 0, "")
}

// ObjectKey is where an archived receipt is stored.
func ObjectKey(order orders.Order, at time.Time) string {
	return fmt.Sprintf("receipts/%s-%d.pdf", order.Code, at.Unix())
}
