package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"genfity-order-admin/internal/console"
	"genfity-order-admin/internal/query"
	"genfity-order-admin/internal/receipt"
	"genfity-order-admin/internal/settlement"
	"genfity-order-admin/pkg/response"
)

// PesananView navigates to the request query and syncs the list. A failed load
// is part of the view, not an HTTP error.
func (h *Handler) PesananView(w http.ResponseWriter, r *http.Request) {
	page := h.page(w, r)
	page.Navigate(r.URL.RawQuery)
	if err := page.Sync(r.Context()); err != nil {
		h.Logger.Warn("orders list load failed", zap.Error(err))
	}
	response.Success(w, page.View())
}

type setParamRequest struct {
	Key      string  `json:"key"`
	Value    string  `json:"value"`
	Location *string `json:"location"`
}

func (h *Handler) PesananSetParam(w http.ResponseWriter, r *http.Request) {
	var body setParamRequest
	if err := decodeJSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if !query.IsKey(body.Key) {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown filter key")
		return
	}

	page := h.page(w, r)
	if body.Location != nil {
		page.Navigate(*body.Location)
	}
	response.SeeOther(w, pesananHref(page.SetParam(body.Key, body.Value)))
}

func (h *Handler) PesananReset(w http.ResponseWriter, r *http.Request) {
	h.page(w, r).Reset()
	response.SeeOther(w, pesananPath)
}

func (h *Handler) PesananRefresh(w http.ResponseWriter, r *http.Request) {
	page := h.page(w, r)
	if err := page.Load(r.Context()); err != nil {
		h.Logger.Warn("orders list reload failed", zap.Error(err))
	}
	response.Success(w, page.View())
}

func (h *Handler) PesananOpenDetail(w http.ResponseWriter, r *http.Request) {
	page := h.page(w, r)
	if !h.openPanel(w, readPathString(r, "orderId"), page.OpenDetail) {
		return
	}
	response.Success(w, page.View())
}

func (h *Handler) PesananOpenMarkPaid(w http.ResponseWriter, r *http.Request) {
	page := h.page(w, r)
	if !h.openPanel(w, readPathString(r, "orderId"), page.OpenMarkPaid) {
		return
	}
	response.Success(w, page.View())
}

func (h *Handler) openPanel(w http.ResponseWriter, orderID string, open func(string) error) bool {
	if orderID == "" {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Order ID is required")
		return false
	}
	if err := open(orderID); err != nil {
		writePanelError(w, err)
		return false
	}
	return true
}

type cashRequest struct {
	Cash string `json:"cash"`
}

func (h *Handler) PesananSetCash(w http.ResponseWriter, r *http.Request) {
	var body cashRequest
	if err := decodeJSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	page := h.page(w, r)
	if err := page.SetCash(body.Cash); err != nil {
		writePanelError(w, err)
		return
	}
	response.Success(w, page.View())
}

func (h *Handler) PesananFillTotal(w http.ResponseWriter, r *http.Request) {
	page := h.page(w, r)
	if err := page.FillTotal(); err != nil {
		writePanelError(w, err)
		return
	}
	response.Success(w, page.View())
}

func (h *Handler) PesananSettle(w http.ResponseWriter, r *http.Request) {
	page := h.page(w, r)
	if err := page.Settle(r.Context()); err != nil {
		writePanelError(w, err)
		return
	}
	// the bumped version makes this sync reload the list
	if err := page.Sync(r.Context()); err != nil {
		h.Logger.Warn("orders list reload after settlement failed", zap.Error(err))
	}
	response.Success(w, page.View())
}

func (h *Handler) PesananClosePanel(w http.ResponseWriter, r *http.Request) {
	page := h.page(w, r)
	if err := page.ClosePanel(); err != nil {
		writePanelError(w, err)
		return
	}
	response.Success(w, page.View())
}

func (h *Handler) PesananReceiptPDF(w http.ResponseWriter, r *http.Request) {
	page := h.page(w, r)
	snap, ok := page.Selected()
	if !ok {
		writePanelError(w, settlement.ErrNoSelection)
		return
	}
	buf, err := receipt.RenderPDF(snap.Order, page.TimeLocation())
	if err != nil {
		h.Logger.Error("receipt render failed", zap.String("orderId", snap.Order.ID), zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to generate receipt")
		return
	}
	response.PDF(w, "receipt_"+sanitizeFilename(snap.Order.Code)+".pdf", buf)
}

func (h *Handler) PesananArchiveReceipt(w http.ResponseWriter, r *http.Request) {
	if h.Archive == nil {
		response.Error(w, http.StatusServiceUnavailable, "OBJECT_STORE_DISABLED", "Receipt archive is not configured")
		return
	}
	page := h.page(w, r)
	snap, ok := page.Selected()
	if !ok {
		writePanelError(w, settlement.ErrNoSelection)
		return
	}
	buf, err := receipt.RenderPDF(snap.Order, page.TimeLocation())
	if err != nil {
		h.Logger.Error("receipt render failed", zap.String("orderId", snap.Order.ID), zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to generate receipt")
		return
	}
	url, err := h.Archive.PutPDF(r.Context(), receipt.ObjectKey(snap.Order, h.now()), buf)
	if err != nil {
		h.Logger.Error("receipt archive failed", zap.String("orderId", snap.Order.ID), zap.Error(err))
		response.Error(w, http.StatusBadGateway, "OBJECT_STORE_ERROR", "Failed to archive receipt")
		return
	}
	response.Success(w, map[string]string{"url": url})
}

func writePanelError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, console.ErrOrderNotFound):
		response.Error(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, settlement.ErrNoSelection):
		response.Error(w, http.StatusConflict, "NO_ORDER_SELECTED", err.Error())
	case errors.Is(err, settlement.ErrInFlight):
		response.Error(w, http.StatusConflict, "SETTLEMENT_IN_FLIGHT", err.Error())
	case errors.Is(err, settlement.ErrInsufficientCash):
		response.Error(w, http.StatusUnprocessableEntity, "INSUFFICIENT_CASH", err.Error())
	case errors.Is(err, settlement.ErrNotSettleable):
		response.Error(w, http.StatusUnprocessableEntity, "NOT_SETTLEABLE", err.Error())
	default:
		message := strings.TrimSpace(err.Error())
		if message == "" {
			message = "failed to record cash payment"
		}
		response.Error(w, http.StatusBadGateway, "ORDERS_API_ERROR", message)
	}
}
