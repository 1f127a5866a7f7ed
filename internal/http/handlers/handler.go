package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"genfity-order-admin/internal/config"
	"genfity-order-admin/internal/console"
)

// ReceiptArchive stores rendered receipts. It is nil when no object store is
// configured.
type ReceiptArchive interface {
	PutPDF(ctx context.Context, key string, body []byte) (string, error)
}

type Handler struct {
	Logger   *zap.Logger
	Config   config.Config
	Sessions *console.Sessions
	Archive  ReceiptArchive
	Now      func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}
