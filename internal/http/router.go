package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"genfity-order-admin/internal/config"
	"genfity-order-admin/internal/console"
	"genfity-order-admin/internal/http/handlers"
	"genfity-order-admin/internal/middleware"
	"genfity-order-admin/internal/ws"
)

func NewRouter(logger *zap.Logger, cfg config.Config, sessions *console.Sessions, archive handlers.ReceiptArchive, wsServer *ws.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID())
	r.Use(middleware.Telemetry(logger))

	if cfg.IsDevelopment() || len(cfg.CorsAllowedOrigins) > 0 {
		options := cors.Options{
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id", "X-Requested-With", "Cache-Control"},
			ExposedHeaders:   []string{"Location", "X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           300,
		}
		if cfg.IsDevelopment() {
			options.AllowOriginFunc = func(_ *http.Request, origin string) bool {
				return true
			}
		} else {
			options.AllowedOrigins = cfg.CorsAllowedOrigins
		}
		r.Use(cors.Handler(options))
	}

	h := &handlers.Handler{Logger: logger, Config: cfg, Sessions: sessions, Archive: archive}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/admin/pesanan", func(r chi.Router) {
		r.Get("/", h.PesananView)
		r.Post("/params", h.PesananSetParam)
		r.Post("/reset", h.PesananReset)
		r.Post("/refresh", h.PesananRefresh)
		r.Post("/orders/{orderId}/detail", h.PesananOpenDetail)
		r.Post("/orders/{orderId}/mark-paid", h.PesananOpenMarkPaid)
		r.Put("/panel/cash", h.PesananSetCash)
		r.Post("/panel/fill-total", h.PesananFillTotal)
		r.Post("/panel/settle", h.PesananSettle)
		r.Delete("/panel", h.PesananClosePanel)
		r.Get("/panel/receipt.pdf", h.PesananReceiptPDF)
		r.Post("/panel/receipt/archive", h.PesananArchiveReceipt)
	})

	if wsServer != nil {
		r.Get("/ws/admin/pesanan", wsServer.OrdersRefreshWS)
	}

	return r
}
