package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Dev-Redad/cosmo-v1/internal/engine"
	"github.com/Dev-Redad/cosmo-v1/internal/metrics"
	"github.com/Dev-Redad/cosmo-v1/internal/service"
)

// NewRouter creates a chi router with all routes registered, request logging,
// and Content-Type validation middleware.
func NewRouter(
	purchaseSvc *service.PurchaseService,
	settler *engine.Settler,
	adminSvc *service.AdminService,
	productSvc *service.ProductService,
	accessSvc *service.AccessService,
	statsH *StatsHandler,
	logger *slog.Logger,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(requestLogging(logger))
	r.Use(contentTypeJSON)

	// Create handlers.
	purchaseH := NewPurchaseHandler(purchaseSvc)
	notificationH := NewNotificationHandler(settler)
	accountH := NewAccountHandler(adminSvc)
	productH := NewProductHandler(productSvc)
	accessH := NewAccessHandler(accessSvc)

	// Health check and metrics.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Get("/stats", statsH.GetStats)

	// Purchase routes.
	r.Post("/purchases", purchaseH.StartPurchase)
	r.Get("/purchases/{session_key}", purchaseH.GetSession)

	// Payment-notification ingress.
	r.Post("/notifications", notificationH.HandleNotification)

	// UPI account administration.
	r.Get("/upi-accounts", accountH.GetSettings)
	r.Post("/upi-accounts", accountH.Create)
	r.Post("/upi-accounts/force", accountH.SetForce)
	r.Delete("/upi-accounts/force", accountH.ClearForce)
	r.Post("/upi-accounts/reset-today", accountH.ResetToday)
	r.Put("/upi-accounts/{account_id}", accountH.Update)
	r.Delete("/upi-accounts/{account_id}", accountH.Delete)
	r.Post("/upi-accounts/{account_id}/main", accountH.SetMain)

	// Catalog routes.
	r.Post("/products", productH.Create)
	r.Get("/products", productH.List)
	r.Get("/products/{item_id}", productH.Get)

	// Access-grant routes.
	r.Post("/join-requests", accessH.HandleJoinRequest)

	return r
}

// requestLogging returns middleware that logs each request's method, path,
// status code, and duration using slog.
func requestLogging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

// contentTypeJSON is middleware that validates Content-Type for POST, PUT, and
// PATCH requests. If the Content-Type header doesn't start with
// "application/json", it returns 400 Bad Request before the handler runs.
func contentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct == "" || !strings.HasPrefix(ct, "application/json") {
				WriteError(w, http.StatusBadRequest, "invalid_request",
					"Content-Type must be application/json")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
