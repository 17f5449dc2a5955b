package router

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Renal37/wastecollect/internal/logger"
	"github.com/Renal37/wastecollect/internal/metrics"
	"github.com/Renal37/wastecollect/internal/middlewares"
	"github.com/Renal37/wastecollect/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type Config struct {
	// Endpoint адрес и порт, на которых сервер будет слушать входящие запросы.
	Endpoint string
}

// HealthCheck проверяет зависимости сервиса, например базу данных
type HealthCheck func(ctx context.Context) error

type Router struct {
	config        Config
	services      middlewares.Services
	serverMetrics *metrics.ServerMetrics
	gatherer      prometheus.Gatherer
	healthCheck   HealthCheck
}

// New создает новый экземпляр Router с заданными сервисами.
func New(config Config, services middlewares.Services) *Router {
	return &Router{
		config:   config,
		services: services,
	}
}

// WithMetrics включает учет запросов и маршрут /metrics.
func (router *Router) WithMetrics(serverMetrics *metrics.ServerMetrics, gatherer prometheus.Gatherer) *Router {
	router.serverMetrics = serverMetrics
	router.gatherer = gatherer
	return router
}

func (router *Router) WithHealthCheck(check HealthCheck) *Router {
	router.healthCheck = check
	return router
}

// get возвращает настроенный роутер.
func (router *Router) get() chi.Router {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		middleware.Recoverer,
		middlewares.ServiceInjectorMiddleware(router.services),
		logger.RequestLogger,
	)
	if router.serverMetrics != nil {
		r.Use(router.serverMetrics.Middleware)
	}
	r.Use(
		middlewares.AuthMiddleware().WithExcludedPaths(
			"/api/user/register",
			"/api/user/login",
			"/health",
			"/metrics",
		).Middleware,
	)

	r.Get("/health", router.health)
	if router.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(router.gatherer))
	}

	// Клиент: учетная запись, заявки, способы оплаты
	r.Route("/api/user", func(r chi.Router) {
		r.With(middlewares.JSONMiddleware[models.UnknownUser]).Post("/register", Register)
		r.With(middlewares.JSONMiddleware[models.UnknownUser]).Post("/login", Login)

		r.With(middlewares.JSONMiddleware[models.NewOrder]).Post("/orders", CreateOrder)
		r.Get("/orders", GetOrders)
		r.Post("/orders/{id}/cancel", CancelOrder)

		r.With(middlewares.JSONMiddleware[models.NewPaymentMethod]).Post("/payment-methods", RegisterPaymentMethod)
		r.Get("/payment-methods", GetPaymentMethods)
		r.Delete("/payment-methods/{id}", DeactivatePaymentMethod)
	})

	// Водитель: назначение и взвешивание
	r.Route("/api/orders/{id}", func(r chi.Router) {
		r.Get("/", GetOrder)
		r.Get("/history", GetOrderHistory)
		r.With(middlewares.JSONMiddleware[models.Assignment]).Post("/assign", AssignOrder)
		r.With(middlewares.JSONMiddleware[models.Measurement]).Post("/measurement", MeasureOrder)
	})

	// Оператор: разбор неуспешных платежей
	r.Route("/api/admin", func(r chi.Router) {
		r.Get("/payments/failed", GetFailedPayments)
		r.Post("/orders/{id}/payment/retry", RetryPayment)
	})

	return r
}

func (router *Router) health(w http.ResponseWriter, r *http.Request) {
	if router.healthCheck != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := router.healthCheck(ctx); err != nil {
			logger.Log.Warn("health check failed", zap.Error(err))
			middlewares.WriteError(w, http.StatusServiceUnavailable, middlewares.CodeInternalError, "База данных недоступна")
			return
		}
	}

	middlewares.EncodeJSONResponse(w, map[string]string{"status": "ok"})
}

// Run обслуживает запросы, пока не отменен ctx, затем корректно останавливает сервер.
func (router *Router) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              router.config.Endpoint,
		Handler:           router.get(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
