package main

import (
	"context"
	"log"

	router "github.com/Renal37/wastecollect/internal/app"
	"github.com/Renal37/wastecollect/internal/database"
	"github.com/Renal37/wastecollect/internal/logger"
	"github.com/Renal37/wastecollect/internal/metrics"
	"github.com/Renal37/wastecollect/internal/middlewares"
	"github.com/Renal37/wastecollect/internal/services"
	"github.com/Renal37/wastecollect/internal/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	config := NewConfig()

	if err := logger.Initialize(config.logLevel, config.env); err != nil {
		log.Fatalf("Logger wasn't initialized due to %s", err)
	}
	defer func() { _ = logger.Log.Sync() }()

	db, err := database.New(ctx, config.dsn)
	if err != nil {
		log.Fatalf("Database wasn't initialized due to %s", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Migrations weren't run due to %s", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	lifecycle := metrics.NewLifecycle(registry)

	jobQueueService := services.NewJobQueueService(ctx, config.jobQueueCapacity, config.jobWorkers)

	authService := services.NewAuthService(db)
	if _, err := authService.EnsureSystemActor(ctx); err != nil {
		log.Fatalf("System actor wasn't created due to %s", err)
	}

	machine := services.NewStateMachine(db, authService, lifecycle)
	gateway := services.NewMockGateway()
	paymentService := services.NewPaymentAutomationService(db, machine, gateway, jobQueueService, lifecycle)

	if err := paymentService.StartPendingAutoPayments(ctx); err != nil {
		log.Fatalf("Pending auto payments weren't started due to %s", err)
	}

	utils.HandleTerminationProcess(cancel)

	logger.Log.Info("running server", zap.String("endpoint", config.endpoint))

	err = router.New(
		router.Config{Endpoint: config.endpoint},
		middlewares.Services{
			Auth:          authService,
			JWT:           services.NewJWTService(config.authSecretKey, config.tokenTTL),
			Order:         services.NewOrderService(db, machine, config.unitPrice, config.currency),
			Payment:       paymentService,
			PaymentRetry:  services.NewPaymentRetryService(db, machine, gateway, lifecycle),
			PaymentMethod: services.NewPaymentMethodService(db),
		},
	).
		WithMetrics(metrics.NewServerMetrics(registry), registry).
		WithHealthCheck(db.Ping).
		Run(ctx)

	jobQueueService.Shutdown()

	if err != nil {
		logger.Log.Fatal("server stopped with error", zap.Error(err))
	}
	logger.Log.Info("server stopped")
}
