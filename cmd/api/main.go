package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/fleet-kit/maintenance-service/internal/api/http"
	"github.com/fleet-kit/maintenance-service/internal/api/http/handlers"
	"github.com/fleet-kit/maintenance-service/internal/auth"
	"github.com/fleet-kit/maintenance-service/internal/config"
	"github.com/fleet-kit/maintenance-service/internal/events"
	"github.com/fleet-kit/maintenance-service/internal/fleet"
	"github.com/fleet-kit/maintenance-service/internal/notify"
	"github.com/fleet-kit/maintenance-service/internal/notify/senders"
	"github.com/fleet-kit/maintenance-service/internal/observability"
	"github.com/fleet-kit/maintenance-service/internal/persistence"
	"github.com/fleet-kit/maintenance-service/internal/repository"
	"github.com/fleet-kit/maintenance-service/internal/service"
	"github.com/fleet-kit/maintenance-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redisStore := persistence.NewRedis(cfg.Redis, logger)
	defer redisStore.Close()

	metrics := observability.NewMetrics()

	pool := pg.PoolHandle()
	driverRepo := repository.NewDriverRepository(pool)
	staffRepo := repository.NewStaffRepository(pool)
	vehicleRepo := repository.NewVehicleRepository(pool)
	issueRepo := repository.NewIssueRepository(pool)
	workOrderRepo := repository.NewWorkOrderRepository(pool)
	historyRepo := repository.NewIssueHistoryRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)

	lookups := fleet.NewLookups(redisStore.Client, pool, logger)

	channelSenders := map[notify.Channel]notify.ChannelSender{
		notify.ChannelEmail:     senders.NewEmailSender(cfg.Notification.EmailEndpoint, cfg.Notification.EmailFrom),
		notify.ChannelSMS:       senders.NewSMSSender(cfg.Notification.SMSEndpoint),
		notify.ChannelPush:      senders.NewPushSender(cfg.Notification.PushEndpoint),
		notify.ChannelDashboard: senders.NewDashboardSender(redisStore.Client),
	}
	ruleSet := notify.NewRuleSet(notify.DefaultRules())
	resolver := service.NewStaffRoleResolver(staffRepo)
	notifyDispatcher := notify.NewDispatcher(ruleSet, channelSenders, resolver, logger)

	bus := events.NewInMemoryDispatcher()

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)

	authService := service.NewAuthService(service.AuthServiceDeps{
		Drivers: driverRepo,
		Staff:   staffRepo,
		Resets:  resetRepo,
		Tokens:  tokenManager,
		Config:  cfg.Auth,
		Logger:  logger,
	})
	issueService := service.NewIssueService(service.IssueServiceDeps{
		Issues:     issueRepo,
		Vehicles:   vehicleRepo,
		Drivers:    driverRepo,
		History:    historyRepo,
		Dispatcher: bus,
		Logger:     logger,
	})
	triageService := service.NewTriageService(service.TriageServiceDeps{
		Issues:  issueRepo,
		Drivers: driverRepo,
		Lookups: lookups,
		Logger:  logger,
	})
	workOrderService := service.NewWorkOrderService(service.WorkOrderServiceDeps{
		Orders:     workOrderRepo,
		Issues:     issueRepo,
		Staff:      staffRepo,
		History:    historyRepo,
		Dispatcher: bus,
		Logger:     logger,
	})
	notificationService := service.NewNotificationService(service.NotificationServiceDeps{
		Dispatcher: notifyDispatcher,
		Drivers:    driverRepo,
		Metrics:    metrics,
		Logger:     logger,
	})

	worker.RegisterNotificationHandlers(bus, notificationService)

	overdueWorker := worker.NewOverdueWorker(issueRepo, bus, cfg.Triage, logger)
	if err := overdueWorker.Start(); err != nil {
		logger.Fatal("failed to start overdue scanner", zap.Error(err))
	}
	defer overdueWorker.Stop()

	authMiddleware := auth.NewAuthMiddleware(tokenManager, driverRepo, staffRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(pg, redisStore, cfg.App.Version),
		Drivers:        handlers.NewDriversHandler(authService),
		Staff:          handlers.NewStaffHandler(authService),
		Issues:         handlers.NewIssuesHandler(issueService),
		StaffIssues:    handlers.NewStaffIssuesHandler(issueService, triageService),
		WorkOrders:     handlers.NewWorkOrdersHandler(workOrderService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
