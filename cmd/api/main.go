package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/deskflow/helpdesk-service/internal/api/http"
	"github.com/deskflow/helpdesk-service/internal/api/http/handlers"
	"github.com/deskflow/helpdesk-service/internal/auth"
	"github.com/deskflow/helpdesk-service/internal/config"
	"github.com/deskflow/helpdesk-service/internal/events"
	"github.com/deskflow/helpdesk-service/internal/observability"
	"github.com/deskflow/helpdesk-service/internal/persistence"
	"github.com/deskflow/helpdesk-service/internal/repository"
	"github.com/deskflow/helpdesk-service/internal/repository/memory"
	"github.com/deskflow/helpdesk-service/internal/service"
	"github.com/deskflow/helpdesk-service/internal/storage"
	"github.com/deskflow/helpdesk-service/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Env)
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

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var repos repository.Repositories
	if pg.Enabled() {
		repos = repository.NewPostgresRepositories(pg.PoolHandle())
	} else {
		repos = memory.NewStore().Repositories()
	}

	files, localDir, err := newFileStore(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("failed to init file storage", zap.Error(err))
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	notifications := worker.StartNotificationWorker(dispatcher, notificationService, 0, logger)

	statusService := service.NewStatusService(repos.Statuses, logger)
	if err := statusService.Bootstrap(ctx, cfg.Workflow.BootstrapStatuses); err != nil {
		logger.Fatal("failed to bootstrap ticket statuses", zap.Error(err))
	}

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:       repos.Users,
		DepartmentRepo: repos.Departments,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:     repos.Tickets,
		StatusRepo:     repos.Statuses,
		DepartmentRepo: repos.Departments,
		CompanyRepo:    repos.Companies,
		PriorityRepo:   repos.Priorities,
		HistoryRepo:    repos.History,
		Dispatcher:     notifications,
		Metrics:        metrics,
		Logger:         logger,
	})
	directory := service.NewUserDirectory(repos.Users, service.NewRedisNameCache(redis.Client), cfg.Redis.DisplayNameCacheTTL, logger)
	analysisService := service.NewWorkAnalysisService(service.WorkAnalysisDependencies{
		AnalysisRepo: repos.Analyses,
		TicketRepo:   repos.Tickets,
		HistoryRepo:  repos.History,
		Resolver:     service.NewStatusResolver(ticketService),
		Directory:    directory,
		Dispatcher:   notifications,
		Metrics:      metrics,
		Logger:       logger,
	})
	approvalService := service.NewApprovalService(service.ApprovalDependencies{
		ApprovalRepo: repos.Approvals,
		TicketRepo:   repos.Tickets,
		HistoryRepo:  repos.History,
		Directory:    directory,
		Dispatcher:   notifications,
		Metrics:      metrics,
		Logger:       logger,
	})
	workLogService := service.NewWorkLogService(service.WorkLogDependencies{
		WorkLogRepo:  repos.WorkLogs,
		TicketRepo:   repos.Tickets,
		AnalysisRepo: repos.Analyses,
		Dispatcher:   notifications,
		Metrics:      metrics,
		Logger:       logger,
	})
	masterData := service.NewMasterDataService(service.MasterDataDependencies{
		DepartmentRepo:  repos.Departments,
		CompanyRepo:     repos.Companies,
		PriorityRepo:    repos.Priorities,
		DesignationRepo: repos.Designations,
	})

	app := httptransport.NewServer(httptransport.ServerOptions{
		AppName:          cfg.App.Name,
		BodyLimitBytes:   cfg.App.BodyLimitBytes,
		RequestTimeout:   cfg.App.RequestTimeout(),
		CORSAllowOrigins: cfg.App.CORSAllowOrigins,
		Logger:           logger,
		Metrics:          metrics,
	})
	if localDir != "" {
		app.Static(cfg.Storage.PublicBaseURL, localDir)
	}

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Users:          handlers.NewUsersHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService, files),
		Statuses:       handlers.NewStatusesHandler(statusService),
		WorkAnalysis:   handlers.NewWorkAnalysisHandler(analysisService, files),
		Approvals:      handlers.NewApprovalsHandler(approvalService),
		WorkLogs:       handlers.NewWorkLogsHandler(workLogService),
		MasterData:     handlers.NewMasterDataHandler(masterData),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), repos.Users),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	if err := notifications.Stop(shutdownCtx); err != nil {
		logger.Warn("notification drain", zap.Error(err))
	}
}

// newFileStore returns the configured store and, for the local driver, the
// directory to serve uploads from.
func newFileStore(ctx context.Context, cfg config.StorageConfig) (storage.Store, string, error) {
	if cfg.Driver == "minio" {
		store, err := storage.NewMinioStore(ctx, cfg)
		if err != nil {
			return nil, "", err
		}
		return store, "", nil
	}
	store, err := storage.NewLocalStore(cfg.LocalDir, cfg.PublicBaseURL, cfg.MaxUploadBytes)
	if err != nil {
		return nil, "", err
	}
	return store, store.Dir(), nil
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
