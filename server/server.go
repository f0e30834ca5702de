package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"activos/providers"
	"activos/providers/auditprovider"
	"activos/providers/configprovider"
	"activos/providers/databaseprovider"
	"activos/providers/loggerprovider"
	"activos/providers/middlewareprovider"
	"activos/providers/redisprovider"
	assetservice "activos/services/asset"
	assignmentservice "activos/services/assignment"
	catalogservice "activos/services/catalog"
	invoiceservice "activos/services/invoice"
	maintenanceservice "activos/services/maintenance"
	workorderservice "activos/services/workorder"

	"go.uber.org/zap"
)

type Server struct {
	Config     providers.ConfigProvider
	DB         providers.DBProvider
	Cache      providers.CacheProvider
	Logger     providers.ZapLoggerProvider
	Middleware providers.AuthMiddlewareService

	CatalogHandler    *catalogservice.CatalogHandler
	AssetHandler      *assetservice.AssetHandler
	AssignmentHandler *assignmentservice.AssignmentHandler
	WorkOrderHandler  *workorderservice.WorkOrderHandler
	PlanHandler       *maintenanceservice.PlanHandler
	InvoiceHandler    *invoiceservice.InvoiceHandler

	Scheduler *maintenanceservice.Scheduler

	httpServer      *http.Server
	cancelScheduler context.CancelFunc
}

func SrvInit() *Server {
	cfg := configprovider.NewConfigProvider()
	cfg.LoadEnv()

	logger := loggerprovider.NewLogProvider()
	logger.InitLogger()

	db := databaseprovider.NewDBProvider(cfg.GetDatabaseString())
	cache := redisprovider.NewRedisProvider(cfg.GetRedisAddr())
	middleware := middlewareprovider.NewAuthMiddlewareService(db.DB(), cache)
	audit := auditprovider.NewAuditProvider(db.DB(), logger)

	// repositories
	catalogRepo := catalogservice.NewCatalogRepository(db.DB())
	assetRepo := assetservice.NewAssetRepository(db.DB())
	assignmentRepo := assignmentservice.NewAssignmentRepository(db.DB())
	workOrderRepo := workorderservice.NewWorkOrderRepository(db.DB())
	planRepo := maintenanceservice.NewPlanRepository(db.DB())
	invoiceRepo := invoiceservice.NewInvoiceRepository(db.DB())

	// services; asset status writes all funnel through the asset repository
	assetService := assetservice.NewAssetService(assetRepo)
	assignmentService := assignmentservice.NewAssignmentService(assignmentRepo, assetRepo)
	workOrderService := workorderservice.NewWorkOrderService(workOrderRepo, assetRepo)
	invoiceService := invoiceservice.NewInvoiceService(invoiceRepo)
	scheduler := maintenanceservice.NewScheduler(planRepo, assetRepo, workOrderRepo, logger, cfg.GetSchedulerInterval())

	// handlers
	catalogHandler := catalogservice.NewCatalogHandler(catalogRepo, audit, middleware)
	assetHandler := assetservice.NewAssetHandler(assetService, audit, middleware)
	assignmentHandler := assignmentservice.NewAssignmentHandler(assignmentService, audit, middleware)
	workOrderHandler := workorderservice.NewWorkOrderHandler(workOrderService, audit, middleware)
	planHandler := maintenanceservice.NewPlanHandler(planRepo, audit, middleware)
	invoiceHandler := invoiceservice.NewInvoiceHandler(invoiceService, audit, middleware)

	return &Server{
		Config:            cfg,
		DB:                db,
		Cache:             cache,
		Logger:            logger,
		Middleware:        middleware,
		CatalogHandler:    catalogHandler,
		AssetHandler:      assetHandler,
		AssignmentHandler: assignmentHandler,
		WorkOrderHandler:  workOrderHandler,
		PlanHandler:       planHandler,
		InvoiceHandler:    invoiceHandler,
		Scheduler:         scheduler,
	}
}

func (s *Server) Start() {
	addr := ":" + s.Config.GetServerPort()

	schedulerCtx, cancel := context.WithCancel(context.Background())
	s.cancelScheduler = cancel
	go s.Scheduler.Run(schedulerCtx)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.InjectRoutes(),
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  2 * time.Minute,
	}

	s.Logger.GetLogger().Info("server running", zap.String("addr", addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

func (s *Server) Stop() {
	logger := s.Logger.GetLogger()
	logger.Info("shutting down server")

	if s.cancelScheduler != nil {
		s.cancelScheduler()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		logger.Error("error shutting down http server", zap.Error(err))
	}
	if err := s.DB.Close(); err != nil {
		logger.Error("error closing db", zap.Error(err))
	}
	if err := s.Cache.Close(); err != nil {
		logger.Error("error closing redis", zap.Error(err))
	}

	logger.Info("server shutdown complete")
	s.Logger.SyncLogger()
}
