package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ogurasousui/health-office-scheduler/internal/adapters/export"
	"github.com/ogurasousui/health-office-scheduler/internal/adapters/grpc/handler"
	"github.com/ogurasousui/health-office-scheduler/internal/adapters/repository/postgres"
	"github.com/ogurasousui/health-office-scheduler/internal/core/assignment"
	"github.com/ogurasousui/health-office-scheduler/internal/core/employee"
	"github.com/ogurasousui/health-office-scheduler/internal/core/station"
	"github.com/ogurasousui/health-office-scheduler/internal/platform/config"
	pg "github.com/ogurasousui/health-office-scheduler/internal/platform/db/postgres"
	"github.com/ogurasousui/health-office-scheduler/internal/platform/logger"
	"github.com/ogurasousui/health-office-scheduler/internal/platform/metrics"
	"github.com/ogurasousui/health-office-scheduler/internal/platform/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := run(ctx, cfg, zl); err != nil {
		zl.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, zl *zap.Logger) error {
	dbPool, err := pg.NewPool(ctx, cfg.Database, zl)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	schedulerMetrics := metrics.New(registry)

	defaultShift, err := assignment.ParseShift(cfg.Scheduler.DefaultShiftStart, cfg.Scheduler.DefaultShiftEnd)
	if err != nil {
		return err
	}

	txManager := pg.NewTransactionManager(dbPool)
	stationRepo := postgres.NewStationRepository(dbPool)
	employeeRepo := postgres.NewEmployeeRepository(dbPool)
	assignmentRepo := postgres.NewAssignmentRepository(dbPool)

	stationSvc := station.NewService(stationRepo, nil, txManager)
	employeeSvc := employee.NewService(employeeRepo, txManager)
	assignmentSvc := assignment.NewService(assignmentRepo, stationRepo, nil, txManager,
		assignment.WithLogger(zl.Named("assignment")),
		assignment.WithRecorder(schedulerMetrics),
		assignment.WithRoleEnforcement(cfg.Scheduler.RoleEligibilityEnforced()),
		assignment.WithDefaultShift(defaultShift),
	)
	querySvc := assignment.NewQueryService(assignmentRepo, stationSvc, employeeSvc, txManager,
		assignment.WithQueryLogger(zl.Named("assignment_query")),
	)

	stationHandler := handler.NewStationAssignmentHandler(
		assignmentSvc,
		querySvc,
		stationSvc,
		export.NewRosterWorkbook(),
		export.NewDutyCalendar(cfg.Scheduler.Location),
		handler.WithLocation(cfg.Scheduler.Location),
	)
	grpcServer := server.New(cfg.Server.ListenAddr, stationHandler, zl.Named("grpc"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zl.Info("gRPC server listening",
			zap.String("addr", cfg.Server.ListenAddr),
			zap.Bool("enforce_role_eligibility", cfg.Scheduler.RoleEligibilityEnforced()),
			zap.String("timezone", cfg.Scheduler.Timezone),
		)
		return grpcServer.Run(gctx)
	})
	if cfg.Metrics.ListenAddr != "" {
		metricsServer := server.NewMetricsServer(cfg.Metrics.ListenAddr, registry)
		g.Go(func() error {
			zl.Info("metrics server listening", zap.String("addr", cfg.Metrics.ListenAddr))
			return metricsServer.Run(gctx)
		})
	}

	return g.Wait()
}
