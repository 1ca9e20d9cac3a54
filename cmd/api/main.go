package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/config"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	appHTTP "github.com/cmlabs-hris/payroll-engine/internal/handler/http"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/cron"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/logger"
	"github.com/cmlabs-hris/payroll-engine/internal/repository/cache"
	"github.com/cmlabs-hris/payroll-engine/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/payroll-engine/internal/service/attendance"
	dashboardService "github.com/cmlabs-hris/payroll-engine/internal/service/dashboard"
	employeeService "github.com/cmlabs-hris/payroll-engine/internal/service/employee"
	installmentService "github.com/cmlabs-hris/payroll-engine/internal/service/installment"
	payrollService "github.com/cmlabs-hris/payroll-engine/internal/service/payroll"
	transactionService "github.com/cmlabs-hris/payroll-engine/internal/service/transaction"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	log := logger.New(os.Stdout, cfg.App.LogLevel, cfg.App.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var reportCache payroll.ReportCache
	if cfg.CacheEnabled() {
		rdb, err := database.NewRedisClient(ctx, database.RedisOptions{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			MaxRetries: cfg.Redis.MaxRetries,
			RetryDelay: cfg.Redis.RetryDelay,
		})
		if err != nil {
			slog.Warn("Report cache disabled, redis unavailable", "error", err)
		} else {
			defer rdb.Close()
			reportCache = cache.NewReportCache(rdb, cfg.Redis.ReportTTL)
		}
	}

	transactor := postgresql.NewTransactor(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	transactionRepo := postgresql.NewTransactionRepository(db)
	installmentRepo := postgresql.NewInstallmentRepository(db)
	snapshotRepo := postgresql.NewSnapshotRepository(db)
	dashboardRepo := postgresql.NewDashboardRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	employeeSvc := employeeService.NewEmployeeService(employeeRepo, transactionRepo, installmentRepo)
	attendanceSvc := attendanceService.NewAttendanceService(transactor, attendanceRepo, employeeRepo)
	transactionSvc := transactionService.NewTransactionService(transactor, transactionRepo, employeeRepo, snapshotRepo)
	installmentSvc := installmentService.NewInstallmentService(installmentRepo, employeeRepo)
	payrollSvc := payrollService.NewPayrollService(
		transactor,
		employeeRepo,
		attendanceRepo,
		transactionRepo,
		installmentRepo,
		snapshotRepo,
		reportCache,
	)
	dashboardSvc := dashboardService.NewDashboardService(dashboardRepo)

	router := appHTTP.NewRouter(
		log,
		cfg.App.AllowedOrigins,
		JWTService,
		appHTTP.NewEmployeeHandler(employeeSvc),
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewTransactionHandler(transactionSvc),
		appHTTP.NewInstallmentHandler(installmentSvc),
		appHTTP.NewPayrollHandler(payrollSvc),
		appHTTP.NewDashboardHandler(dashboardSvc),
	)

	scheduler := cron.NewScheduler()
	if reportCache != nil {
		cron.NewPayrollJobs(payrollSvc).RegisterJobs(scheduler, cfg.Cron.CacheWarmInterval)
	}
	scheduler.Start(ctx)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
}
