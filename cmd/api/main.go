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

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/logger"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/service/attendance"
	correctionService "github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/service/correction"
	employeeService "github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/service/employee"
	holidayService "github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/service/holiday"
	notificationService "github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/service/notification"
	payrollConfigService "github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/service/payrollconfig"
	policyService "github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/service/policy"
	shiftService "github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/service/shift"
	timeExceptionService "github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/service/timeexception"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(cfg.App.Env, cfg.App.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dsn := cfg.DatabaseURL()
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, dsn, "up"); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	pagination.DefaultLimit = cfg.TimeManagement.DefaultPageLimit
	location := cfg.TimeManagement.Location
	thresholdDays := cfg.TimeManagement.EscalationThresholdDays

	tx := postgresql.NewTransactor(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	overtimeRepo := postgresql.NewOvertimeRuleRepository(db)
	latenessRepo := postgresql.NewLatenessRuleRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	assignmentRepo := postgresql.NewShiftAssignmentRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	exceptionRepo := postgresql.NewTimeExceptionRepository(db)
	correctionRepo := postgresql.NewCorrectionRepository(db)
	payGradeRepo := postgresql.NewPayGradeRepository(db)
	allowanceRepo := postgresql.NewAllowanceRepository(db)
	taxRuleRepo := postgresql.NewTaxRuleRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		return fmt.Errorf("failed to initialize jwt service: %w", err)
	}

	hub := sse.NewHub(16)
	notifier := notificationService.NewNotificationService(notificationRepo, hub, notificationService.Config{
		BatchSize:     cfg.Notification.BatchSize,
		FlushInterval: cfg.Notification.FlushInterval,
		WorkerCount:   cfg.Notification.WorkerCount,
		QueueSize:     cfg.Notification.QueueSize,
	})
	notifier.Start()
	defer notifier.Stop()

	employeeSvc := employeeService.NewEmployeeService(employeeRepo)
	holidaySvc := holidayService.NewHolidayService(tx, holidayRepo)
	policySvc := policyService.NewPolicyService(overtimeRepo, latenessRepo, employeeRepo, holidaySvc)
	shiftSvc := shiftService.NewShiftService(shiftRepo, assignmentRepo, employeeRepo, notifier, location)
	exceptionSvc := timeExceptionService.NewTimeExceptionService(exceptionRepo, attendanceRepo, employeeRepo, notifier, thresholdDays)
	attendanceSvc := attendanceService.NewAttendanceService(
		tx,
		attendanceRepo,
		employeeRepo,
		overtimeRepo,
		latenessRepo,
		shiftSvc,
		holidaySvc,
		exceptionSvc,
		location,
	)
	correctionSvc := correctionService.NewCorrectionService(
		tx,
		correctionRepo,
		attendanceRepo,
		employeeRepo,
		attendanceSvc,
		notifier,
		thresholdDays,
	)
	payrollConfigSvc := payrollConfigService.NewPayrollConfigService(payGradeRepo, allowanceRepo, taxRuleRepo)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			AllowedOrigins: cfg.App.AllowedOrigins,
			Logger:         log,
			LogLevel:       logger.ParseLevel(cfg.App.LogLevel),
		},
		JWTService,
		appHTTP.Handlers{
			Employee:      appHTTP.NewEmployeeHandler(employeeSvc),
			Policy:        appHTTP.NewPolicyHandler(policySvc),
			Holiday:       appHTTP.NewHolidayHandler(holidaySvc),
			Shift:         appHTTP.NewShiftHandler(shiftSvc),
			Attendance:    appHTTP.NewAttendanceHandler(attendanceSvc),
			TimeException: appHTTP.NewTimeExceptionHandler(exceptionSvc),
			Correction:    appHTTP.NewCorrectionHandler(correctionSvc),
			PayrollConfig: appHTTP.NewPayrollConfigHandler(payrollConfigSvc),
			Notification:  appHTTP.NewNotificationHandler(notifier),
		},
	)

	scheduler := cron.NewScheduler(log)
	cron.NewTimekeepingJobs(exceptionSvc, correctionSvc, shiftSvc, attendanceSvc, cron.TimekeepingSchedule{
		EscalationThresholdDays: thresholdDays,
		EscalationInterval:      cfg.TimeManagement.EscalationInterval,
		ShiftExpiryInterval:     cfg.TimeManagement.ShiftExpiryInterval,
		MissedPunchInterval:     cfg.TimeManagement.MissedPunchInterval,
	}).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	server.RegisterOnShutdown(hub.Close)

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server running", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
