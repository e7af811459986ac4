package app

import (
	"database/sql"

	"go-fleetpay/internal/advance"
	"go-fleetpay/internal/auth"
	"go-fleetpay/internal/config"
	"go-fleetpay/internal/driver"
	"go-fleetpay/internal/expense"
	"go-fleetpay/internal/ledger"
	"go-fleetpay/internal/messaging/kafka"
	"go-fleetpay/internal/middleware"
	"go-fleetpay/internal/payroll"
	"go-fleetpay/internal/rbac"
	"go-fleetpay/internal/rbac/infra"
	"go-fleetpay/internal/report"
	"go-fleetpay/internal/route"
	"go-fleetpay/internal/shared/counter"
	"go-fleetpay/internal/shared/locker"
	"go-fleetpay/internal/trip"
	"go-fleetpay/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	cfg *config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) error {
	// --- Repositories ---
	userRepo := user.NewRepository(gormDB)
	driverRepo := driver.NewRepository(gormDB)
	routeRepo := route.NewRepository(gormDB)
	tripRepo := trip.NewRepository(gormDB)
	expenseRepo := expense.NewRepository(gormDB)
	advanceRepo := advance.NewRepository(gormDB)
	payrollRepo := payroll.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(gormDB)
	reportRepo := report.NewRepository(gormDB)
	ledgerRepo := ledger.NewRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService, err := rbac.NewService(enforcer)
	if err != nil {
		return err
	}

	statements, err := payroll.NewFileStatementStore(cfg.StatementDir)
	if err != nil {
		return err
	}

	// --- Services ---
	authService := auth.NewService(userRepo, cfg.JWTSecret, logger)
	userService := user.NewService(userRepo, logger)
	driverService := driver.NewService(db, driverRepo, userRepo, cfg.DefaultDriverPassword, logger)
	routeService := route.NewService(db, routeRepo, rdb, logger)
	tripService := trip.NewService(db, tripRepo, driverRepo, routeRepo, logger)
	expenseService := expense.NewService(expenseRepo, driverRepo, logger)
	advanceService := advance.NewService(advanceRepo, driverRepo, logger)
	reportService := report.NewService(reportRepo, rdb, logger)
	ledgerService := ledger.NewService(ledgerRepo, logger)
	payrollService := payroll.NewService(db, payroll.Dependencies{
		Payrolls:   payrollRepo,
		Trips:      tripRepo,
		Expenses:   expenseRepo,
		Advances:   advanceRepo,
		Drivers:    driverRepo,
		Counter:    counterRepo,
		Outbox:     outboxRepo,
		Locker:     locker.New(rdb),
		Statements: statements,
		Cache:      reportService,
		LockTTL:    cfg.SettleLockTTL,
	}, logger)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, cfg.IsProduction(), logger)
	userHandler := user.NewHandler(userService, logger)
	driverHandler := driver.NewHandler(driverService, logger)
	routeHandler := route.NewHandler(routeService, logger)
	tripHandler := trip.NewHandler(tripService, logger)
	expenseHandler := expense.NewHandler(expenseService, logger)
	advanceHandler := advance.NewHandler(advanceService, logger)
	payrollHandler := payroll.NewHandler(payrollService, logger)
	reportHandler := report.NewHandler(reportService, logger)
	ledgerHandler := ledger.NewHandler(ledgerService, logger)
	rbacHandler := rbac.NewHandler(rbacService)

	// --- Routes Registration ---
	router.Use(middleware.RequestID())

	api := router.Group("/api/v1")
	auth.RegisterRoutes(api, authHandler, cfg.JWTSecret)

	protected := api.Group("",
		middleware.AuthMiddleware(cfg.JWTSecret),
		middleware.ContextLogger(logger),
		middleware.RateLimitByUser(10, 30),
	)
	{
		user.RegisterRoutes(protected, userHandler, rbacService)
		driver.RegisterRoutes(protected, driverHandler, rbacService)
		route.RegisterRoutes(protected, routeHandler, rbacService)
		trip.RegisterRoutes(protected, tripHandler, rbacService)
		expense.RegisterRoutes(protected, expenseHandler, rbacService)
		advance.RegisterRoutes(protected, advanceHandler, rbacService)
		payroll.RegisterRoutes(protected, payrollHandler, rbacService, rdb, logger)
		report.RegisterRoutes(protected, reportHandler, rbacService)
		ledger.RegisterRoutes(protected, ledgerHandler, rbacService)
		rbac.RegisterRoutes(protected.Group("", middleware.RoleMiddleware(rbac.RoleAdmin)), rbacHandler)
	}

	return nil
}

