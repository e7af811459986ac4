package app

import (
	"context"
	"database/sql"

	"go-fleetpay/internal/advance"
	"go-fleetpay/internal/config"
	"go-fleetpay/internal/driver"
	"go-fleetpay/internal/expense"
	"go-fleetpay/internal/ledger"
	"go-fleetpay/internal/messaging/kafka"
	"go-fleetpay/internal/payroll"
	"go-fleetpay/internal/rbac"
	"go-fleetpay/internal/route"
	"go-fleetpay/internal/shared/connection"
	"go-fleetpay/internal/shared/counter"
	"go-fleetpay/internal/trip"
	"go-fleetpay/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const connectRetries = 5

// BuildApp connects the stores, migrates, seeds the admin account and
// mounts every module on router. The returned func releases connections.
func BuildApp(router *gin.Engine, cfg *config.Config, logger *zap.Logger) (func(), error) {
	log := logger.Named("app")
	ctx := context.Background()

	gormDB, sqlDB, err := connectDB(cfg)
	if err != nil {
		return nil, err
	}
	log.Info("database connection established")

	if err := migrate(ctx, gormDB, logger); err != nil {
		sqlDB.Close()
		return nil, err
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, connectRetries)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}
	if rdb == nil {
		log.Warn("REDIS_ADDR not set: idempotency and caches disabled, settlement lock is in-process")
	}

	cleanup := func() {
		if rdb != nil {
			rdb.Close()
		}
		sqlDB.Close()
	}

	if err := seedAdmin(ctx, user.NewRepository(gormDB), cfg.AdminUsername, cfg.AdminPassword, log); err != nil {
		cleanup()
		return nil, err
	}

	if err := registerModules(router, cfg, sqlDB, gormDB, rdb, logger); err != nil {
		cleanup()
		return nil, err
	}
	return cleanup, nil
}

// migrate checks the ledger schema version before touching any other
// table.
func migrate(ctx context.Context, db *gorm.DB, logger *zap.Logger) error {
	if err := db.AutoMigrate(&ledger.Meta{}); err != nil {
		return err
	}
	ledgerService := ledger.NewService(ledger.NewRepository(db), logger)
	if err := ledgerService.EnsureSchema(ctx); err != nil {
		return err
	}

	return db.AutoMigrate(
		&driver.Driver{},
		&route.Route{},
		&trip.Trip{},
		&expense.Expense{},
		&advance.Advance{},
		&user.User{},
		&payroll.Payroll{},
		&payroll.TripDetail{},
		&payroll.ExpenseDetail{},
		&payroll.AdvanceDeductionDetail{},
		&counter.SequenceCounter{},
		&kafka.OutboxEvent{},
	)
}

func seedAdmin(ctx context.Context, users user.Repository, username, password string, log *zap.Logger) error {
	if password == "" {
		log.Warn("ADMIN_PASSWORD not set, admin account not seeded")
		return nil
	}

	exists, err := users.ExistsByUsername(ctx, username)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hashed, err := user.HashPassword(password)
	if err != nil {
		return err
	}
	if err := users.Create(ctx, &user.User{
		Username: username,
		Password: hashed,
		Role:     rbac.RoleAdmin,
		IsActive: true,
	}); err != nil {
		return err
	}
	log.Info("admin account seeded", zap.String("username", username))
	return nil
}

func connectDB(cfg *config.Config) (*gorm.DB, *sql.DB, error) {
	gormDB, err := connection.ConnectGORMWithRetry(cfg.DB, connectRetries)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, nil, err
	}
	return gormDB, sqlDB, nil
}
