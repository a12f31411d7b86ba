package db

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"equipment-inventory/config"
	"equipment-inventory/internal/model"
)

// defaultEquipment is inserted when the equipment table is empty.
var defaultEquipment = []model.Equipment{
	{Name: "Принтер HP LaserJet", Status: model.StatusWorking},
	{Name: "Сканер Canon DR-C225", Status: model.StatusBroken},
	{Name: "Компьютер Dell OptiPlex", Status: model.StatusWorking},
	{Name: "Проектор Epson EB-U05", Status: model.StatusBroken},
}

// Init opens the database, runs migrations and seeds the default rows.
func Init(cfg *config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	logLevel := logger.Warn
	if cfg.LogSQL {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetimeMinutes > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
	}

	log.Info("running database migrations", zap.String("driver", cfg.Driver))
	if err := Migrate(db); err != nil {
		return nil, err
	}

	if !cfg.SkipSeed {
		seeded, err := Seed(db)
		if err != nil {
			return nil, err
		}
		if seeded > 0 {
			log.Info("seeded default equipment", zap.Int("rows", seeded))
		}
	}

	log.Info("database initialization complete")
	return db, nil
}

// Migrate ensures the inventory tables exist.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Equipment{},
		&model.Issue{},
		&model.SparePart{},
		&model.PushSubscription{},
	); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}
	return nil
}

// Seed inserts the default equipment when the table is empty and returns the
// number of rows written.
func Seed(db *gorm.DB) (int, error) {
	var count int64
	if err := db.Model(&model.Equipment{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count equipment: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	rows := make([]model.Equipment, len(defaultEquipment))
	copy(rows, defaultEquipment)
	if err := db.Create(&rows).Error; err != nil {
		return 0, fmt.Errorf("failed to seed equipment: %w", err)
	}
	return len(rows), nil
}

func dialectorFor(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN), nil
	case config.DriverSQLite, "":
		return sqlite.Open(SQLiteDSN(cfg.DSN)), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// SQLiteDSN turns on foreign key enforcement so deletes cascade.
func SQLiteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on"
	}
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	return dsn + "?_foreign_keys=on"
}
