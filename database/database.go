package database

import (
	"fmt"
	"log"

	"github.com/hornetmadness/MyBudget/config"
	"github.com/hornetmadness/MyBudget/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init opens the configured database, migrates the schema and seeds
// default settings. sqlite is the default backend; mysql is for
// installs that already run one.
func Init(cfg *config.Config) error {
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=UTC",
			cfg.Database.Username,
			cfg.Database.Password,
			cfg.Database.Host,
			cfg.Database.Port,
			cfg.Database.DBName,
			cfg.Database.Charset,
		)
		dialector = mysql.Open(dsn)
	case "sqlite", "":
		// _txlock=immediate makes write transactions take the write
		// lock up front so concurrent balance updates serialize
		// instead of failing with SQLITE_BUSY.
		dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on&_txlock=immediate",
			cfg.Database.Path)
		dialector = sqlite.Open(dsn)
	default:
		return fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	var err error
	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	if cfg.Database.Driver == "mysql" {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	} else {
		// one writer connection keeps sqlite contention out of the picture
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(DB); err != nil {
		return err
	}

	if err := SeedSettings(DB); err != nil {
		return err
	}

	log.Println("database initialized")
	return nil
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Account{},
		&models.Category{},
		&models.Bill{},
		&models.Income{},
		&models.Budget{},
		&models.BudgetBill{},
		&models.Transaction{},
		&models.Setting{},
	)
}

// SeedSettings inserts any default settings row that does not exist
// yet. Rows the user has edited keep their values.
func SeedSettings(db *gorm.DB) error {
	for _, s := range models.DefaultSettings() {
		var count int64
		if err := db.Model(&models.Setting{}).Where("setting_key = ?", s.Key).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			if err := db.Create(&s).Error; err != nil {
				return fmt.Errorf("seeding setting %s: %w", s.Key, err)
			}
		}
	}
	return nil
}

// GetDB returns the shared connection.
func GetDB() *gorm.DB {
	return DB
}
