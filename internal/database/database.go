package database

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gymstack/gymstack-backend/internal/config"
	"github.com/gymstack/gymstack-backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect(cfg *config.Config) error {
	var err error
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	slog.Info("database connected")
	return nil
}

// Migrate runs AutoMigrate for every model. Order matters for foreign keys:
// gyms and users first, dependents after.
func Migrate() error {
	return DB.AutoMigrate(
		&models.Gym{},
		&models.User{},
		&models.UserProfile{},
		&models.Notification{},
		&models.MembershipPlan{},
		&models.Membership{},
		&models.Transaction{},
		&models.WorkoutPlan{},
		&models.DietPlan{},
		&models.PlanAssignment{},
		&models.Attendance{},
		&models.ProgressLog{},
		&models.Announcement{},
		&models.SystemLog{},
	)
}

func Ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
