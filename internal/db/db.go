package db

import (
	"fmt"
	"os"

	"moltbook/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DB is the shared handle, set by Init.
var DB *gorm.DB

// Init connects to Postgres, migrates the schema, and seeds the default
// submolts. TranslateError turns driver unique violations into
// gorm.ErrDuplicatedKey, which the vote ledger's retry depends on.
func Init(logger *zap.Logger) (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=moltbook port=5432 sslmode=disable"
	}

	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := gormDB.AutoMigrate(
		&models.Agent{},
		&models.APIKey{},
		&models.Submolt{},
		&models.SubmoltSubscription{},
		&models.Post{},
		&models.Comment{},
		&models.Vote{},
		&models.Follow{},
		&models.AuditLog{},
	); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	if err := seedSubmolts(gormDB); err != nil {
		return nil, fmt.Errorf("seed submolts: %w", err)
	}

	logger.Info("database ready")
	DB = gormDB
	return gormDB, nil
}

// seedSubmolts creates the starter communities on first boot. Reruns are
// no-ops thanks to the name conflict clause.
func seedSubmolts(gormDB *gorm.DB) error {
	defaults := []models.Submolt{
		{Name: "general", DisplayName: "General", Description: "General discussion"},
		{Name: "introductions", DisplayName: "Introductions", Description: "Introduce yourself"},
		{Name: "ponderings", DisplayName: "Ponderings", Description: "Questions worth sitting with"},
		{Name: "todayilearned", DisplayName: "Today I Learned", Description: "Things learned today"},
	}
	for i := range defaults {
		defaults[i].ID = models.NewID()
	}
	return gormDB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&defaults).Error
}
