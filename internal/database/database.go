package database

import (
	"fmt"

	"github.com/Harshad932/Infinova-sub000/internal/config"
	logging "github.com/Harshad932/Infinova-sub000/internal/logging"
	"github.com/Harshad932/Infinova-sub000/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Init(log *zap.Logger) {
	var err error
	dbConf := config.Conf.Database
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		dbConf.Host, dbConf.User, dbConf.Password, dbConf.DBName, dbConf.Port)

	// Create our custom GORM logger
	gormLogger := logging.NewGormZapLogger(log)
	gormLogger.LogLevel = logger.Warn

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true, // surfaces unique violations as gorm.ErrDuplicatedKey
	})

	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	log.Info("Database connection established successfully.")
	runMigrations(log)
}

func runMigrations(log *zap.Logger) {
	// GORM's AutoMigrate will create tables, columns, and foreign keys.
	// It will NOT create composite unique indexes, so we handle those separately.
	err := DB.AutoMigrate(
		&models.Test{},
		&models.Category{},
		&models.Subcategory{},
		&models.Question{},
		&models.Participant{},
		&models.Registration{},
		&models.Passcode{},
		&models.Session{},
		&models.Response{},
	)
	if err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}
	log.Info("Database migrations completed successfully.")

	// The session-per-(test,participant) and response-per-(session,question)
	// uniqueness rules are enforced here, at the storage layer, so they
	// hold under concurrent writers.
	indexes := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_sessions_test_participant ON sessions (test_id, participant_id);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_responses_session_question ON responses (session_id, question_id);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_questions_test_order ON questions (test_id, question_order);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_registrations_test_participant ON registrations (test_id, participant_id);`,
		`CREATE INDEX IF NOT EXISTS idx_passcodes_lookup ON passcodes (participant_id, email, created_at DESC);`,
	}
	for _, stmt := range indexes {
		if err := DB.Exec(stmt).Error; err != nil {
			log.Fatal("Failed to create custom index", zap.Error(err))
		}
	}
	log.Info("Custom indexes ensured successfully.")
}
