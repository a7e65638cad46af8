package main

import (
	"context"

	"github.com/Harshad932/Infinova-sub000/internal/config"
	"github.com/Harshad932/Infinova-sub000/internal/database"
	logger "github.com/Harshad932/Infinova-sub000/internal/logging"
	"github.com/Harshad932/Infinova-sub000/internal/repository"
	"github.com/Harshad932/Infinova-sub000/internal/router"
	"github.com/Harshad932/Infinova-sub000/internal/services"

	"go.uber.org/zap"
)

func main() {
	// Initialize Logger
	log, err := logger.Init(".")
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	// Load configuration
	if err := config.Init(".", log); err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize Database
	database.Init(log)

	// Background cleanup of expired passcodes
	janitor := services.NewJanitor(log, repository.NewPasscodeRepo(database.DB))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	janitor.Start(ctx)

	// Setup router, passing the logger to it
	r := router.Setup(log)

	// Start the Gin server
	port := ":" + config.Conf.Server.Port
	log.Info("Server listening on http://localhost" + port)
	if err := r.Run(port); err != nil {
		log.Fatal("Failed to run Gin server", zap.Error(err))
	}
}
