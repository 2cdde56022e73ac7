package main

import (
	"log"

	"rideshare-booking/cmd"
	"rideshare-booking/internal/data/repository"
	"rideshare-booking/internal/usecase"
	"rideshare-booking/internal/wire"
	"rideshare-booking/pkg/database"
	"rideshare-booking/pkg/mq"
	"rideshare-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	repos := repository.NewRepository(db, config.Booking.TxRetries, logger)

	// Notification delivery is optional, the mailbox works without it
	var publisher usecase.NotificationPublisher
	if config.RabbitMQ.URL != "" {
		p, err := mq.Connect(config.RabbitMQ.URL, config.RabbitMQ.Exchange, logger)
		if err != nil {
			logger.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}
		defer p.Close()
		publisher = p
		logger.Info("Notification publisher ready", zap.String("exchange", config.RabbitMQ.Exchange))
	} else {
		logger.Info("RABBITMQ_URL not set, notifications stay in the mailbox only")
	}

	app := wire.Wiring(repos, publisher, config, logger)

	if err := cmd.APIServer(app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}
	logger.Info("Server stopped")
}
