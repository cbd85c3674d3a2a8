package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/gartstein/hrms/internal/hr/auth"
	"github.com/gartstein/hrms/internal/hr/controller"
	"github.com/gartstein/hrms/internal/hr/events"
	"github.com/gartstein/hrms/internal/hr/handlers"
	"github.com/gartstein/hrms/internal/hr/models"
	"github.com/gartstein/hrms/internal/hr/obs"
	"github.com/gartstein/hrms/internal/hr/store"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config struct for YAML configuration
type Config struct {
	HTTPPort      int      `yaml:"HTTP_PORT"`
	DBHost        string   `yaml:"DB_HOST"`
	DBPort        int      `yaml:"DB_PORT"`
	DBUser        string   `yaml:"DB_USER"`
	DBPassword    string   `yaml:"DB_PASSWORD"`
	DBName        string   `yaml:"DB_NAME"`
	DBSSLMode     string   `yaml:"DB_SSLMODE"`
	KafkaBrokers  []string `yaml:"KAFKA_BROKERS"`
	KafkaGroupID  string   `yaml:"KAFKA_GROUP_ID"`
	JWTSecret     string   `yaml:"JWT_SECRET"`
	Topic         string   `yaml:"TOPIC"`
	ConsumeEvents bool     `yaml:"CONSUME_EVENTS"`
}

func main() {
	logger := initLogger()
	defer func(logger *zap.Logger) {
		err := logger.Sync()
		if err != nil {
			logger.Error("failed to sync logger", zap.Error(err))
		}
	}(logger)

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	st, err := store.NewPostgres(initDatabase(cfg), logger)
	if err != nil {
		logger.Fatal("failed to initialize document store", zap.Error(err))
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("failed to close document store", zap.Error(err))
		}
	}()

	producer, err := events.NewProducer(cfg.KafkaBrokers, logger, cfg.Topic)
	if err != nil {
		logger.Fatal("failed to initialize Kafka producer", zap.Error(err))
	}
	defer producer.Close()

	announcementSvc := controller.NewAnnouncementService(st, producer, logger)
	notificationSvc := controller.NewNotificationService(st, producer, logger)
	incidentSvc := controller.NewIncidentService(st, producer, logger)
	documentSvc := controller.NewDocumentService(st, producer, logger)
	userSvc := controller.NewUserService(st, producer, logger)
	employeeSvc := controller.NewEmployeeService(st, producer, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.ConsumeEvents {
		consumer := events.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, cfg.Topic, logger)
		consumer.RegisterHandler(announcementFanOut(notificationSvc, userSvc, logger))
		defer consumer.Close()
		consumer.Start(ctx)
	}

	obs.Init()

	server := handlers.NewServer(cfg.HTTPPort, logger)
	server.RegisterDefaultRoutes()
	handlers.NewAnnouncementHandler(announcementSvc, logger).Register(server.Mux())
	handlers.NewNotificationHandler(notificationSvc, logger).Register(server.Mux())
	handlers.NewIncidentHandler(incidentSvc, logger).Register(server.Mux())
	handlers.NewDocumentHandler(documentSvc, logger).Register(server.Mux())
	handlers.NewUserHandler(userSvc, logger).Register(server.Mux())
	handlers.NewEmployeeHandler(employeeSvc, logger).Register(server.Mux())
	server.Finalize(cfg.JWTSecret, &profileEnsurer{users: userSvc})

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	waitForShutdown(server, logger)
}

// profileEnsurer bridges the auth middleware to the user service so a
// profile record exists for every authenticated caller.
type profileEnsurer struct {
	users *controller.UserService
}

func (pe *profileEnsurer) Ensure(ctx context.Context, p auth.Principal) error {
	_, err := pe.users.EnsureProfile(ctx, controller.Principal{
		ID:          p.ID,
		Email:       p.Email,
		DisplayName: p.DisplayName,
	})
	return err
}

// announcementFanOut creates a notification per active user whenever a
// published announcement is created.
func announcementFanOut(notifications *controller.NotificationService, users *controller.UserService, logger *zap.Logger) func(context.Context, events.Event) error {
	return func(ctx context.Context, ev events.Event) error {
		if ev.Type != events.EntityCreated || ev.Collection != "announcements" {
			return nil
		}
		var a models.Announcement
		if err := json.Unmarshal(ev.Payload, &a); err != nil {
			return fmt.Errorf("decode announcement payload: %w", err)
		}
		if !a.IsPublished {
			return nil
		}
		recipients, err := users.List(ctx, &models.UserFilter{Status: models.UserActive})
		if err != nil {
			return fmt.Errorf("list notification recipients: %w", err)
		}
		for _, u := range recipients {
			_, err := notifications.Create(ctx, &models.Notification{
				Title:       a.Title,
				Message:     a.Content,
				Type:        models.NotificationInfo,
				Priority:    a.Priority,
				Category:    a.Category,
				RecipientID: u.ID,
			})
			if err != nil {
				logger.Warn("failed to fan out announcement notification",
					zap.String("announcement_id", a.ID),
					zap.String("recipient_id", u.ID),
					zap.Error(err),
				)
			}
		}
		return nil
	}
}

// initLogger initializes a Zap production logger.
func initLogger() *zap.Logger {
	logger, _ := zap.NewProduction()
	return logger
}

// loadConfig reads the YAML config and then overlays secrets from the
// environment (a local .env file is honored when present).
func loadConfig() (*Config, error) {
	_ = godotenv.Load()

	configPath := filepath.Join("internal", "hr", "config", "config.yaml")
	file, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, err
	}
	if v := os.Getenv("HRMS_JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("HRMS_DB_PASSWORD"); v != "" {
		cfg.DBPassword = v
	}
	if v := os.Getenv("HRMS_HTTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse HRMS_HTTP_PORT: %w", err)
		}
		cfg.HTTPPort = port
	}
	return &cfg, nil
}

// initDatabase initializes the database connection settings.
func initDatabase(cfg *Config) *store.Config {
	return &store.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	}
}

// waitForShutdown blocks until an interrupt or SIGTERM is received, then
// shuts the server down.
func waitForShutdown(server *handlers.Server, logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	server.Stop()
	logger.Info("server stopped properly")
}
