package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"startupml/advisor"
	"startupml/analytics"
	"startupml/auth"
	"startupml/dataset"
	"startupml/db"
	qhttp "startupml/http"
	"startupml/logging"
	"startupml/ml"
)

type Config struct {
	Http struct {
		Port           int      `yaml:"port"`
		TimeoutSeconds int      `yaml:"timeout_seconds"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"http"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Dataset struct {
		Path string `yaml:"path"`
	} `yaml:"dataset"`
	ML struct {
		ModelType  string `yaml:"model_type"`
		ModelPath  string `yaml:"model_path"`
		WatchModel bool   `yaml:"watch_model"`
	} `yaml:"ml"`
	Auth struct {
		Secret        string `yaml:"secret"`
		TokenTTLHours int    `yaml:"token_ttl_hours"`
	} `yaml:"auth"`
	Log struct {
		Level string `yaml:"level"`
		Path  string `yaml:"path"`
	} `yaml:"log"`
}

func main() {
	// 1. Load config
	config, err := loadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Logger
	logger, err := logging.New(config.Log.Level, config.Log.Path)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	zap.ReplaceGlobals(logger)
	defer logger.Sync()

	// 3. Database
	store, err := db.Open(config.Database.Path)
	if err != nil {
		logger.Fatal("Failed to open database", zap.String("path", config.Database.Path), zap.Error(err))
	}
	defer store.Close()
	logger.Info("Database opened", zap.String("path", config.Database.Path))

	// 4. Dataset
	ds, err := dataset.LoadFile(config.Dataset.Path)
	if err != nil {
		logger.Fatal("Failed to load dataset", zap.String("path", config.Dataset.Path), zap.Error(err))
	}
	logger.Info("Dataset loaded", zap.String("path", config.Dataset.Path), zap.Int("records", ds.Len()))

	// 5. Model
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := initializeServices(ctx, config, store, ds); err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}

	// 6. HTTP server
	server := qhttp.NewServer(qhttp.ServerConfig{
		Port:           config.Http.Port,
		Timeout:        time.Duration(config.Http.TimeoutSeconds) * time.Second,
		AllowedOrigins: config.Http.AllowedOrigins,
	})
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 7. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down...")

	cancel()
	if err := server.Stop(); err != nil {
		logger.Warn("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Exiting")
}

func initializeServices(ctx context.Context, config *Config, store *db.Store, ds *dataset.Store) error {
	model, err := ml.LoadModel(config.ML.ModelType, config.ML.ModelPath)
	if err != nil {
		return err
	}
	reloadable := ml.NewReloadable(model)
	if config.ML.WatchModel {
		if err := ml.Watch(ctx, config.ML.ModelPath, config.ML.ModelType, reloadable); err != nil {
			return err
		}
	}

	service, err := analytics.New(ds)
	if err != nil {
		return err
	}

	qhttp.SetDataset(ds)
	qhttp.SetModel(reloadable)
	qhttp.SetAdvisor(advisor.New(ds))
	qhttp.SetAnalytics(service)
	qhttp.SetHistoryStore(store)
	qhttp.SetUserStore(store)
	qhttp.SetTokens(auth.Tokens{
		Secret: []byte(config.Auth.Secret),
		TTL:    time.Duration(config.Auth.TokenTTLHours) * time.Hour,
	})
	return nil
}

func loadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var config Config
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, err
	}
	return &config, nil
}
