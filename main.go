package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/beka-birhanu/picobot-api/api"
	coverageapi "github.com/beka-birhanu/picobot-api/api/coverage"
	api_i "github.com/beka-birhanu/picobot-api/api/i"
	"github.com/beka-birhanu/picobot-api/config"
	"github.com/beka-birhanu/picobot-api/infrastruture/cache"
	logger "github.com/beka-birhanu/picobot-api/infrastruture/log"
	"github.com/beka-birhanu/picobot-api/infrastruture/repo"
	"github.com/beka-birhanu/picobot-api/service"
	"github.com/beka-birhanu/picobot-api/service/i"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Global variables for dependencies
var (
	mongoClient        *mongo.Client
	redisClient        *redis.Client
	reportRepo         i.ReportRepo
	reportCache        i.ReportCache
	coverageService    *service.Coverage
	coverageController api_i.Controller
	router             *api.Router
	appLogger          i.Logger
)

func initMongo(ctx context.Context) {
	uri := fmt.Sprintf("mongodb://%s:%s@%s:%v",
		config.MustGetEnv("DB_USER"), config.MustGetEnv("DB_PASS"), config.MustGetEnv("DB_HOST"), config.Envs.DBPort)

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	mongoClient, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Failed to connect to MongoDB: %v", err))
		os.Exit(1)
	}
	if err = mongoClient.Ping(ctx, nil); err != nil {
		appLogger.Error(fmt.Sprintf("MongoDB ping failed: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Connected to MongoDB")
}

func initReportRepo(ctx context.Context) {
	var err error
	switch config.Envs.ReportStore {
	case "memory":
		reportRepo = repo.NewMemoryReportRepo()
	case "mongo":
		initMongo(ctx)
		reportRepo = repo.NewMongoReportRepo(mongoClient, config.Envs.DBName, "coverage_reports")
	case "postgres":
		reportRepo, err = repo.NewPostgresReportRepo(ctx, config.MustGetEnv("POSTGRES_URL"))
	case "sqlite":
		reportRepo, err = repo.NewSQLiteReportRepo(ctx, config.Envs.SQLitePath)
	default:
		err = fmt.Errorf("unknown report store %q", config.Envs.ReportStore)
	}
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating report repository: %v", err))
		os.Exit(1)
	}
	appLogger.Info(fmt.Sprintf("Report repository initialized (%s)", config.Envs.ReportStore))
}

func initReportCache(ctx context.Context) {
	if config.Envs.RedisAddr == "" {
		appLogger.Info("REDIS_ADDR not set, report cache disabled")
		return
	}

	redisClient = redis.NewClient(&redis.Options{
		Addr:     config.Envs.RedisAddr,
		Password: config.Envs.RedisPassword,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		appLogger.Error(fmt.Sprintf("Redis ping failed: %v", err))
		os.Exit(1)
	}

	var err error
	reportCache, err = cache.NewRedisReportCache(redisClient, config.Envs.CacheTTLSeconds, "picobot")
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating report cache: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Report cache initialized")
}

func initCoverageService() {
	coverageLogger, err := logger.New("COVERAGE", config.ColorMagenta, os.Stdout)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating coverage logger: %v", err))
		os.Exit(1)
	}

	coverageService, err = service.NewCoverage(reportRepo, reportCache, coverageLogger, &service.Options{
		MoveBudget:    config.Envs.MoveBudget,
		MaxMoveBudget: config.Envs.MaxMoveBudget,
	})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating coverage service: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Coverage service initialized")
}

func initCoverageController() {
	apiLogger, err := logger.New("API", config.ColorCyan, os.Stdout)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating api logger: %v", err))
		os.Exit(1)
	}

	frameDelay := time.Duration(config.Envs.WatchFrameMS) * time.Millisecond
	coverageController, err = coverageapi.NewController(coverageService, apiLogger, frameDelay, config.Envs.WatchOrigins)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating coverage controller: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Coverage controller initialized")
}

func initRouter() {
	gin.SetMode(config.Envs.GinMode)
	router = api.NewRouter(api.Config{
		Addr:                    fmt.Sprintf("%s:%v", config.Envs.HostIP, config.Envs.RESTPort),
		BaseURL:                 "/api",
		Controllers:             []api_i.Controller{coverageController},
		AuthorizationMiddleware: api.APIKey(config.Envs.APIKey),
	})
	appLogger.Info("Router initialized")
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel() // Ensure the context is always canceled

	// Initialize dependencies
	appLogger, _ = logger.New("APP", config.ColorGreen, os.Stdout)

	initReportRepo(ctx)
	defer func() {
		_ = reportRepo.Close()
		if mongoClient != nil {
			_ = mongoClient.Disconnect(context.Background())
		}
	}()

	initReportCache(ctx)
	if redisClient != nil {
		defer redisClient.Close()
	}

	initCoverageService()
	initCoverageController()
	initRouter()

	// Run HTTP server
	if err := router.Run(); err != nil {
		appLogger.Error(fmt.Sprintf("Starting server: %v", err))
		os.Exit(1)
	}
}
