package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nutricoach/backend/handlers"
	"github.com/nutricoach/backend/internal/appointments"
	"github.com/nutricoach/backend/internal/config"
	"github.com/nutricoach/backend/internal/database"
	"github.com/nutricoach/backend/internal/messages"
	plansrepo "github.com/nutricoach/backend/internal/plans/repository"
	plansvc "github.com/nutricoach/backend/internal/plans/service"
	"github.com/nutricoach/backend/internal/progress"
	"github.com/nutricoach/backend/internal/stats"
	"github.com/nutricoach/backend/internal/storage"
	"github.com/nutricoach/backend/internal/tokens"
	"github.com/nutricoach/backend/internal/users"
	"github.com/nutricoach/backend/pkg/logger"
	"github.com/nutricoach/backend/pkg/metrics"
	"github.com/nutricoach/backend/pkg/middleware"
)

var startTime = time.Now()

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: env=%s port=%s", cfg.Server.Environment, cfg.Server.Port)

	ctx := context.Background()

	pg, err := database.ConnectPostgres(ctx, cfg.Postgres.DSN)
	if err != nil {
		logger.Fatalf("relational store unavailable: %v", err)
	}
	defer pg.Close()
	logger.Infof("connected to Postgres, migrations applied")

	mongoClient, err := connectMongoWithRetry(ctx, cfg)
	if err != nil {
		logger.Fatalf("document store unavailable: %v", err)
	}
	defer mongoClient.Disconnect(ctx)
	plansCol := mongoClient.Database(cfg.MongoDB.Database).Collection("nutrition_plans")
	logger.Infof("connected to MongoDB database %s", cfg.MongoDB.Database)

	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnf("redis unreachable (%s:%s), continuing without it: %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			logger.Infof("connected to Redis at %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	var photos handlers.PhotoStore
	if cfg.Minio.Endpoint != "" {
		store, err := storage.NewPhotoStore(cfg.Minio)
		if err != nil {
			logger.Warnf("photo storage unavailable, uploads disabled: %v", err)
		} else {
			photos = store
			logger.Infof("photo storage ready, bucket %s", cfg.Minio.Bucket)
		}
	}

	userSvc := users.NewService(pg)
	issuer := tokens.NewIssuer(cfg.JWT.Secret, cfg.JWT.TTL)
	planRepo, err := plansrepo.NewMongoRepo(plansCol)
	if err != nil {
		logger.Fatalf("plan store indexes: %v", err)
	}
	planSvc := plansvc.New(planRepo, userSvc)
	apptRepo := appointments.NewPostgresRepository(pg)
	msgRepo := messages.NewPostgresRepository(pg)
	progRepo := progress.NewPostgresRepository(pg)
	statsRepo := stats.NewPostgresRepository(pg)

	reg := prometheus.NewRegistry()
	metrics.RegisterCollectors(reg)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(corsMiddleware())

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			window := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimit(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, window))
		} else {
			r.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", func(c *gin.Context) {
		deps := gin.H{"postgres": pg.PingContext(c.Request.Context()) == nil}
		deps["mongodb"] = mongoClient.Ping(c.Request.Context(), nil) == nil
		ready := deps["postgres"] == true && deps["mongodb"] == true
		if redisClient != nil {
			deps["redis"] = redisClient.Ping(c.Request.Context()).Err() == nil
			ready = ready && deps["redis"] == true
		}
		status := http.StatusOK
		body := gin.H{"status": "ready", "deps": deps, "uptime": time.Since(startTime).String()}
		if !ready {
			status = http.StatusServiceUnavailable
			body["status"] = "not_ready"
		}
		c.JSON(status, body)
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	handlers.RegisterSwagger(r)

	auth := middleware.Auth(issuer)
	api := r.Group("/api")
	handlers.NewAuthHandler(userSvc, issuer).Register(api)
	handlers.NewProfileHandler(userSvc).Register(api, auth)
	handlers.NewUsersHandler(userSvc, statsRepo).Register(api, auth)
	handlers.NewPatientsHandler(planSvc, apptRepo, progRepo, photos).Register(api, auth)
	handlers.NewNutritionistsHandler(planSvc, apptRepo).Register(api, auth)
	handlers.NewMessagesHandler(msgRepo).Register(api, auth)

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	logger.Infof("listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("server error: %v", err)
	}
}

// connectMongoWithRetry gives the document store a few seconds to come up
// before treating its absence as fatal.
func connectMongoWithRetry(ctx context.Context, cfg *config.Config) (client *mongo.Client, err error) {
	for attempt := 1; attempt <= 5; attempt++ {
		client, err = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
		if err == nil {
			return client, nil
		}
		logger.Warnf("mongo connect attempt %d/5 failed: %v", attempt, err)
		time.Sleep(time.Duration(attempt) * time.Second)
	}
	return nil, err
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}
