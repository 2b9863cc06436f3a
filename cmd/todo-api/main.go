package main

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "todo-api/configs"
	_ "todo-api/docs"
	"todo-api/internal/application/controller"
	"todo-api/internal/application/middleware"
	"todo-api/internal/application/schedule"
	apigw "todo-api/internal/domain/gateway/api"
	"todo-api/internal/domain/gateway/cache"
	"todo-api/internal/domain/gateway/db"
	"todo-api/internal/domain/gateway/queue"
	"todo-api/internal/domain/usecase/health"
	"todo-api/internal/domain/usecase/todo"
	"todo-api/internal/infra/aws"
	gormdb "todo-api/internal/infra/database/gorm"
	"todo-api/internal/infra/database/sqldb"
	"todo-api/pkg/http"
	"todo-api/pkg/log"
	"todo-api/pkg/msg"
	"todo-api/pkg/redis"
	"todo-api/pkg/resource"
)

// @title Todo API
// @version 1.0
// @description CRUD REST API for todo items with tri-state partial updates
// @BasePath /todo-api
func main() {
	log.Info(msg.GetMessage("app.start"))

	// Init infra
	e := echo.New()
	middleware.SetupRequestID(e)
	middleware.SetupRequestLogger(e)
	e.Use(echomw.Recover())
	api := e.Group(resource.GetString("app.server.context-path"))

	// Init TodoGateway
	var todoGateway db.TodoGateway
	var healthDBGateway db.HealthDBGateway
	switch resource.GetString("app.db.engine") {
	case "gorm":
		if err := gormdb.Open(); err != nil {
			log.Fatalf("Failed to connect database: %v", err)
		}
		todoGateway = db.NewGormTodoGateway(gormdb.Db)
		healthDBGateway = db.NewGormHealthDBGateway(gormdb.Db)
	default:
		if err := sqldb.Open(); err != nil {
			log.Fatalf("Failed to connect database: %v", err)
		}
		todoGateway = db.NewSQLTodoGateway(sqldb.Db)
		healthDBGateway = db.NewSQLHealthDBGateway(sqldb.Db)
	}

	// Init cache
	var redisClient *redis.Client
	var todoCache *redis.Cache
	var cacheHealthGateway cache.HealthCacheGateway = cache.NewDisabledCacheGateway()
	if resource.GetBool("app.cache.enabled") {
		cacheTTL := time.Duration(resource.GetInt("app.cache.ttl-seconds")) * time.Second
		redisConfig := redis.NewRedisConfig().
			WithHost(resource.GetString("app.cache.host")).
			WithPort(resource.GetInt("app.cache.port")).
			WithPassword(resource.GetString("app.cache.password")).
			WithDatabase(resource.GetInt("app.cache.database")).
			WithCacheTTL("todos", cacheTTL)
		redisClient = redis.NewClient(redisConfig)

		cacheOpts := redis.NewCacheOptions().WithCacheName("todos")
		todoCache = redis.NewCache(redisClient, cacheOpts)
		cacheHealthGateway = cache.NewRedisHealthCacheGateway(redisClient)
	}

	// Init event publication
	useCaseOpts := todo.Options{Cache: todoCache}
	if resource.GetBool("app.events.queue-enabled") {
		if err := aws.LoadConfig(); err != nil {
			log.Fatalf("Failed to load AWS configuration: %v", err)
		}
		sender := aws.NewSQSSenderAdapter(aws.NewSqsClient())
		useCaseOpts.Events = queue.NewTodoEventGateway(sender, resource.GetString("app.events.queue-name"))
	}
	if resource.GetBool("app.events.webhook-enabled") {
		useCaseOpts.Webhook = apigw.NewWebhookGateway(
			resource.GetString("app.events.webhook-url"),
			resource.GetString("app.events.webhook-path"),
			http.ClientOptions{})
	}

	// Init UseCase
	todoUseCase := todo.NewTodoUseCase(todoGateway, useCaseOpts)
	healthUseCase := health.NewHealthUseCase(healthDBGateway, cacheHealthGateway)

	// Init Controller
	todoController := controller.NewTodoController(api, todoUseCase)
	healthController := controller.NewHealthController(api, healthUseCase)

	// Init Routes
	todoController.InitTodoRoutes()
	healthController.InitHealthRoutes()
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Init Schedule
	ctx := context.Background()
	if redisClient != nil {
		todoScheduler := schedule.NewTodoScheduler(todoUseCase, redisClient,
			resource.GetString("app.schedule.overdue-cron"),
			resource.GetInt("app.schedule.overdue-lock-ttl-seconds"),
			resource.GetInt("app.schedule.overdue-lock-refresh-seconds"))
		todoScheduler.InitTodoScheduleTasks(ctx)
	}
	statsScheduler, err := schedule.NewStatsScheduler(todoUseCase, resource.GetString("app.schedule.stats-cron"))
	if err != nil {
		log.Errorf("Failed to create stats scheduler: %v", err)
	} else if err := statsScheduler.Start(ctx); err != nil {
		log.Errorf("Failed to start stats scheduler: %v", err)
	}

	// Start Routes
	e.Logger.Fatal(e.Start(":" + resource.GetString("app.server.port")))
	log.Info(msg.GetMessage("app.started"))
}
