package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"samarithanna-api/internal/cache"
	"samarithanna-api/internal/config"
	"samarithanna-api/internal/controller"
	"samarithanna-api/internal/mailer"
	"samarithanna-api/internal/metrics"
	"samarithanna-api/internal/middleware"
	"samarithanna-api/internal/model"
	"samarithanna-api/internal/rabbit"
	"samarithanna-api/internal/repository"
	"samarithanna-api/internal/service"
)

func main() {
	cfg := config.Load()

	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	if cfg.JWTSecret == "" {
		logger.Fatal("JWT_SECRET no está configurado")
	}

	// Conexión a MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal(err)
	}
	db := client.Database(cfg.MongoDBName)

	// Conexión a RabbitMQ (cola de correos)
	conn, err := amqp091.Dial(cfg.RabbitURL)
	if err != nil {
		logger.Fatalf("Error conectando a RabbitMQ: %v", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		logger.Fatalf("Error creando canal en RabbitMQ: %v", err)
	}

	publisher, err := rabbit.NewPublisher(ch)
	if err != nil {
		logger.Fatalf("Error declarando la cola de correos: %v", err)
	}

	// Redis es opcional: sin REDIS_ADDR el resumen se calcula siempre
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.WithError(err).Warn("Redis no responde; el resumen irá sin caché")
			rdb = nil
		}
	}

	// Métricas
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	recorder := metrics.NewCollector(registry)

	// Repositorios y servicios
	orderRepo := repository.NewMongoOrderRepository(db)
	userRepo := repository.NewMongoUserRepository(db)
	productRepo := repository.NewMongoProductRepository(db)

	authService := service.NewAuthService(cfg.JWTSecret)
	orderService := service.NewOrderService(orderRepo, userRepo, publisher, logger, recorder)
	userService := service.NewUserService(userRepo, authService, publisher, logger, recorder)
	productService := service.NewProductService(productRepo)

	reportService, err := service.NewReportService(orderRepo, userRepo, productRepo)
	if err != nil {
		logger.Fatalf("Error cargando la zona horaria de reportes: %v", err)
	}
	summary := cache.NewCachingSummary(reportService, rdb, 5*time.Minute, logger)

	// Worker de correo consumiendo la misma cola que publica el motor
	sender := mailer.NewMailgunSender(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.EmailFrom)
	worker := mailer.NewWorker(sender, logger, recorder)
	rabbit.SetupConsumer(ch, worker)

	// Handlers
	orderCtrl := controller.NewOrderController(orderService, reportService, summary)
	userCtrl := controller.NewUserController(userService)
	productCtrl := controller.NewProductController(productService)

	// Router
	r := gin.Default()

	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := r.Group("/api")

	// Rutas públicas
	api.POST("/users/signin", userCtrl.Signin)
	api.POST("/users/signup", userCtrl.Signup)
	api.GET("/products", productCtrl.List)
	api.GET("/products/slug/:slug", productCtrl.GetBySlug)

	// Rutas protegidas (requieren token)
	auth := api.Group("/")
	auth.Use(middleware.Auth(authService))

	users := auth.Group("/users")
	users.PUT("/profile", userCtrl.UpdateProfile)
	users.GET("", middleware.RequireRole(model.RoleAdmin), userCtrl.List)
	users.GET("/:id", middleware.RequireRole(model.RoleAdmin), userCtrl.Get)
	users.PUT("/:id", middleware.RequireRole(model.RoleAdmin), userCtrl.Update)

	staff := middleware.RequireRole(model.RoleAdmin, model.RoleLogistics, model.RoleDelivery)
	logistics := middleware.RequireRole(model.RoleAdmin, model.RoleLogistics)
	admin := middleware.RequireRole(model.RoleAdmin)

	orders := auth.Group("/orders")
	orders.GET("", staff, orderCtrl.List)
	orders.POST("", orderCtrl.Create)
	orders.GET("/summary", admin, orderCtrl.GetSummary)
	orders.GET("/users-daily-tracking", admin, orderCtrl.UsersDailyTracking)
	orders.GET("/users-daily-tracking-2", admin, orderCtrl.UsersDailyTracking2)
	orders.GET("/mine", orderCtrl.Mine)
	orders.GET("/mine/recent-orders", orderCtrl.MineRecent)
	orders.GET("/mine/stats", orderCtrl.MineStats)
	orders.GET("/:id", orderCtrl.GetByID)
	orders.PUT("/:id/order-processed", logistics, orderCtrl.MarkProcessed)
	orders.PUT("/:id/estimatedDelivery", logistics, orderCtrl.SetEstimatedDelivery)
	orders.PUT("/:id/ready", staff, orderCtrl.MarkReady)
	orders.PUT("/:id/deliver", staff, orderCtrl.MarkDelivered)

	// Ejecutar servidor
	logger.Infof("API ejecutándose en puerto %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal(err)
	}
}
