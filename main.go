package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"healthfirst/config"
	_ "healthfirst/docs"
	healthredis "healthfirst/internal/redis"
	"healthfirst/internal/repository"
	"healthfirst/internal/service"
	"healthfirst/internal/storage"
	"healthfirst/internal/transport/rest"
	"healthfirst/pkg/database"
	"healthfirst/pkg/logger"
)

// @title HealthFirst API
// @version 1.0
// @description API для записи пациентов к врачам

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	_ = godotenv.Load()

	log, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal("не удалось загрузить конфигурацию", zap.Error(err))
	}

	db, err := database.NewPostgresDB(cfg.Postgres)
	if err != nil {
		log.Fatal("не удалось подключиться к БД", zap.Error(err))
	}
	defer db.Close()

	log.Info("запуск миграций базы данных")
	if err := database.RunMigrations(db, "./migrations", log); err != nil {
		log.Fatal("ошибка при выполнении миграций", zap.Error(err))
	}
	log.Info("миграции успешно выполнены")

	var fileStorage storage.FileStorage
	if cfg.S3.Endpoint != "" {
		s3Storage, err := storage.NewS3Storage(cfg.S3, log)
		if err != nil {
			log.Fatal("не удалось инициализировать S3 хранилище", zap.Error(err))
		}
		fileStorage = s3Storage
		log.Info("S3 хранилище инициализировано", zap.String("endpoint", cfg.S3.Endpoint))
	} else {
		log.Warn("S3 хранилище не настроено, загрузка документов будет недоступна")
	}

	var slotLocker healthredis.Locker
	if cfg.Redis.Addr != "" {
		redisClient, err := healthredis.NewClient(cfg.Redis)
		if err != nil {
			log.Fatal("не удалось подключиться к Redis", zap.Error(err))
		}
		defer redisClient.Close()

		slotLocker = healthredis.NewSlotLocker(redisClient, cfg.Redis.LockTTL)
		log.Info("Redis подключен", zap.String("addr", cfg.Redis.Addr))
	} else {
		log.Warn("Redis не настроен, бронирование работает только на условных обновлениях БД")
	}

	repos := repository.NewRepositories(db)

	services := service.NewServices(service.Deps{
		Repos:       repos,
		Logger:      log,
		Config:      cfg,
		FileStorage: fileStorage,
		SlotLocker:  slotLocker,
	})

	handler := rest.NewHandler(services, log, cfg)

	router := gin.New()
	router.Use(gin.Recovery())

	handler.InitRoutes(router)

	srv := &http.Server{
		Addr:           ":" + cfg.HTTP.Port,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderMB << 20,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("ошибка запуска сервера", zap.Error(err))
		}
	}()

	log.Info("сервер запущен", zap.String("addr", srv.Addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("выключение сервера...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("ошибка при остановке сервера", zap.Error(err))
	}

	log.Info("сервер остановлен")
}
