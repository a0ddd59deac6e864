package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	delivery "stats-backend/internal/delivery/http"
	"stats-backend/internal/repo"
	"stats-backend/internal/repo/kafka"
	"stats-backend/internal/repo/postgres"
	"stats-backend/internal/usecase/service"
	"stats-backend/pkg/connector"
	"stats-backend/pkg/goosehelper"
	"stats-backend/pkg/retry"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Info(".env файл не обнаружен")
	}

	// Выполнить миграции при старте
	dbConnectDSN := os.Getenv("DB_CONNECT_DSN")
	DBConn, err := connector.GetPostgresConnector(dbConnectDSN)
	if err != nil {
		log.Fatalf("Ошибка при подключении к базе данных: %v", err)
	}
	migrationsDir := os.Getenv("MIGRATIONS_DIR")
	if migrationsDir == "" {
		migrationsDir = "./migrations"
	}
	goosehelper.MigrateUp(DBConn.DB, migrationsDir)
	if err := DBConn.Close(); err != nil {
		log.Fatalf("Ошибка при закрытии соединения с базой данных: %v", err)
	}
}

func main() {
	dbConnectDSN := os.Getenv("DB_CONNECT_DSN")
	serverAddr := os.Getenv("SERVER_ADDR")
	if serverAddr == "" {
		serverAddr = "0.0.0.0:9090"
	}

	// База данных может подниматься дольше сервиса
	var DBConn *sqlx.DB
	err := retry.Retry(func() error {
		var connErr error
		DBConn, connErr = connector.GetPostgresConnector(dbConnectDSN)
		return connErr
	})
	if err != nil {
		log.Fatalf("Ошибка при подключении к базе данных: %v", err)
	}
	defer func() {
		if err := DBConn.Close(); err != nil {
			log.Errorf("Ошибка при закрытии соединения с базой данных: %v", err)
		}
	}()

	// Kafka опциональна: без брокеров события жизненного цикла не публикуются
	var commentEventRepo repo.CommentEventRepository
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		commentEventRepo, err = kafka.NewCommentEventKafkaRepository(strings.Split(brokers, ","))
		if err != nil {
			log.Fatalf("Ошибка при подключении к Kafka: %v", err)
		}
	} else {
		log.Info("KAFKA_BROKERS не задан, события комментариев не публикуются")
	}

	// Репозитории
	statsRepo := postgres.NewStats(DBConn)
	commentRepo := postgres.NewComment(DBConn)
	eventRepo := postgres.NewEvent(DBConn)
	userRepo := postgres.NewUser(DBConn)

	// Бизнес-логика
	statsUseCase := service.NewStats(statsRepo)
	commentUseCase := service.NewComment(commentRepo, eventRepo, userRepo, commentEventRepo)

	// Обработка запросов
	statsDelivery := delivery.NewStats(statsUseCase)
	commentDelivery := delivery.NewComment(commentUseCase)
	adminCommentDelivery := delivery.NewAdminComment(commentUseCase)

	echoServer := echo.New()
	echoServer.Use(middleware.BodyLimit("1M"))
	echoServer.Use(middleware.Decompress())
	echoServer.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
	}))
	echoServer.Use(middleware.RequestID())

	// Endpoints
	root := echoServer.Group("")
	statsDelivery.Configure(root)
	commentDelivery.Configure(root)
	adminComments := echoServer.Group("/admin/comments")
	adminCommentDelivery.Configure(adminComments)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()
	go func(server *echo.Echo) {
		if err := server.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			server.Logger.Fatalf("Сервер завершил свою работу по причине: %v\n", err)
		}
	}(echoServer)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(10)*time.Second,
	)
	defer cancel()
	if err := echoServer.Shutdown(shutdownCtx); err != nil {
		echoServer.Logger.Fatalf("Во время выключения сервера возникла ошибка: %s\n", err)
	}
}
