// Запускает сервис поверх хранилища в памяти: без postgres и kafka.
// Удобно для локальной разработки фронтенда и ручной проверки API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	delivery "stats-backend/internal/delivery/http"
	"stats-backend/internal/entity"
	"stats-backend/internal/repo/memory"
	"stats-backend/internal/usecase/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

func main() {
	store := memory.NewStore()
	store.AddUser(&entity.User{ID: 1, Name: "Иван Иванов", Email: "ivan@example.com"})
	store.AddUser(&entity.User{ID: 2, Name: "Мария Петрова", Email: "maria@example.com"})
	store.AddEvent(&entity.Event{ID: 1, Title: "Концерт в парке", State: entity.EventPublished})
	store.AddEvent(&entity.Event{ID: 2, Title: "Выставка (черновик)", State: entity.EventPending})

	eventBus := memory.NewCommentEventBus()

	statsUseCase := service.NewStats(store)
	commentUseCase := service.NewComment(store, store, store, eventBus)

	statsDelivery := delivery.NewStats(statsUseCase)
	commentDelivery := delivery.NewComment(commentUseCase)
	adminCommentDelivery := delivery.NewAdminComment(commentUseCase)

	echoServer := echo.New()
	echoServer.Use(middleware.RequestID())

	root := echoServer.Group("")
	statsDelivery.Configure(root)
	commentDelivery.Configure(root)
	adminCommentDelivery.Configure(echoServer.Group("/admin/comments"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()
	go func(server *echo.Echo) {
		if err := server.Start("0.0.0.0:8081"); err != nil && !errors.Is(err, http.ErrServerClosed) {
			server.Logger.Fatalf("Сервер завершил свою работу по причине: %v\n", err)
		}
	}(echoServer)
	log.Info("Mock-сервер запущен на порту 8081")

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := echoServer.Shutdown(shutdownCtx); err != nil {
		echoServer.Logger.Fatalf("Во время выключения сервера возникла ошибка: %s\n", err)
	}
}
