package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"stats-backend/internal/delivery/http/utils"
	"stats-backend/internal/entity"
	"stats-backend/internal/usecase"
	"time"

	"stats-backend/pkg/sse"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

type AdminComment struct {
	commentUseCase usecase.Comment
}

func NewAdminComment(commentUseCase usecase.Comment) *AdminComment {
	return &AdminComment{
		commentUseCase: commentUseCase,
	}
}

func (a *AdminComment) Configure(server *echo.Group) {
	server.GET("", a.GetCommentsByStatus)
	server.GET("/pending", a.GetPendingComments)
	server.PATCH("/:commentId", a.ModerateComment)
	server.DELETE("/:commentId", a.DeleteComment)
	server.GET("/users/:userId", a.GetUserComments)
	server.GET("/users/:userId/stats", a.GetUserCommentStats)
	server.GET("/subscribe", a.SubscribeToCommentEvents)
}

func (a *AdminComment) GetPendingComments(e echo.Context) error {
	from, size, err := pagination(e)
	if err != nil {
		return e.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if size > maxPublicPageSize {
		return e.JSON(http.StatusBadRequest, echo.Map{
			"error": "параметр size должен быть от 1 до 50",
		})
	}

	comments, err := a.commentUseCase.GetPendingComments(from, size)
	if err != nil {
		return commentError(e, err)
	}
	return e.JSON(http.StatusOK, toCommentResponses(comments))
}

func (a *AdminComment) GetCommentsByStatus(e echo.Context) error {
	from, size, err := pagination(e)
	if err != nil {
		return e.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	status := entity.CommentStatus(e.QueryParam("status"))
	comments, err := a.commentUseCase.GetCommentsByStatus(status, from, size)
	if err != nil {
		return commentError(e, err)
	}
	return e.JSON(http.StatusOK, toCommentResponses(comments))
}

func (a *AdminComment) ModerateComment(e echo.Context) error {
	commentID, err := utils.PathInt64(e, "commentId")
	if err != nil {
		return e.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	request := &entity.CommentAdminRequest{}
	if err := utils.ReadJSON(e, request); err != nil {
		log.Infof("Ошибка при чтении JSON: %v", err)
		return e.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный формат запроса",
		})
	}

	comment, err := a.commentUseCase.ModerateComment(commentID, request)
	if err != nil {
		return commentError(e, err)
	}
	return e.JSON(http.StatusOK, toCommentResponse(comment))
}

func (a *AdminComment) DeleteComment(e echo.Context) error {
	commentID, err := utils.PathInt64(e, "commentId")
	if err != nil {
		return e.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	if err := a.commentUseCase.DeleteCommentByAdmin(commentID); err != nil {
		return commentError(e, err)
	}
	return e.NoContent(http.StatusNoContent)
}

func (a *AdminComment) GetUserComments(e echo.Context) error {
	userID, err := utils.PathInt64(e, "userId")
	if err != nil {
		return e.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	from, size, err := pagination(e)
	if err != nil {
		return e.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	comments, err := a.commentUseCase.GetUserComments(userID, from, size)
	if err != nil {
		return commentError(e, err)
	}
	return e.JSON(http.StatusOK, toCommentResponses(comments))
}

func (a *AdminComment) GetUserCommentStats(e echo.Context) error {
	userID, err := utils.PathInt64(e, "userId")
	if err != nil {
		return e.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	stats, err := a.commentUseCase.GetUserCommentStats(userID)
	if err != nil {
		return commentError(e, err)
	}
	return e.JSON(http.StatusOK, stats)
}

// SubscribeToCommentEvents отдает события модерации комментариев по SSE
func (a *AdminComment) SubscribeToCommentEvents(e echo.Context) error {
	events, err := a.commentUseCase.SubscribeCommentEvents(e.Request().Context())
	if err != nil {
		if errors.Is(err, usecase.ErrEventStreamUnavailable) {
			return e.JSON(http.StatusServiceUnavailable, echo.Map{
				"error": err.Error(),
			})
		}
		return commentError(e, err)
	}

	w := e.Response()
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	// Периодический ping поддерживает соединение живым
	pingTicker := time.NewTicker(20 * time.Second)
	defer pingTicker.Stop()

	for {
		select {
		case <-e.Request().Context().Done():
			log.Infof("SSE клиент отключился, IP: %v", e.RealIP())
			return nil

		case event, ok := <-events:
			if !ok {
				return nil
			}
			marshaled, err := json.Marshal(event)
			if err != nil {
				log.Errorf("Ошибка при сериализации события: %v", err)
				return err
			}
			sseEvent := sse.Event{
				Event: []byte("comment"),
				Data:  marshaled,
			}
			if err := sseEvent.MarshalTo(w); err != nil {
				log.Errorf("Ошибка при отправке события: %v", err)
				return err
			}
			w.Flush()

		case <-pingTicker.C:
			ping := sse.Event{
				Event: []byte("ping"),
				Data:  []byte(""),
			}
			if err := ping.MarshalTo(w); err != nil {
				log.Errorf("Ошибка при отправке ping: %v", err)
				return err
			}
			w.Flush()
		}
	}
}
