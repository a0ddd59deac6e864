package http

import (
	"errors"
	"net/http"
	"stats-backend/internal/delivery/http/utils"
	"stats-backend/internal/entity"
	"stats-backend/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// maxPublicPageSize — предел size для публичных выборок; сервис дополнительно
// ограничивает size сотней.
const maxPublicPageSize = 50

type Comment struct {
	commentUseCase usecase.Comment
}

func NewComment(commentUseCase usecase.Comment) *Comment {
	return &Comment{
		commentUseCase: commentUseCase,
	}
}

func (c *Comment) Configure(server *echo.Group) {
	server.POST("/users/:userId/events/:eventId/comments", c.CreateComment)
	server.PATCH("/users/:userId/events/:eventId/comments/:commentId", c.UpdateComment)
	server.DELETE("/users/:userId/events/:eventId/comments/:commentId", c.DeleteComment)
	server.GET("/users/:userId/events/:eventId/comments", c.GetUserCommentsForEvent)
	server.GET("/users/:userId/events/:eventId/comments/check", c.CanUserComment)

	server.GET("/events/:eventId/comments", c.GetPublishedComments)
	server.GET("/events/:eventId/comments/count", c.GetPublishedCommentsCount)
	server.GET("/events/:eventId/comments/:commentId", c.GetPublishedComment)

	server.GET("/comments/search", c.SearchComments)
	server.GET("/comments/recent", c.GetRecentComments)
}

// commentError переводит ошибки usecase в HTTP-статусы
func commentError(e echo.Context, err error) error {
	switch {
	case errors.Is(err, usecase.ErrUserNotFound),
		errors.Is(err, usecase.ErrEventNotFound),
		errors.Is(err, usecase.ErrCommentNotFound):
		return e.JSON(http.StatusNotFound, echo.Map{
			"error": err.Error(),
		})
	case errors.Is(err, usecase.ErrForbidden):
		return e.JSON(http.StatusForbidden, echo.Map{
			"error": err.Error(),
		})
	case errors.Is(err, usecase.ErrCommentConflict):
		return e.JSON(http.StatusConflict, echo.Map{
			"error": err.Error(),
		})
	case errors.Is(err, usecase.ErrValidation):
		return e.JSON(http.StatusBadRequest, echo.Map{
			"error": err.Error(),
		})
	default:
		log.Errorf("Внутренняя ошибка: %v", err)
		return e.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}
}

func pathIDs(e echo.Context, names ...string) ([]int64, error) {
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		id, err := utils.PathInt64(e, name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func pagination(e echo.Context) (int, int, error) {
	from, err := utils.QueryInt(e, "from", 0)
	if err != nil {
		return 0, 0, err
	}
	size, err := utils.QueryInt(e, "size", 10)
	if err != nil {
		return 0, 0, err
	}
	return from, size, nil
}

func (c *Comment) CreateComment(e echo.Context) error {
	ids, err := pathIDs(e, "userId", "eventId")
	if err != nil {
		return e.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	request := &entity.NewCommentRequest{}
	if err := utils.ReadJSON(e, request); err != nil {
		log.Infof("Ошибка при чтении JSON: %v", err)
		return e.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный формат запроса",
		})
	}

	comment, err := c.commentUseCase.CreateComment(ids[0], ids[1], request)
	if err != nil {
		return commentError(e, err)
	}
	return e.JSON(http.StatusCreated, toCommentResponse(comment))
}

func (c *Comment) UpdateComment(e echo.Context) error {
	ids, err := pathIDs(e, "userId", "eventId", "commentId")
	if err != nil {
		return e.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	request := &entity.NewCommentRequest{}
	if err := utils.ReadJSON(e, request); err != nil {
		return e.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный формат запроса",
		})
	}

	comment, err := c.commentUseCase.UpdateComment(ids[0], ids[1], ids[2], request)
	if err != nil {
		return commentError(e, err)
	}
	return e.JSON(http.StatusOK, toCommentResponse(comment))
}

func (c *Comment) DeleteComment(e echo.Context) error {
	ids, err := pathIDs(e, "userId", "eventId", "commentId")
	if err != nil {
		return e.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	if err := c.commentUseCase.DeleteComment(ids[0], ids[1], ids[2]); err != nil {
		return commentError(e, err)
	}
	return e.NoContent(http.StatusNoContent)
}

func (c *Comment) GetUserCommentsForEvent(e echo.Context) error {
	ids, err := pathIDs(e, "userId", "eventId")
	if err != nil {
		return e.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	comments, err := c.commentUseCase.GetUserCommentsForEvent(ids[0], ids[1])
	if err != nil {
		return commentError(e, err)
	}
	return e.JSON(http.StatusOK, toCommentResponses(comments))
}

func (c *Comment) CanUserComment(e echo.Context) error {
	ids, err := pathIDs(e, "userId", "eventId")
	if err != nil {
		return e.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	canComment, err := c.commentUseCase.CanUserComment(ids[0], ids[1])
	if err != nil {
		return commentError(e, err)
	}
	return e.JSON(http.StatusOK, echo.Map{
		"can_comment": canComment,
	})
}

func (c *Comment) GetPublishedComments(e echo.Context) error {
	eventID, err := utils.PathInt64(e, "eventId")
	if err != nil {
		return e.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	from, size, err := pagination(e)
	if err != nil {
		return e.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if size > maxPublicPageSize {
		return e.JSON(http.StatusBadRequest, echo.Map{
			"error": "параметр size должен быть от 1 до 50",
		})
	}

	comments, err := c.commentUseCase.GetPublishedComments(eventID, from, size)
	if err != nil {
		return commentError(e, err)
	}
	return e.JSON(http.StatusOK, toCommentResponses(comments))
}

func (c *Comment) GetPublishedCommentsCount(e echo.Context) error {
	eventID, err := utils.PathInt64(e, "eventId")
	if err != nil {
		return e.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	count, err := c.commentUseCase.GetPublishedCommentsCount(eventID)
	if err != nil {
		return commentError(e, err)
	}
	return e.JSON(http.StatusOK, echo.Map{
		"count": count,
	})
}

func (c *Comment) GetPublishedComment(e echo.Context) error {
	ids, err := pathIDs(e, "eventId", "commentId")
	if err != nil {
		return e.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	comment, err := c.commentUseCase.GetPublishedComment(ids[0], ids[1])
	if err != nil {
		return commentError(e, err)
	}
	return e.JSON(http.StatusOK, toCommentResponse(comment))
}

func (c *Comment) SearchComments(e echo.Context) error {
	from, size, err := pagination(e)
	if err != nil {
		return e.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	comments, err := c.commentUseCase.SearchComments(e.QueryParam("text"), from, size)
	if err != nil {
		return commentError(e, err)
	}
	return e.JSON(http.StatusOK, toCommentResponses(comments))
}

func (c *Comment) GetRecentComments(e echo.Context) error {
	hours, err := utils.QueryInt(e, "hours", 1)
	if err != nil {
		return e.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	limit, err := utils.QueryInt(e, "limit", 10)
	if err != nil {
		return e.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	comments, err := c.commentUseCase.GetRecentComments(hours, limit)
	if err != nil {
		return commentError(e, err)
	}
	return e.JSON(http.StatusOK, toCommentResponses(comments))
}
