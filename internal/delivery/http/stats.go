package http

import (
	"errors"
	"net/http"
	"stats-backend/internal/delivery/http/utils"
	"stats-backend/internal/entity"
	"stats-backend/internal/usecase"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

type Stats struct {
	statsUseCase usecase.Stats
}

func NewStats(statsUseCase usecase.Stats) *Stats {
	return &Stats{
		statsUseCase: statsUseCase,
	}
}

func (s *Stats) Configure(server *echo.Group) {
	server.POST("/hit", s.AddHit)
	server.GET("/stats", s.GetStats)
}

func (s *Stats) AddHit(e echo.Context) error {
	request := &AddHitRequest{}
	err := utils.ReadJSON(e, request)
	if err != nil {
		log.Infof("Ошибка при чтении JSON: %v", err)
		return e.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный формат запроса",
		})
	}

	timestamp, err := time.Parse(entity.DateTimeLayout, request.Timestamp)
	if err != nil {
		return e.JSON(http.StatusBadRequest, echo.Map{
			"error": "Временная метка должна быть в формате yyyy-MM-dd HH:mm:ss",
		})
	}

	err = s.statsUseCase.AddHit(&entity.EndpointHit{
		App:       request.App,
		URI:       request.URI,
		IP:        request.IP,
		Timestamp: timestamp,
	})
	switch {
	case errors.Is(err, usecase.ErrValidation):
		return e.JSON(http.StatusBadRequest, echo.Map{
			"error": err.Error(),
		})
	case err != nil:
		return e.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}
	return e.NoContent(http.StatusCreated)
}

func (s *Stats) GetStats(e echo.Context) error {
	start, err := time.Parse(entity.DateTimeLayout, e.QueryParam("start"))
	if err != nil {
		return e.JSON(http.StatusBadRequest, echo.Map{
			"error": "Параметр start обязателен и должен быть в формате yyyy-MM-dd HH:mm:ss",
		})
	}
	end, err := time.Parse(entity.DateTimeLayout, e.QueryParam("end"))
	if err != nil {
		return e.JSON(http.StatusBadRequest, echo.Map{
			"error": "Параметр end обязателен и должен быть в формате yyyy-MM-dd HH:mm:ss",
		})
	}
	if start.After(end) {
		return e.JSON(http.StatusBadRequest, echo.Map{
			"error": "Дата начала должна быть не позже даты окончания",
		})
	}
	unique, err := utils.QueryBool(e, "unique", false)
	if err != nil {
		return e.JSON(http.StatusBadRequest, echo.Map{
			"error": err.Error(),
		})
	}

	// Отсутствующий параметр uris и явно пустой различаются:
	// QueryParams возвращает nil, если параметр не передан.
	uris := e.QueryParams()["uris"]

	stats, err := s.statsUseCase.GetStats(&entity.GetStatsRequest{
		Start:  start,
		End:    end,
		URIs:   uris,
		Unique: unique,
	})
	switch {
	case errors.Is(err, usecase.ErrValidation):
		return e.JSON(http.StatusBadRequest, echo.Map{
			"error": err.Error(),
		})
	case err != nil:
		return e.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}
	return e.JSON(http.StatusOK, stats)
}
