package run

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/dwarvesf/wallet-tracker/internal/controller"
	"github.com/dwarvesf/wallet-tracker/internal/utils/config"
	"github.com/dwarvesf/wallet-tracker/internal/utils/logger"
)

type handler struct {
	controller controller.IController
	logger     *logger.Logger
	appConfig  *config.AppConfig
}

func New(controller controller.IController, logger *logger.Logger, appConfig *config.AppConfig) IHandler {
	return &handler{
		controller: controller,
		logger:     logger,
		appConfig:  appConfig,
	}
}

// List godoc
// @Summary List aggregation runs
// @Description Returns recent aggregation runs, newest first
// @Tags runs
// @Accept json
// @Produce json
// @Param limit query int false "maximum number of runs to return"
// @Success 200 {array} model.AggregationRun
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/v1/runs [get]
func (h *handler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	runs, err := h.controller.ListRuns(limit)
	if err != nil {
		if errors.Is(err, controller.ErrHistoryUnavailable) {
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "run history requires a database"})
			return
		}
		h.logger.Error("[List][ListRuns] failed to list runs", map[string]string{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "can't list runs"})
		return
	}

	c.JSON(http.StatusOK, runs)
}

// Latest godoc
// @Summary Get latest aggregation run
// @Description Returns the most recent aggregation run
// @Tags runs
// @Accept json
// @Produce json
// @Success 200 {object} model.AggregationRun
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/v1/runs/latest [get]
func (h *handler) Latest(c *gin.Context) {
	run, err := h.controller.LatestRun()
	if err != nil {
		switch {
		case errors.Is(err, controller.ErrHistoryUnavailable):
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "run history requires a database"})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "no runs recorded yet"})
		default:
			h.logger.Error("[Latest][LatestRun] failed to load latest run", map[string]string{
				"error": err.Error(),
			})
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "can't load latest run"})
		}
		return
	}

	c.JSON(http.StatusOK, run)
}

// Trigger godoc
// @Summary Trigger an aggregation run
// @Description Starts an aggregation run in the background. Only one run may
// @Description be in flight at a time.
// @Tags runs
// @Accept json
// @Produce json
// @Success 202 {object} model.AggregationRun
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/runs [post]
func (h *handler) Trigger(c *gin.Context) {
	run, err := h.controller.Trigger("api")
	if err != nil {
		if errors.Is(err, controller.ErrRunInProgress) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "an aggregation run is already in progress"})
			return
		}
		h.logger.Error("[Trigger] failed to start run", map[string]string{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "can't start run"})
		return
	}

	c.JSON(http.StatusAccepted, run)
}
