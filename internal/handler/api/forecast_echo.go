package api

import (
	"net/http"
	"strings"
	"time"

	"SectorPulse/internal/domain/models"
	"SectorPulse/internal/usecase"
	xhttp "SectorPulse/pkg/http"
	xlogger "SectorPulse/pkg/logger"
	"SectorPulse/pkg/util"

	"github.com/labstack/echo/v4"
)

// ForecastHandler serves the analytics and training API.
type ForecastHandler struct {
	logger   *xlogger.Logger
	analysis *usecase.AnalysisService
	runner   *usecase.TrainingRunner
	health   func(c echo.Context) error
}

// NewForecastHandler creates the API handler. healthCheck may be nil.
func NewForecastHandler(logger *xlogger.Logger, analysis *usecase.AnalysisService, runner *usecase.TrainingRunner, healthCheck func(ctx echo.Context) error) *ForecastHandler {
	return &ForecastHandler{logger: logger, analysis: analysis, runner: runner, health: healthCheck}
}

func (h *ForecastHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Healthz)

	g := e.Group("/api")

	a := g.Group("/analytics")
	a.GET("/volatility", h.Volatility)
	a.GET("/correlation", h.Correlation)
	a.GET("/bonds/spreads", h.BondSpreads)
	a.GET("/bonds/inversions", h.Inversions)
	a.GET("/bonds/curve", h.Curve)
	a.POST("/refresh", h.Refresh)

	tr := g.Group("/training")
	tr.POST("/start", h.StartTraining)
	tr.POST("/reset", h.ResetTraining)
	tr.GET("/status", h.TrainingStatus)
	tr.GET("/losses", h.TrainingLosses)
	tr.GET("/predictions", h.TrainingPredictions)

	s := g.Group("/settings")
	s.GET("/features", h.GetFeatures)
	s.PUT("/features", h.PutFeatures)

	g.GET("/system/events", h.RecentEvents)
}

// Healthz reports process liveness plus backend health when wired.
func (h *ForecastHandler) Healthz(c echo.Context) error {
	if h.health != nil {
		if err := h.health(c); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "degraded", "error": err.Error()})
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *ForecastHandler) Volatility(c echo.Context) error {
	req := &models.VolatilityRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	metrics, err := h.analysis.SectorVolatility(c.Request().Context())
	if err != nil {
		h.logger.Error("volatility usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	if req.Symbol != "" {
		want := strings.ToUpper(req.Symbol)
		for _, m := range metrics {
			if m.Symbol == want {
				return xhttp.SuccessResponse(c, m)
			}
		}
		return xhttp.NotFoundResponse(c, "unknown symbol "+want)
	}
	return xhttp.SuccessResponse(c, metrics)
}

func (h *ForecastHandler) Correlation(c echo.Context) error {
	cm, err := h.analysis.CorrelationMatrix(c.Request().Context())
	if err != nil {
		h.logger.Error("correlation usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, cm)
}

func (h *ForecastHandler) BondSpreads(c echo.Context) error {
	spreads, err := h.analysis.BondSpreads(c.Request().Context())
	if err != nil {
		h.logger.Error("bond spreads usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, spreads)
}

func (h *ForecastHandler) Inversions(c echo.Context) error {
	inversions, err := h.analysis.Inversions(c.Request().Context())
	if err != nil {
		h.logger.Error("inversions usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	dates := make([]string, len(inversions))
	for i, d := range inversions {
		dates[i] = util.FormatDate(d)
	}
	return xhttp.SuccessResponse(c, dates)
}

func (h *ForecastHandler) Curve(c echo.Context) error {
	req := &models.CurveRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	var date time.Time
	if req.Date != "" {
		parsed, ok := util.ParseTime(req.Date)
		if !ok {
			return xhttp.BadRequestResponse(c, "invalid date "+req.Date)
		}
		date = parsed
	}

	points, at, err := h.analysis.CurveForDate(c.Request().Context(), date)
	if err != nil {
		h.logger.Error("curve usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"date":  util.FormatDate(at),
		"curve": points,
	})
}

func (h *ForecastHandler) Refresh(c echo.Context) error {
	data, err := h.analysis.Refresh(c.Request().Context())
	if err != nil {
		h.logger.Error("refresh usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, map[string]int{
		"sectors":    len(data.Sectors),
		"curve_days": len(data.Treasury),
	})
}

func (h *ForecastHandler) StartTraining(c echo.Context) error {
	req := &models.StartTrainingRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if err := h.runner.Start(req.Epochs, req.Flags); err != nil {
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_TRAINING_ACTIVE", "", err.Error(), http.StatusConflict))
	}
	return xhttp.SuccessResponse(c, h.runner.Status())
}

func (h *ForecastHandler) ResetTraining(c echo.Context) error {
	h.runner.Reset()
	return xhttp.SuccessResponse(c, h.runner.Status())
}

func (h *ForecastHandler) TrainingStatus(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.runner.Status())
}

func (h *ForecastHandler) TrainingLosses(c echo.Context) error {
	losses := h.runner.Losses()
	if losses == nil {
		losses = []float64{}
	}
	return xhttp.SuccessResponse(c, losses)
}

func (h *ForecastHandler) TrainingPredictions(c echo.Context) error {
	preds := h.runner.Predictions()
	if preds == nil {
		preds = []models.Prediction{}
	}
	return xhttp.SuccessResponse(c, preds)
}

// RecentEvents returns the most recent warn/error log events captured in
// the logger's in-memory ring.
func (h *ForecastHandler) RecentEvents(c echo.Context) error {
	events := []xlogger.Event{}
	if ring := h.logger.Ring(); ring != nil {
		events = ring.Events()
	}
	return xhttp.SuccessResponse(c, events)
}

func (h *ForecastHandler) GetFeatures(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.runner.Flags())
}

func (h *ForecastHandler) PutFeatures(c echo.Context) error {
	req := &models.FeatureFlags{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	h.runner.SetFlags(*req)
	return xhttp.SuccessResponse(c, h.runner.Flags())
}
