package api

import (
	"FinDash/internal/domain/models"
	"FinDash/internal/usecase"
	xhttp "FinDash/pkg/http"
	xlogger "FinDash/pkg/logger"

	"github.com/labstack/echo/v4"
)

// DashboardEchoHandler serves the summary, chart, heatmap and exploration
// endpoints.
type DashboardEchoHandler struct {
	logger *xlogger.Logger
	dash   *usecase.Dashboard
}

func NewDashboardEchoHandler(logger *xlogger.Logger, dash *usecase.Dashboard) *DashboardEchoHandler {
	return &DashboardEchoHandler{logger: logger, dash: dash}
}

func (h *DashboardEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	g := e.Group("/api")
	g.GET("/summary", h.Summary)

	charts := g.Group("/charts")
	charts.GET("/timeseries", h.TimeSeries)
	charts.GET("/amount", h.Amount)
	charts.GET("/categorical", h.Categorical)

	g.GET("/heatmaps/:kind", h.Heatmap)

	explore := g.Group("/explore")
	explore.GET("/preview", h.Preview)
	explore.GET("/describe", h.Describe)
	explore.GET("/quality", h.Quality)
	explore.GET("/filter", h.Filter)
}

func (h *DashboardEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"status": "ok",
		"rows":   h.dash.Rows(),
	})
}

func (h *DashboardEchoHandler) Summary(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.dash.Summary())
}

func (h *DashboardEchoHandler) TimeSeries(c echo.Context) error {
	req := &models.TimeSeriesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.dash.TimeSeries(req.Freq, req.Metric)
	if err != nil {
		return h.fail(c, "timeseries", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *DashboardEchoHandler) Amount(c echo.Context) error {
	req := &models.AmountRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.dash.Amount(req.Bins)
	if err != nil {
		return h.fail(c, "amount", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *DashboardEchoHandler) Categorical(c echo.Context) error {
	req := &models.CategoricalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.dash.Categorical(req.Column, req.Agg, req.TopN, req.Sort)
	if err != nil {
		return h.fail(c, "categorical", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *DashboardEchoHandler) Heatmap(c echo.Context) error {
	req := &models.HeatmapRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.dash.Heatmap(req.Kind, req.TopN)
	if err != nil {
		return h.fail(c, "heatmap", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *DashboardEchoHandler) Preview(c echo.Context) error {
	req := &models.PreviewRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return xhttp.SuccessResponse(c, h.dash.Preview(req.N))
}

func (h *DashboardEchoHandler) Describe(c echo.Context) error {
	cols := h.dash.Describe()
	return xhttp.ListResponse(c, cols, int64(len(cols)))
}

func (h *DashboardEchoHandler) Quality(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.dash.Quality())
}

func (h *DashboardEchoHandler) Filter(c echo.Context) error {
	req := &models.FilterRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.dash.Filter(req.Column, req.Value, req.Limit)
	if err != nil {
		return h.fail(c, "filter", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *DashboardEchoHandler) fail(c echo.Context, op string, err error) error {
	mapped := toAppError(err)
	if mapped == err {
		h.logger.Error(op+" usecase error", xlogger.Error(err))
	} else {
		h.logger.Debug(op+" rejected", xlogger.Error(err))
	}
	return xhttp.AppErrorResponse(c, mapped)
}
