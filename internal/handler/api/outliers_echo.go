package api

import (
	"bytes"
	"strconv"

	"FinDash/internal/domain/models"
	"FinDash/internal/usecase"
	xhttp "FinDash/pkg/http"
	xlogger "FinDash/pkg/logger"

	"github.com/labstack/echo/v4"
)

const exportFilename = "outliers.csv"

type OutliersEchoHandler struct {
	logger   *xlogger.Logger
	outliers *usecase.Outliers
	defaults models.OutlierDefaults
}

// NewOutliersEchoHandler serves outlier reports. Zero defaults fall back to
// the request's struct tag defaults.
func NewOutliersEchoHandler(logger *xlogger.Logger, outliers *usecase.Outliers, defaults models.OutlierDefaults) *OutliersEchoHandler {
	return &OutliersEchoHandler{logger: logger, outliers: outliers, defaults: defaults}
}

func (h *OutliersEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/outliers")
	g.GET("", h.Report)
	g.GET("/export", h.Export)
}

func (h *OutliersEchoHandler) Report(c echo.Context) error {
	req := h.newRequest()
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.outliers.Report(models.OutlierParams{K: req.K, FlagLow: req.FlagLow}, req.Limit)
	if err != nil {
		return h.fail(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

// Export streams every flagged row as a CSV attachment.
func (h *OutliersEchoHandler) Export(c echo.Context) error {
	req := h.newRequest()
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	// Buffered so a failure can still be reported in the envelope.
	var buf bytes.Buffer
	n, err := h.outliers.Export(&buf, models.OutlierParams{K: req.K, FlagLow: req.FlagLow})
	if err != nil {
		return h.fail(c, err)
	}

	c.Response().Header().Set(xhttp.HeaderOutlierCount, strconv.Itoa(n))
	return xhttp.AttachmentResponse(c, exportFilename, "text/csv; charset=utf-8", buf.Bytes())
}

// newRequest seeds the configured defaults; binding overwrites whatever the
// query supplies.
func (h *OutliersEchoHandler) newRequest() *models.OutlierRequest {
	return &models.OutlierRequest{K: h.defaults.K, Limit: h.defaults.Limit}
}

func (h *OutliersEchoHandler) fail(c echo.Context, err error) error {
	mapped := toAppError(err)
	if mapped == err {
		h.logger.Error("outliers usecase error", xlogger.Error(err))
	}
	return xhttp.AppErrorResponse(c, mapped)
}
