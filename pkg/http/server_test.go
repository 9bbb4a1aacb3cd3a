package http

import (
	"encoding/json"
	"errors"
	nethttp "net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	K     float64 `query:"k" default:"1.5" validate:"gt=0,lte=10"`
	Limit int     `query:"limit" default:"20" validate:"min=1,max=500"`
	Mode  string  `query:"mode" default:"count" validate:"oneof=count sum mean"`
}

type sampleHandler struct{}

func (sampleHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/sample", func(c echo.Context) error {
		var req sampleRequest
		if errs := ReadAndValidateRequest(c, &req); errs != nil {
			return BadRequestResponse(c, errs)
		}
		return SuccessResponse(c, req)
	})
	e.GET("/conflict", func(c echo.Context) error {
		return AppErrorResponse(c, ConflictError("busy"))
	})
	e.GET("/plain-error", func(c echo.Context) error {
		return errors.New("boom")
	})
	e.GET("/panic", func(c echo.Context) error {
		panic("kaboom")
	})
}

type countingObserver struct {
	mu       sync.Mutex
	statuses map[string]int
}

func (o *countingObserver) TrackInFlight(string, string, float64) {}

func (o *countingObserver) ObserveHTTP(route, _ string, status int, _ time.Duration, _ int64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.statuses == nil {
		o.statuses = map[string]int{}
	}
	o.statuses[route] = status
}

func do(t *testing.T, s *Server, target string) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(nethttp.MethodGet, target, nil))
	var body APIResponse
	if rec.Header().Get(echo.HeaderContentType) != "" && rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	}
	return rec, body
}

func TestServer_DefaultsAndValidation(t *testing.T) {
	s := NewServer(Handlers{sampleHandler{}})

	rec, body := do(t, s, "/sample")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	data := body.Data.(map[string]interface{})
	assert.Equal(t, 1.5, data["K"])
	assert.Equal(t, 20.0, data["Limit"])

	rec, body = do(t, s, "/sample?k=0")
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code, "explicit zero must not be replaced by the default")
	assert.Equal(t, 400, body.Status)
	errs := body.Data.([]interface{})
	require.Len(t, errs, 1)
	assert.Equal(t, "k", errs[0].(map[string]interface{})["field"])

	rec, _ = do(t, s, "/sample?mode=median")
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)

	rec, _ = do(t, s, "/sample?limit=abc")
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
}

func TestServer_StatusMapping(t *testing.T) {
	obs := &countingObserver{}
	s := NewServer(Handlers{sampleHandler{}}, WithMetrics(obs, nil, "", 0))

	rec, body := do(t, s, "/conflict")
	assert.Equal(t, nethttp.StatusConflict, rec.Code)
	assert.Equal(t, 409, body.Status)

	rec, body = do(t, s, "/plain-error")
	assert.Equal(t, nethttp.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Something went wrong", body.Data)

	rec, _ = do(t, s, "/does-not-exist")
	assert.Equal(t, nethttp.StatusNotFound, rec.Code)

	rec, _ = do(t, s, "/panic")
	assert.Equal(t, nethttp.StatusInternalServerError, rec.Code)

	assert.Equal(t, 409, obs.statuses["/conflict"])
	assert.Equal(t, 500, obs.statuses["/plain-error"])
	assert.Equal(t, 500, obs.statuses["/panic"])
}

func TestServer_MetricsEndpoint(t *testing.T) {
	h := nethttp.HandlerFunc(func(w nethttp.ResponseWriter, _ *nethttp.Request) {
		_, _ = w.Write([]byte("metric 1\n"))
	})
	s := NewServer(nil, WithMetrics(&countingObserver{}, h, "/internal/metrics", 0))

	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(nethttp.MethodGet, "/internal/metrics", nil))
	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, "metric 1\n", rec.Body.String())
}

func TestServer_CORSPreflight(t *testing.T) {
	s := NewServer(Handlers{sampleHandler{}})
	req := httptest.NewRequest(nethttp.MethodOptions, "/sample", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)

	assert.Equal(t, nethttp.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))
	assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")
}
