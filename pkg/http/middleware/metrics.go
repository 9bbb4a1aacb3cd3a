package middleware

import (
	"time"

	applogger "FinDash/pkg/logger"

	"github.com/labstack/echo/v4"
)

// HTTPObserver receives per-request measurements.
type HTTPObserver interface {
	TrackInFlight(route, method string, delta float64)
	ObserveHTTP(route, method string, status int, d time.Duration, bytes int64)
}

// Metrics records request metrics labelled by the matched route template,
// keeping label cardinality low. 5xx responses are logged as errors and
// requests slower than slowThreshold as warnings.
func Metrics(obs HTTPObserver, l *applogger.Logger, slowThreshold time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			route := routeOf(c)
			method := c.Request().Method

			obs.TrackInFlight(route, method, 1)
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			res := c.Response()
			duration := time.Since(start)
			obs.ObserveHTTP(route, method, res.Status, duration, res.Size)
			obs.TrackInFlight(route, method, -1)

			if l == nil {
				return nil
			}
			fields := []applogger.Field{
				applogger.String("route", route),
				applogger.String("method", method),
				applogger.Int("status", res.Status),
				applogger.Duration("duration_ms", duration),
				applogger.Any("bytes", res.Size),
			}
			if res.Status >= 500 {
				l.Error("http request failed", fields...)
			} else if slowThreshold > 0 && duration >= slowThreshold {
				l.Warn("http request slow", fields...)
			}
			return nil
		}
	}
}
