// Package middleware provides Echo middleware for bookrank.
package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dmreiland/bookrank/internal/metrics"
)

// Metrics returns Echo middleware recording per-route request counts and
// latency. Operational endpoints stay out of the request series: /metrics
// would meter its own scrapes, and the probe endpoints fire every few
// seconds. Probes drive the 0/1 health gauges instead.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			route := c.Path()
			if route == "" {
				route = c.Request().URL.Path
			}

			switch route {
			case "/healthz", "/readyz":
				err := next(c)
				setHealthGauge(route, c.Response().Status)
				return err
			case "/metrics":
				return next(c)
			}

			start := time.Now()
			err := next(c)

			method := c.Request().Method
			status := strconv.Itoa(c.Response().Status)
			metrics.HTTPRequestDuration.
				WithLabelValues(method, route, status).
				Observe(time.Since(start).Seconds())
			metrics.HTTPRequestsTotal.
				WithLabelValues(method, route, status).
				Inc()

			return err
		}
	}
}

// setHealthGauge flips a probe gauge to 1 on a 2xx probe result, 0 otherwise.
func setHealthGauge(route string, status int) {
	up := 0.0
	if status >= 200 && status < 300 {
		up = 1.0
	}
	switch route {
	case "/healthz":
		metrics.HealthzUp.Set(up)
	case "/readyz":
		metrics.ReadyzUp.Set(up)
	}
}
