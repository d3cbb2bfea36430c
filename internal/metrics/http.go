package metrics

import (
	"strconv"
	"time"

	"github.com/go-authgate/hvgate/internal/core"

	"github.com/gin-gonic/gin"
)

const (
	resultSuccess = "success"
	resultError   = "error"
	resultFailure = "failure"

	// unmatchedRoute labels requests no route matched, so probing scanners
	// cannot grow the label set.
	unmatchedRoute = "unmatched"
)

// unrecordedRoutes are scraped or polled too often to be worth a series.
var unrecordedRoutes = map[string]struct{}{
	"/metrics": {},
	"/health":  {},
}

// HTTPMetricsMiddleware records request count, latency and in-flight
// requests per route pattern. Recorders other than *Metrics get a
// pass-through handler.
func HTTPMetricsMiddleware(m core.Recorder) gin.HandlerFunc {
	prom, ok := m.(*Metrics)
	if !ok {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		if _, skip := unrecordedRoutes[c.Request.URL.Path]; skip {
			c.Next()
			return
		}

		start := time.Now()
		prom.HTTPRequestsInFlight.Inc()
		defer prom.HTTPRequestsInFlight.Dec()

		c.Next()

		route := routeLabel(c.FullPath())
		prom.HTTPRequestsTotal.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Inc()
		prom.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route).
			Observe(time.Since(start).Seconds())
	}
}

func routeLabel(fullPath string) string {
	if fullPath == "" {
		return unmatchedRoute
	}
	return fullPath
}
