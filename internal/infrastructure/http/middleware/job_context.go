package middleware

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/speech-coach/pkg/jobcontext"
)

// EchoJobContext returns an Echo middleware that attaches the request ID and
// route to the request context and bounds it with timeout. It expects the
// RequestID middleware to run first.
func EchoJobContext(timeout time.Duration, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			reqID := req.Header.Get(echo.HeaderXRequestID)
			if reqID == "" {
				reqID = c.Response().Header().Get(echo.HeaderXRequestID)
			}

			ctx, cancel := jobcontext.JobBegin(req.Context(), reqID, jobType(c.Path()), timeout)
			defer cancel()
			c.SetRequest(req.WithContext(ctx))

			err := next(c)

			if logger != nil {
				fields := append([]zap.Field{
					zap.String("method", req.Method),
					zap.String("path", c.Path()),
					zap.Int("status", c.Response().Status),
				}, jobcontext.Fields(ctx)...)
				logger.Info("http.request", fields...)
			}
			return err
		}
	}
}

// jobType names the job after the last route segment, e.g. "samples"
func jobType(path string) string {
	path = strings.TrimRight(path, "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		path = path[i+1:]
	}
	if path == "" {
		return "root"
	}
	return path
}
