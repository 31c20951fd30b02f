package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rshade/gridpager/internal/logging"
)

// TraceHeader carries a caller-supplied trace id.
const TraceHeader = "X-Trace-Id"

// requestLogger stores a trace id and the logger in the request context and
// logs each request once it completes.
func requestLogger(base zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		traceID := c.GetHeader(TraceHeader)
		if traceID == "" {
			traceID = logging.GenerateTraceID()
		}
		c.Header(TraceHeader, traceID)

		log := logging.ComponentLogger(base, "server")
		ctx := logging.ContextWithTraceID(log.WithContext(c.Request.Context()), traceID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		event := logging.FromContext(ctx).Debug()
		if c.Writer.Status() >= 500 {
			event = logging.FromContext(ctx).Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request handled")
	}
}
