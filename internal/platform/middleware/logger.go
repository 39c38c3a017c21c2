package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/matabyar/clinic/internal/platform/auth"
)

// Logger emits one structured line per request. Authenticated requests also
// carry the staff member's national code and role, available once the auth
// middleware deeper in the chain has run.
func Logger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			req := c.Request()
			rid, _ := c.Get("request_id").(string)

			evt := logger.Info()
			if err != nil {
				evt = logger.Error().Err(err)
			}
			evt = evt.
				Str("request_id", rid).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", c.Response().Status).
				Int64("bytes_out", c.Response().Size).
				Dur("latency", time.Since(start)).
				Str("remote_ip", c.RealIP())

			if staff := auth.UserIDFromContext(req.Context()); staff != "" {
				evt = evt.
					Str("staff", staff).
					Str("role", auth.RoleFromContext(req.Context()))
			}

			evt.Msg("http request")
			return err
		}
	}
}
