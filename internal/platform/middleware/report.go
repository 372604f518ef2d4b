package middleware

import (
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
)

// ErrorReporter receives the internal cause of every 5xx response.
type ErrorReporter interface {
	CaptureException(err error) *sentry.EventID
}

// ReportServerErrors forwards 5xx causes to the reporter, tagged with the
// request id and route. Client errors are not reported.
func ReportServerErrors(newReporter func() ErrorReporter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil || statusOf(err) < http.StatusInternalServerError {
				return err
			}

			cause := err
			var he *echo.HTTPError
			if errors.As(err, &he) && he.Internal != nil {
				cause = he.Internal
			}

			r := newReporter()
			if hub, ok := r.(*sentry.Hub); ok {
				rid, _ := c.Get("request_id").(string)
				hub.ConfigureScope(func(scope *sentry.Scope) {
					scope.SetTag("request_id", rid)
					scope.SetTag("route", c.Path())
					scope.SetTag("method", c.Request().Method)
				})
			}
			r.CaptureException(cause)
			return err
		}
	}
}

// SentryReporter clones the current hub so scope tags stay per request.
func SentryReporter() ErrorReporter {
	return sentry.CurrentHub().Clone()
}
