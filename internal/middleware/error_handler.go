package middleware

import (
	"errors"
	"net/http"

	"readerFeed/domain"
	"readerFeed/pkg/logger"

	jsonres "readerFeed/pkg/response"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const TraceIDHeader = "X-Trace-Id"

// TraceID takes the caller's X-Trace-Id or mints one, echoes it on the
// response and stores it on the request context for logging.
func TraceID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			traceID := c.Request().Header.Get(TraceIDHeader)
			if traceID == "" {
				traceID = uuid.NewString()
			}
			c.Response().Header().Set(TraceIDHeader, traceID)

			req := c.Request()
			c.SetRequest(req.WithContext(logger.WithTraceID(req.Context(), traceID)))
			return next(c)
		}
	}
}

// ErrorHandler renders every unhandled error in the shared error envelope.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	code := "INTERNAL_SERVER_ERROR"
	message := "Internal server error"

	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		status = he.Code
		code = http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(he.Code)
		}
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
		code = "BAD_REQUEST"
		message = err.Error()
	default:
		logger.Error("unhandled_error",
			"trace_id", logger.TraceIDFromContext(c.Request().Context()),
			"path", c.Path(),
			"error", err,
		)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, jsonres.Error(code, message, nil))
	}
	if writeErr != nil {
		logger.Error("error_response_failed", "error", writeErr)
	}
}
