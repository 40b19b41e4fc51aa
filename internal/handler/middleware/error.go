package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"room-contention/internal/handler/httperr"
	"room-contention/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

const stackLogLines = 12

// ErrorHandler renders the last public error a handler attached when the
// handler itself wrote nothing. Internal failures are logged with their stack.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		for i := len(c.Errors) - 1; i >= 0; i-- {
			ge := c.Errors[i]
			resp, ok := ge.Meta.(httperr.Response)
			if !ok || !ge.IsType(gin.ErrorTypePublic) {
				continue
			}
			if resp.Status >= http.StatusInternalServerError {
				slog.Error("request failed",
					"path", c.FullPath(),
					"code", resp.Error.Code,
					"stack", errs.StackLines(ge.Err, stackLogLines),
				)
			}
			if !c.Writer.Written() {
				c.JSON(resp.Status, resp)
			}
			return
		}

		if c.Writer.Written() {
			return
		}
		if status := c.Writer.Status(); status != http.StatusOK {
			c.Status(status)
			c.Writer.WriteHeaderNow()
			return
		}
		if len(c.Errors) > 0 {
			resp := httperr.Response{Status: http.StatusInternalServerError}
			resp.Error.Message = "Internal server error"
			c.JSON(resp.Status, resp)
		}
	}
}

// CustomRecovery turns a panic into a 500 with the standard error envelope.
func CustomRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			err, ok := rec.(error)
			if !ok {
				err = errs.New(fmt.Sprint(rec))
			}
			slog.Error("recovered from panic",
				"error", err.Error(),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"stack", errs.StackLines(errs.Wrap(err, "panic"), stackLogLines),
			)

			resp := httperr.Response{Status: http.StatusInternalServerError}
			resp.Error.Message = "Internal server error"
			c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
		}()
		c.Next()
	}
}
