package httperr

import (
	"net/http"
	"strconv"

	"room-contention/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

// RetryAfterSeconds is advertised on retryable failures.
const RetryAfterSeconds = 1

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
		Code    string `json:"code,omitempty"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	abort(c, status, err, msg, "", detail)
}

func abort(c *gin.Context, status int, err error, msg, code string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Error.Code = code
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

func FromKind(kind errs.Kind) int {
	switch kind {
	case errs.KindValidation:
		return http.StatusBadRequest
	case errs.KindResourceNotFound:
		return http.StatusNotFound
	case errs.KindConcurrentConflict, errs.KindDuplicateWaitingListEntry, errs.KindInvalidTransition:
		return http.StatusConflict
	case errs.KindEntryExpired:
		return http.StatusGone
	case errs.KindLockTimeout:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// AbortWithKind maps a kind-tagged error to its status. Errors without a kind
// become 500 with fallback as the message.
func AbortWithKind(c *gin.Context, err error, fallback string) {
	kind, ok := errs.KindOf(err)
	if !ok {
		abort(c, http.StatusInternalServerError, err, fallback, "", nil)
		return
	}
	if kind.Retryable() {
		c.Header("Retry-After", strconv.Itoa(RetryAfterSeconds))
	}
	msg := fallback
	var e *errs.Error
	if errs.As(err, &e) && e.Msg != "" {
		msg = e.Msg
	}
	abort(c, FromKind(kind), err, msg, string(kind), nil)
}
