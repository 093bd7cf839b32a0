package httptransport

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIResponse is the unified envelope every endpoint returns.
// code repeats the HTTP status so clients behind proxies can still branch on
// it; data carries the payload or error detail.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
	Code    int         `json:"code"`
}

func respond(c *gin.Context, httpStatus int, success bool, message string, data interface{}) {
	if message == "" {
		if success {
			message = "ok"
		} else {
			message = http.StatusText(httpStatus)
		}
	}

	resp := APIResponse{
		Success: success,
		Message: message,
		Code:    httpStatus,
	}

	if data == nil {
		resp.Data = gin.H{}
	} else {
		resp.Data = data
	}

	c.JSON(httpStatus, resp)
}

// RespondSuccess writes a success envelope.
func RespondSuccess(c *gin.Context, httpStatus int, data interface{}, message string) {
	respond(c, httpStatus, true, message, data)
}

// RespondError writes a failure envelope, optionally carrying error detail.
func RespondError(c *gin.Context, httpStatus int, message string, data interface{}) {
	respond(c, httpStatus, false, message, data)
}

// AbortError writes a failure envelope and stops the handler chain.
func AbortError(c *gin.Context, httpStatus int, message string) {
	respond(c, httpStatus, false, message, nil)
	c.Abort()
}
