package response

import (
	"net/http"

	"web3-core/pkg/errno"

	"github.com/gin-gonic/gin"
)

// Response defines the standard JSON structure
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"msg"`
	Data    any    `json:"data"`
}

// Success returns a success response with data
func Success(c *gin.Context, data any) {
	if data == nil {
		data = gin.H{} // Return empty object instead of null
	}
	c.JSON(http.StatusOK, Response{
		Code:    errno.OK.Code,
		Message: errno.OK.Message,
		Data:    data,
	})
}

// Error returns an error response
func Error(c *gin.Context, err error) {
	ErrorWithStatus(c, http.StatusOK, err, nil)
}

// ErrorWithStatus 用于探针类接口，需要非 200 状态码
func ErrorWithStatus(c *gin.Context, status int, err error, data any) {
	if data == nil {
		data = gin.H{}
	}
	code, msg := errno.Decode(err)
	c.JSON(status, Response{
		Code:    code,
		Message: msg,
		Data:    data,
	})
}
