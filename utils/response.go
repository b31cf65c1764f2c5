package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSONResponse defines the uniform structure for API responses. Every
// endpoint answers with a success flag; data and message are optional.
type JSONResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// OK returns a success response carrying a payload.
func OK(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, JSONResponse{Success: true, Data: data})
}

// OKMessage returns a success acknowledgment with no payload.
func OKMessage(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusOK, JSONResponse{Success: true, Message: message})
}

// OKUpload returns a success response carrying both a message and a payload.
func OKUpload(ctx *gin.Context, message string, data interface{}) {
	ctx.JSON(http.StatusOK, JSONResponse{Success: true, Message: message, Data: data})
}

// Fail converts an error into a failure envelope. Product handlers always
// answer 200 with success=false so the client inspects the flag, not the
// HTTP status.
func Fail(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusOK, JSONResponse{Success: false, Message: message})
}

// Reject is used by middleware for terminal request-level rejections.
func Reject(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, JSONResponse{Success: false, Message: message})
}
