package utils

import (
	"github.com/gin-gonic/gin"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

// RespondErrorCode aborts with a failed envelope carrying a machine
// readable code such as "conflict" or "validation".
func RespondErrorCode(c *gin.Context, code int, errCode string, err error) {
	c.AbortWithStatusJSON(code, JSONResponse{
		Status:  false,
		Code:    errCode,
		Message: err.Error(),
	})
}
