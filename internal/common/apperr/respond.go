package apperr

import (
	"github.com/gin-gonic/gin"

	"airdrop-backend/internal/common/logger"
)

// ErrorBody is the JSON shape of an error response.
type ErrorBody struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// Respond writes the error as JSON and logs server-side failures.
func Respond(c *gin.Context, err error) {
	appErr := From(err)

	if appErr.Status >= 500 {
		logger.Error().
			Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("code", string(appErr.Code)).
			Msg("request failed")
	}

	c.JSON(appErr.Status, gin.H{
		"success": false,
		"error":   ErrorBody{Code: appErr.Code, Message: appErr.Message},
	})
}
