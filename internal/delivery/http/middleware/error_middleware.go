package middleware

import (
	"errors"
	"net/http"

	"job-board-backend/internal/delivery/http/response"
	"job-board-backend/pkg/apperror"
	"job-board-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Kind != apperror.KindServer {
			response.Error(c, appErr.Code, appErr.Message, response.ErrorBody{
				Kind:   string(appErr.Kind),
				Errors: appErr.Fields,
			})
			return
		}

		// Internal details stay in the server log
		logger.Log.Error("request failed",
			"error", err,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"request_id", c.GetString("RequestID"),
		)
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", response.ErrorBody{
			Kind: string(apperror.KindServer),
		})
	}
}
