package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourname/blackholeescape/internal"
	"github.com/yourname/blackholeescape/internal/response"
)

func HandleError(c *gin.Context, logger internal.Logger, err error, status int, msg string) {
	requestID := c.GetString("request_id")
	if status >= http.StatusInternalServerError {
		logger.Errorf("[request_id=%s] %s: %v", requestID, msg, err)
	} else {
		logger.Warnf("[request_id=%s] %s: %v", requestID, msg, err)
	}

	var resp response.APIResponse
	switch status {
	case http.StatusBadRequest:
		resp = response.BadRequest(msg + ": " + err.Error())
	case http.StatusNotFound:
		resp = response.NotFound(msg + ": " + err.Error())
	case http.StatusInternalServerError:
		resp = response.InternalError(msg + ": " + err.Error())
	case http.StatusBadGateway:
		resp = response.BadGateway(msg + ": " + err.Error())
	case http.StatusServiceUnavailable:
		resp = response.ServiceUnavailable(msg)
	default:
		resp = response.NewAppError(status, msg+": "+err.Error())
	}
	c.AbortWithStatusJSON(status, resp)
}

func HandleSuccess(c *gin.Context, logger internal.Logger, data interface{}, meta map[string]any) {
	requestID := c.GetString("request_id")
	logger.Debugf("[request_id=%s] Success", requestID)
	c.JSON(http.StatusOK, response.Success(data, meta))
}
