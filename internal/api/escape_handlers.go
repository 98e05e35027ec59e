package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yourname/blackholeescape/internal/cache"
	"github.com/yourname/blackholeescape/internal/service"
)

var errIntraDisabled = errors.New("FT_CLIENT_ID and FT_CLIENT_SECRET are not set")

// GetEscape serves the escape report document as is, without the response
// envelope, so that status consumers can decode it directly.
func GetEscape(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		login := strings.ToLower(c.Param("login"))
		if err := service.ValidateLogin(login); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid login")
			return
		}
		ctx := c.Request.Context()

		report, err := app.StatusCache().Get(ctx, login)
		if err == nil {
			c.Header("X-Cache", "HIT")
			c.JSON(http.StatusOK, report)
			return
		}
		if !errors.Is(err, cache.ErrMiss) {
			app.Logger().Warnf("[request_id=%s] status cache read for %s failed: %v", c.GetString("request_id"), login, err)
		}

		src := app.Intra()
		if src == nil {
			HandleError(c, app.Logger(), errIntraDisabled, http.StatusServiceUnavailable, "Intra API is not configured")
			return
		}

		report, err = service.FetchEscapeReport(ctx, src, login, app.Now())
		switch {
		case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrNoCursus):
			HandleError(c, app.Logger(), err, http.StatusNotFound, "No escape report")
			return
		case err != nil:
			HandleError(c, app.Logger(), err, http.StatusBadGateway, "Failed to fetch intra data")
			return
		}

		if err := app.StatusCache().Set(ctx, login, report); err != nil {
			app.Logger().Warnf("[request_id=%s] status cache write for %s failed: %v", c.GetString("request_id"), login, err)
		}
		c.Header("X-Cache", "MISS")
		c.JSON(http.StatusOK, report)
	}
}

func PostCircle(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.CircleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if err := service.ValidateCircleRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Validation failed")
			return
		}

		info := service.CalculateCircleProgress(len(req.CompletedProjects), req.CurrentLevel)
		HandleSuccess(c, app.Logger(), info, nil)
	}
}
