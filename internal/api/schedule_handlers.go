package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourname/blackholeescape/internal/service"
)

// PostAnalyze runs the advice pipeline over a schedule sent in the body.
// Nothing is stored.
func PostAnalyze(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.AnalyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if err := service.ValidateAnalyzeRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Validation failed")
			return
		}

		HandleSuccess(c, app.Logger(), service.Advise(req.Profile, req.Schedule), nil)
	}
}

func GetSchedule(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		login, ok := loginParam(c, app)
		if !ok {
			return
		}
		doc, err := service.LoadSchedule(c.Request.Context(), app.Schedules(), login)
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Failed to load schedule")
			return
		}
		HandleSuccess(c, app.Logger(), doc, nil)
	}
}

func PutSchedule(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		login, ok := loginParam(c, app)
		if !ok {
			return
		}

		var req service.ScheduleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if err := service.ValidateScheduleRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Validation failed")
			return
		}

		doc, err := service.SaveSchedule(c.Request.Context(), app.Schedules(), login, &req, app.Now())
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Failed to save schedule")
			return
		}
		HandleSuccess(c, app.Logger(), doc, nil)
	}
}

func GetInsights(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		login, ok := loginParam(c, app)
		if !ok {
			return
		}
		advice, err := service.Insights(c.Request.Context(), app.Schedules(), app.Suggestions(), login)
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Failed to build insights")
			return
		}
		HandleSuccess(c, app.Logger(), advice, map[string]any{"balance_score": advice.Analysis.BalanceScore})
	}
}

func PostAcceptSuggestion(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		login, ok := loginParam(c, app)
		if !ok {
			return
		}
		s, err := service.AcceptSuggestion(c.Request.Context(), app.Schedules(), app.Suggestions(), login, c.Param("id"), app.Now())
		switch {
		case errors.Is(err, service.ErrSuggestionNotFound):
			HandleError(c, app.Logger(), err, http.StatusNotFound, "Unknown suggestion")
			return
		case err != nil:
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Failed to accept suggestion")
			return
		}
		HandleSuccess(c, app.Logger(), s, nil)
	}
}

func GetReportPDF(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		login, ok := loginParam(c, app)
		if !ok {
			return
		}
		ctx := c.Request.Context()

		doc, err := service.LoadSchedule(ctx, app.Schedules(), login)
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Failed to load schedule")
			return
		}
		advice, err := service.Insights(ctx, app.Schedules(), app.Suggestions(), login)
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Failed to build insights")
			return
		}

		pdf, err := service.RenderScheduleReport(doc, *advice, app.Now())
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Failed to render report")
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", login+"-schedule.pdf"))
		c.Data(http.StatusOK, "application/pdf", pdf)
	}
}

func loginParam(c *gin.Context, app App) (string, bool) {
	login := c.Param("login")
	if err := service.ValidateLogin(login); err != nil {
		HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid login")
		return "", false
	}
	return login, true
}
