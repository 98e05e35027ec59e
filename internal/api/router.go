package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func NewRouter(app App) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestIDMiddleware(), RequestLogger(app.Logger()))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	g := r.Group("/api")
	g.GET("/escape/:login", GetEscape(app))
	g.POST("/circle", PostCircle(app))
	g.POST("/analyze", PostAnalyze(app))

	s := g.Group("/schedule/:login")
	s.GET("", GetSchedule(app))
	s.PUT("", PutSchedule(app))
	s.GET("/insights", GetInsights(app))
	s.POST("/suggestions/:id/accept", PostAcceptSuggestion(app))
	s.GET("/report.pdf", GetReportPDF(app))

	return r
}
