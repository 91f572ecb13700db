package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"mangashelf/internal/history"
	"mangashelf/internal/report"
)

type RunsHandler struct {
	Repo *history.Repo
}

func NewRunsHandler(repo *history.Repo) *RunsHandler {
	return &RunsHandler{Repo: repo}
}

func (h *RunsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/runs", h.list)
	rg.GET("/runs/:id", h.getOne)
	rg.GET("/runs/:id/csv", h.exportCSV)
}

func (h *RunsHandler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	runs, total, err := h.Repo.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list runs failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":  runs,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *RunsHandler) getOne(c *gin.Context) {
	run, err := h.Repo.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get run failed"})
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	c.JSON(http.StatusOK, run)
}

func (h *RunsHandler) exportCSV(c *gin.Context) {
	run, err := h.Repo.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get run failed"})
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="run-`+run.ID+`.csv"`)
	c.Status(http.StatusOK)
	if err := report.WriteCSV(c.Writer, run.Matches); err != nil {
		_ = c.Error(err)
	}
}
