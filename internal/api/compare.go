// Package api exposes comparisons and run history over HTTP.
package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mangashelf/internal/compare"
	"mangashelf/internal/library"
	"mangashelf/internal/logger"
	"mangashelf/internal/reference"
	"mangashelf/internal/workflow"
	"mangashelf/pkg/models"
)

type CompareHandler struct {
	Comparer *workflow.Comparer
}

func NewCompareHandler(c *workflow.Comparer) *CompareHandler {
	return &CompareHandler{Comparer: c}
}

func (h *CompareHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/compare", h.compare)
}

type compareReq struct {
	Library   string `json:"library"`   // library text file contents
	Reference string `json:"reference"` // reference CSV contents
	Exclusive bool   `json:"exclusive"`
}

type compareResp struct {
	RunID      string              `json:"run_id"`
	MatchCount int                 `json:"match_count"`
	Matches    []models.MatchView  `json:"matches"`
	Collisions []compare.Collision `json:"collisions"`
	Warning    string              `json:"warning,omitempty"`
}

func (h *CompareHandler) compare(c *gin.Context) {
	var req compareReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	lib, err := library.Parse(strings.NewReader(req.Library))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid library text"})
		return
	}
	ref, err := reference.Parse(strings.NewReader(req.Reference))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reference csv"})
		return
	}

	out, err := h.Comparer.CompareRecords(c.Request.Context(), workflow.RecordsInput{
		Library:         lib,
		Reference:       ref,
		LibrarySource:   "api:library",
		ReferenceSource: "api:reference",
		Exclusive:       req.Exclusive,
		Source:          "api",
	})
	if out == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "compare failed"})
		return
	}

	resp := compareResp{
		RunID:      out.Run.ID,
		MatchCount: out.Run.MatchCount,
		Matches:    out.Run.Matches,
		Collisions: out.Collisions,
	}
	if resp.Matches == nil {
		resp.Matches = []models.MatchView{}
	}
	if resp.Collisions == nil {
		resp.Collisions = []compare.Collision{}
	}
	if err != nil {
		if !errors.Is(err, models.ErrPersistence) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "compare failed"})
			return
		}
		logger.For(c.Request.Context()).WithError(err).Warn("[api] run not stored")
		resp.Warning = "run was not stored in history"
	}
	c.JSON(http.StatusOK, resp)
}
