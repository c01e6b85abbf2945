package main

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/apkguard/apkguard/apk"
	"github.com/apkguard/apkguard/evaluate"
	"github.com/apkguard/apkguard/report"
	"github.com/apkguard/apkguard/rule"
	"github.com/apkguard/apkguard/state"
	"github.com/apkguard/apkguard/store"
)

// apiHandler holds the collaborators every route needs: the live rule
// pack (swapped out wholesale on hot reload), the websocket hub, and an
// optional persistence layer.
type apiHandler struct {
	pack  *rule.Pack
	hub   *Hub
	store *store.Store
}

func setupRouter(h *apiHandler) *gin.Engine {
	r := gin.Default()

	r.GET("/healthz", h.health)
	r.GET("/ws/reports", h.hub.Subscribe)
	r.POST("/scan", h.scan)
	r.GET("/reports/:runID", h.getReport)
	r.GET("/reports/by-md5/:md5", h.getReportsByMD5)

	return r
}

func (h *apiHandler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "rules": len(h.pack.Rules)})
}

// scan accepts an apk.Fixture as its JSON body, evaluates the current
// rule pack against it, broadcasts the resulting report to every
// subscribed dashboard client, and persists it if a store is configured.
func (h *apiHandler) scan(c *gin.Context) {
	var fx apk.Fixture
	if err := c.ShouldBindJSON(&fx); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bundle := apk.BuildFromFixture(fx)
	analysis := state.New(bundle)
	ev := evaluate.New(bundle)
	for _, r := range h.pack.Rules {
		res, err := ev.Evaluate(r)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		analysis.Add(r, res)
	}

	rr, err := report.Build(bundle, analysis, uuid.New())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if raw, err := json.Marshal(rr); err == nil {
		h.hub.Broadcast(raw)
	}

	if h.store != nil {
		if err := h.store.Save(context.Background(), rr); err != nil {
			c.JSON(http.StatusOK, gin.H{"report": rr, "persist_error": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, rr)
}

func (h *apiHandler) getReport(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run history is not configured"})
		return
	}
	rr, err := h.store.ByRunID(c.Request.Context(), c.Param("runID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rr)
}

func (h *apiHandler) getReportsByMD5(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run history is not configured"})
		return
	}
	reports, err := h.store.ByMD5(c.Request.Context(), c.Param("md5"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, reports)
}
