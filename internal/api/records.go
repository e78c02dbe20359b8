package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dharsanguruparan/DocFlow/internal/model"
	"github.com/dharsanguruparan/DocFlow/internal/repository"
)

// recordHead is the part of any record the store indexes on.
type recordHead struct {
	ID        string `json:"id"`
	CreatedAt string `json:"createdAt"`
}

func (s *Server) handleListRecords(kind repository.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.deps.Records == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Remote store unavailable"})
			return
		}
		items, err := s.deps.Records.ListRecords(c.Request.Context(), GetUserID(c), kind)
		if err != nil {
			s.fail(c, err)
			return
		}
		if items == nil {
			items = []json.RawMessage{}
		}
		c.JSON(http.StatusOK, gin.H{"data": items})
	}
}

func (s *Server) handleSaveRecord(kind repository.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.deps.Records == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Remote store unavailable"})
			return
		}
		var raw json.RawMessage
		if err := c.ShouldBindJSON(&raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var head recordHead
		if err := json.Unmarshal(raw, &head); err != nil || strings.TrimSpace(head.ID) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Record id required"})
			return
		}
		createdAt, _ := model.ParseTimestamp(head.CreatedAt)
		if err := s.deps.Records.SaveRecord(c.Request.Context(), GetUserID(c), kind, head.ID, raw, createdAt); err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"data": gin.H{"objectId": head.ID}})
	}
}

func (s *Server) handleGetSettings(c *gin.Context) {
	if s.deps.Records == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Remote store unavailable"})
		return
	}
	settings, err := s.deps.Records.Settings(c.Request.Context(), GetUserID(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": settings})
}

func (s *Server) handlePutSettings(c *gin.Context) {
	if s.deps.Records == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Remote store unavailable"})
		return
	}
	var settings model.Settings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if _, ok := model.ParsePlan(string(settings.Subscription)); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown subscription plan"})
		return
	}
	if err := s.deps.Records.SaveSettings(c.Request.Context(), GetUserID(c), settings); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"objectId": GetUserID(c)}})
}
