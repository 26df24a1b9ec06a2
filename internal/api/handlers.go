package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abdulachik/amanecer/internal/phrase"
	"github.com/abdulachik/amanecer/internal/scheduler"
	"github.com/abdulachik/amanecer/internal/share"
)

type handlers struct {
	reader PhraseReader
	health *scheduler.Health
	now    func() time.Time
}

type phraseResponse struct {
	Phrase phrase.Phrase `json:"phrase"`
	Share  share.Links   `json:"share"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status     string                            `json:"status"`
	Components map[string]scheduler.HealthStatus `json:"components"`
}

func (h *handlers) today(c *gin.Context) {
	p, err := h.reader.Today(c.Request.Context(), h.now())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, phraseResponse{Phrase: *p, Share: share.For(*p)})
}

func (h *handlers) random(c *gin.Context) {
	exclude := c.Query("exclude")
	if exclude != "" {
		if _, err := phrase.ParseDate(exclude); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
	}

	p, err := h.reader.RandomPast(c.Request.Context(), h.now(), exclude)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, phraseResponse{Phrase: *p, Share: share.For(*p)})
}

func (h *handlers) healthz(c *gin.Context) {
	resp := healthResponse{Status: "healthy", Components: h.health.GetAllStatuses()}
	if !h.health.IsOverallHealthy() {
		resp.Status = "unhealthy"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handlers) fail(c *gin.Context, err error) {
	if errors.Is(err, phrase.ErrNotFound) {
		c.JSON(http.StatusNotFound, errorResponse{Error: "no phrases published yet"})
		return
	}
	slog.Error("read phrase failed", "path", c.Request.URL.Path, "error", err)
	c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
}
