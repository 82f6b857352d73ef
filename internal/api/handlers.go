// Package api exposes a read-only HTTP projection of stored articles,
// digests, and trends.
package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/aiwatch/internal/database"
	"github.com/jonesrussell/aiwatch/internal/logger"
)

// Handler handles HTTP requests for the aiwatch API.
type Handler struct {
	articles *database.ArticleRepository
	digests  *database.DigestRepository
	logger   logger.Interface
}

// NewHandler creates a new API handler.
func NewHandler(
	articles *database.ArticleRepository,
	digests *database.DigestRepository,
	log logger.Interface,
) *Handler {
	return &Handler{
		articles: articles,
		digests:  digests,
		logger:   log.WithComponent("api"),
	}
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "aiwatch"})
}

// ListArticles handles GET /api/v1/articles.
func (h *Handler) ListArticles(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := database.ArticleFilter{
		Source:        c.Query("source"),
		Category:      c.Query("category"),
		ProcessedOnly: c.Query("processed") == "true",
		Limit:         limit,
		Offset:        offset,
	}

	articles, err := h.articles.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list articles", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list articles"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"articles": articles,
		"total":    len(articles),
	})
}

// GetArticle handles GET /api/v1/articles/:id.
func (h *Handler) GetArticle(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
		return
	}

	article, err := h.articles.GetByID(c.Request.Context(), id)
	if errors.Is(err, database.ErrArticleNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}
	if err != nil {
		h.logger.Error("failed to get article", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get article"})
		return
	}

	summary, err := h.articles.GetSummary(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("failed to get summary", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get article"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"article": article,
		"summary": summary,
	})
}

// GetDigest handles GET /api/v1/digests/:date.
func (h *Handler) GetDigest(c *gin.Context) {
	date, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	digest, err := h.digests.GetDigestByDate(c.Request.Context(), date)
	if errors.Is(err, database.ErrDigestNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "digest not found"})
		return
	}
	if err != nil {
		h.logger.Error("failed to get digest", "date", c.Param("date"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get digest"})
		return
	}

	c.JSON(http.StatusOK, digest)
}

// ListTrends handles GET /api/v1/trends. An absent or invalid limit
// falls through to the repository default.
func (h *Handler) ListTrends(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	trends, err := h.digests.ListTrends(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list trends", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list trends"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trends": trends,
		"total":  len(trends),
	})
}
