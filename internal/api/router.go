package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/painori/painori/internal/board"
	"github.com/painori/painori/internal/config"
	"github.com/painori/painori/internal/news"
	"github.com/painori/painori/internal/storage"
)

type Server struct {
	news  *news.Service
	store *storage.Store
	cfg   *config.Config
}

func NewServer(newsSvc *news.Service, store *storage.Store, cfg *config.Config) *Server {
	return &Server{news: newsSvc, store: store, cfg: cfg}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.health)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/news/crypto", s.cryptoNews)
		v1.GET("/news/pi", s.piNews)
		v1.GET("/news/blog", s.blogNews)
		v1.GET("/news/status", s.feedStatus)
		v1.GET("/news/archive", s.newsArchive)

		v1.POST("/nickname/validate", s.validateNickname)

		v1.GET("/posts", s.listPosts)
		v1.POST("/posts", s.createPost)
		v1.PUT("/posts/:id", s.updatePost)
		v1.DELETE("/posts/:id", s.deletePost)

		v1.POST("/stats/visit", s.recordVisit)
		v1.POST("/stats/testnet-click", s.recordTestnetClick)
		v1.GET("/stats", s.getStats)

		v1.GET("/time", s.serverTime)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// News endpoints always answer 200 with a success flag; total upstream
// failure renders as {success:false, data:[]} so the UI shows its
// generic "no news" state instead of an error page.

func (s *Server) cryptoNews(c *gin.Context) {
	c.JSON(http.StatusOK, s.news.CryptoNews(c.Request.Context()))
}

func (s *Server) piNews(c *gin.Context) {
	c.JSON(http.StatusOK, s.news.PiNews(c.Request.Context()))
}

func (s *Server) blogNews(c *gin.Context) {
	c.JSON(http.StatusOK, s.news.BlogNews(c.Request.Context()))
}

func (s *Server) feedStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.news.FeedStatus(c.Request.Context()))
}

func (s *Server) newsArchive(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	rows, err := s.store.ListArchivedArticles(limit)
	if err != nil {
		log.Printf("api: list archive error: %v", err)
		c.JSON(http.StatusOK, gin.H{"success": false, "data": []any{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": rows, "count": len(rows)})
}

type nicknameRequest struct {
	Nickname string `json:"nickname"`
}

func (s *Server) validateNickname(c *gin.Context) {
	var req nicknameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "nickname is required"})
		return
	}
	v := board.ValidateNickname(req.Nickname, s.cfg.AdminAuthCode)
	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"isValid":           v.Valid,
		"processedNickname": v.Processed,
		"isAdmin":           v.IsAdmin,
		"error":             v.Reason,
	})
}

type postRequest struct {
	Nickname string `json:"nickname"`
	Content  string `json:"content"`
	Password string `json:"password"`
}

func (s *Server) createPost(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Content == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "nickname, content and password are required"})
		return
	}

	v := board.ValidateNickname(req.Nickname, s.cfg.AdminAuthCode)
	if !v.Valid {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": v.Reason})
		return
	}

	hash := board.HashPassword(req.Password, s.cfg.BoardSalt)
	post, err := s.store.CreatePost(v.Processed, req.Content, hash, v.IsAdmin)
	if err != nil {
		log.Printf("api: create post error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to create post"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": post})
}

func (s *Server) listPosts(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	posts, err := s.store.ListPosts(limit, offset)
	if err != nil {
		log.Printf("api: list posts error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to list posts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": posts, "count": len(posts)})
}

// postAuth resolves the password in a mutating board request to a hash
// plus an admin override (the admin auth code works in place of any post
// password).
func (s *Server) postAuth(password string) (hash string, isAdmin bool) {
	if s.cfg.AdminAuthCode != "" && password == s.cfg.AdminAuthCode {
		return "", true
	}
	return board.HashPassword(password, s.cfg.BoardSalt), false
}

func (s *Server) updatePost(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid post id"})
		return
	}

	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Content == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "content and password are required"})
		return
	}

	hash, isAdmin := s.postAuth(req.Password)
	post, err := s.store.UpdatePost(uint(id), req.Content, hash, isAdmin)
	if err != nil {
		s.postError(c, err, "update")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": post})
}

func (s *Server) deletePost(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid post id"})
		return
	}

	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "password is required"})
		return
	}

	hash, isAdmin := s.postAuth(req.Password)
	if err := s.store.DeletePost(uint(id), hash, isAdmin); err != nil {
		s.postError(c, err, "delete")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) postError(c *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, storage.ErrPostNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "post not found"})
	case errors.Is(err, storage.ErrWrongPassword):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "wrong password"})
	default:
		log.Printf("api: %s post error: %v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
	}
}

type visitRequest struct {
	VisitorID string `json:"visitorId"`
}

func (s *Server) recordVisit(c *gin.Context) {
	var req visitRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.VisitorID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "visitorId is required"})
		return
	}

	counted, err := s.store.RecordVisit(req.VisitorID, time.Now())
	if err != nil {
		log.Printf("api: record visit error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to record visit"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "counted": counted})
}

func (s *Server) recordTestnetClick(c *gin.Context) {
	if err := s.store.RecordTestnetClick(time.Now()); err != nil {
		log.Printf("api: testnet click error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to record click"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) getStats(c *gin.Context) {
	snap, err := s.store.GetStats(time.Now())
	if err != nil {
		log.Printf("api: get stats error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to load stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": snap})
}

func (s *Server) serverTime(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"serverTime": time.Now().UTC(),
		"timezone":   "UTC",
	})
}
