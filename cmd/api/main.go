package main

import (
	"crypto/subtle"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/painori/painori/internal/api"
	"github.com/painori/painori/internal/config"
	"github.com/painori/painori/internal/feed"
	"github.com/painori/painori/internal/news"
	"github.com/painori/painori/internal/newscache"
	"github.com/painori/painori/internal/scheduler"
	"github.com/painori/painori/internal/storage"
)

func main() {
	cfg := config.Load()

	store, err := storage.NewStore(cfg.PostgresDSN, cfg.RedisAddr)
	if err != nil {
		log.Fatalf("init store failed: %v", err)
	}

	blogCache := newscache.New(store.Redis, newscache.DefaultFreshness)
	blogFetcher := feed.NewBlogFetcher(nil)
	cryptoFetcher := feed.NewCryptoFetcher(cfg.NewsAPIBase)

	newsSvc := news.NewService(blogCache, blogFetcher, cryptoFetcher, news.DefaultLimits())

	s, err := scheduler.New(cfg.CronSpec, blogFetcher, blogCache, store)
	if err != nil {
		log.Fatalf("init scheduler failed: %v", err)
	}
	s.Start()

	r := gin.Default()
	if cfg.BasicAuthUser != "" && cfg.BasicAuthPass != "" {
		r.Use(basicAuthMiddleware(cfg.BasicAuthUser, cfg.BasicAuthPass))
	}

	apiServer := api.NewServer(newsSvc, store, cfg)
	apiServer.RegisterRoutes(r)

	addr := ":" + cfg.AppPort
	log.Printf("starting api server at %s ...", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server exit: %v", err)
	}
}

// basicAuthMiddleware optionally gates the whole site behind one shared
// credential. /health stays open for health checks.
func basicAuthMiddleware(user, pass string) gin.HandlerFunc {
	const realm = "Restricted"
	uBytes := []byte(user)
	pBytes := []byte(pass)

	return func(c *gin.Context) {
		if c.Request.URL.Path == "/health" {
			c.Next()
			return
		}
		u, p, ok := c.Request.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(u), uBytes) != 1 ||
			subtle.ConstantTimeCompare([]byte(p), pBytes) != 1 {
			c.Header("WWW-Authenticate", `Basic realm="`+realm+`"`)
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}
