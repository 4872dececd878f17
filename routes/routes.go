package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/srgchrksv/echocast/config"
	"github.com/srgchrksv/echocast/handlers"
)

// Register installs the middleware stack and the job API routes.
func Register(r *gin.Engine, h *handlers.Handlers, cfg config.Config) {
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("echocast", store))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.AllowOrigin}
	corsConfig.AllowMethods = []string{"GET", "POST"}
	corsConfig.AllowHeaders = []string{"Content-Type", "text/plain", "application/json"}
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	r.GET("/", func(c *gin.Context) {
		session := sessions.Default(c)
		if session.Get("sessionID") == nil {
			session.Set("sessionID", uuid.New().String())
			session.Save()
		}
		c.JSON(http.StatusOK, gin.H{
			"message":    "EchoCast ready",
			"session_id": session.Get("sessionID").(string),
		})
	})

	api := r.Group("/api")
	api.POST("/generate", h.Generate)
	api.GET("/status/:id", h.Status)
	api.GET("/ws/:id", h.Stream)
	api.GET("/audio/:name", h.Audio)
}
