package handler

import (
	"context"
	"net/http"
	"time"

	"contact_keeper/internal/logging"
	"contact_keeper/internal/middleware"
	"contact_keeper/internal/service"
	"contact_keeper/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RouterOptions wires the HTTP layer to its collaborators
type RouterOptions struct {
	AuthService    service.AuthService
	ContactService service.ContactService
	JWT            *utils.JWTUtil
	Logger         logging.Logger
	// CORSOrigins lists allowed origins; empty or "*" allows all.
	CORSOrigins []string
	// Ping reports store health for /health. Nil means always healthy.
	Ping func(ctx context.Context) error
}

// NewRouter builds the gin engine with every route of the API
func NewRouter(opts RouterOptions) *gin.Engine {
	useJSONFieldNames()

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(opts.Logger))
	engine.Use(cors.New(corsConfig(opts.CORSOrigins)))

	engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"msg": "Welcome to Contact Keeper API"})
	})
	engine.GET("/health", healthHandler(opts.Ping))

	authMW := middleware.AuthMiddleware(opts.JWT, opts.Logger)

	api := engine.Group("/api")
	NewUserHandler(opts.AuthService, opts.Logger).RegisterUserRoutes(api)
	NewAuthHandler(opts.AuthService, opts.Logger).RegisterAuthRoutes(api, authMW)
	NewContactHandler(opts.ContactService, opts.Logger).RegisterContactRoutes(api, authMW)

	return engine
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.TokenHeader},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func healthHandler(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unhealthy"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "healthy"})
	}
}
