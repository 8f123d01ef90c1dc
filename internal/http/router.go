package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"airdrop-backend/internal/common/middleware"
	"airdrop-backend/internal/config"
	accounthttp "airdrop-backend/internal/features/account/delivery/http"
	airdrophttp "airdrop-backend/internal/features/airdrop/delivery/http"
	"airdrop-backend/internal/session"
)

// NewRouter assembles the API: CORS for the configured site origins, request
// logging, the session cookie middleware, and all route groups.
func NewRouter(
	cfg *config.Config,
	codec *session.Codec,
	accountHandler *accounthttp.AccountHandler,
	airdropHandler *airdrophttp.AirdropHandler,
	debugHandler *DebugHandler,
) *gin.Engine {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           600 * time.Second,
	}))

	router.Use(session.Middleware(codec))

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Hello World!"})
	})

	accountHandler.RegisterRoutes(router)
	airdropHandler.RegisterRoutes(router)
	debugHandler.RegisterRoutes(router, cfg.DebugKey)

	return router
}
