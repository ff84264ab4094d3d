package handlers

import (
	"net/http"
	"time"

	"library_backend/internal/logger"
	"library_backend/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Config carries the HTTP-layer settings.
type Config struct {
	AllowedOrigins []string      // browser origins allowed by CORS; empty disables CORS
	StatsInterval  time.Duration // default push interval of /ws/stats
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	cfg      Config
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, cfg Config) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.StatsInterval <= 0 || cfg.StatsInterval > maxInterval {
		cfg.StatsInterval = defaultInterval
	}
	return &Handler{services: services, log: log, cfg: cfg}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	_ = router.SetTrustedProxies(nil)

	if len(h.cfg.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     h.cfg.AllowedOrigins,
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)

	h.registerAuthRoutes(router)
	h.registerLibraryRoutes(router)

	// Live circulation counters; authenticates from query or header.
	router.GET("/ws/stats", h.wsStats)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/api/auth")
	{
		auth.POST("/login", h.login)
		auth.POST("/register", h.register)
		auth.GET("/verify", h.verify)
	}
}

func (h *Handler) registerLibraryRoutes(r *gin.Engine) {
	library := r.Group("/api/library")

	books := library.Group("/books")
	{
		books.GET("", h.listBooks)
		books.GET("/search", h.searchBooks)
		books.GET("/:id", h.getBook)
	}

	borrows := library.Group("/borrows", h.identityMiddleware)
	{
		borrows.GET("/my", h.myBorrows)
		borrows.POST("", h.borrowBook)
		borrows.PUT("/:id/return", h.returnBook)
	}

	admin := library.Group("/admin", h.identityMiddleware, h.requireAdmin)
	{
		admin.POST("/books", h.createBook)
		admin.PUT("/books/:id", h.updateBook)
		admin.DELETE("/books/:id", h.deleteBook)
		admin.GET("/borrows", h.allBorrows)
		admin.GET("/events", h.getEvents)
		admin.GET("/stats", h.getStats)
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
