package api

import (
	"strings"
	"time"

	"portalcms/internal/auth"
	"portalcms/internal/cache"
	"portalcms/internal/clock"
	"portalcms/internal/config"
	"portalcms/internal/model"
	"portalcms/internal/service"
	"portalcms/internal/storage"

	"github.com/gin-gonic/gin"
)

// HTTPHandler holds the dependencies of every HTTP endpoint.
type HTTPHandler struct {
	cfg               config.Config
	repo              model.Repository
	storage           storage.Storage
	storagePublicBase string
	authManager       *auth.Manager
	cache             *cache.Client
	publicCacheTTL    time.Duration

	authService     *service.AuthService
	userService     *service.UserService
	categoryService *service.CategoryService
	postService     *service.PostService
}

// NewHTTPHandler wires the handler with its services.
func NewHTTPHandler(cfg config.Config, repo model.Repository, store storage.Storage, cacheClient *cache.Client, clk clock.Clock) (*HTTPHandler, error) {
	expiry := time.Duration(cfg.JWTExpirationMinutes) * time.Minute
	authManager, err := auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer, expiry)
	if err != nil {
		return nil, err
	}
	if cacheClient == nil {
		cacheClient = cache.New("", "", 0)
	}

	return &HTTPHandler{
		cfg:               cfg,
		repo:              repo,
		storage:           store,
		storagePublicBase: normalisePublicBase(cfg.StoragePublicBaseURL),
		authManager:       authManager,
		cache:             cacheClient,
		publicCacheTTL:    time.Duration(cfg.PublicCacheTTLSeconds) * time.Second,
		authService:       service.NewAuthService(repo, authManager),
		userService:       service.NewUserService(repo),
		categoryService:   service.NewCategoryService(repo),
		postService:       service.NewPostService(repo, clk),
	}, nil
}

// PostService exposes the post service for callers that need it outside HTTP,
// such as the scheduler.
func (h *HTTPHandler) PostService() *service.PostService {
	return h.postService
}

// RegisterRoutes attaches every endpoint to the router.
func (h *HTTPHandler) RegisterRoutes(r *gin.Engine) {
	apiGroup := r.Group("/api")

	authGroup := apiGroup.Group("/auth")
	authGroup.POST("/login", h.Login)
	authGroup.GET("/me", h.AuthMiddleware(), h.Me)

	publicGroup := apiGroup.Group("/public")
	publicGroup.GET("/posts", h.PublicFeed)
	publicGroup.GET("/posts/:slug", h.PublicPost)
	publicGroup.GET("/categories", h.PublicCategories)

	protected := apiGroup.Group("")
	protected.Use(h.AuthMiddleware())

	protected.GET("/categories", h.ListCategories)
	protected.GET("/categories/:id", h.GetCategory)
	protected.GET("/posts", h.ListPosts)
	protected.POST("/posts", h.CreatePost)
	protected.GET("/posts/:id", h.GetPost)
	protected.PATCH("/posts/:id", h.UpdatePost)
	protected.DELETE("/posts/:id", h.DeletePost)
	protected.POST("/posts/:id/publish", h.PublishPost)
	protected.POST("/posts/:id/schedule", h.SchedulePost)
	protected.POST("/uploads", h.Upload)

	userAdmin := protected.Group("/users")
	userAdmin.Use(h.RequireManager())
	userAdmin.GET("", h.ListUsers)
	userAdmin.POST("", h.CreateUser)
	userAdmin.GET("/:id", h.GetUser)
	userAdmin.PATCH("/:id", h.UpdateUser)
	userAdmin.DELETE("/:id", h.DeleteUser)

	categoryAdmin := protected.Group("/categories")
	categoryAdmin.Use(h.RequireManager())
	categoryAdmin.POST("", h.CreateCategory)
	categoryAdmin.PATCH("/:id", h.UpdateCategory)
	categoryAdmin.DELETE("/:id", h.DeleteCategory)
}

func normalisePublicBase(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		trimmed = "/files"
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return strings.TrimRight(trimmed, "/")
	}
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	return strings.TrimRight(trimmed, "/")
}
