package routes

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/bookmind/internal/api/handlers"
	"github.com/princeprakhar/bookmind/internal/api/middleware"
	"github.com/princeprakhar/bookmind/internal/config"
	"github.com/princeprakhar/bookmind/internal/services"
	"github.com/princeprakhar/bookmind/internal/utils"
	"github.com/princeprakhar/bookmind/internal/web"
	"github.com/princeprakhar/bookmind/pkg/logger"
	"gorm.io/gorm"
)

// Services holds everything the handlers depend on.
type Services struct {
	Tokens   *utils.TokenManager
	Identity *services.IdentityResolver
	Auth     *services.AuthService
	Reviews  *services.ReviewService
	Comments *services.CommentService
	Books    services.BookLookup
	Covers   services.CoverStorage
}

func NewServices(db *gorm.DB, cfg *config.Config) (*Services, error) {
	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)

	var mailer services.Mailer
	if cfg.MailEnabled() {
		mailer = services.NewEmailService(cfg)
	}
	authService := services.NewAuthService(db, tokens, mailer)

	svc := &Services{
		Tokens:   tokens,
		Identity: services.NewIdentityResolver(tokens, authService),
		Auth:     authService,
		Reviews:  services.NewReviewService(db),
		Comments: services.NewCommentService(db),
		Books:    services.NewGoogleBooksService(cfg.GoogleBooksURL, cfg.GoogleBooksAPIKey, cfg.BookLookupPerMinute),
	}

	if cfg.S3Enabled() {
		covers, err := services.NewS3CoverStorage(cfg.S3Region, cfg.S3BucketName, cfg.S3AccessKey, cfg.S3SecretKey)
		if err != nil {
			return nil, fmt.Errorf("init cover storage: %w", err)
		}
		svc.Covers = covers
	}
	return svc, nil
}

func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config) error {
	svc, err := NewServices(db, cfg)
	if err != nil {
		return err
	}
	Register(router, cfg, svc)
	return nil
}

func Register(router *gin.Engine, cfg *config.Config, svc *Services) {
	router.SetHTMLTemplate(web.Templates())

	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.Sessions(cfg))
	router.Use(middleware.Identity(svc.Identity))
	router.Use(middleware.RequestLogger())

	authHandler := handlers.NewAuthHandler(svc.Auth, cfg)
	reviewHandler := handlers.NewReviewHandler(svc.Reviews, svc.Comments, svc.Books, svc.Covers)
	profileHandler := handlers.NewProfileHandler(svc.Auth, svc.Reviews, svc.Comments)
	bookHandler := handlers.NewBookHandler(svc.Books)
	apiHandler := handlers.NewAPIHandler(svc.Reviews, svc.Books)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Server is running"})
	})

	router.GET("/", reviewHandler.Index)
	router.GET("/search", bookHandler.Search)

	// Auth pages
	limited := middleware.RateLimit(cfg)
	router.GET("/register", authHandler.RegisterPage)
	router.POST("/register", limited, authHandler.Register)
	router.GET("/login", authHandler.LoginPage)
	router.POST("/login", limited, authHandler.Login)
	router.POST("/logout", authHandler.Logout)

	// Reviews
	router.GET("/add", middleware.RequireLogin(), reviewHandler.AddPage)
	router.POST("/add", middleware.RequireLogin(), reviewHandler.Add)
	review := router.Group("/review/:id")
	{
		review.GET("", reviewHandler.Show)
		review.GET("/edit", reviewHandler.EditPage)
		review.POST("/edit", reviewHandler.Edit)
		review.POST("/delete", reviewHandler.Delete)
		review.POST("/comment", reviewHandler.AddComment)
		review.POST("/like", reviewHandler.Like)
	}
	router.POST("/comment/:id/delete", reviewHandler.DeleteComment)

	// Profiles
	router.GET("/profile", middleware.RequireLogin(), profileHandler.Profile)
	router.POST("/profile/password", profileHandler.ChangePassword)
	router.GET("/user/:username", profileHandler.UserProfile)

	// JSON API
	api := router.Group("/api/v1", middleware.CORS(cfg))
	{
		api.GET("/reviews", apiHandler.ListReviews)
		api.GET("/reviews/:id", apiHandler.GetReview)
		api.GET("/books/search", apiHandler.SearchBooks)
	}

	router.NoRoute(handlers.NotFound)

	logger.Info("Routes initialized successfully")
}
