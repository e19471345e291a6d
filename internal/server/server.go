package server

import (
	"strings"
	"time"

	"github.com/fauzanhakim/ratebase/internal/config"
	"github.com/fauzanhakim/ratebase/internal/middleware"
	"github.com/fauzanhakim/ratebase/internal/permission"
	"github.com/fauzanhakim/ratebase/internal/token"
	"github.com/fauzanhakim/ratebase/pkg/mailer"

	categoryHttp "github.com/fauzanhakim/ratebase/internal/modules/category/delivery/http"
	categoryRepo "github.com/fauzanhakim/ratebase/internal/modules/category/repository"
	categoryService "github.com/fauzanhakim/ratebase/internal/modules/category/service"

	genreHttp "github.com/fauzanhakim/ratebase/internal/modules/genre/delivery/http"
	genreRepo "github.com/fauzanhakim/ratebase/internal/modules/genre/repository"
	genreService "github.com/fauzanhakim/ratebase/internal/modules/genre/service"

	titleHttp "github.com/fauzanhakim/ratebase/internal/modules/title/delivery/http"
	titleRepo "github.com/fauzanhakim/ratebase/internal/modules/title/repository"
	titleService "github.com/fauzanhakim/ratebase/internal/modules/title/service"

	reviewHttp "github.com/fauzanhakim/ratebase/internal/modules/review/delivery/http"
	reviewRepo "github.com/fauzanhakim/ratebase/internal/modules/review/repository"
	reviewService "github.com/fauzanhakim/ratebase/internal/modules/review/service"

	commentHttp "github.com/fauzanhakim/ratebase/internal/modules/comment/delivery/http"
	commentRepo "github.com/fauzanhakim/ratebase/internal/modules/comment/repository"
	commentService "github.com/fauzanhakim/ratebase/internal/modules/comment/service"

	userHttp "github.com/fauzanhakim/ratebase/internal/modules/user/delivery/http"
	userRepo "github.com/fauzanhakim/ratebase/internal/modules/user/repository"
	userService "github.com/fauzanhakim/ratebase/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, mail mailer.Sender) *Server {
	codes := token.NewCodeEngine(cfg.SecretKey)
	issuer := token.NewIssuer(cfg.SecretKey, cfg.TokenTTL)

	users := userRepo.NewUserRepository(db)
	categories := categoryRepo.NewCategoryRepository(db)
	genres := genreRepo.NewGenreRepository(db)
	titles := titleRepo.NewTitleRepository(db)
	reviews := reviewRepo.NewReviewRepository(db)
	comments := commentRepo.NewCommentRepository(db)

	authSvc := userService.NewAuthService(users, codes, issuer, mail)
	authHandler := userHttp.NewAuthHandler(authSvc)

	adminSvc := userService.NewAdminService(users)
	adminHandler := userHttp.NewAdminHandler(adminSvc)

	categorySvc := categoryService.NewCategoryService(categories)
	categoryHandler := categoryHttp.NewCategoryHandler(categorySvc)

	genreSvc := genreService.NewGenreService(genres)
	genreHandler := genreHttp.NewGenreHandler(genreSvc)

	titleSvc := titleService.NewTitleService(titles, categories, genres)
	titleHandler := titleHttp.NewTitleHandler(titleSvc)

	reviewSvc := reviewService.NewReviewService(reviews, titles, redisClient, cfg.RateLimitWrite)
	reviewHandler := reviewHttp.NewReviewHandler(reviewSvc)

	commentSvc := commentService.NewCommentService(comments, reviews, redisClient, cfg.RateLimitWrite)
	commentHandler := commentHttp.NewCommentHandler(commentSvc)

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(users, issuer)

	api := router.Group("/api")
	api.Use(authMiddleware.Identify())

	auth := api.Group("/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/token", authHandler.Token)
	}

	me := api.Group("/users/me")
	me.Use(authMiddleware.RequireAuth())
	{
		me.GET("", authHandler.GetMe)
		me.PATCH("", authHandler.UpdateMe)
	}

	adminUsers := api.Group("/users")
	adminUsers.Use(authMiddleware.Require(permission.AdminOnly))
	{
		adminUsers.GET("", adminHandler.ListUsers)
		adminUsers.POST("", adminHandler.CreateUser)
		adminUsers.GET("/:username", adminHandler.GetUser)
		adminUsers.PATCH("/:username", adminHandler.UpdateUser)
		adminUsers.DELETE("/:username", adminHandler.DeleteUser)
	}

	catalog := api.Group("")
	catalog.Use(authMiddleware.Require(permission.AdminOrReadOnly))
	{
		catalog.GET("/categories", categoryHandler.List)
		catalog.POST("/categories", categoryHandler.Create)
		catalog.DELETE("/categories/:slug", categoryHandler.Delete)

		catalog.GET("/genres", genreHandler.List)
		catalog.POST("/genres", genreHandler.Create)
		catalog.DELETE("/genres/:slug", genreHandler.Delete)

		catalog.GET("/titles", titleHandler.List)
		catalog.POST("/titles", titleHandler.Create)
		catalog.GET("/titles/:title_id", titleHandler.Get)
		catalog.PATCH("/titles/:title_id", titleHandler.Update)
		catalog.DELETE("/titles/:title_id", titleHandler.Delete)
	}

	// Reviews and comments check ownership in the service layer, so the
	// route group carries no policy beyond identification.
	content := api.Group("/titles/:title_id/reviews")
	{
		content.GET("", reviewHandler.List)
		content.POST("", reviewHandler.Create)
		content.GET("/:review_id", reviewHandler.Get)
		content.PATCH("/:review_id", reviewHandler.Update)
		content.DELETE("/:review_id", reviewHandler.Delete)

		content.GET("/:review_id/comments", commentHandler.List)
		content.POST("/:review_id/comments", commentHandler.Create)
		content.GET("/:review_id/comments/:comment_id", commentHandler.Get)
		content.PATCH("/:review_id/comments/:comment_id", commentHandler.Update)
		content.DELETE("/:review_id/comments/:comment_id", commentHandler.Delete)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() *gin.Engine {
	return s.engine
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	origins := []string{"http://localhost:3000"}
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
