// Package server wires repositories, services and handlers into one gin
// engine and owns the HTTP listener.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"foodgram/internal/config"
	"foodgram/internal/domain/auth"
	"foodgram/internal/domain/catalog"
	"foodgram/internal/domain/interaction"
	"foodgram/internal/domain/recipe"
	"foodgram/internal/domain/relationship"
	"foodgram/internal/domain/shoppinglist"
	"foodgram/internal/logging"
	"foodgram/internal/middleware"
	jwtsvc "foodgram/internal/pkg/jwt"
	"foodgram/internal/pkg/response"
	"foodgram/internal/pkg/validator"
)

type Server struct {
	httpServer *http.Server
}

// NewRouter builds the engine with every route under /api plus /health and
// /metrics.
func NewRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	validator.RegisterGin()

	tokens := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	users := auth.NewRepository(db)
	follows := relationship.NewService(relationship.NewRepository(db))
	authHandler := auth.NewHandler(auth.NewService(users, follows, tokens), cfg.PageSize)
	followHandler := relationship.NewHandler(follows, cfg.PageSize)
	catalogHandler := catalog.NewHandler(catalog.NewService(catalog.NewRepository(db)))
	recipeHandler := recipe.NewHandler(recipe.NewService(recipe.NewRepository(db), cfg.IngredientMaxAmount), cfg.PageSize)
	marksHandler := interaction.NewHandler(interaction.NewStore(db))
	listHandler := shoppinglist.NewHandler(shoppinglist.NewService(db))

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(otelgin.Middleware(cfg.ServiceName))
	r.Use(middleware.RequestLogger())
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			response.Error(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database is not reachable")
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	public := api.Group("")
	public.Use(middleware.OptionalAuth(tokens, users))
	{
		authHandler.RegisterPublicRoutes(public)
		catalogHandler.RegisterRoutes(public)
		recipeHandler.RegisterPublicRoutes(public)
	}

	protected := api.Group("")
	protected.Use(middleware.JWTAuth(tokens, users))
	{
		authHandler.RegisterProtectedRoutes(protected)
		relationship.RegisterRoutes(protected, followHandler)
		recipeHandler.RegisterProtectedRoutes(protected)
		marksHandler.RegisterRoutes(protected)
		listHandler.RegisterRoutes(protected)
	}

	return r
}

func New(cfg *config.Config, db *gorm.DB) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           NewRouter(cfg, db),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// Start blocks until the listener stops; http.ErrServerClosed after Shutdown.
func (s *Server) Start() error {
	logging.Logger().WithField("addr", s.httpServer.Addr).Info("http server listening")
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	logging.Logger().Info("http server shutting down")
	return s.httpServer.Shutdown(ctx)
}
