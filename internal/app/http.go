package app

import (
	"context"

	"github.com/gin-gonic/gin"

	"identity-service/internal/auth/credentials"
	"identity-service/internal/auth/handler"
	"identity-service/internal/auth/provider"
	"identity-service/internal/auth/provider/google"
	"identity-service/internal/auth/resolver"
	"identity-service/internal/auth/token"
	"identity-service/internal/config"
	"identity-service/internal/middleware"
	"identity-service/internal/session"
	"identity-service/internal/users"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	userRepo := users.NewPostgresRepository(infra.DB, cfg.QueryTimeout)
	sessionStore := session.NewRedisStore(infra.Redis.Client)
	tokenService := token.NewService([]byte(cfg.JWTSecret))
	credentialService := credentials.NewService(userRepo, tokenService)
	identityResolver := resolver.NewDBResolver(userRepo)

	googleProvider, err := google.New(
		ctx,
		cfg.GoogleClientID,
		cfg.GoogleClientSecret,
		cfg.GoogleRedirectURL,
		cfg.ExchangeTimeout,
	)
	if err != nil {
		return nil, nil, err
	}

	registry := provider.NewRegistry(googleProvider)

	authHandler := handler.NewHandler(
		registry,
		sessionStore,
		[]byte(cfg.SessionSecret),
		identityResolver,
		credentialService,
		tokenService,
		cfg.FrontendURL,
	)

	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())

	// ----------------------------
	// Public Routes
	// ----------------------------

	authHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ----------------------------
	// Protected API Routes
	// ----------------------------

	api := router.Group("/api")
	api.Use(middleware.GinRequireAuth(authMiddleware))

	api.GET("/me", func(c *gin.Context) {
		email, _ := middleware.EmailFromContext(c.Request.Context())
		c.JSON(200, gin.H{
			"email": email,
		})
	})

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		return infra.DB.Close()
	}, nil
}
