package main

import (
	"context" // context package is needed for Redis operations
	"log"     // log package is needed for logging

	"playhub/internal/api"        // Custom package for API handlers
	"playhub/internal/config"     // Custom package for configuration
	"playhub/internal/db"         // Custom package for database access
	"playhub/internal/economy"    // Transaction engine
	"playhub/internal/middleware" // Custom package for middleware
	"playhub/internal/ws"         // Real-time hub

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Connect to the database with the configured driver
	conn, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection; caching is skipped when Redis is unavailable
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logrus.Warnf("redis unavailable, caching disabled: %v", err)
		redisClient = nil
	}

	// Transaction engine over the ledger store
	engine := economy.NewEngine(conn)

	// Real-time hub: presence registry, bounded history, durable chat store
	hub := ws.NewHub(ws.NewRegistry(), ws.NewHistory(ws.DefaultHistorySize), ws.NewGormChatStore(conn))
	go hub.Run() // Single event loop for all room and presence mutations

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	required := middleware.JWTAuthMiddleware(cfg.JWTSecret)     // Auth required
	optional := middleware.OptionalAuthMiddleware(cfg.JWTSecret) // Auth optional

	apiGroup := r.Group("/api")

	// Auth routes
	authGroup := apiGroup.Group("/auth")
	authGroup.POST("/register", api.RegisterHandler(conn, cfg.JWTSecret)) // Registration endpoint
	authGroup.POST("/login", api.LoginHandler(conn, cfg.JWTSecret))       // Login endpoint
	authGroup.POST("/logout", api.LogoutHandler())                        // Logout endpoint
	authGroup.GET("/me", required, api.MeHandler(conn))                   // Own profile endpoint

	// User routes (public reads, owner-only writes)
	userGroup := apiGroup.Group("/users")
	userGroup.GET("/search", api.SearchUsersHandler(conn))                              // User search endpoint
	userGroup.GET("/online", api.OnlineUsersHandler(hub.Registry()))                    // Presence listing endpoint
	userGroup.GET("/:id", api.GetUserHandler(conn, redisClient))                        // Public profile endpoint
	userGroup.PUT("/:id/username", required, api.UpdateDisplayNameHandler(conn, redisClient)) // Display name endpoint

	// Friend routes (protected)
	friendGroup := apiGroup.Group("/friends")
	friendGroup.Use(required)
	friendGroup.GET("", api.ListFriendsHandler(conn))          // Friends listing endpoint
	friendGroup.POST("/:id", api.AddFriendHandler(conn))       // Friend request endpoint
	friendGroup.PUT("/:id/accept", api.AcceptFriendHandler(conn)) // Accept request endpoint
	friendGroup.DELETE("/:id", api.RemoveFriendHandler(conn))  // Remove friend endpoint

	// Game routes (list and get are public)
	gameGroup := apiGroup.Group("/games")
	gameGroup.GET("", api.ListGamesHandler(conn))                  // Public games index
	gameGroup.GET("/my", required, api.MyGamesHandler(conn))       // Own games endpoint
	gameGroup.GET("/:id", api.GetGameHandler(conn))                // Game detail endpoint
	gameGroup.POST("", required, api.CreateGameHandler(conn))      // Create game endpoint
	gameGroup.PUT("/:id", required, api.UpdateGameHandler(conn))   // Update game endpoint
	gameGroup.POST("/:id/play", api.PlayGameHandler(conn))         // Play counter endpoint

	// Avatar routes
	avatarGroup := apiGroup.Group("/avatar")
	avatarGroup.GET("/:userId", optional, api.GetAvatarHandler(conn))  // Avatar read endpoint
	avatarGroup.PUT("", required, api.UpdateAvatarHandler(conn))       // Avatar update endpoint

	// Catalog routes (list is public, purchase requires auth)
	catalogGroup := apiGroup.Group("/catalog")
	catalogGroup.GET("", api.ListCatalogHandler(conn, redisClient))                      // Catalog listing endpoint
	catalogGroup.GET("/inventory", required, api.GetInventoryHandler(conn, redisClient)) // Inventory endpoint
	catalogGroup.POST("/purchase", required, api.PurchaseHandler(engine, redisClient))   // Purchase endpoint

	// Promo code routes (protected)
	apiGroup.POST("/codes/redeem", required, api.RedeemHandler(engine, redisClient)) // Redemption endpoint

	// Websocket endpoint; the token is optional and checked once at handshake
	r.GET("/ws", ws.ServeWSHandler(hub, conn, cfg.JWTSecret))

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
