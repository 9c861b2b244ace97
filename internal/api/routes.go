package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"wolfs_web/internal/api/handlers"
	"wolfs_web/internal/middleware"
	"wolfs_web/internal/service"
)

func SetupRoutes(r *gin.Engine, services *service.Services, allowedOrigins []string) {
	authHandler := handlers.NewAuthHandler(services.UserService)
	roomHandler := handlers.NewRoomHandler(services.RoomService)
	gameHandler := handlers.NewGameHandler(services.GameService, services.RoomService)
	wsHandler := handlers.NewWebSocketHandler(services.WebSocketManager, services.RoomService)

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	} else {
		corsConfig.AllowOrigins = allowedOrigins
	}
	r.Use(middleware.RequestID(), cors.New(corsConfig))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})

	api := r.Group("/api")

	// 公開路由
	{
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)

		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
	}

	authorized := api.Group("/")
	authorized.Use(middleware.AuthMiddleware())
	{
		authorized.GET("/characters", roomHandler.ListCharacters)

		rooms := authorized.Group("/rooms")
		{
			rooms.GET("", roomHandler.ListRooms)
			rooms.POST("", roomHandler.CreateRoom)
			rooms.GET("/:id", roomHandler.GetRoom)
			rooms.DELETE("/:id", roomHandler.DeleteRoom)

			rooms.POST("/:id/members", roomHandler.AddMembers)
			rooms.DELETE("/:id/members/:userId", roomHandler.RemoveMember)
			rooms.POST("/:id/roles", roomHandler.AssignRoles)

			rooms.GET("/:id/sessions", gameHandler.ListSessions)
			rooms.POST("/:id/sessions", gameHandler.CreateSession)

			rooms.GET("/:id/ws", wsHandler.HandleWebSocket)
		}

		sessions := authorized.Group("/sessions")
		{
			sessions.GET("/:sessionId", gameHandler.GetSession)
			sessions.DELETE("/:sessionId", gameHandler.DeleteSession)
			sessions.GET("/:sessionId/me", gameHandler.Me)
			sessions.GET("/:sessionId/phase", gameHandler.Phase)
			sessions.GET("/:sessionId/living", gameHandler.LivingPlayers)
			sessions.GET("/:sessionId/events", gameHandler.Events)

			// 夜晚
			sessions.GET("/:sessionId/night", gameHandler.NightView)
			sessions.POST("/:sessionId/night/actions", gameHandler.NightAction)
			sessions.POST("/:sessionId/night/resolve", gameHandler.ResolveNight)

			// 白天
			sessions.POST("/:sessionId/day/elimination", gameHandler.DayElimination)
		}
	}
}
