// Package routes wires controllers into the HTTP route table
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rescare/rescare/internal/app/controllers"
	"github.com/rescare/rescare/internal/middleware"
	"github.com/rescare/rescare/internal/pkg/websocket"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	healthController *controllers.HealthController,
	authController *controllers.AuthController,
	studentController *controllers.StudentController,
	requestController *controllers.RequestController,
	wsHandler *websocket.Handler,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/", healthController.Root)

	// Realtime channel; clients join topics after connecting
	router.GET("/ws", wsHandler.HandleConnection)

	api := router.Group("/api")
	{
		api.GET("/health", healthController.Health)
		api.POST("/login", authController.Login)

		students := api.Group("/students")
		{
			students.POST("/register", authController.Register)
			// Deletion requires a bearer token; a student may only delete
			// their own account
			students.DELETE("/:id", authMiddleware.JWTAuth(), studentController.Delete)
		}

		requests := api.Group("/requests")
		{
			// Submission is deliberately not token-gated (kiosk-style)
			requests.POST("", requestController.Create)
			requests.GET("", requestController.GetAll)
			requests.GET("/block/:residence/:block", requestController.GetByBlock)
			requests.PUT("/:id/status", requestController.UpdateStatus)
		}
	}
}
