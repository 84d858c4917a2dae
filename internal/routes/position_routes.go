package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/MEMOUE/ApiLanayaGo/internal/controllers"
)

func PositionRoutes(r *gin.Engine) {
	// Authentication happens inside the handler because WebSocket clients
	// pass the token as a query parameter.
	ws := r.Group("/ws")
	{
		ws.GET("/courses/:id/positions", controllers.HandleCoursePositions)
	}
}
