package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/MEMOUE/ApiLanayaGo/internal/controllers"
	"github.com/MEMOUE/ApiLanayaGo/internal/middleware"
)

func VehicleRoutes(r *gin.Engine) {
	r.GET("/vehicles/available", middleware.RequireAuth(), controllers.ListAvailableVehicles)

	vehicles := r.Group("/vehicles")
	vehicles.Use(middleware.RequireAuthWithRole("owner"))
	{
		vehicles.POST("", controllers.CreateVehicle)
		vehicles.GET("/mine", controllers.ListMyVehicles)
		vehicles.GET("/:id", controllers.GetVehicle)
		vehicles.PUT("/:id", controllers.UpdateVehicle)
		vehicles.DELETE("/:id", controllers.RetireVehicle)
		vehicles.POST("/:id/driver", controllers.AssignVehicleDriver)
		vehicles.PATCH("/:id/status", controllers.UpdateVehicleStatus)
	}
}
