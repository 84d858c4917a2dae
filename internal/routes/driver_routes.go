package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/MEMOUE/ApiLanayaGo/internal/controllers"
	"github.com/MEMOUE/ApiLanayaGo/internal/middleware"
)

func DriverRoutes(r *gin.Engine) {
	driver := r.Group("/driver")
	driver.Use(middleware.RequireAuthWithRole("driver"))
	{
		driver.GET("/courses/available", controllers.ListAvailableCourses)
		driver.POST("/courses/:id/accept", controllers.AcceptCourse)
		driver.GET("/profile", controllers.GetDriverProfile)
		driver.GET("/stats", controllers.GetDriverStats)
	}
}
