package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/MEMOUE/ApiLanayaGo/internal/controllers"
	"github.com/MEMOUE/ApiLanayaGo/internal/middleware"
)

func AdminRoutes(r *gin.Engine) {
	admin := r.Group("/admin")
	admin.Use(middleware.RequireAuthWithRole("admin"))
	{
		admin.GET("/dashboard", controllers.AdminDashboard)
		admin.GET("/courses", controllers.AdminListCourses)
		admin.POST("/courses/:id/cancel", controllers.AdminCancelCourse)
		admin.GET("/drivers", controllers.AdminListDrivers)
		admin.GET("/drivers/:id", controllers.AdminGetDriver)
		admin.POST("/drivers/:id/approve", controllers.ApproveDriver)
		admin.POST("/drivers/:id/suspend", controllers.SuspendDriver)
		admin.POST("/drivers/:id/block", controllers.BlockDriver)
		admin.POST("/drivers/:id/reactivate", controllers.ReactivateDriver)
	}
}
