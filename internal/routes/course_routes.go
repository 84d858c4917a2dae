package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/MEMOUE/ApiLanayaGo/internal/controllers"
	"github.com/MEMOUE/ApiLanayaGo/internal/middleware"
)

func CourseRoutes(r *gin.Engine) {
	courses := r.Group("/courses")
	courses.Use(middleware.RequireAuth())
	{
		courses.POST("", controllers.CreateCourse)
		courses.GET("/mine", controllers.ListMyCourses)
		courses.GET("/:id", controllers.GetCourse)
		courses.PATCH("/:id/status", controllers.TransitionCourseStatus)
		courses.POST("/:id/cancel", controllers.CancelCourse)
	}
}
