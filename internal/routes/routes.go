package routes

import (
	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.New()

	// Request logging and panic recovery
	r.Use(ginlog.SetLogger())
	r.Use(gin.Recovery())

	AuthRoutes(r)
	CourseRoutes(r)
	DriverRoutes(r)
	VehicleRoutes(r)
	AdminRoutes(r)
	PositionRoutes(r)

	return r
}
