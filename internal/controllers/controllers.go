package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/MEMOUE/ApiLanayaGo/internal/apperrors"
	"github.com/MEMOUE/ApiLanayaGo/internal/notify"
	"github.com/MEMOUE/ApiLanayaGo/internal/services"
	"github.com/MEMOUE/ApiLanayaGo/internal/store"
)

var (
	courseStore  store.CourseStore
	driverStore  store.DriverStore
	vehicleStore store.VehicleStore

	courseService   *services.CourseService
	dispatchService *services.DispatchService
	driverService   *services.DriverService
	vehicleService  *services.VehicleService
)

// Setup wires the stores and services onto the database handle. Must run
// before the routes are registered.
func Setup(db *gorm.DB) {
	notifier := notify.New()

	courseStore = store.NewCoursePG(db)
	driverStore = store.NewDriverPG(db)
	vehicleStore = store.NewVehiclePG(db)
	users := store.NewUserPG(db)

	courseService = services.NewCourseService(courseStore, notifier)
	dispatchService = services.NewDispatchService(courseStore, driverStore, notifier)
	driverService = services.NewDriverService(driverStore, users, courseStore, notifier)
	vehicleService = services.NewVehicleService(vehicleStore, driverStore)
}

// currentActor rebuilds the acting account from the JWT claims stored by the
// auth middleware.
func currentActor(c *gin.Context) services.Actor {
	return services.Actor{
		ID:   uint(c.MustGet("user_id").(float64)),
		Role: c.MustGet("role").(string),
	}
}

// parseID reads a numeric URL parameter, answering 400 on garbage.
func parseID(c *gin.Context, param string) (uint, bool) {
	raw := c.Param(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + param + " format"})
		return 0, false
	}
	return uint(id), true
}

// respondError maps a service error onto its HTTP status. Unknown errors are
// logged and hidden behind a generic 500.
func respondError(c *gin.Context, err error) {
	status := apperrors.StatusCode(err)
	if status == http.StatusInternalServerError {
		logrus.WithError(err).Error("unhandled error")
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
