package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MEMOUE/ApiLanayaGo/internal/config"
	"github.com/MEMOUE/ApiLanayaGo/internal/models"
)

type reasonPayload struct {
	Reason string `json:"reason"`
}

// AdminDashboard aggregates platform-wide counters for the back office.
func AdminDashboard(c *gin.Context) {
	db := config.GetDB()

	var totalUsers, totalDrivers, approvedDrivers, pendingDrivers int64
	db.Model(&models.User{}).Count(&totalUsers)
	db.Model(&models.Driver{}).Count(&totalDrivers)
	db.Model(&models.Driver{}).Where("approval_status = ?", models.DriverApproved).Count(&approvedDrivers)
	db.Model(&models.Driver{}).Where("approval_status = ?", models.DriverPendingReview).Count(&pendingDrivers)

	var totalCourses, pendingCourses, runningCourses, completedCourses int64
	db.Model(&models.Course{}).Count(&totalCourses)
	db.Model(&models.Course{}).Where("status = ?", models.CoursePending).Count(&pendingCourses)
	db.Model(&models.Course{}).Where("status = ?", models.CourseInProgress).Count(&runningCourses)
	db.Model(&models.Course{}).Where("status = ?", models.CourseCompleted).Count(&completedCourses)

	var totalVehicles int64
	db.Model(&models.Vehicle{}).Count(&totalVehicles)

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	var monthRevenue float64
	db.Model(&models.Course{}).
		Where("status = ? AND ended_at >= ?", models.CourseCompleted, monthStart).
		Select("COALESCE(SUM(final_amount), 0)").
		Scan(&monthRevenue)

	var recentCourses int64
	db.Model(&models.Course{}).
		Where("created_at >= ?", now.AddDate(0, 0, -30)).
		Count(&recentCourses)

	c.JSON(http.StatusOK, gin.H{
		"total_users":       totalUsers,
		"total_drivers":     totalDrivers,
		"approved_drivers":  approvedDrivers,
		"pending_drivers":   pendingDrivers,
		"total_courses":     totalCourses,
		"pending_courses":   pendingCourses,
		"running_courses":   runningCourses,
		"completed_courses": completedCourses,
		"total_vehicles":    totalVehicles,
		"month_revenue":     monthRevenue,
		"courses_30d":       recentCourses,
	})
}

// AdminListCourses returns all courses, optionally filtered by ?status=.
func AdminListCourses(c *gin.Context) {
	status := c.Query("status")
	var (
		courses []models.Course
		err     error
	)
	if status != "" {
		courses, err = courseStore.ByStatus(status)
	} else {
		courses, err = courseStore.All()
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": courses})
}

// AdminCancelCourse force-cancels a course with a reason, even mid-course.
func AdminCancelCourse(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var payload reasonPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := courseService.AdminCancel(currentActor(c), id, payload.Reason); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "course cancelled"})
}

// AdminListDrivers returns drivers, optionally filtered by ?approval_status=.
func AdminListDrivers(c *gin.Context) {
	drivers, err := driverService.List(currentActor(c), c.Query("approval_status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": drivers})
}

// AdminGetDriver returns one driver profile.
func AdminGetDriver(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	driver, err := driverService.Get(currentActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"driver": driver})
}

// ApproveDriver makes the driver dispatchable.
func ApproveDriver(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	driver, err := driverService.Approve(currentActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "driver approved", "driver": driver})
}

// SuspendDriver puts a driver out of dispatch until reactivated.
func SuspendDriver(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var payload reasonPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	driver, err := driverService.Suspend(currentActor(c), id, payload.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "driver suspended", "driver": driver})
}

// BlockDriver permanently blocks a driver and deactivates the account.
func BlockDriver(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var payload reasonPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	driver, err := driverService.Block(currentActor(c), id, payload.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "driver blocked", "driver": driver})
}

// ReactivateDriver puts a suspended driver back in service.
func ReactivateDriver(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	driver, err := driverService.Reactivate(currentActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "driver reactivated", "driver": driver})
}
