package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MEMOUE/ApiLanayaGo/internal/services"
)

// CreateCourse builds a new course for the authenticated client and prices it.
func CreateCourse(c *gin.Context) {
	var req services.CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	course, err := courseService.Create(currentActor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"course": course})
}

// GetCourse returns one course to its client, assigned driver, or an admin.
func GetCourse(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	course, err := courseService.Get(currentActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"course": course})
}

// ListMyCourses returns the authenticated user's courses, whether they are
// the client or the driver.
func ListMyCourses(c *gin.Context) {
	courses, err := courseService.ListForUser(currentActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": courses})
}

// ListAvailableCourses returns the pending pool, oldest first, for drivers to
// claim from.
func ListAvailableCourses(c *gin.Context) {
	courses, err := courseService.ListAvailable()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": courses})
}

// AcceptCourse lets the authenticated driver claim a pending course.
func AcceptCourse(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	course, err := dispatchService.Accept(currentActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "course accepted",
		"course":  course,
	})
}

type transitionPayload struct {
	Status string `json:"status" binding:"required"`
}

// TransitionCourseStatus moves a course along its lifecycle.
func TransitionCourseStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var payload transitionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	course, err := courseService.Transition(currentActor(c), id, payload.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"course": course})
}

// CancelCourse cancels a course that has not started, on behalf of its client
// or driver.
func CancelCourse(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := courseService.Cancel(currentActor(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "course cancelled"})
}
