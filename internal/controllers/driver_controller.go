package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetDriverProfile returns the authenticated driver's own profile, current
// vehicle included.
func GetDriverProfile(c *gin.Context) {
	driver, err := driverService.Profile(currentActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"driver": driver})
}

// GetDriverStats summarises the authenticated driver's activity and earnings.
func GetDriverStats(c *gin.Context) {
	stats, err := driverService.Stats(currentActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
