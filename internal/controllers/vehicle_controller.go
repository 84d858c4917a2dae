package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MEMOUE/ApiLanayaGo/internal/services"
)

// CreateVehicle registers a vehicle for the authenticated owner.
func CreateVehicle(c *gin.Context) {
	var req services.VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	vehicle, err := vehicleService.Create(currentActor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"vehicle": vehicle})
}

// ListMyVehicles returns the authenticated owner's fleet.
func ListMyVehicles(c *gin.Context) {
	vehicles, err := vehicleService.Mine(currentActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": vehicles})
}

// GetVehicle returns one vehicle to its owner or an admin.
func GetVehicle(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	vehicle, err := vehicleService.Get(currentActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle})
}

// UpdateVehicle modifies a vehicle's descriptive fields.
func UpdateVehicle(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req services.VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	vehicle, err := vehicleService.Update(currentActor(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle})
}

// RetireVehicle soft-deletes a vehicle from the fleet.
func RetireVehicle(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := vehicleService.Retire(currentActor(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "vehicle retired"})
}

type assignDriverPayload struct {
	DriverID uint `json:"driver_id" binding:"required"`
}

// AssignVehicleDriver makes the vehicle the given driver's current one.
func AssignVehicleDriver(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var payload assignDriverPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	vehicle, err := vehicleService.AssignDriver(currentActor(c), id, payload.DriverID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "driver assigned", "vehicle": vehicle})
}

type vehicleStatusPayload struct {
	Status string `json:"status" binding:"required"`
}

// UpdateVehicleStatus changes a vehicle's availability status.
func UpdateVehicleStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var payload vehicleStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	vehicle, err := vehicleService.SetStatus(currentActor(c), id, payload.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle})
}

// ListAvailableVehicles returns active vehicles ready for a course.
func ListAvailableVehicles(c *gin.Context) {
	vehicles, err := vehicleService.Available()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": vehicles})
}
