// internal/models/Course.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// Course types, each with its own fare table entry.
const (
	CourseDeliveryMoto = "LIVRAISON_MOTO"
	CoursePassenger    = "TRANSPORT_PERSONNE"
	CourseCargo        = "TRANSPORT_MARCHANDISE"
)

// Course lifecycle statuses. TERMINEE and ANNULEE are terminal.
const (
	CoursePending       = "EN_ATTENTE"      // created by the client, waiting for a driver
	CourseAccepted      = "ACCEPTEE"        // claimed by exactly one driver
	CourseEnRoutePickup = "EN_ROUTE_DEPART" // driver heading to the pickup point
	CourseAtPickup      = "ARRIVEE_DEPART"  // driver at the pickup point
	CourseInProgress    = "EN_COURS"
	CourseCompleted     = "TERMINEE"
	CourseCancelled     = "ANNULEE"
)

type Course struct {
	gorm.Model
	Ref        string `json:"ref" gorm:"unique;not null"` // public reference code
	CourseType string `json:"course_type" gorm:"not null"`

	ClientID uint `json:"client_id" gorm:"not null;index"`
	Client   User `gorm:"foreignKey:ClientID" json:"client"`

	// Set exactly once, by the accept operation.
	DriverID *uint   `json:"driver_id,omitempty" gorm:"index"`
	Driver   *Driver `gorm:"foreignKey:DriverID" json:"driver,omitempty"`

	VehicleID *uint    `json:"vehicle_id,omitempty"`
	Vehicle   *Vehicle `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`

	PickupAddress  string  `json:"pickup_address" gorm:"not null"`
	PickupLat      float64 `json:"pickup_lat"`
	PickupLng      float64 `json:"pickup_lng"`
	DropoffAddress string  `json:"dropoff_address" gorm:"not null"`
	DropoffLat     float64 `json:"dropoff_lat"`
	DropoffLng     float64 `json:"dropoff_lng"`

	// Delivery metadata
	PackageDescription string   `json:"package_description,omitempty" gorm:"type:text"`
	PackageWeightKg    *float64 `json:"package_weight_kg,omitempty"`

	// Passenger transport metadata
	PassengerCount *int `json:"passenger_count,omitempty"`

	// Pricing, computed at creation. FinalAmount is set on completion only.
	DistanceKm      float64  `json:"distance_km"`
	EstimatedAmount float64  `json:"estimated_amount"`
	FinalAmount     *float64 `json:"final_amount,omitempty"`

	Status string `json:"status" gorm:"default:EN_ATTENTE;index"`

	StartedAt *time.Time `json:"started_at,omitempty"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`

	// ClientNote is the client's free-text note for the driver.
	// CancellationReason is written by an administrator force-cancel; the two
	// are deliberately separate columns so the admin never clobbers the note.
	ClientNote         string `json:"client_note,omitempty" gorm:"type:text"`
	CancellationReason string `json:"cancellation_reason,omitempty" gorm:"type:text"`
}

// Terminal reports whether no further lifecycle transition is permitted.
func (c *Course) Terminal() bool {
	return c.Status == CourseCompleted || c.Status == CourseCancelled
}
