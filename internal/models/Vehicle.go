// internal/models/Vehicle.go
package models

import "gorm.io/gorm"

// Vehicle kinds. One table for both kinds with VehicleType as discriminant;
// the kind-specific columns are nullable and only one group is populated.
const (
	VehicleMoto = "MOTO"
	VehicleCar  = "VOITURE"
)

// Vehicle availability statuses.
const (
	VehicleAvailable   = "DISPONIBLE"
	VehicleOnCourse    = "EN_COURSE"
	VehicleMaintenance = "MAINTENANCE"
	VehicleUnavailable = "INDISPONIBLE"
)

type Vehicle struct {
	gorm.Model
	VehicleType string `json:"vehicle_type"` // "MOTO" or "VOITURE"
	Brand       string `json:"brand" binding:"required"`
	ModelName   string `json:"model" gorm:"column:model_name"`
	Color       string `json:"color"`
	Plate       string `json:"plate" gorm:"unique;not null"`
	Year        int    `json:"year"`
	PhotoURL    string `json:"photo_url,omitempty" gorm:"type:text"`

	OwnerID uint `json:"owner_id" gorm:"index"`
	Owner   User `gorm:"foreignKey:OwnerID" json:"owner"`

	Status string `json:"status" gorm:"default:DISPONIBLE"`
	Active bool   `json:"active" gorm:"default:true"`

	// MOTO only
	EngineCC *int `json:"engine_cc,omitempty"`

	// VOITURE only
	Seats           *int     `json:"seats,omitempty"`
	CargoCapacityKg *float64 `json:"cargo_capacity_kg,omitempty"`
}
