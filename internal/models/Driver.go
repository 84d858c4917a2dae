// internal/models/Driver.go
package models

import "gorm.io/gorm"

// Driver approval statuses. Values are the persisted enum strings of the
// original platform and its mobile clients, so they stay in French.
const (
	DriverPendingReview = "EN_ATTENTE"
	DriverApproved      = "APPROUVE"
	DriverSuspended     = "SUSPENDU"
	DriverBlocked       = "BLOQUE" // permanent, no way back
)

type Driver struct {
	gorm.Model
	UserID uint `json:"user_id" gorm:"unique"` // Foreign key to User
	User   User `gorm:"foreignKey:UserID" json:"user"`

	LicenseNumber  string `json:"license_number" gorm:"size:15;unique;not null"`
	LicensePhoto   string `json:"license_photo,omitempty" gorm:"type:text"`
	ApprovalStatus string `json:"approval_status" gorm:"default:EN_ATTENTE"`

	// Rating and CompletedCourses are maintained by the evaluation subsystem;
	// dispatch only reads them.
	Rating           float64 `json:"rating" gorm:"default:0"`
	CompletedCourses int     `json:"completed_courses" gorm:"default:0"`

	CurrentVehicleID *uint    `json:"current_vehicle_id,omitempty"`
	CurrentVehicle   *Vehicle `gorm:"foreignKey:CurrentVehicleID" json:"current_vehicle,omitempty"`
}
