package models

import "gorm.io/gorm"

// Account roles. Drivers carry an extra Driver profile record on top of the
// base account; owners register vehicles.
const (
	RoleClient = "client"
	RoleDriver = "driver"
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
)

type User struct {
	gorm.Model
	LastName  string `json:"last_name"`
	FirstName string `json:"first_name"`
	Email     string `json:"email" gorm:"unique"`
	Password  string `json:"-"`
	Phone     string `json:"phone"`
	Role      string `json:"role"` // "client", "driver", "owner", "admin"
	Active    bool   `json:"active" gorm:"default:true"`

	// Actor-specific relations
	Driver *Driver `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"driver,omitempty"`
}
