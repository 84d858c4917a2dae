// Package store is the persistence boundary of the dispatch core. The
// Postgres implementation backs the API; the in-memory implementation backs
// the service tests.
package store

import "github.com/MEMOUE/ApiLanayaGo/internal/models"

// CourseStore persists courses. ClaimPending is the single atomic conditional
// update the accept protocol relies on; UpdateFrom is the optimistic
// read-modify-write used by every other lifecycle change.
type CourseStore interface {
	Create(c *models.Course) error

	// ByID loads a course with its client, driver (and the driver's user) and
	// vehicle. Returns models-level not-found as gorm.ErrRecordNotFound from
	// the Postgres store and ErrRecordMissing from the memory store; callers
	// match via IsNotFound.
	ByID(id uint) (*models.Course, error)

	// PendingOrdered returns courses in EN_ATTENTE ordered by creation time
	// ascending. Oldest-first is the dispatch fairness policy.
	PendingOrdered() ([]models.Course, error)

	// ByParty returns the courses a user is involved in, as client or as the
	// assigned driver.
	ByParty(userID uint) ([]models.Course, error)

	ByStatus(status string) ([]models.Course, error)
	All() ([]models.Course, error)

	// ClaimPending binds driverID to the course and moves it to ACCEPTEE, only
	// if the course is still EN_ATTENTE. Returns false when the claim lost the
	// race (or the course already progressed). This must be a single
	// conditional update, never a read-then-write.
	ClaimPending(courseID, driverID uint) (bool, error)

	// UpdateFrom persists the lifecycle fields of c, only if the stored status
	// still equals expected. Returns false when another writer got there
	// first.
	UpdateFrom(c *models.Course, expected string) (bool, error)
}

// DriverStore persists driver profiles.
type DriverStore interface {
	Create(d *models.Driver) error
	ByID(id uint) (*models.Driver, error)
	ByUserID(userID uint) (*models.Driver, error)
	ByApprovalStatus(status string) ([]models.Driver, error)
	All() ([]models.Driver, error)
	Save(d *models.Driver) error
	LicenseExists(number string) (bool, error)
}

// UserStore covers the few base-account operations the core needs (blocking a
// driver deactivates the account).
type UserStore interface {
	ByID(id uint) (*models.User, error)
	Save(u *models.User) error
}

// VehicleStore persists vehicles.
type VehicleStore interface {
	Create(v *models.Vehicle) error
	ByID(id uint) (*models.Vehicle, error)
	ByOwner(ownerID uint) ([]models.Vehicle, error)
	Available() ([]models.Vehicle, error)
	Save(v *models.Vehicle) error
	PlateExists(plate string) (bool, error)
}
