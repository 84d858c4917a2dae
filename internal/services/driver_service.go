package services

import (
	"time"

	logrus "github.com/sirupsen/logrus"

	"github.com/MEMOUE/ApiLanayaGo/internal/apperrors"
	"github.com/MEMOUE/ApiLanayaGo/internal/models"
	"github.com/MEMOUE/ApiLanayaGo/internal/notify"
	"github.com/MEMOUE/ApiLanayaGo/internal/store"
)

// DriverService owns the approval lifecycle that gates dispatch eligibility,
// plus driver-facing profile queries.
type DriverService struct {
	drivers  store.DriverStore
	users    store.UserStore
	courses  store.CourseStore
	notifier *notify.Notifier
}

func NewDriverService(drivers store.DriverStore, users store.UserStore, courses store.CourseStore, notifier *notify.Notifier) *DriverService {
	return &DriverService{drivers: drivers, users: users, courses: courses, notifier: notifier}
}

func (s *DriverService) byID(id uint) (*models.Driver, error) {
	driver, err := s.drivers.ByID(id)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, apperrors.New(apperrors.ErrNotFound, "driver not found")
		}
		return nil, err
	}
	return driver, nil
}

// Approve moves a driver to APPROUVE, making them dispatchable.
func (s *DriverService) Approve(actor Actor, driverID uint) (*models.Driver, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.New(apperrors.ErrRoleNotPermitted, "administrator capability required")
	}
	driver, err := s.byID(driverID)
	if err != nil {
		return nil, err
	}
	if driver.ApprovalStatus == models.DriverApproved {
		return nil, apperrors.New(apperrors.ErrInvalidTransition, "this driver is already approved")
	}

	driver.ApprovalStatus = models.DriverApproved
	if err := s.drivers.Save(driver); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"driver_id": driver.ID, "admin_id": actor.ID}).Info("driver approved")
	return driver, nil
}

// Suspend sets SUSPENDU unconditionally. The reason is notified and logged,
// not persisted on the driver record.
func (s *DriverService) Suspend(actor Actor, driverID uint, reason string) (*models.Driver, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.New(apperrors.ErrRoleNotPermitted, "administrator capability required")
	}
	driver, err := s.byID(driverID)
	if err != nil {
		return nil, err
	}

	driver.ApprovalStatus = models.DriverSuspended
	if err := s.drivers.Save(driver); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"driver_id": driver.ID,
		"admin_id":  actor.ID,
		"reason":    reason,
	}).Warn("driver suspended")
	s.notifier.DriverSuspended(driver, reason)
	return driver, nil
}

// Block sets BLOQUE and deactivates the underlying account. Blocking is
// permanent.
func (s *DriverService) Block(actor Actor, driverID uint, reason string) (*models.Driver, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.New(apperrors.ErrRoleNotPermitted, "administrator capability required")
	}
	driver, err := s.byID(driverID)
	if err != nil {
		return nil, err
	}

	driver.ApprovalStatus = models.DriverBlocked
	if err := s.drivers.Save(driver); err != nil {
		return nil, err
	}
	if user, err := s.users.ByID(driver.UserID); err == nil {
		user.Active = false
		if err := s.users.Save(user); err != nil {
			return nil, err
		}
	}
	logrus.WithFields(logrus.Fields{
		"driver_id": driver.ID,
		"admin_id":  actor.ID,
		"reason":    reason,
	}).Warn("driver blocked")
	s.notifier.DriverBlocked(driver, reason)
	return driver, nil
}

// Reactivate returns a suspended or pending driver to APPROUVE and
// reactivates the account. A blocked driver stays blocked.
func (s *DriverService) Reactivate(actor Actor, driverID uint) (*models.Driver, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.New(apperrors.ErrRoleNotPermitted, "administrator capability required")
	}
	driver, err := s.byID(driverID)
	if err != nil {
		return nil, err
	}
	if driver.ApprovalStatus == models.DriverBlocked {
		return nil, apperrors.New(apperrors.ErrInvalidTransition, "a blocked driver cannot be reactivated")
	}

	driver.ApprovalStatus = models.DriverApproved
	if err := s.drivers.Save(driver); err != nil {
		return nil, err
	}
	if user, err := s.users.ByID(driver.UserID); err == nil {
		user.Active = true
		if err := s.users.Save(user); err != nil {
			return nil, err
		}
	}
	logrus.WithFields(logrus.Fields{"driver_id": driver.ID, "admin_id": actor.ID}).Info("driver reactivated")
	return driver, nil
}

// Profile returns the acting driver's own profile.
func (s *DriverService) Profile(actor Actor) (*models.Driver, error) {
	driver, err := s.drivers.ByUserID(actor.ID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, apperrors.New(apperrors.ErrRoleNotPermitted, "no driver profile for this account")
		}
		return nil, err
	}
	return driver, nil
}

// Get returns a driver profile to an administrator.
func (s *DriverService) Get(actor Actor, driverID uint) (*models.Driver, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.New(apperrors.ErrRoleNotPermitted, "administrator capability required")
	}
	return s.byID(driverID)
}

// List returns all drivers, optionally filtered by approval status.
func (s *DriverService) List(actor Actor, approvalStatus string) ([]models.Driver, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.New(apperrors.ErrRoleNotPermitted, "administrator capability required")
	}
	if approvalStatus != "" {
		return s.drivers.ByApprovalStatus(approvalStatus)
	}
	return s.drivers.All()
}

// Stats summarises the acting driver's activity: lifetime counters plus the
// last 30 days of courses and earnings.
func (s *DriverService) Stats(actor Actor) (map[string]interface{}, error) {
	driver, err := s.Profile(actor)
	if err != nil {
		return nil, err
	}
	courses, err := s.courses.ByParty(actor.ID)
	if err != nil {
		return nil, err
	}

	since := time.Now().AddDate(0, 0, -30)
	var recent int
	var earnings float64
	for _, c := range courses {
		if c.CreatedAt.After(since) {
			recent++
			if c.FinalAmount != nil {
				earnings += *c.FinalAmount
			}
		}
	}

	return map[string]interface{}{
		"completed_courses": driver.CompletedCourses,
		"rating":            driver.Rating,
		"approval_status":   driver.ApprovalStatus,
		"courses_30d":       recent,
		"earnings_30d":      earnings,
	}, nil
}
