package services

import (
	logrus "github.com/sirupsen/logrus"

	"github.com/MEMOUE/ApiLanayaGo/internal/apperrors"
	"github.com/MEMOUE/ApiLanayaGo/internal/models"
	"github.com/MEMOUE/ApiLanayaGo/internal/notify"
	"github.com/MEMOUE/ApiLanayaGo/internal/store"
)

// DispatchService binds a pending course to exactly one approved driver.
type DispatchService struct {
	courses  store.CourseStore
	drivers  store.DriverStore
	notifier *notify.Notifier
}

func NewDispatchService(courses store.CourseStore, drivers store.DriverStore, notifier *notify.Notifier) *DispatchService {
	return &DispatchService{courses: courses, drivers: drivers, notifier: notifier}
}

// Accept claims a pending course for the acting driver. Preconditions are
// checked in order (existence, availability, role, approval), then the claim
// itself is a single conditional update: of any number of concurrent
// claimants, exactly one wins and the rest observe the course as no longer
// available.
func (s *DispatchService) Accept(actor Actor, courseID uint) (*models.Course, error) {
	course, err := s.courses.ByID(courseID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, apperrors.New(apperrors.ErrNotFound, "course not found")
		}
		return nil, err
	}
	if course.Status != models.CoursePending {
		return nil, apperrors.New(apperrors.ErrCourseNoLongerAvailable, "this course is no longer available")
	}
	if actor.Role != models.RoleDriver {
		return nil, apperrors.New(apperrors.ErrRoleNotPermitted, "only drivers can accept courses")
	}

	driver, err := s.drivers.ByUserID(actor.ID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, apperrors.New(apperrors.ErrRoleNotPermitted, "no driver profile for this account")
		}
		return nil, err
	}
	if driver.ApprovalStatus != models.DriverApproved {
		return nil, apperrors.New(apperrors.ErrDriverNotApproved, "your driver account is not approved")
	}

	claimed, err := s.courses.ClaimPending(course.ID, driver.ID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, apperrors.New(apperrors.ErrCourseNoLongerAvailable, "this course is no longer available")
	}

	logrus.WithFields(logrus.Fields{
		"course_id": course.ID,
		"driver_id": driver.ID,
	}).Info("course accepted")

	accepted, err := s.courses.ByID(course.ID)
	if err != nil {
		return nil, err
	}
	s.notifier.CourseAccepted(accepted)
	return accepted, nil
}
