package services

import (
	"time"

	"github.com/google/uuid"
	logrus "github.com/sirupsen/logrus"

	"github.com/MEMOUE/ApiLanayaGo/internal/apperrors"
	"github.com/MEMOUE/ApiLanayaGo/internal/models"
	"github.com/MEMOUE/ApiLanayaGo/internal/notify"
	"github.com/MEMOUE/ApiLanayaGo/internal/pricing"
	"github.com/MEMOUE/ApiLanayaGo/internal/store"
)

// CourseRequest carries the client's creation input. Coordinates are pointers
// so a missing field is distinguishable from zero (the equator exists).
type CourseRequest struct {
	CourseType         string   `json:"course_type" binding:"required"`
	PickupAddress      string   `json:"pickup_address" binding:"required"`
	PickupLat          *float64 `json:"pickup_lat" binding:"required"`
	PickupLng          *float64 `json:"pickup_lng" binding:"required"`
	DropoffAddress     string   `json:"dropoff_address" binding:"required"`
	DropoffLat         *float64 `json:"dropoff_lat" binding:"required"`
	DropoffLng         *float64 `json:"dropoff_lng" binding:"required"`
	PackageDescription string   `json:"package_description"`
	PackageWeightKg    *float64 `json:"package_weight_kg"`
	PassengerCount     *int     `json:"passenger_count"`
	ClientNote         string   `json:"client_note"`
}

// CourseService drives a course from creation to a terminal status.
type CourseService struct {
	courses  store.CourseStore
	notifier *notify.Notifier
}

func NewCourseService(courses store.CourseStore, notifier *notify.Notifier) *CourseService {
	return &CourseService{courses: courses, notifier: notifier}
}

// transitionSources lists the legal lifecycle edges as target → required
// source. Acceptance and cancellation have dedicated operations and are
// deliberately absent; any target not in this table is rejected.
var transitionSources = map[string]string{
	models.CourseEnRoutePickup: models.CourseAccepted,
	models.CourseAtPickup:      models.CourseEnRoutePickup,
	models.CourseInProgress:    models.CourseAtPickup,
	models.CourseCompleted:     models.CourseInProgress,
}

// Create builds a course in EN_ATTENTE for the acting client, pricing it
// synchronously. Distance and estimate are always set before the course is
// ever visible.
func (s *CourseService) Create(client Actor, req CourseRequest) (*models.Course, error) {
	if req.PickupAddress == "" || req.DropoffAddress == "" {
		return nil, apperrors.New(apperrors.ErrInvalidInput, "pickup and dropoff addresses are required")
	}
	if req.PickupLat == nil || req.PickupLng == nil || req.DropoffLat == nil || req.DropoffLng == nil {
		return nil, apperrors.New(apperrors.ErrInvalidInput, "pickup and dropoff coordinates are required")
	}

	distance, amount, err := pricing.Estimate(req.CourseType,
		*req.PickupLat, *req.PickupLng, *req.DropoffLat, *req.DropoffLng)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrInvalidInput, err.Error())
	}

	course := &models.Course{
		Ref:                uuid.NewString(),
		CourseType:         req.CourseType,
		ClientID:           client.ID,
		PickupAddress:      req.PickupAddress,
		PickupLat:          *req.PickupLat,
		PickupLng:          *req.PickupLng,
		DropoffAddress:     req.DropoffAddress,
		DropoffLat:         *req.DropoffLat,
		DropoffLng:         *req.DropoffLng,
		PackageDescription: req.PackageDescription,
		PackageWeightKg:    req.PackageWeightKg,
		PassengerCount:     req.PassengerCount,
		DistanceKm:         distance,
		EstimatedAmount:    amount,
		ClientNote:         req.ClientNote,
		Status:             models.CoursePending,
	}
	if err := s.courses.Create(course); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"course_id":        course.ID,
		"course_type":      course.CourseType,
		"client_id":        client.ID,
		"distance_km":      distance,
		"estimated_amount": amount,
	}).Info("course created")

	s.notifier.CourseCreated(course)
	return course, nil
}

// Get returns a course to its client, its assigned driver, or an admin.
func (s *CourseService) Get(actor Actor, id uint) (*models.Course, error) {
	course, err := s.courses.ByID(id)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, apperrors.New(apperrors.ErrNotFound, "course not found")
		}
		return nil, err
	}
	if !actor.IsAdmin() && !canActOnCourse(actor, course) {
		return nil, apperrors.New(apperrors.ErrUnauthorized, "you are not a party to this course")
	}
	return course, nil
}

// ListAvailable returns the pending pool, oldest first.
func (s *CourseService) ListAvailable() ([]models.Course, error) {
	return s.courses.PendingOrdered()
}

// ListForUser returns the actor's courses, as client or as driver.
func (s *CourseService) ListForUser(actor Actor) ([]models.Course, error) {
	return s.courses.ByParty(actor.ID)
}

// Transition moves a course along the lifecycle. Only the edges in
// transitionSources are legal; entering EN_COURS stamps the start time and
// entering TERMINEE stamps the end time and freezes the fare.
func (s *CourseService) Transition(actor Actor, id uint, target string) (*models.Course, error) {
	course, err := s.courses.ByID(id)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, apperrors.New(apperrors.ErrNotFound, "course not found")
		}
		return nil, err
	}
	if !canActOnCourse(actor, course) {
		return nil, apperrors.New(apperrors.ErrUnauthorized, "you are not a party to this course")
	}

	source, ok := transitionSources[target]
	if !ok {
		return nil, apperrors.New(apperrors.ErrInvalidTransition, "unknown or reserved target status "+target)
	}
	if course.Status != source {
		return nil, apperrors.New(apperrors.ErrInvalidTransition,
			"cannot move a course from "+course.Status+" to "+target)
	}

	now := time.Now()
	course.Status = target
	switch target {
	case models.CourseInProgress:
		course.StartedAt = &now
	case models.CourseCompleted:
		course.EndedAt = &now
		final := course.EstimatedAmount // no re-metering
		course.FinalAmount = &final
	}

	applied, err := s.courses.UpdateFrom(course, source)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, apperrors.New(apperrors.ErrConflictRetryable, "course was updated concurrently")
	}

	logrus.WithFields(logrus.Fields{
		"course_id": course.ID,
		"from":      source,
		"to":        target,
		"actor_id":  actor.ID,
	}).Info("course status changed")

	switch target {
	case models.CourseAtPickup:
		s.notifier.DriverAtPickup(course)
	case models.CourseCompleted:
		s.notifier.CourseCompleted(course)
	}
	return course, nil
}

// Cancel lets the client or the assigned driver cancel a course that has not
// yet started. No timestamp is stamped for cancellation.
func (s *CourseService) Cancel(actor Actor, id uint) error {
	course, err := s.courses.ByID(id)
	if err != nil {
		if store.IsNotFound(err) {
			return apperrors.New(apperrors.ErrNotFound, "course not found")
		}
		return err
	}
	if !canActOnCourse(actor, course) {
		return apperrors.New(apperrors.ErrUnauthorized, "you are not a party to this course")
	}
	if course.Status == models.CourseInProgress || course.Status == models.CourseCompleted {
		return apperrors.New(apperrors.ErrInvalidTransition, "cannot cancel a course that is in progress or completed")
	}

	expected := course.Status
	course.Status = models.CourseCancelled
	applied, err := s.courses.UpdateFrom(course, expected)
	if err != nil {
		return err
	}
	if !applied {
		return apperrors.New(apperrors.ErrConflictRetryable, "course was updated concurrently")
	}

	logrus.WithFields(logrus.Fields{
		"course_id": course.ID,
		"actor_id":  actor.ID,
	}).Info("course cancelled")
	return nil
}

// AdminCancel force-cancels a course, even one in progress. The reason goes to
// the dedicated cancellation field, never over the client's note.
func (s *CourseService) AdminCancel(actor Actor, id uint, reason string) error {
	if !actor.IsAdmin() {
		return apperrors.New(apperrors.ErrRoleNotPermitted, "administrator capability required")
	}
	course, err := s.courses.ByID(id)
	if err != nil {
		if store.IsNotFound(err) {
			return apperrors.New(apperrors.ErrNotFound, "course not found")
		}
		return err
	}
	if course.Status == models.CourseCompleted {
		return apperrors.New(apperrors.ErrInvalidTransition, "cannot cancel a completed course")
	}

	expected := course.Status
	course.Status = models.CourseCancelled
	course.CancellationReason = reason
	applied, err := s.courses.UpdateFrom(course, expected)
	if err != nil {
		return err
	}
	if !applied {
		return apperrors.New(apperrors.ErrConflictRetryable, "course was updated concurrently")
	}

	logrus.WithFields(logrus.Fields{
		"course_id": course.ID,
		"admin_id":  actor.ID,
		"reason":    reason,
	}).Warn("course force-cancelled by administrator")
	return nil
}
