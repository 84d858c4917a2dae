// Package notify delivers best-effort notifications to the parties of a
// course. Delivery is fire-and-forget: a failed or missing channel never rolls
// back the state change that triggered it. The current backend writes to the
// application log; push/SMS integration plugs in behind the same methods.
package notify

import (
	logrus "github.com/sirupsen/logrus"

	"github.com/MEMOUE/ApiLanayaGo/internal/models"
)

type Notifier struct{}

func New() *Notifier {
	return &Notifier{}
}

func (n *Notifier) CourseCreated(course *models.Course) {
	logrus.WithFields(logrus.Fields{
		"course_id":   course.ID,
		"course_ref":  course.Ref,
		"course_type": course.CourseType,
	}).Info("new course available for dispatch")
}

func (n *Notifier) CourseAccepted(course *models.Course) {
	logrus.WithFields(logrus.Fields{
		"course_id": course.ID,
		"client_id": course.ClientID,
		"driver_id": course.DriverID,
	}).Info("course accepted, client notified")
}

func (n *Notifier) DriverAtPickup(course *models.Course) {
	logrus.WithFields(logrus.Fields{
		"course_id": course.ID,
		"client_id": course.ClientID,
	}).Info("driver arrived at pickup, client notified")
}

func (n *Notifier) CourseCompleted(course *models.Course) {
	logrus.WithFields(logrus.Fields{
		"course_id":    course.ID,
		"client_id":    course.ClientID,
		"final_amount": course.FinalAmount,
	}).Info("course completed, client notified")
}

func (n *Notifier) DriverSuspended(driver *models.Driver, reason string) {
	logrus.WithFields(logrus.Fields{
		"driver_id": driver.ID,
		"reason":    reason,
	}).Info("driver suspension notice sent")
}

func (n *Notifier) DriverBlocked(driver *models.Driver, reason string) {
	logrus.WithFields(logrus.Fields{
		"driver_id": driver.ID,
		"reason":    reason,
	}).Info("driver block notice sent")
}
