package services

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/MEMOUE/ApiLanayaGo/internal/apperrors"
	"github.com/MEMOUE/ApiLanayaGo/internal/models"
	"github.com/MEMOUE/ApiLanayaGo/internal/notify"
	"github.com/MEMOUE/ApiLanayaGo/internal/store"
)

type fixture struct {
	ms        *store.MemoryStore
	courses   *CourseService
	dispatch  *DispatchService
	driverSvc *DriverService
}

func newFixture() *fixture {
	ms := store.NewMemoryStore()
	n := notify.New()
	return &fixture{
		ms:        ms,
		courses:   NewCourseService(ms, n),
		dispatch:  NewDispatchService(ms, ms.Drivers(), n),
		driverSvc: NewDriverService(ms.Drivers(), ms.Users(), ms, n),
	}
}

func (f *fixture) seedUser(t *testing.T, role string) Actor {
	t.Helper()
	u := &models.User{Role: role, Active: true}
	if err := f.ms.CreateUser(u); err != nil {
		t.Fatal(err)
	}
	return Actor{ID: u.ID, Role: role}
}

func (f *fixture) seedDriver(t *testing.T, approval string) (Actor, *models.Driver) {
	t.Helper()
	actor := f.seedUser(t, models.RoleDriver)
	d := &models.Driver{UserID: actor.ID, LicenseNumber: "CI-" + approval, ApprovalStatus: approval}
	if err := f.ms.CreateDriver(d); err != nil {
		t.Fatal(err)
	}
	return actor, d
}

func sampleRequest() CourseRequest {
	pLat, pLng := 5.3600, -4.0083
	dLat, dLng := 5.3400, -4.0200
	return CourseRequest{
		CourseType:     models.CourseDeliveryMoto,
		PickupAddress:  "Plateau, Abidjan",
		PickupLat:      &pLat,
		PickupLng:      &pLng,
		DropoffAddress: "Treichville, Abidjan",
		DropoffLat:     &dLat,
		DropoffLng:     &dLng,
	}
}

func (f *fixture) createCourse(t *testing.T, client Actor) *models.Course {
	t.Helper()
	course, err := f.courses.Create(client, sampleRequest())
	if err != nil {
		t.Fatal(err)
	}
	return course
}

func TestCreateCoursePricesSynchronously(t *testing.T) {
	f := newFixture()
	client := f.seedUser(t, models.RoleClient)

	course := f.createCourse(t, client)

	if course.Status != models.CoursePending {
		t.Fatalf("new course status = %s, want EN_ATTENTE", course.Status)
	}
	if course.DriverID != nil {
		t.Fatal("new course must have no driver")
	}
	if course.DistanceKm < 2.5 || course.DistanceKm > 3.5 {
		t.Fatalf("distance = %f, want ~3 km", course.DistanceKm)
	}
	want := 500 + course.DistanceKm*100
	if math.Abs(course.EstimatedAmount-want) > 1e-9 {
		t.Fatalf("estimate = %f, want %f", course.EstimatedAmount, want)
	}
	if course.Ref == "" {
		t.Fatal("course ref not assigned")
	}
}

func TestCreateCourseRejectsMissingCoordinates(t *testing.T) {
	f := newFixture()
	client := f.seedUser(t, models.RoleClient)

	req := sampleRequest()
	req.DropoffLat = nil
	if _, err := f.courses.Create(client, req); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("err = %v, want InvalidInput", err)
	}

	req = sampleRequest()
	req.PickupAddress = ""
	if _, err := f.courses.Create(client, req); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("err = %v, want InvalidInput", err)
	}
}

func TestCreateCourseRejectsUnknownType(t *testing.T) {
	f := newFixture()
	client := f.seedUser(t, models.RoleClient)

	req := sampleRequest()
	req.CourseType = "MONTGOLFIERE"
	if _, err := f.courses.Create(client, req); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("err = %v, want InvalidInput", err)
	}
}

func TestListAvailableIsOldestFirst(t *testing.T) {
	f := newFixture()
	client := f.seedUser(t, models.RoleClient)

	first := f.createCourse(t, client)
	time.Sleep(2 * time.Millisecond)
	second := f.createCourse(t, client)

	pool, err := f.courses.ListAvailable()
	if err != nil {
		t.Fatal(err)
	}
	if len(pool) != 2 {
		t.Fatalf("pool size = %d, want 2", len(pool))
	}
	if pool[0].ID != first.ID || pool[1].ID != second.ID {
		t.Fatalf("pool order = [%d %d], want [%d %d]", pool[0].ID, pool[1].ID, first.ID, second.ID)
	}
}

func TestFullLifecycleStampsTimesAndFare(t *testing.T) {
	f := newFixture()
	client := f.seedUser(t, models.RoleClient)
	driverActor, driver := f.seedDriver(t, models.DriverApproved)

	course := f.createCourse(t, client)
	accepted, err := f.dispatch.Accept(driverActor, course.ID)
	if err != nil {
		t.Fatal(err)
	}
	if accepted.DriverID == nil || *accepted.DriverID != driver.ID {
		t.Fatal("accept did not bind the driver")
	}

	for _, target := range []string{models.CourseEnRoutePickup, models.CourseAtPickup} {
		c, err := f.courses.Transition(driverActor, course.ID, target)
		if err != nil {
			t.Fatalf("transition to %s: %v", target, err)
		}
		if c.StartedAt != nil {
			t.Fatalf("started_at stamped on %s", target)
		}
	}

	inProgress, err := f.courses.Transition(driverActor, course.ID, models.CourseInProgress)
	if err != nil {
		t.Fatal(err)
	}
	if inProgress.StartedAt == nil {
		t.Fatal("entering EN_COURS must stamp started_at")
	}
	if inProgress.EndedAt != nil || inProgress.FinalAmount != nil {
		t.Fatal("end fields set before completion")
	}

	done, err := f.courses.Transition(driverActor, course.ID, models.CourseCompleted)
	if err != nil {
		t.Fatal(err)
	}
	if done.EndedAt == nil {
		t.Fatal("completion must stamp ended_at")
	}
	if done.FinalAmount == nil || *done.FinalAmount != done.EstimatedAmount {
		t.Fatal("final amount must equal the estimate, no re-metering")
	}
}

func TestTransitionRejectsIllegalEdges(t *testing.T) {
	f := newFixture()
	client := f.seedUser(t, models.RoleClient)
	course := f.createCourse(t, client)

	// EN_COURS straight from EN_ATTENTE
	if _, err := f.courses.Transition(client, course.ID, models.CourseInProgress); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("err = %v, want InvalidTransition", err)
	}
	// ACCEPTEE is reserved for the accept operation
	if _, err := f.courses.Transition(client, course.ID, models.CourseAccepted); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("err = %v, want InvalidTransition", err)
	}
	// ANNULEE is reserved for the cancel operations
	if _, err := f.courses.Transition(client, course.ID, models.CourseCancelled); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("err = %v, want InvalidTransition", err)
	}
}

func TestTransitionRequiresParty(t *testing.T) {
	f := newFixture()
	client := f.seedUser(t, models.RoleClient)
	stranger := f.seedUser(t, models.RoleClient)
	driverActor, _ := f.seedDriver(t, models.DriverApproved)

	course := f.createCourse(t, client)
	if _, err := f.dispatch.Accept(driverActor, course.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := f.courses.Transition(stranger, course.ID, models.CourseEnRoutePickup); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("err = %v, want Unauthorized", err)
	}
	// the assigned driver passes
	if _, err := f.courses.Transition(driverActor, course.ID, models.CourseEnRoutePickup); err != nil {
		t.Fatal(err)
	}
}

func TestCancelRules(t *testing.T) {
	f := newFixture()
	client := f.seedUser(t, models.RoleClient)
	driverActor, _ := f.seedDriver(t, models.DriverApproved)

	// cancellable while pending
	pending := f.createCourse(t, client)
	if err := f.courses.Cancel(client, pending.ID); err != nil {
		t.Fatal(err)
	}
	got, _ := f.courses.Get(client, pending.ID)
	if got.Status != models.CourseCancelled {
		t.Fatalf("status = %s, want ANNULEE", got.Status)
	}

	// cancellable after acceptance, by the driver too
	accepted := f.createCourse(t, client)
	if _, err := f.dispatch.Accept(driverActor, accepted.ID); err != nil {
		t.Fatal(err)
	}
	if err := f.courses.Cancel(driverActor, accepted.ID); err != nil {
		t.Fatal(err)
	}

	// not cancellable once in progress
	running := f.createCourse(t, client)
	if _, err := f.dispatch.Accept(driverActor, running.ID); err != nil {
		t.Fatal(err)
	}
	for _, target := range []string{models.CourseEnRoutePickup, models.CourseAtPickup, models.CourseInProgress} {
		if _, err := f.courses.Transition(driverActor, running.ID, target); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.courses.Cancel(client, running.ID); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("err = %v, want InvalidTransition", err)
	}

	// nor when completed
	if _, err := f.courses.Transition(driverActor, running.ID, models.CourseCompleted); err != nil {
		t.Fatal(err)
	}
	if err := f.courses.Cancel(client, running.ID); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("err = %v, want InvalidTransition", err)
	}
}

func TestAdminCancel(t *testing.T) {
	f := newFixture()
	client := f.seedUser(t, models.RoleClient)
	admin := f.seedUser(t, models.RoleAdmin)
	driverActor, _ := f.seedDriver(t, models.DriverApproved)

	course, err := f.courses.Create(client, func() CourseRequest {
		r := sampleRequest()
		r.ClientNote = "fragile package, call on arrival"
		return r
	}())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.dispatch.Accept(driverActor, course.ID); err != nil {
		t.Fatal(err)
	}
	for _, target := range []string{models.CourseEnRoutePickup, models.CourseAtPickup, models.CourseInProgress} {
		if _, err := f.courses.Transition(driverActor, course.ID, target); err != nil {
			t.Fatal(err)
		}
	}

	// a client cannot force-cancel
	if err := f.courses.AdminCancel(client, course.ID, "x"); !errors.Is(err, apperrors.ErrRoleNotPermitted) {
		t.Fatalf("err = %v, want RoleNotPermitted", err)
	}

	// an admin can, even mid-course, without touching the client note
	if err := f.courses.AdminCancel(admin, course.ID, "driver reported an accident"); err != nil {
		t.Fatal(err)
	}
	got, err := f.courses.Get(admin, course.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.CourseCancelled {
		t.Fatalf("status = %s, want ANNULEE", got.Status)
	}
	if got.CancellationReason != "driver reported an accident" {
		t.Fatalf("cancellation reason = %q", got.CancellationReason)
	}
	if got.ClientNote != "fragile package, call on arrival" {
		t.Fatalf("client note clobbered: %q", got.ClientNote)
	}
}

func TestAdminCancelCompletedFails(t *testing.T) {
	f := newFixture()
	client := f.seedUser(t, models.RoleClient)
	admin := f.seedUser(t, models.RoleAdmin)
	driverActor, _ := f.seedDriver(t, models.DriverApproved)

	course := f.createCourse(t, client)
	if _, err := f.dispatch.Accept(driverActor, course.ID); err != nil {
		t.Fatal(err)
	}
	for _, target := range []string{models.CourseEnRoutePickup, models.CourseAtPickup, models.CourseInProgress, models.CourseCompleted} {
		if _, err := f.courses.Transition(driverActor, course.ID, target); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.courses.AdminCancel(admin, course.ID, "too late"); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("err = %v, want InvalidTransition", err)
	}
}

func TestGetCourseVisibility(t *testing.T) {
	f := newFixture()
	client := f.seedUser(t, models.RoleClient)
	stranger := f.seedUser(t, models.RoleClient)
	admin := f.seedUser(t, models.RoleAdmin)

	course := f.createCourse(t, client)

	if _, err := f.courses.Get(client, course.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.courses.Get(admin, course.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.courses.Get(stranger, course.ID); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("err = %v, want Unauthorized", err)
	}
	if _, err := f.courses.Get(client, 9999); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("err = %v, want NotFound", err)
	}
}
