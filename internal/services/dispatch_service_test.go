package services

import (
	"errors"
	"sync"
	"testing"

	"github.com/MEMOUE/ApiLanayaGo/internal/apperrors"
	"github.com/MEMOUE/ApiLanayaGo/internal/models"
)

func TestAcceptBindsExactlyOneDriver(t *testing.T) {
	f := newFixture()
	client := f.seedUser(t, models.RoleClient)
	first, firstDriver := f.seedDriver(t, models.DriverApproved)
	second, _ := f.seedDriver(t, models.DriverApproved)

	course := f.createCourse(t, client)

	accepted, err := f.dispatch.Accept(first, course.ID)
	if err != nil {
		t.Fatal(err)
	}
	if accepted.Status != models.CourseAccepted {
		t.Fatalf("status = %s, want ACCEPTEE", accepted.Status)
	}
	if accepted.DriverID == nil || *accepted.DriverID != firstDriver.ID {
		t.Fatal("wrong driver bound")
	}

	if _, err := f.dispatch.Accept(second, course.ID); !errors.Is(err, apperrors.ErrCourseNoLongerAvailable) {
		t.Fatalf("second accept: err = %v, want CourseNoLongerAvailable", err)
	}
	got, _ := f.courses.Get(client, course.ID)
	if *got.DriverID != firstDriver.ID {
		t.Fatal("loser overwrote the winner")
	}
}

func TestAcceptPreconditionsCheckedInOrder(t *testing.T) {
	f := newFixture()
	client := f.seedUser(t, models.RoleClient)

	// (a) existence
	if _, err := f.dispatch.Accept(client, 42); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("err = %v, want NotFound", err)
	}

	course := f.createCourse(t, client)

	// (c) role: a client on a pending course
	if _, err := f.dispatch.Accept(client, course.ID); !errors.Is(err, apperrors.ErrRoleNotPermitted) {
		t.Fatalf("err = %v, want RoleNotPermitted", err)
	}

	// (d) approval
	for _, status := range []string{models.DriverPendingReview, models.DriverSuspended, models.DriverBlocked} {
		actor, _ := f.seedDriver(t, status)
		if _, err := f.dispatch.Accept(actor, course.ID); !errors.Is(err, apperrors.ErrDriverNotApproved) {
			t.Fatalf("approval %s: err = %v, want DriverNotApproved", status, err)
		}
	}

	// (b) beats (c): once the course is claimed, a client gets availability,
	// not a role error
	winner, _ := f.seedDriver(t, models.DriverApproved)
	if _, err := f.dispatch.Accept(winner, course.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.dispatch.Accept(client, course.ID); !errors.Is(err, apperrors.ErrCourseNoLongerAvailable) {
		t.Fatalf("err = %v, want CourseNoLongerAvailable", err)
	}
}

func TestConcurrentAcceptSingleWinner(t *testing.T) {
	f := newFixture()
	client := f.seedUser(t, models.RoleClient)
	course := f.createCourse(t, client)

	const contenders = 16
	actors := make([]Actor, contenders)
	for i := range actors {
		actors[i], _ = f.seedDriver(t, models.DriverApproved)
	}

	var wg sync.WaitGroup
	results := make([]error, contenders)
	for i := range actors {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = f.dispatch.Accept(actors[i], course.ID)
		}(i)
	}
	wg.Wait()

	var wins, losses int
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, apperrors.ErrCourseNoLongerAvailable):
			losses++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("wins = %d, want exactly 1", wins)
	}
	if losses != contenders-1 {
		t.Fatalf("losses = %d, want %d", losses, contenders-1)
	}

	got, err := f.courses.Get(client, course.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.CourseAccepted || got.DriverID == nil {
		t.Fatal("course left in an inconsistent state after the race")
	}
}
