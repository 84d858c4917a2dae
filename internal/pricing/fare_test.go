package pricing

import (
	"math"
	"testing"

	"github.com/MEMOUE/ApiLanayaGo/internal/models"
)

func TestHaversineZeroForSamePoint(t *testing.T) {
	if d := Haversine(5.36, -4.0083, 5.36, -4.0083); d != 0 {
		t.Fatalf("expected 0 km for identical points, got %f", d)
	}
}

func TestHaversineNeverNegative(t *testing.T) {
	points := [][4]float64{
		{5.36, -4.0083, 5.34, -4.02},
		{-33.86, 151.20, 40.71, -74.00},
		{0, 0, 0, 180},
		{89.9, 0, -89.9, 0},
	}
	for _, p := range points {
		if d := Haversine(p[0], p[1], p[2], p[3]); d < 0 {
			t.Errorf("negative distance %f for %v", d, p)
		}
	}
}

func TestHaversineAbidjanSample(t *testing.T) {
	// Plateau to Treichville, roughly 3 km.
	d := Haversine(5.3600, -4.0083, 5.3400, -4.0200)
	if d < 2.5 || d > 3.5 {
		t.Fatalf("expected ~3 km, got %f", d)
	}
}

func TestEstimateUsesTariffTable(t *testing.T) {
	cases := []struct {
		courseType string
		base       float64
		perKm      float64
	}{
		{models.CourseDeliveryMoto, 500, 100},
		{models.CoursePassenger, 1000, 150},
		{models.CourseCargo, 2000, 200},
	}
	for _, tc := range cases {
		dist, amount, err := Estimate(tc.courseType, 5.3600, -4.0083, 5.3400, -4.0200)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.courseType, err)
		}
		want := tc.base + dist*tc.perKm
		if math.Abs(amount-want) > 1e-9 {
			t.Errorf("%s: amount = %f, want %f", tc.courseType, amount, want)
		}
	}
}

func TestEstimateZeroDistanceIsBaseFare(t *testing.T) {
	dist, amount, err := Estimate(models.CourseDeliveryMoto, 5.36, -4.0083, 5.36, -4.0083)
	if err != nil {
		t.Fatal(err)
	}
	if dist != 0 {
		t.Fatalf("expected zero distance, got %f", dist)
	}
	if amount != 500 {
		t.Fatalf("expected base fare 500, got %f", amount)
	}
}

func TestEstimateRejectsUnknownType(t *testing.T) {
	if _, _, err := Estimate("TELEPORTATION", 0, 0, 1, 1); err == nil {
		t.Fatal("expected error for unknown course type")
	}
}
