package pricing

import (
	"fmt"
	"math"

	"github.com/MEMOUE/ApiLanayaGo/internal/models"
)

const earthRadiusKm = 6371

// Fixed fare table, in FCFA. base + distance * perKm.
var tariffs = map[string]struct {
	Base  float64
	PerKm float64
}{
	models.CourseDeliveryMoto: {Base: 500, PerKm: 100},
	models.CoursePassenger:    {Base: 1000, PerKm: 150},
	models.CourseCargo:        {Base: 2000, PerKm: 200},
}

// Estimate returns the great-circle distance between pickup and dropoff and
// the estimated fare for the given course type. It has no side effects and
// fails only on an unknown course type.
func Estimate(courseType string, pickupLat, pickupLng, dropoffLat, dropoffLng float64) (distanceKm, amount float64, err error) {
	tariff, ok := tariffs[courseType]
	if !ok {
		return 0, 0, fmt.Errorf("unknown course type %q", courseType)
	}
	distanceKm = Haversine(pickupLat, pickupLng, dropoffLat, dropoffLng)
	amount = tariff.Base + distanceKm*tariff.PerKm
	return distanceKm, amount, nil
}

// Haversine computes the great-circle distance in km between two
// latitude/longitude points.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	latDist := toRadians(lat2 - lat1)
	lngDist := toRadians(lng2 - lng1)

	a := math.Sin(latDist/2)*math.Sin(latDist/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(lngDist/2)*math.Sin(lngDist/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
