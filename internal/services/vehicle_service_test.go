package services

import (
	"errors"
	"testing"

	"github.com/MEMOUE/ApiLanayaGo/internal/apperrors"
	"github.com/MEMOUE/ApiLanayaGo/internal/models"
)

func newVehicleFixture() (*fixture, *VehicleService) {
	f := newFixture()
	return f, NewVehicleService(f.ms.Vehicles(), f.ms.Drivers())
}

func motoRequest(plate string) VehicleRequest {
	cc := 125
	return VehicleRequest{
		VehicleType: models.VehicleMoto,
		Brand:       "Haojue",
		ModelName:   "DK125",
		Color:       "rouge",
		Plate:       plate,
		Year:        2022,
		EngineCC:    &cc,
	}
}

func TestCreateVehicleRequiresOwnerRole(t *testing.T) {
	f, vehicles := newVehicleFixture()
	client := f.seedUser(t, models.RoleClient)

	if _, err := vehicles.Create(client, motoRequest("123 AB 01")); !errors.Is(err, apperrors.ErrRoleNotPermitted) {
		t.Fatalf("err = %v, want RoleNotPermitted", err)
	}
}

func TestCreateVehicleEnforcesUniquePlate(t *testing.T) {
	f, vehicles := newVehicleFixture()
	owner := f.seedUser(t, models.RoleOwner)

	if _, err := vehicles.Create(owner, motoRequest("123 AB 01")); err != nil {
		t.Fatal(err)
	}
	if _, err := vehicles.Create(owner, motoRequest("123 AB 01")); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("err = %v, want InvalidInput", err)
	}
}

func TestCreateVehicleVariantFields(t *testing.T) {
	f, vehicles := newVehicleFixture()
	owner := f.seedUser(t, models.RoleOwner)

	moto, err := vehicles.Create(owner, motoRequest("123 AB 01"))
	if err != nil {
		t.Fatal(err)
	}
	if moto.EngineCC == nil || *moto.EngineCC != 125 {
		t.Fatal("moto variant fields not kept")
	}
	if moto.Seats != nil || moto.CargoCapacityKg != nil {
		t.Fatal("car fields set on a moto")
	}

	seats := 4
	capacity := 350.0
	car, err := vehicles.Create(owner, VehicleRequest{
		VehicleType:     models.VehicleCar,
		Brand:           "Toyota",
		ModelName:       "Corolla",
		Plate:           "456 CD 01",
		Seats:           &seats,
		CargoCapacityKg: &capacity,
	})
	if err != nil {
		t.Fatal(err)
	}
	if car.Seats == nil || *car.Seats != 4 || car.EngineCC != nil {
		t.Fatal("car variant fields not kept")
	}

	if _, err := vehicles.Create(owner, VehicleRequest{VehicleType: "CHARRETTE", Brand: "x", ModelName: "y", Plate: "789"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("err = %v, want InvalidInput", err)
	}
}

func TestAssignDriverSetsCurrentVehicle(t *testing.T) {
	f, vehicles := newVehicleFixture()
	owner := f.seedUser(t, models.RoleOwner)
	_, driver := f.seedDriver(t, models.DriverApproved)

	vehicle, err := vehicles.Create(owner, motoRequest("123 AB 01"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := vehicles.AssignDriver(owner, vehicle.ID, driver.ID); err != nil {
		t.Fatal(err)
	}

	got, err := f.ms.DriverByID(driver.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.CurrentVehicleID == nil || *got.CurrentVehicleID != vehicle.ID {
		t.Fatal("driver's current vehicle not set")
	}
}

func TestRetireRemovesFromAvailablePool(t *testing.T) {
	f, vehicles := newVehicleFixture()
	owner := f.seedUser(t, models.RoleOwner)

	vehicle, err := vehicles.Create(owner, motoRequest("123 AB 01"))
	if err != nil {
		t.Fatal(err)
	}
	pool, _ := vehicles.Available()
	if len(pool) != 1 {
		t.Fatalf("pool = %d, want 1", len(pool))
	}

	if err := vehicles.Retire(owner, vehicle.ID); err != nil {
		t.Fatal(err)
	}
	pool, _ = vehicles.Available()
	if len(pool) != 0 {
		t.Fatalf("pool = %d after retire, want 0", len(pool))
	}
}

func TestVehicleOwnershipGuard(t *testing.T) {
	f, vehicles := newVehicleFixture()
	owner := f.seedUser(t, models.RoleOwner)
	other := f.seedUser(t, models.RoleOwner)

	vehicle, err := vehicles.Create(owner, motoRequest("123 AB 01"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := vehicles.SetStatus(other, vehicle.ID, models.VehicleMaintenance); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("err = %v, want Unauthorized", err)
	}
	if err := vehicles.Retire(other, vehicle.ID); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("err = %v, want Unauthorized", err)
	}
}
