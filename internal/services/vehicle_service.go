package services

import (
	logrus "github.com/sirupsen/logrus"

	"github.com/MEMOUE/ApiLanayaGo/internal/apperrors"
	"github.com/MEMOUE/ApiLanayaGo/internal/models"
	"github.com/MEMOUE/ApiLanayaGo/internal/store"
)

// VehicleRequest is the owner's registration/update input. The kind-specific
// fields are pointers; only the group matching VehicleType is read.
type VehicleRequest struct {
	VehicleType     string   `json:"vehicle_type" binding:"required"`
	Brand           string   `json:"brand" binding:"required"`
	ModelName       string   `json:"model" binding:"required"`
	Color           string   `json:"color"`
	Plate           string   `json:"plate" binding:"required"`
	Year            int      `json:"year"`
	PhotoURL        string   `json:"photo_url"`
	EngineCC        *int     `json:"engine_cc"`
	Seats           *int     `json:"seats"`
	CargoCapacityKg *float64 `json:"cargo_capacity_kg"`
}

// VehicleService manages the vehicle fleet: registration, availability and
// driver assignment. Dispatch only ever reads a driver's current vehicle.
type VehicleService struct {
	vehicles store.VehicleStore
	drivers  store.DriverStore
}

func NewVehicleService(vehicles store.VehicleStore, drivers store.DriverStore) *VehicleService {
	return &VehicleService{vehicles: vehicles, drivers: drivers}
}

func validStatus(status string) bool {
	switch status {
	case models.VehicleAvailable, models.VehicleOnCourse, models.VehicleMaintenance, models.VehicleUnavailable:
		return true
	}
	return false
}

func (s *VehicleService) byID(id uint) (*models.Vehicle, error) {
	vehicle, err := s.vehicles.ByID(id)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, apperrors.New(apperrors.ErrNotFound, "vehicle not found")
		}
		return nil, err
	}
	return vehicle, nil
}

func (s *VehicleService) requireOwner(actor Actor, vehicle *models.Vehicle) error {
	if actor.Role != models.RoleOwner || vehicle.OwnerID != actor.ID {
		return apperrors.New(apperrors.ErrUnauthorized, "this vehicle does not belong to you")
	}
	return nil
}

// Create registers a vehicle for the acting owner.
func (s *VehicleService) Create(actor Actor, req VehicleRequest) (*models.Vehicle, error) {
	if actor.Role != models.RoleOwner {
		return nil, apperrors.New(apperrors.ErrRoleNotPermitted, "only owners can register vehicles")
	}
	if req.VehicleType != models.VehicleMoto && req.VehicleType != models.VehicleCar {
		return nil, apperrors.New(apperrors.ErrInvalidInput, "unsupported vehicle type "+req.VehicleType)
	}
	exists, err := s.vehicles.PlateExists(req.Plate)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.New(apperrors.ErrInvalidInput, "a vehicle with this plate is already registered")
	}

	vehicle := &models.Vehicle{
		VehicleType: req.VehicleType,
		Brand:       req.Brand,
		ModelName:   req.ModelName,
		Color:       req.Color,
		Plate:       req.Plate,
		Year:        req.Year,
		PhotoURL:    req.PhotoURL,
		OwnerID:     actor.ID,
		Status:      models.VehicleAvailable,
		Active:      true,
	}
	switch req.VehicleType {
	case models.VehicleMoto:
		vehicle.EngineCC = req.EngineCC
	case models.VehicleCar:
		vehicle.Seats = req.Seats
		vehicle.CargoCapacityKg = req.CargoCapacityKg
	}

	if err := s.vehicles.Create(vehicle); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"vehicle_id": vehicle.ID,
		"owner_id":   actor.ID,
		"plate":      vehicle.Plate,
	}).Info("vehicle registered")
	return vehicle, nil
}

// Mine lists the acting owner's vehicles.
func (s *VehicleService) Mine(actor Actor) ([]models.Vehicle, error) {
	if actor.Role != models.RoleOwner {
		return nil, apperrors.New(apperrors.ErrRoleNotPermitted, "only owners can list their vehicles")
	}
	return s.vehicles.ByOwner(actor.ID)
}

// Get returns a vehicle to its owner or an admin.
func (s *VehicleService) Get(actor Actor, id uint) (*models.Vehicle, error) {
	vehicle, err := s.byID(id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		if err := s.requireOwner(actor, vehicle); err != nil {
			return nil, err
		}
	}
	return vehicle, nil
}

// Update modifies a vehicle's descriptive fields.
func (s *VehicleService) Update(actor Actor, id uint, req VehicleRequest) (*models.Vehicle, error) {
	vehicle, err := s.byID(id)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwner(actor, vehicle); err != nil {
		return nil, err
	}
	if req.Plate != vehicle.Plate {
		exists, err := s.vehicles.PlateExists(req.Plate)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperrors.New(apperrors.ErrInvalidInput, "a vehicle with this plate is already registered")
		}
	}

	vehicle.Brand = req.Brand
	vehicle.ModelName = req.ModelName
	vehicle.Color = req.Color
	vehicle.Plate = req.Plate
	vehicle.Year = req.Year
	vehicle.PhotoURL = req.PhotoURL
	switch vehicle.VehicleType {
	case models.VehicleMoto:
		if req.EngineCC != nil {
			vehicle.EngineCC = req.EngineCC
		}
	case models.VehicleCar:
		if req.Seats != nil {
			vehicle.Seats = req.Seats
		}
		if req.CargoCapacityKg != nil {
			vehicle.CargoCapacityKg = req.CargoCapacityKg
		}
	}

	if err := s.vehicles.Save(vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

// Retire soft-deletes a vehicle: it stays in the fleet history but leaves the
// available pool.
func (s *VehicleService) Retire(actor Actor, id uint) error {
	vehicle, err := s.byID(id)
	if err != nil {
		return err
	}
	if err := s.requireOwner(actor, vehicle); err != nil {
		return err
	}
	vehicle.Active = false
	vehicle.Status = models.VehicleUnavailable
	if err := s.vehicles.Save(vehicle); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"vehicle_id": vehicle.ID}).Info("vehicle retired")
	return nil
}

// AssignDriver makes the vehicle the driver's current one.
func (s *VehicleService) AssignDriver(actor Actor, vehicleID, driverID uint) (*models.Vehicle, error) {
	vehicle, err := s.byID(vehicleID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwner(actor, vehicle); err != nil {
		return nil, err
	}
	driver, err := s.drivers.ByID(driverID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, apperrors.New(apperrors.ErrNotFound, "driver not found")
		}
		return nil, err
	}

	driver.CurrentVehicleID = &vehicle.ID
	if err := s.drivers.Save(driver); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"vehicle_id": vehicle.ID,
		"driver_id":  driver.ID,
	}).Info("vehicle assigned to driver")
	return vehicle, nil
}

// SetStatus updates a vehicle's availability status.
func (s *VehicleService) SetStatus(actor Actor, id uint, status string) (*models.Vehicle, error) {
	if !validStatus(status) {
		return nil, apperrors.New(apperrors.ErrInvalidInput, "unknown vehicle status "+status)
	}
	vehicle, err := s.byID(id)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwner(actor, vehicle); err != nil {
		return nil, err
	}
	vehicle.Status = status
	if err := s.vehicles.Save(vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

// Available lists active vehicles in DISPONIBLE.
func (s *VehicleService) Available() ([]models.Vehicle, error) {
	return s.vehicles.Available()
}
