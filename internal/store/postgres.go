package store

import (
	"errors"

	"gorm.io/gorm"

	"github.com/MEMOUE/ApiLanayaGo/internal/models"
)

// IsNotFound reports whether err means the record does not exist, regardless
// of which store implementation produced it.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, ErrRecordMissing)
}

// --- Courses ---

type CoursePG struct {
	db *gorm.DB
}

func NewCoursePG(db *gorm.DB) *CoursePG {
	return &CoursePG{db: db}
}

func (s *CoursePG) Create(c *models.Course) error {
	return s.db.Create(c).Error
}

func (s *CoursePG) ByID(id uint) (*models.Course, error) {
	var course models.Course
	err := s.db.
		Preload("Client").
		Preload("Driver").
		Preload("Driver.User").
		Preload("Vehicle").
		First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (s *CoursePG) PendingOrdered() ([]models.Course, error) {
	var courses []models.Course
	err := s.db.
		Where("status = ?", models.CoursePending).
		Order("created_at ASC").
		Preload("Client").
		Find(&courses).Error
	return courses, err
}

func (s *CoursePG) ByParty(userID uint) ([]models.Course, error) {
	var courses []models.Course
	err := s.db.
		Joins("LEFT JOIN drivers ON drivers.id = courses.driver_id").
		Where("courses.client_id = ? OR drivers.user_id = ?", userID, userID).
		Order("courses.created_at DESC").
		Preload("Client").
		Preload("Driver").
		Preload("Driver.User").
		Find(&courses).Error
	return courses, err
}

func (s *CoursePG) ByStatus(status string) ([]models.Course, error) {
	var courses []models.Course
	err := s.db.
		Where("status = ?", status).
		Order("created_at DESC").
		Preload("Client").
		Find(&courses).Error
	return courses, err
}

func (s *CoursePG) All() ([]models.Course, error) {
	var courses []models.Course
	err := s.db.Order("created_at DESC").Preload("Client").Find(&courses).Error
	return courses, err
}

// ClaimPending is the accept compare-and-set: one UPDATE guarded on the prior
// status, so exactly one of any number of concurrent claimants wins.
func (s *CoursePG) ClaimPending(courseID, driverID uint) (bool, error) {
	res := s.db.Model(&models.Course{}).
		Where("id = ? AND status = ?", courseID, models.CoursePending).
		Updates(map[string]interface{}{
			"driver_id": driverID,
			"status":    models.CourseAccepted,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *CoursePG) UpdateFrom(c *models.Course, expected string) (bool, error) {
	res := s.db.Model(&models.Course{}).
		Where("id = ? AND status = ?", c.ID, expected).
		Select("status", "started_at", "ended_at", "final_amount", "cancellation_reason", "vehicle_id").
		Updates(c)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// --- Drivers ---

type DriverPG struct {
	db *gorm.DB
}

func NewDriverPG(db *gorm.DB) *DriverPG {
	return &DriverPG{db: db}
}

func (s *DriverPG) Create(d *models.Driver) error {
	return s.db.Create(d).Error
}

func (s *DriverPG) ByID(id uint) (*models.Driver, error) {
	var driver models.Driver
	err := s.db.Preload("User").Preload("CurrentVehicle").First(&driver, id).Error
	if err != nil {
		return nil, err
	}
	return &driver, nil
}

func (s *DriverPG) ByUserID(userID uint) (*models.Driver, error) {
	var driver models.Driver
	err := s.db.Preload("User").Preload("CurrentVehicle").
		Where("user_id = ?", userID).
		First(&driver).Error
	if err != nil {
		return nil, err
	}
	return &driver, nil
}

func (s *DriverPG) ByApprovalStatus(status string) ([]models.Driver, error) {
	var drivers []models.Driver
	err := s.db.Preload("User").Where("approval_status = ?", status).Find(&drivers).Error
	return drivers, err
}

func (s *DriverPG) All() ([]models.Driver, error) {
	var drivers []models.Driver
	err := s.db.Preload("User").Preload("CurrentVehicle").Find(&drivers).Error
	return drivers, err
}

func (s *DriverPG) Save(d *models.Driver) error {
	return s.db.Save(d).Error
}

func (s *DriverPG) LicenseExists(number string) (bool, error) {
	var count int64
	err := s.db.Model(&models.Driver{}).Where("license_number = ?", number).Count(&count).Error
	return count > 0, err
}

// --- Users ---

type UserPG struct {
	db *gorm.DB
}

func NewUserPG(db *gorm.DB) *UserPG {
	return &UserPG{db: db}
}

func (s *UserPG) ByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserPG) Save(u *models.User) error {
	return s.db.Save(u).Error
}

// --- Vehicles ---

type VehiclePG struct {
	db *gorm.DB
}

func NewVehiclePG(db *gorm.DB) *VehiclePG {
	return &VehiclePG{db: db}
}

func (s *VehiclePG) Create(v *models.Vehicle) error {
	return s.db.Create(v).Error
}

func (s *VehiclePG) ByID(id uint) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := s.db.Preload("Owner").First(&vehicle, id).Error; err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (s *VehiclePG) ByOwner(ownerID uint) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	err := s.db.Where("owner_id = ?", ownerID).Find(&vehicles).Error
	return vehicles, err
}

func (s *VehiclePG) Available() ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	err := s.db.
		Where("status = ? AND active = ?", models.VehicleAvailable, true).
		Find(&vehicles).Error
	return vehicles, err
}

func (s *VehiclePG) Save(v *models.Vehicle) error {
	return s.db.Save(v).Error
}

func (s *VehiclePG) PlateExists(plate string) (bool, error) {
	var count int64
	err := s.db.Model(&models.Vehicle{}).Where("plate = ?", plate).Count(&count).Error
	return count > 0, err
}
