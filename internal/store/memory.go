package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/MEMOUE/ApiLanayaGo/internal/models"
)

// ErrRecordMissing is the memory store's not-found error. Match with
// IsNotFound rather than directly.
var ErrRecordMissing = errors.New("record missing")

// MemoryStore is a mutex-guarded in-process implementation of every store
// interface, used by the service tests. Claim semantics mirror the Postgres
// conditional updates: the check and the write happen under one lock.
type MemoryStore struct {
	mu       sync.Mutex
	courses  map[uint]models.Course
	drivers  map[uint]models.Driver
	users    map[uint]models.User
	vehicles map[uint]models.Vehicle
	nextID   uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		courses:  make(map[uint]models.Course),
		drivers:  make(map[uint]models.Driver),
		users:    make(map[uint]models.User),
		vehicles: make(map[uint]models.Vehicle),
		nextID:   1,
	}
}

func (s *MemoryStore) allocID() uint {
	id := s.nextID
	s.nextID++
	return id
}

// --- CourseStore ---

func (s *MemoryStore) Create(c *models.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.allocID()
	c.CreatedAt = time.Now()
	s.courses[c.ID] = *c
	return nil
}

func (s *MemoryStore) ByID(id uint) (*models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.courses[id]
	if !ok {
		return nil, ErrRecordMissing
	}
	s.attach(&c)
	return &c, nil
}

// attach emulates the relation preloads of the Postgres store.
func (s *MemoryStore) attach(c *models.Course) {
	if client, ok := s.users[c.ClientID]; ok {
		c.Client = client
	}
	if c.DriverID != nil {
		if d, ok := s.drivers[*c.DriverID]; ok {
			if u, ok := s.users[d.UserID]; ok {
				d.User = u
			}
			c.Driver = &d
		}
	}
	if c.VehicleID != nil {
		if v, ok := s.vehicles[*c.VehicleID]; ok {
			c.Vehicle = &v
		}
	}
}

func (s *MemoryStore) PendingOrdered() ([]models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Course
	for _, c := range s.courses {
		if c.Status == models.CoursePending {
			s.attach(&c)
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) ByParty(userID uint) ([]models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Course
	for _, c := range s.courses {
		involved := c.ClientID == userID
		if !involved && c.DriverID != nil {
			if d, ok := s.drivers[*c.DriverID]; ok && d.UserID == userID {
				involved = true
			}
		}
		if involved {
			s.attach(&c)
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) ByStatus(status string) ([]models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Course
	for _, c := range s.courses {
		if c.Status == status {
			s.attach(&c)
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *MemoryStore) All() ([]models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Course
	for _, c := range s.courses {
		s.attach(&c)
		out = append(out, c)
	}
	return out, nil
}

func (s *MemoryStore) ClaimPending(courseID, driverID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.courses[courseID]
	if !ok || c.Status != models.CoursePending {
		return false, nil
	}
	id := driverID
	c.DriverID = &id
	c.Status = models.CourseAccepted
	s.courses[courseID] = c
	return true, nil
}

func (s *MemoryStore) UpdateFrom(c *models.Course, expected string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.courses[c.ID]
	if !ok || stored.Status != expected {
		return false, nil
	}
	stored.Status = c.Status
	stored.StartedAt = c.StartedAt
	stored.EndedAt = c.EndedAt
	stored.FinalAmount = c.FinalAmount
	stored.CancellationReason = c.CancellationReason
	stored.VehicleID = c.VehicleID
	s.courses[c.ID] = stored
	return true, nil
}

// --- DriverStore ---

func (s *MemoryStore) CreateDriver(d *models.Driver) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d.ID = s.allocID()
	s.drivers[d.ID] = *d
	return nil
}

func (s *MemoryStore) DriverByID(id uint) (*models.Driver, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drivers[id]
	if !ok {
		return nil, ErrRecordMissing
	}
	if u, ok := s.users[d.UserID]; ok {
		d.User = u
	}
	return &d, nil
}

func (s *MemoryStore) DriverByUserID(userID uint) (*models.Driver, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.drivers {
		if d.UserID == userID {
			if u, ok := s.users[d.UserID]; ok {
				d.User = u
			}
			return &d, nil
		}
	}
	return nil, ErrRecordMissing
}

func (s *MemoryStore) DriversByApprovalStatus(status string) ([]models.Driver, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Driver
	for _, d := range s.drivers {
		if d.ApprovalStatus == status {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *MemoryStore) AllDrivers() ([]models.Driver, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Driver
	for _, d := range s.drivers {
		out = append(out, d)
	}
	return out, nil
}

func (s *MemoryStore) SaveDriver(d *models.Driver) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drivers[d.ID] = *d
	return nil
}

func (s *MemoryStore) LicenseExists(number string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.drivers {
		if d.LicenseNumber == number {
			return true, nil
		}
	}
	return false, nil
}

// --- UserStore ---

func (s *MemoryStore) CreateUser(u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = s.allocID()
	s.users[u.ID] = *u
	return nil
}

func (s *MemoryStore) UserByID(id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrRecordMissing
	}
	return &u, nil
}

func (s *MemoryStore) SaveUser(u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = *u
	return nil
}

// --- VehicleStore ---

func (s *MemoryStore) CreateVehicle(v *models.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v.ID = s.allocID()
	s.vehicles[v.ID] = *v
	return nil
}

func (s *MemoryStore) VehicleByID(id uint) (*models.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.vehicles[id]
	if !ok {
		return nil, ErrRecordMissing
	}
	return &v, nil
}

func (s *MemoryStore) VehiclesByOwner(ownerID uint) ([]models.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Vehicle
	for _, v := range s.vehicles {
		if v.OwnerID == ownerID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *MemoryStore) AvailableVehicles() ([]models.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Vehicle
	for _, v := range s.vehicles {
		if v.Status == models.VehicleAvailable && v.Active {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *MemoryStore) SaveVehicle(v *models.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vehicles[v.ID] = *v
	return nil
}

func (s *MemoryStore) PlateExists(plate string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.vehicles {
		if v.Plate == plate {
			return true, nil
		}
	}
	return false, nil
}

// Interface views. MemoryStore itself satisfies CourseStore; the driver, user
// and vehicle interfaces are exposed through delegating views because their
// method sets overlap.

type memDrivers struct{ s *MemoryStore }

func (m memDrivers) Create(d *models.Driver) error                       { return m.s.CreateDriver(d) }
func (m memDrivers) ByID(id uint) (*models.Driver, error)                { return m.s.DriverByID(id) }
func (m memDrivers) ByUserID(userID uint) (*models.Driver, error)        { return m.s.DriverByUserID(userID) }
func (m memDrivers) ByApprovalStatus(st string) ([]models.Driver, error) { return m.s.DriversByApprovalStatus(st) }
func (m memDrivers) All() ([]models.Driver, error)                       { return m.s.AllDrivers() }
func (m memDrivers) Save(d *models.Driver) error                         { return m.s.SaveDriver(d) }
func (m memDrivers) LicenseExists(number string) (bool, error)           { return m.s.LicenseExists(number) }

type memUsers struct{ s *MemoryStore }

func (m memUsers) ByID(id uint) (*models.User, error) { return m.s.UserByID(id) }
func (m memUsers) Save(u *models.User) error          { return m.s.SaveUser(u) }

type memVehicles struct{ s *MemoryStore }

func (m memVehicles) Create(v *models.Vehicle) error                { return m.s.CreateVehicle(v) }
func (m memVehicles) ByID(id uint) (*models.Vehicle, error)         { return m.s.VehicleByID(id) }
func (m memVehicles) ByOwner(ownerID uint) ([]models.Vehicle, error) { return m.s.VehiclesByOwner(ownerID) }
func (m memVehicles) Available() ([]models.Vehicle, error)          { return m.s.AvailableVehicles() }
func (m memVehicles) Save(v *models.Vehicle) error                  { return m.s.SaveVehicle(v) }
func (m memVehicles) PlateExists(plate string) (bool, error)        { return m.s.PlateExists(plate) }

// Drivers returns the DriverStore view of the memory store.
func (s *MemoryStore) Drivers() DriverStore { return memDrivers{s} }

// Users returns the UserStore view of the memory store.
func (s *MemoryStore) Users() UserStore { return memUsers{s} }

// Vehicles returns the VehicleStore view of the memory store.
func (s *MemoryStore) Vehicles() VehicleStore { return memVehicles{s} }
