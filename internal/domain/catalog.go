package domain

import "time"

// Service represents a barbershop service from the catalog
type Service struct {
	ID              int64
	ShopID          int64
	Name            string
	DurationMinutes int
	Price           float64
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// StaffStatus represents the status of a staff member
type StaffStatus string

const (
	StaffActive   StaffStatus = "active"
	StaffInactive StaffStatus = "inactive"
)

// Staff represents a staff member (barber) of a shop
type Staff struct {
	ID        int64
	ShopID    int64
	Name      string
	Status    StaffStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the staff member accepts bookings
func (s *Staff) IsActive() bool {
	return s.Status == StaffActive
}

// StaffServiceMap мапа мастер -> множество услуг, которые он выполняет
type StaffServiceMap map[int64]map[int64]struct{}

// CanPerform returns true if the staff member performs the service
func (m StaffServiceMap) CanPerform(staffID, serviceID int64) bool {
	services, ok := m[staffID]
	if !ok {
		return false
	}
	_, ok = services[serviceID]
	return ok
}
