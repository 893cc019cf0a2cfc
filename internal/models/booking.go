package models

import "time"

type BookingStatus string

const (
	StatusActive    BookingStatus = "active"
	StatusCancelled BookingStatus = "cancelled"
	StatusReturned  BookingStatus = "returned"
)

// Terminal reports whether no further transition is allowed out of s.
func (s BookingStatus) Terminal() bool {
	return s == StatusCancelled || s == StatusReturned
}

type Booking struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	CustomerID    uint          `gorm:"not null" json:"customer_id"`
	VehicleID     uint          `gorm:"not null" json:"vehicle_id"`
	RentStartDate time.Time     `gorm:"type:date;not null" json:"rent_start_date"`
	RentEndDate   time.Time     `gorm:"type:date;not null" json:"rent_end_date"`
	TotalPrice    float64       `gorm:"type:decimal(10,2);not null" json:"total_price"`
	Status        BookingStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`

	Customer *User    `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Vehicle  *Vehicle `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
}

// RentalDays counts calendar days between start and end, ignoring the time
// of day. Both ends are normalized to UTC midnights so the count never
// depends on the zone the dates were parsed in or on DST transitions. A
// rental that does not cross a date boundary still bills one day.
func RentalDays(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	days := int(e.Sub(s).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return days
}
