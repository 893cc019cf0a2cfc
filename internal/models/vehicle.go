package models

import "time"

type VehicleType string

const (
	TypeCar  VehicleType = "car"
	TypeBike VehicleType = "bike"
	TypeVan  VehicleType = "van"
)

func (t VehicleType) Valid() bool {
	return t == TypeCar || t == TypeBike || t == TypeVan
}

type AvailabilityStatus string

const (
	StatusAvailable AvailabilityStatus = "available"
	StatusBooked    AvailabilityStatus = "booked"
)

// Vehicle.AvailabilityStatus is the single source of truth for "is this
// vehicle bookable now": it is 'booked' exactly when one active booking
// references the vehicle, and every path that changes one side of that
// relation changes the other inside the same transaction.
type Vehicle struct {
	ID                 uint               `gorm:"primaryKey" json:"id"`
	VehicleName        string             `gorm:"size:255;not null" json:"vehicle_name"`
	Type               VehicleType        `gorm:"type:varchar(20);not null" json:"type"`
	RegistrationNumber string             `gorm:"size:50;uniqueIndex;not null" json:"registration_number"`
	DailyRentPrice     float64            `gorm:"type:decimal(10,2);not null" json:"daily_rent_price"`
	AvailabilityStatus AvailabilityStatus `gorm:"type:varchar(20);not null;default:'available'" json:"availability_status"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}
