package dto

import (
	"time"

	"github.com/rentora/rental-service/internal/models"
)

// DateLayout is the wire format for rental dates.
const DateLayout = "2006-01-02"

type UserResponse struct {
	ID    uint            `json:"id"`
	Name  string          `json:"name"`
	Email string          `json:"email"`
	Phone string          `json:"phone"`
	Role  models.UserRole `json:"role"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type VehicleResponse struct {
	ID                 uint                      `json:"id"`
	VehicleName        string                    `json:"vehicle_name"`
	Type               models.VehicleType        `json:"type"`
	RegistrationNumber string                    `json:"registration_number"`
	DailyRentPrice     float64                   `json:"daily_rent_price"`
	AvailabilityStatus models.AvailabilityStatus `json:"availability_status"`
}

// BookingVehicleInfo is the vehicle summary embedded in booking responses.
// Fields beyond the name are filled depending on who is asking.
type BookingVehicleInfo struct {
	VehicleName        string                    `json:"vehicle_name,omitempty"`
	RegistrationNumber string                    `json:"registration_number,omitempty"`
	Type               models.VehicleType        `json:"type,omitempty"`
	DailyRentPrice     float64                   `json:"daily_rent_price,omitempty"`
	AvailabilityStatus models.AvailabilityStatus `json:"availability_status,omitempty"`
}

type BookingCustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type BookingResponse struct {
	ID            uint                 `json:"id"`
	CustomerID    uint                 `json:"customer_id,omitempty"`
	VehicleID     uint                 `json:"vehicle_id"`
	RentStartDate string               `json:"rent_start_date"`
	RentEndDate   string               `json:"rent_end_date"`
	TotalPrice    float64              `json:"total_price"`
	Status        models.BookingStatus `json:"status"`
	CreatedAt     time.Time            `json:"created_at"`

	Vehicle  *BookingVehicleInfo  `json:"vehicle,omitempty"`
	Customer *BookingCustomerInfo `json:"customer,omitempty"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func ToUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Phone: u.Phone,
		Role:  u.Role,
	}
}

func ToVehicleResponse(v *models.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:                 v.ID,
		VehicleName:        v.VehicleName,
		Type:               v.Type,
		RegistrationNumber: v.RegistrationNumber,
		DailyRentPrice:     v.DailyRentPrice,
		AvailabilityStatus: v.AvailabilityStatus,
	}
}

// ToCreatedBookingResponse shapes the booking-creation reply: the booking
// plus the name and daily price of the vehicle just reserved.
func ToCreatedBookingResponse(b *models.Booking) BookingResponse {
	resp := toBookingResponse(b)
	if b.Vehicle != nil {
		resp.Vehicle = &BookingVehicleInfo{
			VehicleName:    b.Vehicle.VehicleName,
			DailyRentPrice: b.Vehicle.DailyRentPrice,
		}
	}
	return resp
}

// ToCustomerBookingResponse is the customer's view of a booking in listings:
// vehicle summary included, customer join omitted.
func ToCustomerBookingResponse(b *models.Booking) BookingResponse {
	resp := toBookingResponse(b)
	resp.CustomerID = 0
	if b.Vehicle != nil {
		resp.Vehicle = &BookingVehicleInfo{
			VehicleName:        b.Vehicle.VehicleName,
			RegistrationNumber: b.Vehicle.RegistrationNumber,
			Type:               b.Vehicle.Type,
		}
	}
	return resp
}

// ToAdminBookingResponse includes both the vehicle and customer joins.
func ToAdminBookingResponse(b *models.Booking) BookingResponse {
	resp := toBookingResponse(b)
	if b.Vehicle != nil {
		resp.Vehicle = &BookingVehicleInfo{
			VehicleName:        b.Vehicle.VehicleName,
			RegistrationNumber: b.Vehicle.RegistrationNumber,
		}
	}
	if b.Customer != nil {
		resp.Customer = &BookingCustomerInfo{
			Name:  b.Customer.Name,
			Email: b.Customer.Email,
		}
	}
	return resp
}

// ToUpdatedBookingResponse echoes vehicle availability after a return.
func ToUpdatedBookingResponse(b *models.Booking) BookingResponse {
	resp := toBookingResponse(b)
	if b.Status == models.StatusReturned {
		resp.Vehicle = &BookingVehicleInfo{AvailabilityStatus: models.StatusAvailable}
	}
	return resp
}

func toBookingResponse(b *models.Booking) BookingResponse {
	return BookingResponse{
		ID:            b.ID,
		CustomerID:    b.CustomerID,
		VehicleID:     b.VehicleID,
		RentStartDate: b.RentStartDate.Format(DateLayout),
		RentEndDate:   b.RentEndDate.Format(DateLayout),
		TotalPrice:    b.TotalPrice,
		Status:        b.Status,
		CreatedAt:     b.CreatedAt,
	}
}
