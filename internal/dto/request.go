package dto

type SignUpRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone" validate:"required,max=15"`
	Role     string `json:"role" validate:"omitempty,oneof=admin customer"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateUserRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,max=15"`
	Role  string `json:"role" validate:"omitempty,oneof=admin customer"`
}

type VehicleRequest struct {
	VehicleName        string  `json:"vehicle_name" validate:"required,max=255"`
	Type               string  `json:"type" validate:"required"`
	RegistrationNumber string  `json:"registration_number" validate:"required,max=50"`
	DailyRentPrice     float64 `json:"daily_rent_price" validate:"required,gt=0"`
	AvailabilityStatus string  `json:"availability_status" validate:"omitempty,oneof=available booked"`
}

type CreateBookingRequest struct {
	VehicleID     uint   `json:"vehicle_id" validate:"required"`
	RentStartDate string `json:"rent_start_date" validate:"required"`
	RentEndDate   string `json:"rent_end_date" validate:"required"`
}

type UpdateBookingRequest struct {
	Status string `json:"status" validate:"required,oneof=cancelled returned"`
}
