package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rentora/rental-service/internal/models"
	"github.com/rentora/rental-service/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrVehicleNotFound    = errors.New("vehicle not found")
	ErrRegistrationTaken  = errors.New("vehicle with this registration number already exists")
	ErrVehicleHasBookings = errors.New("cannot delete vehicle with existing bookings")
	ErrInvalidVehicleType = errors.New("type must be one of 'car', 'bike' or 'van'")
)

type VehicleInput struct {
	VehicleName        string
	Type               models.VehicleType
	RegistrationNumber string
	DailyRentPrice     float64
	AvailabilityStatus models.AvailabilityStatus
}

type VehicleService interface {
	CreateVehicle(ctx context.Context, in VehicleInput) (*models.Vehicle, error)
	GetVehicle(ctx context.Context, id uint) (*models.Vehicle, error)
	ListVehicles(ctx context.Context) ([]models.Vehicle, error)
	UpdateVehicle(ctx context.Context, id uint, in VehicleInput) (*models.Vehicle, error)
	DeleteVehicle(ctx context.Context, id uint) error
}

type vehicleService struct {
	vehicleRepo repository.VehicleRepository
	bookingRepo repository.BookingRepository
}

func NewVehicleService(vehicleRepo repository.VehicleRepository, bookingRepo repository.BookingRepository) VehicleService {
	return &vehicleService{vehicleRepo: vehicleRepo, bookingRepo: bookingRepo}
}

func (s *vehicleService) CreateVehicle(ctx context.Context, in VehicleInput) (*models.Vehicle, error) {
	vehicleType := models.VehicleType(strings.ToLower(string(in.Type)))
	if !vehicleType.Valid() {
		return nil, ErrInvalidVehicleType
	}

	_, err := s.vehicleRepo.FindByRegistration(ctx, in.RegistrationNumber)
	if err == nil {
		return nil, ErrRegistrationTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	status := in.AvailabilityStatus
	if status == "" {
		status = models.StatusAvailable
	}

	vehicle := &models.Vehicle{
		VehicleName:        in.VehicleName,
		Type:               vehicleType,
		RegistrationNumber: in.RegistrationNumber,
		DailyRentPrice:     in.DailyRentPrice,
		AvailabilityStatus: status,
	}
	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

func (s *vehicleService) GetVehicle(ctx context.Context, id uint) (*models.Vehicle, error) {
	vehicle, err := s.vehicleRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	return vehicle, nil
}

func (s *vehicleService) ListVehicles(ctx context.Context) ([]models.Vehicle, error) {
	return s.vehicleRepo.FindAll(ctx)
}

func (s *vehicleService) UpdateVehicle(ctx context.Context, id uint, in VehicleInput) (*models.Vehicle, error) {
	vehicleType := models.VehicleType(strings.ToLower(string(in.Type)))
	if !vehicleType.Valid() {
		return nil, ErrInvalidVehicleType
	}

	vehicle, err := s.vehicleRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}

	vehicle.VehicleName = in.VehicleName
	vehicle.Type = vehicleType
	vehicle.RegistrationNumber = in.RegistrationNumber
	vehicle.DailyRentPrice = in.DailyRentPrice
	if in.AvailabilityStatus != "" {
		vehicle.AvailabilityStatus = in.AvailabilityStatus
	}

	if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

// DeleteVehicle refuses to delete a vehicle that any booking references, so
// booking history never points at a missing vehicle.
func (s *vehicleService) DeleteVehicle(ctx context.Context, id uint) error {
	if _, err := s.vehicleRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVehicleNotFound
		}
		return err
	}

	hasBookings, err := s.bookingRepo.ExistsByVehicle(ctx, id)
	if err != nil {
		return err
	}
	if hasBookings {
		return ErrVehicleHasBookings
	}

	return s.vehicleRepo.Delete(ctx, id)
}
