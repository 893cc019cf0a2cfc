package service

import (
	"context"
	"errors"
	"time"

	"github.com/rentora/rental-service/internal/models"
	"github.com/rentora/rental-service/internal/repository"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrVehicleUnavailable = errors.New("vehicle is no longer available")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrBookingClosed      = errors.New("booking is already cancelled or returned")
	ErrNotBookingOwner    = errors.New("you are not authorized to update this booking")
	ErrCustomerCancelOnly = errors.New("customers can only cancel their bookings")
	ErrInvalidDateRange   = errors.New("end date must be after start date")
	ErrStartDateInPast    = errors.New("start date cannot be in the past")
	ErrInvalidStatus      = errors.New("status must be either 'cancelled' or 'returned'")
)

// Actor identifies who is performing an operation, as carried by the
// verified access token.
type Actor struct {
	ID   uint
	Role models.UserRole
}

func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

// EventPublisher fans booking lifecycle events out to interested services.
// Publishing is best-effort: a broker failure never fails the request.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

type BookingEvent struct {
	BookingID  uint                 `json:"booking_id"`
	CustomerID uint                 `json:"customer_id"`
	VehicleID  uint                 `json:"vehicle_id"`
	Status     models.BookingStatus `json:"status"`
	TotalPrice float64              `json:"total_price"`
}

type CreateBookingInput struct {
	VehicleID     uint
	RentStartDate time.Time
	RentEndDate   time.Time
}

type BookingService interface {
	CreateBooking(ctx context.Context, actor Actor, in CreateBookingInput) (*models.Booking, error)
	UpdateBooking(ctx context.Context, actor Actor, bookingID uint, status models.BookingStatus) (*models.Booking, error)
	ListBookings(ctx context.Context, actor Actor) ([]models.Booking, error)
	AutoReturnExpired(ctx context.Context) (int, error)
}

type bookingService struct {
	tx          repository.TxRunner
	bookingRepo repository.BookingRepository
	vehicleRepo repository.VehicleRepository
	publisher   EventPublisher
}

func NewBookingService(tx repository.TxRunner, bookingRepo repository.BookingRepository, vehicleRepo repository.VehicleRepository, publisher EventPublisher) BookingService {
	return &bookingService{
		tx:          tx,
		bookingRepo: bookingRepo,
		vehicleRepo: vehicleRepo,
		publisher:   publisher,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, actor Actor, in CreateBookingInput) (*models.Booking, error) {
	if !in.RentEndDate.After(in.RentStartDate) {
		return nil, ErrInvalidDateRange
	}
	if in.RentStartDate.Before(startOfDay(time.Now())) {
		return nil, ErrStartDateInPast
	}

	var result *models.Booking

	err := s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		// 1. Lock the vehicle row; only an available vehicle passes.
		vehicle, err := s.vehicleRepo.FindAvailableForUpdate(ctx, tx, in.VehicleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVehicleUnavailable
			}
			return err
		}

		// 2. Price: calendar days between the rental dates, minimum one.
		days := models.RentalDays(in.RentStartDate, in.RentEndDate)

		// 3. Insert the booking.
		booking := &models.Booking{
			CustomerID:    actor.ID,
			VehicleID:     vehicle.ID,
			RentStartDate: in.RentStartDate,
			RentEndDate:   in.RentEndDate,
			TotalPrice:    float64(days) * vehicle.DailyRentPrice,
			Status:        models.StatusActive,
		}
		if err := s.bookingRepo.Create(ctx, tx, booking); err != nil {
			return err
		}

		// 4. Flip the vehicle; committed together with the insert or not at all.
		if err := s.vehicleRepo.UpdateAvailability(ctx, tx, vehicle.ID, models.StatusBooked); err != nil {
			return err
		}

		vehicle.AvailabilityStatus = models.StatusBooked
		booking.Vehicle = vehicle
		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish("booking.created", result)
	return result, nil
}

func (s *bookingService) UpdateBooking(ctx context.Context, actor Actor, bookingID uint, status models.BookingStatus) (*models.Booking, error) {
	if status != models.StatusCancelled && status != models.StatusReturned {
		return nil, ErrInvalidStatus
	}

	var result *models.Booking

	err := s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		booking, err := s.bookingRepo.FindByIDForUpdate(ctx, tx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		if !actor.IsAdmin() {
			if booking.CustomerID != actor.ID {
				return ErrNotBookingOwner
			}
			if status != models.StatusCancelled {
				return ErrCustomerCancelOnly
			}
		}

		// Terminal states stay terminal.
		if booking.Status.Terminal() {
			return ErrBookingClosed
		}

		if err := s.bookingRepo.UpdateStatus(ctx, tx, booking.ID, status); err != nil {
			return err
		}

		// Cancelled and returned both release the vehicle, in the same
		// transaction that closed the booking.
		if err := s.vehicleRepo.UpdateAvailability(ctx, tx, booking.VehicleID, models.StatusAvailable); err != nil {
			return err
		}

		booking.Status = status
		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish("booking."+string(status), result)
	return result, nil
}

func (s *bookingService) ListBookings(ctx context.Context, actor Actor) ([]models.Booking, error) {
	if actor.IsAdmin() {
		return s.bookingRepo.FindAllWithRelations(ctx)
	}
	return s.bookingRepo.FindByCustomer(ctx, actor.ID)
}

// AutoReturnExpired sweeps past-due active bookings in one transaction:
// bookings flip to returned, their vehicles become available again. Returns
// the number of bookings swept.
func (s *bookingService) AutoReturnExpired(ctx context.Context) (int, error) {
	var swept []models.Booking

	err := s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		expired, err := s.bookingRepo.ReturnExpired(ctx, tx, startOfDay(time.Now()))
		if err != nil {
			return err
		}
		if len(expired) == 0 {
			return nil
		}

		vehicleIDs := make([]uint, len(expired))
		for i, b := range expired {
			vehicleIDs[i] = b.VehicleID
		}
		if err := s.vehicleRepo.UpdateAvailabilityBulk(ctx, tx, vehicleIDs, models.StatusAvailable); err != nil {
			return err
		}

		swept = expired
		return nil
	})
	if err != nil {
		return 0, err
	}

	for i := range swept {
		swept[i].Status = models.StatusReturned
		s.publish("booking.returned", &swept[i])
	}
	return len(swept), nil
}

func (s *bookingService) publish(routingKey string, booking *models.Booking) {
	if s.publisher == nil || booking == nil {
		return
	}
	event := BookingEvent{
		BookingID:  booking.ID,
		CustomerID: booking.CustomerID,
		VehicleID:  booking.VehicleID,
		Status:     booking.Status,
		TotalPrice: booking.TotalPrice,
	}
	if err := s.publisher.Publish(routingKey, event); err != nil {
		logrus.WithError(err).WithField("routing_key", routingKey).Warn("failed to publish booking event")
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
