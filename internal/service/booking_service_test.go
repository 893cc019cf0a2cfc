package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rentora/rental-service/internal/models"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// --- Fake transaction runner ---

type fakeTxRunner struct {
	calls int
	err   error
}

func (f *fakeTxRunner) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

// --- Mock VehicleRepository ---

type mockVehicleRepo struct {
	findAvailableFn func(ctx context.Context, tx *gorm.DB, id uint) (*models.Vehicle, error)

	availabilityUpdates []models.AvailabilityStatus
	bulkUpdateIDs       []uint
	bulkUpdateStatus    models.AvailabilityStatus
}

func (m *mockVehicleRepo) Create(ctx context.Context, v *models.Vehicle) error { return nil }
func (m *mockVehicleRepo) FindByID(ctx context.Context, id uint) (*models.Vehicle, error) {
	return nil, gorm.ErrRecordNotFound
}
func (m *mockVehicleRepo) FindByRegistration(ctx context.Context, reg string) (*models.Vehicle, error) {
	return nil, gorm.ErrRecordNotFound
}
func (m *mockVehicleRepo) FindAll(ctx context.Context) ([]models.Vehicle, error) { return nil, nil }
func (m *mockVehicleRepo) Update(ctx context.Context, v *models.Vehicle) error   { return nil }
func (m *mockVehicleRepo) Delete(ctx context.Context, id uint) error             { return nil }

func (m *mockVehicleRepo) FindAvailableForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Vehicle, error) {
	return m.findAvailableFn(ctx, tx, id)
}

func (m *mockVehicleRepo) UpdateAvailability(ctx context.Context, tx *gorm.DB, id uint, status models.AvailabilityStatus) error {
	m.availabilityUpdates = append(m.availabilityUpdates, status)
	return nil
}

func (m *mockVehicleRepo) UpdateAvailabilityBulk(ctx context.Context, tx *gorm.DB, ids []uint, status models.AvailabilityStatus) error {
	m.bulkUpdateIDs = ids
	m.bulkUpdateStatus = status
	return nil
}

// --- Mock BookingRepository ---

type mockBookingRepo struct {
	findForUpdateFn func(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error)
	returnExpiredFn func(ctx context.Context, tx *gorm.DB, today time.Time) ([]models.Booking, error)
	existsByVehicle bool

	created       *models.Booking
	statusUpdates []models.BookingStatus
}

func (m *mockBookingRepo) Create(ctx context.Context, tx *gorm.DB, b *models.Booking) error {
	b.ID = 1
	m.created = b
	return nil
}

func (m *mockBookingRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error) {
	return m.findForUpdateFn(ctx, tx, id)
}

func (m *mockBookingRepo) FindAllWithRelations(ctx context.Context) ([]models.Booking, error) {
	return []models.Booking{{ID: 1}, {ID: 2}}, nil
}

func (m *mockBookingRepo) FindByCustomer(ctx context.Context, customerID uint) ([]models.Booking, error) {
	return []models.Booking{{ID: 1, CustomerID: customerID}}, nil
}

func (m *mockBookingRepo) ExistsByVehicle(ctx context.Context, vehicleID uint) (bool, error) {
	return m.existsByVehicle, nil
}

func (m *mockBookingRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, bookingID uint, status models.BookingStatus) error {
	m.statusUpdates = append(m.statusUpdates, status)
	return nil
}

func (m *mockBookingRepo) ReturnExpired(ctx context.Context, tx *gorm.DB, today time.Time) ([]models.Booking, error) {
	if m.returnExpiredFn != nil {
		return m.returnExpiredFn(ctx, tx, today)
	}
	return nil, nil
}

// --- Fake publisher ---

type fakePublisher struct {
	published []string
}

func (f *fakePublisher) Publish(routingKey string, payload any) error {
	f.published = append(f.published, routingKey)
	return nil
}

// --- Helpers ---

func futureDate(days int) time.Time {
	y, m, d := time.Now().AddDate(0, 0, days).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func availableVehicle() *models.Vehicle {
	return &models.Vehicle{
		ID:                 7,
		VehicleName:        "Toyota Corolla",
		DailyRentPrice:     50.00,
		AvailabilityStatus: models.StatusAvailable,
	}
}

// --- CreateBooking ---

func TestCreateBooking_Success(t *testing.T) {
	vehicleRepo := &mockVehicleRepo{
		findAvailableFn: func(ctx context.Context, tx *gorm.DB, id uint) (*models.Vehicle, error) {
			return availableVehicle(), nil
		},
	}
	bookingRepo := &mockBookingRepo{}
	pub := &fakePublisher{}
	svc := NewBookingService(&fakeTxRunner{}, bookingRepo, vehicleRepo, pub)

	booking, err := svc.CreateBooking(context.Background(), Actor{ID: 3, Role: models.RoleCustomer}, CreateBookingInput{
		VehicleID:     7,
		RentStartDate: futureDate(1),
		RentEndDate:   futureDate(4),
	})

	assert.NoError(t, err)
	assert.Equal(t, uint(3), booking.CustomerID)
	assert.Equal(t, uint(7), booking.VehicleID)
	assert.Equal(t, models.StatusActive, booking.Status)
	// 3 calendar days at 50.00/day
	assert.Equal(t, 150.00, booking.TotalPrice)
	assert.Equal(t, []models.AvailabilityStatus{models.StatusBooked}, vehicleRepo.availabilityUpdates)
	assert.NotNil(t, booking.Vehicle)
	assert.Equal(t, "Toyota Corolla", booking.Vehicle.VehicleName)
	assert.Equal(t, []string{"booking.created"}, pub.published)
}

func TestCreateBooking_MidnightCrossingBillsDay(t *testing.T) {
	vehicleRepo := &mockVehicleRepo{
		findAvailableFn: func(ctx context.Context, tx *gorm.DB, id uint) (*models.Vehicle, error) {
			return availableVehicle(), nil
		},
	}
	bookingRepo := &mockBookingRepo{}
	svc := NewBookingService(&fakeTxRunner{}, bookingRepo, vehicleRepo, nil)

	// One hour crossing into a new calendar day bills that day.
	start := futureDate(1).Add(23*time.Hour + 30*time.Minute)
	end := futureDate(2).Add(30 * time.Minute)

	booking, err := svc.CreateBooking(context.Background(), Actor{ID: 3, Role: models.RoleCustomer}, CreateBookingInput{
		VehicleID:     7,
		RentStartDate: start,
		RentEndDate:   end,
	})

	assert.NoError(t, err)
	assert.Equal(t, 50.00, booking.TotalPrice)
}

func TestCreateBooking_EndNotAfterStart(t *testing.T) {
	tx := &fakeTxRunner{}
	svc := NewBookingService(tx, &mockBookingRepo{}, &mockVehicleRepo{}, nil)

	_, err := svc.CreateBooking(context.Background(), Actor{ID: 3, Role: models.RoleCustomer}, CreateBookingInput{
		VehicleID:     7,
		RentStartDate: futureDate(4),
		RentEndDate:   futureDate(4),
	})

	assert.ErrorIs(t, err, ErrInvalidDateRange)
	// Validation failures never open a transaction.
	assert.Zero(t, tx.calls)
}

func TestCreateBooking_StartInPast(t *testing.T) {
	tx := &fakeTxRunner{}
	svc := NewBookingService(tx, &mockBookingRepo{}, &mockVehicleRepo{}, nil)

	_, err := svc.CreateBooking(context.Background(), Actor{ID: 3, Role: models.RoleCustomer}, CreateBookingInput{
		VehicleID:     7,
		RentStartDate: futureDate(-1),
		RentEndDate:   futureDate(2),
	})

	assert.ErrorIs(t, err, ErrStartDateInPast)
	assert.Zero(t, tx.calls)
}

func TestCreateBooking_StartToday(t *testing.T) {
	vehicleRepo := &mockVehicleRepo{
		findAvailableFn: func(ctx context.Context, tx *gorm.DB, id uint) (*models.Vehicle, error) {
			return availableVehicle(), nil
		},
	}
	svc := NewBookingService(&fakeTxRunner{}, &mockBookingRepo{}, vehicleRepo, nil)

	_, err := svc.CreateBooking(context.Background(), Actor{ID: 3, Role: models.RoleCustomer}, CreateBookingInput{
		VehicleID:     7,
		RentStartDate: futureDate(0),
		RentEndDate:   futureDate(2),
	})

	assert.NoError(t, err)
}

func TestCreateBooking_VehicleUnavailable(t *testing.T) {
	vehicleRepo := &mockVehicleRepo{
		findAvailableFn: func(ctx context.Context, tx *gorm.DB, id uint) (*models.Vehicle, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	pub := &fakePublisher{}
	svc := NewBookingService(&fakeTxRunner{}, &mockBookingRepo{}, vehicleRepo, pub)

	_, err := svc.CreateBooking(context.Background(), Actor{ID: 3, Role: models.RoleCustomer}, CreateBookingInput{
		VehicleID:     7,
		RentStartDate: futureDate(1),
		RentEndDate:   futureDate(2),
	})

	assert.ErrorIs(t, err, ErrVehicleUnavailable)
	assert.Empty(t, vehicleRepo.availabilityUpdates)
	assert.Empty(t, pub.published)
}

// --- UpdateBooking ---

func activeBooking(customerID uint) *models.Booking {
	return &models.Booking{
		ID:         10,
		CustomerID: customerID,
		VehicleID:  7,
		Status:     models.StatusActive,
	}
}

func TestUpdateBooking_CustomerCancelsOwn(t *testing.T) {
	vehicleRepo := &mockVehicleRepo{}
	bookingRepo := &mockBookingRepo{
		findForUpdateFn: func(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error) {
			return activeBooking(3), nil
		},
	}
	pub := &fakePublisher{}
	svc := NewBookingService(&fakeTxRunner{}, bookingRepo, vehicleRepo, pub)

	booking, err := svc.UpdateBooking(context.Background(), Actor{ID: 3, Role: models.RoleCustomer}, 10, models.StatusCancelled)

	assert.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, booking.Status)
	assert.Equal(t, []models.BookingStatus{models.StatusCancelled}, bookingRepo.statusUpdates)
	assert.Equal(t, []models.AvailabilityStatus{models.StatusAvailable}, vehicleRepo.availabilityUpdates)
	assert.Equal(t, []string{"booking.cancelled"}, pub.published)
}

func TestUpdateBooking_CustomerCannotTouchOthers(t *testing.T) {
	vehicleRepo := &mockVehicleRepo{}
	bookingRepo := &mockBookingRepo{
		findForUpdateFn: func(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error) {
			return activeBooking(99), nil
		},
	}
	svc := NewBookingService(&fakeTxRunner{}, bookingRepo, vehicleRepo, nil)

	_, err := svc.UpdateBooking(context.Background(), Actor{ID: 3, Role: models.RoleCustomer}, 10, models.StatusCancelled)

	assert.ErrorIs(t, err, ErrNotBookingOwner)
	assert.Empty(t, bookingRepo.statusUpdates)
	assert.Empty(t, vehicleRepo.availabilityUpdates)
}

func TestUpdateBooking_CustomerCannotReturn(t *testing.T) {
	bookingRepo := &mockBookingRepo{
		findForUpdateFn: func(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error) {
			return activeBooking(3), nil
		},
	}
	svc := NewBookingService(&fakeTxRunner{}, bookingRepo, &mockVehicleRepo{}, nil)

	_, err := svc.UpdateBooking(context.Background(), Actor{ID: 3, Role: models.RoleCustomer}, 10, models.StatusReturned)

	assert.ErrorIs(t, err, ErrCustomerCancelOnly)
	assert.Empty(t, bookingRepo.statusUpdates)
}

func TestUpdateBooking_AdminReturnsAnyBooking(t *testing.T) {
	vehicleRepo := &mockVehicleRepo{}
	bookingRepo := &mockBookingRepo{
		findForUpdateFn: func(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error) {
			return activeBooking(99), nil
		},
	}
	pub := &fakePublisher{}
	svc := NewBookingService(&fakeTxRunner{}, bookingRepo, vehicleRepo, pub)

	booking, err := svc.UpdateBooking(context.Background(), Actor{ID: 1, Role: models.RoleAdmin}, 10, models.StatusReturned)

	assert.NoError(t, err)
	assert.Equal(t, models.StatusReturned, booking.Status)
	assert.Equal(t, []models.AvailabilityStatus{models.StatusAvailable}, vehicleRepo.availabilityUpdates)
	assert.Equal(t, []string{"booking.returned"}, pub.published)
}

func TestUpdateBooking_TerminalStateRejected(t *testing.T) {
	for _, terminal := range []models.BookingStatus{models.StatusCancelled, models.StatusReturned} {
		vehicleRepo := &mockVehicleRepo{}
		bookingRepo := &mockBookingRepo{
			findForUpdateFn: func(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error) {
				b := activeBooking(3)
				b.Status = terminal
				return b, nil
			},
		}
		svc := NewBookingService(&fakeTxRunner{}, bookingRepo, vehicleRepo, nil)

		_, err := svc.UpdateBooking(context.Background(), Actor{ID: 1, Role: models.RoleAdmin}, 10, models.StatusCancelled)

		assert.ErrorIs(t, err, ErrBookingClosed, "from %s", terminal)
		assert.Empty(t, bookingRepo.statusUpdates)
		assert.Empty(t, vehicleRepo.availabilityUpdates)
	}
}

func TestUpdateBooking_NotFound(t *testing.T) {
	bookingRepo := &mockBookingRepo{
		findForUpdateFn: func(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := NewBookingService(&fakeTxRunner{}, bookingRepo, &mockVehicleRepo{}, nil)

	_, err := svc.UpdateBooking(context.Background(), Actor{ID: 1, Role: models.RoleAdmin}, 404, models.StatusCancelled)

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestUpdateBooking_InvalidTargetStatus(t *testing.T) {
	tx := &fakeTxRunner{}
	svc := NewBookingService(tx, &mockBookingRepo{}, &mockVehicleRepo{}, nil)

	_, err := svc.UpdateBooking(context.Background(), Actor{ID: 1, Role: models.RoleAdmin}, 10, models.StatusActive)

	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Zero(t, tx.calls)
}

// --- ListBookings ---

func TestListBookings_AdminSeesAll(t *testing.T) {
	svc := NewBookingService(&fakeTxRunner{}, &mockBookingRepo{}, &mockVehicleRepo{}, nil)

	bookings, err := svc.ListBookings(context.Background(), Actor{ID: 1, Role: models.RoleAdmin})

	assert.NoError(t, err)
	assert.Len(t, bookings, 2)
}

func TestListBookings_CustomerSeesOwn(t *testing.T) {
	svc := NewBookingService(&fakeTxRunner{}, &mockBookingRepo{}, &mockVehicleRepo{}, nil)

	bookings, err := svc.ListBookings(context.Background(), Actor{ID: 3, Role: models.RoleCustomer})

	assert.NoError(t, err)
	assert.Len(t, bookings, 1)
	assert.Equal(t, uint(3), bookings[0].CustomerID)
}

// --- AutoReturnExpired ---

func TestAutoReturnExpired_SweepsAndReleases(t *testing.T) {
	vehicleRepo := &mockVehicleRepo{}
	bookingRepo := &mockBookingRepo{
		returnExpiredFn: func(ctx context.Context, tx *gorm.DB, today time.Time) ([]models.Booking, error) {
			return []models.Booking{
				{ID: 1, VehicleID: 7},
				{ID: 2, VehicleID: 9},
			}, nil
		},
	}
	pub := &fakePublisher{}
	svc := NewBookingService(&fakeTxRunner{}, bookingRepo, vehicleRepo, pub)

	count, err := svc.AutoReturnExpired(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, []uint{7, 9}, vehicleRepo.bulkUpdateIDs)
	assert.Equal(t, models.StatusAvailable, vehicleRepo.bulkUpdateStatus)
	assert.Equal(t, []string{"booking.returned", "booking.returned"}, pub.published)
}

func TestAutoReturnExpired_NothingDue(t *testing.T) {
	vehicleRepo := &mockVehicleRepo{}
	pub := &fakePublisher{}
	svc := NewBookingService(&fakeTxRunner{}, &mockBookingRepo{}, vehicleRepo, pub)

	count, err := svc.AutoReturnExpired(context.Background())

	assert.NoError(t, err)
	assert.Zero(t, count)
	assert.Nil(t, vehicleRepo.bulkUpdateIDs)
	assert.Empty(t, pub.published)
}

func TestAutoReturnExpired_SweepFailureRollsBack(t *testing.T) {
	bookingRepo := &mockBookingRepo{
		returnExpiredFn: func(ctx context.Context, tx *gorm.DB, today time.Time) ([]models.Booking, error) {
			return nil, errors.New("connection reset")
		},
	}
	pub := &fakePublisher{}
	svc := NewBookingService(&fakeTxRunner{}, bookingRepo, &mockVehicleRepo{}, pub)

	count, err := svc.AutoReturnExpired(context.Background())

	assert.Error(t, err)
	assert.Zero(t, count)
	assert.Empty(t, pub.published)
}
