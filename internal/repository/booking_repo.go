package repository

import (
	"context"
	"time"

	"github.com/rentora/rental-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRepository interface {
	Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error)
	FindAllWithRelations(ctx context.Context) ([]models.Booking, error)
	FindByCustomer(ctx context.Context, customerID uint) ([]models.Booking, error)
	ExistsByVehicle(ctx context.Context, vehicleID uint) (bool, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, bookingID uint, status models.BookingStatus) error

	// ReturnExpired flips every active booking whose rent period ended before
	// today to 'returned' and reports the affected rows in one atomic
	// statement (UPDATE ... RETURNING).
	ReturnExpired(ctx context.Context, tx *gorm.DB, today time.Time) ([]models.Booking, error)
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return tx.WithContext(ctx).Create(booking).Error
}

// FindByIDForUpdate locks the booking row within the given transaction so
// concurrent status updates on the same booking serialize.
func (r *bookingRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error) {
	var booking models.Booking
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&booking, id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindAllWithRelations(ctx context.Context) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Preload("Vehicle").
		Preload("Customer").
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindByCustomer(ctx context.Context, customerID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Preload("Vehicle").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) ExistsByVehicle(ctx context.Context, vehicleID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("vehicle_id = ?", vehicleID).
		Count(&count).Error
	return count > 0, err
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, bookingID uint, status models.BookingStatus) error {
	return tx.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", bookingID).
		Update("status", status).Error
}

func (r *bookingRepository) ReturnExpired(ctx context.Context, tx *gorm.DB, today time.Time) ([]models.Booking, error) {
	var expired []models.Booking
	result := tx.WithContext(ctx).
		Model(&expired).
		Clauses(clause.Returning{Columns: []clause.Column{
			{Name: "id"}, {Name: "customer_id"}, {Name: "vehicle_id"}, {Name: "total_price"},
		}}).
		Where("status = ? AND rent_end_date < ?", models.StatusActive, today).
		Update("status", models.StatusReturned)
	if result.Error != nil {
		return nil, result.Error
	}
	return expired, nil
}
