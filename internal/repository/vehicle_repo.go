package repository

import (
	"context"

	"github.com/rentora/rental-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *models.Vehicle) error
	FindByID(ctx context.Context, id uint) (*models.Vehicle, error)
	FindByRegistration(ctx context.Context, registration string) (*models.Vehicle, error)
	FindAll(ctx context.Context) ([]models.Vehicle, error)
	Update(ctx context.Context, vehicle *models.Vehicle) error
	Delete(ctx context.Context, id uint) error

	// FindAvailableForUpdate takes an exclusive row lock on the vehicle and
	// returns it only while availability_status is 'available'. A missing or
	// already-booked vehicle surfaces as gorm.ErrRecordNotFound. The lock is
	// held until the surrounding transaction commits or rolls back, which is
	// the sole defense against double-booking.
	FindAvailableForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Vehicle, error)

	// UpdateAvailability unconditionally sets the availability flag. Releasing
	// an already-available vehicle is a no-op, not an error.
	UpdateAvailability(ctx context.Context, tx *gorm.DB, id uint, status models.AvailabilityStatus) error
	UpdateAvailabilityBulk(ctx context.Context, tx *gorm.DB, ids []uint, status models.AvailabilityStatus) error
}

type vehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	return r.db.WithContext(ctx).Create(vehicle).Error
}

func (r *vehicleRepository) FindByID(ctx context.Context, id uint) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := r.db.WithContext(ctx).First(&vehicle, id).Error; err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *vehicleRepository) FindByRegistration(ctx context.Context, registration string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.db.WithContext(ctx).
		Where("registration_number = ?", registration).
		First(&vehicle).Error
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *vehicleRepository) FindAll(ctx context.Context) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (r *vehicleRepository) Update(ctx context.Context, vehicle *models.Vehicle) error {
	return r.db.WithContext(ctx).Save(vehicle).Error
}

func (r *vehicleRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Vehicle{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *vehicleRepository) FindAvailableForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("availability_status = ?", models.StatusAvailable).
		First(&vehicle, id).Error
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *vehicleRepository) UpdateAvailability(ctx context.Context, tx *gorm.DB, id uint, status models.AvailabilityStatus) error {
	return tx.WithContext(ctx).
		Model(&models.Vehicle{}).
		Where("id = ?", id).
		Update("availability_status", status).Error
}

func (r *vehicleRepository) UpdateAvailabilityBulk(ctx context.Context, tx *gorm.DB, ids []uint, status models.AvailabilityStatus) error {
	if len(ids) == 0 {
		return nil
	}
	return tx.WithContext(ctx).
		Model(&models.Vehicle{}).
		Where("id IN ?", ids).
		Update("availability_status", status).Error
}
