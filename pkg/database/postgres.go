package database

import (
	"github.com/rentora/rental-service/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		logrus.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Vehicle{}, &models.Booking{}); err != nil {
		logrus.Fatalf("failed to auto-migrate: %v", err)
	}

	// Integrity backstops AutoMigrate cannot express. The partial unique
	// index enforces the central invariant at the storage layer: at most one
	// active booking per vehicle, ever.
	db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_one_active_booking_per_vehicle
		ON bookings (vehicle_id)
		WHERE status = 'active'
	`)

	db.Exec(`
		DO $$ BEGIN
			ALTER TABLE users ADD CONSTRAINT chk_users_email_lowercase
				CHECK (email = LOWER(email));
			ALTER TABLE users ADD CONSTRAINT chk_users_password_min_length
				CHECK (LENGTH(password) >= 6);
			ALTER TABLE vehicles ADD CONSTRAINT chk_vehicles_price_positive
				CHECK (daily_rent_price > 0);
			ALTER TABLE bookings ADD CONSTRAINT chk_bookings_price_positive
				CHECK (total_price > 0);
			ALTER TABLE bookings ADD CONSTRAINT chk_bookings_date_order
				CHECK (rent_end_date > rent_start_date);
		EXCEPTION
			WHEN duplicate_object THEN null;
		END $$;
	`)

	return db
}
