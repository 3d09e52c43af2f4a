package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Table models used only for schema migration. Queries go through the
// repositories' own SQL.

type propertyTable struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	Address     string    `gorm:"not null"`
	Price       float64   `gorm:"type:numeric(12,2);not null;check:price > 0"`
	Rooms       int       `gorm:"not null;check:rooms > 0"`
	HouseType   string    `gorm:"not null"`
	Description string    `gorm:"type:text"`
	OwnerID     string    `gorm:"type:uuid;not null;index"`
	Status      string    `gorm:"not null;default:available;index"`
	ImageURL    string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"not null"`
}

func (propertyTable) TableName() string { return "properties" }

type bookingTable struct {
	ID         string     `gorm:"type:uuid;primaryKey"`
	CustomerID string     `gorm:"type:uuid;not null;index"`
	PropertyID string     `gorm:"type:uuid;not null;index:idx_bookings_property_status"`
	BookedAt   time.Time  `gorm:"not null"`
	StartDate  time.Time  `gorm:"not null"`
	EndDate    *time.Time `gorm:"default:null"`
	Status     string     `gorm:"not null;index:idx_bookings_property_status"`
}

func (bookingTable) TableName() string { return "bookings" }

type paymentTable struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	BookingID  string    `gorm:"type:uuid;not null;index"`
	CustomerID string    `gorm:"type:uuid;not null;index"`
	Amount     float64   `gorm:"type:numeric(12,2);not null;check:amount > 0"`
	Method     string    `gorm:"not null"`
	Status     string    `gorm:"not null;index"`
	PaidAt     time.Time `gorm:"not null"`
}

func (paymentTable) TableName() string { return "payments" }

type customerTable struct {
	ID        string         `gorm:"type:uuid;primaryKey"`
	Name      string         `gorm:"not null"`
	Email     string         `gorm:"not null;uniqueIndex"`
	Favorites pq.StringArray `gorm:"type:uuid[];not null;default:'{}'"`
	CreatedAt time.Time      `gorm:"not null"`
}

func (customerTable) TableName() string { return "customers" }

// OneApprovedBookingIndex lets a property hold at most one approved booking.
const OneApprovedBookingIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_one_approved
	ON bookings (property_id) WHERE status = 'approved'`

// Migrate creates or extends the schema on an existing connection.
func Migrate(db *sql.DB) error {
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to open gorm on existing connection: %w", err)
	}

	if err := gdb.AutoMigrate(&propertyTable{}, &bookingTable{}, &paymentTable{}, &customerTable{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	if err := gdb.Exec(OneApprovedBookingIndex).Error; err != nil {
		return fmt.Errorf("failed to create approved booking index: %w", err)
	}

	return nil
}
