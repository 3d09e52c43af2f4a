package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"
)

type Config struct {
	Host         string
	Port         string
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
	AutoMigrate  bool
}

func (c Config) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, sslMode)
}

func NewPostgresDB(cfg Config) (*sql.DB, error) {
	var db *sql.DB
	var err error
	maxRetries := 10

	for i := 1; i <= maxRetries; i++ {
		log.Printf("Connecting to database (Attempt %d/%d)...", i, maxRetries)
		db, err = sql.Open("postgres", cfg.DSN())
		if err == nil {
			err = db.Ping()
		}

		if err == nil {
			log.Println("Database connected successfully!")
			configurePool(db, cfg.MaxOpenConns)
			return db, nil
		}

		log.Printf("Database not ready yet. Waiting 2 seconds...")
		time.Sleep(2 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect to database: %w", err)
}

func configurePool(db *sql.DB, maxOpen int) {
	if maxOpen <= 0 {
		maxOpen = 25
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen)
	db.SetConnMaxLifetime(5 * time.Minute)
}
