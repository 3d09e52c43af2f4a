package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/srgjo27/house_rental/internal/core/domain"
)

type CustomerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	query := `
	INSERT INTO customers (id, name, email, favorites, created_at)
	VALUES ($1, $2, $3, $4::uuid[], $5)
	`

	favorites := customer.Favorites
	if favorites == nil {
		favorites = []uuid.UUID{}
	}

	_, err := r.db.ExecContext(ctx, query, customer.ID, customer.Name, customer.Email, uuidArray(favorites), customer.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("customer %s <%s>: %w", customer.ID, customer.Email, domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to insert customer: %w", err)
	}

	return nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, customerID uuid.UUID) (*domain.Customer, error) {
	query := `
	SELECT id, name, email, COALESCE(favorites, '{}')::text[], created_at
	FROM customers
	WHERE id = $1
	`

	var c domain.Customer
	var favorites pq.StringArray

	err := r.db.QueryRowContext(ctx, query, customerID).Scan(&c.ID, &c.Name, &c.Email, &favorites, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("customer %s: %w", customerID, domain.ErrNotFound)
		}
		return nil, err
	}

	c.Favorites, err = parseUUIDs(favorites)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// ToggleFavorite flips membership in a single UPDATE. The row lock taken by
// the update serializes concurrent toggles on the same customer, and the
// RETURNING clause reads the post-update array.
func (r *CustomerRepository) ToggleFavorite(ctx context.Context, customerID, propertyID uuid.UUID) (*domain.FavoriteSet, bool, error) {
	query := `
	UPDATE customers
	SET favorites = CASE
		WHEN $2::uuid = ANY(COALESCE(favorites, '{}')) THEN array_remove(favorites, $2::uuid)
		ELSE array_append(COALESCE(favorites, '{}'), $2::uuid)
	END
	WHERE id = $1
	RETURNING favorites::text[], $2::uuid = ANY(favorites)
	`

	var favorites pq.StringArray
	var added bool

	err := r.db.QueryRowContext(ctx, query, customerID, propertyID).Scan(&favorites, &added)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, fmt.Errorf("customer %s: %w", customerID, domain.ErrNotFound)
		}
		return nil, false, err
	}

	ids, err := parseUUIDs(favorites)
	if err != nil {
		return nil, false, err
	}

	return &domain.FavoriteSet{CustomerID: customerID, PropertyIDs: ids}, added, nil
}
