package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/srgjo27/house_rental/internal/core/domain"
)

const propertyColumns = `id, address, price, rooms, house_type, description, owner_id, status, image_url, created_at`

type PropertyRepository struct {
	db *sql.DB
}

func NewPropertyRepository(db *sql.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

func (r *PropertyRepository) Create(ctx context.Context, p *domain.Property) error {
	query := `
	INSERT INTO properties (` + propertyColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Address, p.Price, p.Rooms, p.Type, p.Description, p.OwnerID, p.Status, p.ImageURL, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert property: %w", err)
	}

	return nil
}

func (r *PropertyRepository) GetByID(ctx context.Context, propertyID uuid.UUID) (*domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`

	p, err := scanProperty(r.db.QueryRowContext(ctx, query, propertyID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("property %s: %w", propertyID, domain.ErrNotFound)
		}
		return nil, err
	}

	return p, nil
}

func propertyConditions(filter domain.PropertyFilter) conditions {
	var c conditions
	if filter.Status != "" {
		c.add("status = $%d", filter.Status)
	}
	if filter.OwnerID != nil {
		c.add("owner_id = $%d", *filter.OwnerID)
	}
	if filter.IDs != nil {
		c.add("id = ANY($%d::uuid[])", uuidArray(filter.IDs))
	}
	if filter.Address != "" {
		c.add("address ILIKE $%d", containsPattern(filter.Address))
	}
	if filter.MinPrice != nil {
		c.add("price >= $%d", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		c.add("price <= $%d", *filter.MaxPrice)
	}
	if filter.Rooms > 0 {
		c.add("rooms = $%d", filter.Rooms)
	}
	if filter.Type != "" {
		c.add("house_type = $%d", filter.Type)
	}
	return c
}

func (r *PropertyRepository) List(ctx context.Context, filter domain.PropertyFilter) ([]domain.Property, error) {
	c := propertyConditions(filter)
	query := `SELECT ` + propertyColumns + ` FROM properties` + c.where() + ` ORDER BY created_at DESC`
	query += c.page(filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, c.args...)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	properties := []domain.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}

		properties = append(properties, *p)
	}

	return properties, rows.Err()
}

func (r *PropertyRepository) Count(ctx context.Context, filter domain.PropertyFilter) (int64, error) {
	c := propertyConditions(filter)

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM properties`+c.where(), c.args...).Scan(&total); err != nil {
		return 0, err
	}

	return total, nil
}

func (r *PropertyRepository) Update(ctx context.Context, p *domain.Property) error {
	query := `
	UPDATE properties
	SET address = $2, price = $3, rooms = $4, house_type = $5, description = $6, image_url = $7
	WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, p.ID, p.Address, p.Price, p.Rooms, p.Type, p.Description, p.ImageURL)
	if err != nil {
		return fmt.Errorf("failed to update property: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return fmt.Errorf("property %s: %w", p.ID, domain.ErrNotFound)
	}

	return nil
}

// TransitionStatus moves the property from expect to next in one conditional
// update. Zero affected rows means the property is gone or not in expect.
func (r *PropertyRepository) TransitionStatus(ctx context.Context, propertyID uuid.UUID, expect, next domain.PropertyStatus) error {
	query := `
	UPDATE properties
	SET status = $3
	WHERE id = $1 AND status = $2
	`

	result, err := r.db.ExecContext(ctx, query, propertyID, expect, next)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		found, err := exists(ctx, r.db, "properties", propertyID)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("property %s: %w", propertyID, domain.ErrNotFound)
		}
		return fmt.Errorf("property %s is no longer %s: %w", propertyID, expect, domain.ErrConflict)
	}

	return nil
}

func (r *PropertyRepository) Delete(ctx context.Context, propertyID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM properties WHERE id = $1`, propertyID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return fmt.Errorf("property %s: %w", propertyID, domain.ErrNotFound)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProperty(row rowScanner) (*domain.Property, error) {
	var p domain.Property
	var description, imageURL sql.NullString

	err := row.Scan(
		&p.ID,
		&p.Address,
		&p.Price,
		&p.Rooms,
		&p.Type,
		&description,
		&p.OwnerID,
		&p.Status,
		&imageURL,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Description = description.String
	p.ImageURL = imageURL.String

	return &p, nil
}
