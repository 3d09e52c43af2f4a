package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/srgjo27/house_rental/internal/core/domain"
)

// PropertyCache entries are scoped to a generation shared by every instance.
// Lookups return the generation they observed; a value loaded from the store
// after a miss is written back with that generation so a fill that raced an
// Invalidate lands in a generation nobody reads anymore. A negative
// generation disables the write.
type PropertyCache interface {
	Get(ctx context.Context, propertyID uuid.UUID) (*domain.Property, int64, bool)
	Set(ctx context.Context, generation int64, property *domain.Property)
	GetAvailable(ctx context.Context) (*domain.PropertyPage, int64, bool)
	SetAvailable(ctx context.Context, generation int64, page *domain.PropertyPage)
	Invalidate(ctx context.Context, propertyIDs ...uuid.UUID)
}

type PropertyAction string

const (
	PropertyCreated PropertyAction = "create"
	PropertyUpdated PropertyAction = "update"
	PropertyDeleted PropertyAction = "delete"
)

// PropertyEventPublisher feeds downstream consumers such as the search index.
// Delivery is best effort.
type PropertyEventPublisher interface {
	PublishPropertyEvent(ctx context.Context, action PropertyAction, propertyID uuid.UUID) error
}

// InconsistencyReporter carries recoverable inconsistencies to reconciliation.
type InconsistencyReporter interface {
	Report(ctx context.Context, signal domain.Inconsistency) error
	// Pending returns up to limit of the newest unacknowledged signals,
	// newest first, along with the size of the whole backlog.
	Pending(ctx context.Context, limit int64) ([]domain.Inconsistency, int64, error)
	// Ack drops handled signals from the backlog.
	Ack(ctx context.Context, signalIDs ...string) error
}
