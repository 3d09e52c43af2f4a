package services_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/house_rental/internal/core/domain"
	"github.com/srgjo27/house_rental/internal/core/ports"
	"github.com/srgjo27/house_rental/internal/core/services"
	"github.com/srgjo27/house_rental/internal/platform/logger"
)

// memStore is an in-memory store with the same single-document atomicity
// the real adapters give: every method holds the lock for one document.
type memStore struct {
	mu         sync.Mutex
	properties map[uuid.UUID]domain.Property
	bookings   map[uuid.UUID]domain.Booking
	payments   []domain.Payment
	customers  map[uuid.UUID]domain.Customer

	// propertyErr, when set, fails every property status write.
	propertyErr error
	// beforeBookingWrite, when set, runs before every booking status write
	// outside the lock. Tests use it to line up concurrent writers.
	beforeBookingWrite func()
}

func newMemStore() *memStore {
	return &memStore{
		properties: map[uuid.UUID]domain.Property{},
		bookings:   map[uuid.UUID]domain.Booking{},
		customers:  map[uuid.UUID]domain.Customer{},
	}
}

type memProperties struct{ s *memStore }
type memBookings struct{ s *memStore }
type memPayments struct{ s *memStore }
type memCustomers struct{ s *memStore }

func (r memProperties) Create(_ context.Context, p *domain.Property) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.properties[p.ID] = *p
	return nil
}

func (r memProperties) GetByID(_ context.Context, id uuid.UUID) (*domain.Property, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.properties[id]
	if !ok {
		return nil, fmt.Errorf("property %s: %w", id, domain.ErrNotFound)
	}
	return &p, nil
}

func (r memProperties) List(_ context.Context, f domain.PropertyFilter) ([]domain.Property, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := r.matching(f)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Limit > 0 {
		from := min(f.Offset, len(out))
		out = out[from:min(from+f.Limit, len(out))]
	}
	return out, nil
}

func (r memProperties) Count(_ context.Context, f domain.PropertyFilter) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.matching(f))), nil
}

func (r memProperties) matching(f domain.PropertyFilter) []domain.Property {
	out := []domain.Property{}
	for _, p := range r.s.properties {
		switch {
		case f.Status != "" && p.Status != f.Status,
			f.OwnerID != nil && p.OwnerID != *f.OwnerID,
			f.IDs != nil && !containsID(f.IDs, p.ID),
			f.Address != "" && !strings.Contains(strings.ToLower(p.Address), strings.ToLower(f.Address)),
			f.MinPrice != nil && p.Price < *f.MinPrice,
			f.MaxPrice != nil && p.Price > *f.MaxPrice,
			f.Rooms > 0 && p.Rooms != f.Rooms,
			f.Type != "" && p.Type != f.Type:
			continue
		}
		out = append(out, p)
	}
	return out
}

func (r memProperties) Update(_ context.Context, p *domain.Property) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.properties[p.ID]
	if !ok {
		return fmt.Errorf("property %s: %w", p.ID, domain.ErrNotFound)
	}
	updated := *p
	updated.Status = current.Status
	updated.OwnerID = current.OwnerID
	updated.CreatedAt = current.CreatedAt
	r.s.properties[p.ID] = updated
	return nil
}

func (r memProperties) TransitionStatus(_ context.Context, id uuid.UUID, expect, next domain.PropertyStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.propertyErr != nil {
		return r.s.propertyErr
	}
	p, ok := r.s.properties[id]
	if !ok {
		return fmt.Errorf("property %s: %w", id, domain.ErrNotFound)
	}
	if p.Status != expect {
		return fmt.Errorf("property %s is %s: %w", id, p.Status, domain.ErrConflict)
	}
	p.Status = next
	r.s.properties[id] = p
	return nil
}

func (r memProperties) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.properties[id]; !ok {
		return fmt.Errorf("property %s: %w", id, domain.ErrNotFound)
	}
	delete(r.s.properties, id)
	return nil
}

func (r memBookings) Create(_ context.Context, b *domain.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.bookings[b.ID] = *b
	return nil
}

func (r memBookings) GetByID(_ context.Context, id uuid.UUID) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", id, domain.ErrNotFound)
	}
	return &b, nil
}

func (r memBookings) List(_ context.Context, f domain.BookingFilter) ([]domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Booking{}
	for _, b := range r.s.bookings {
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		if f.CustomerID != nil && b.CustomerID != *f.CustomerID {
			continue
		}
		if f.PropertyID != nil && b.PropertyID != *f.PropertyID {
			continue
		}
		if f.PropertyIDs != nil && !containsID(f.PropertyIDs, b.PropertyID) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

// TransitionStatus enforces the same one-approved-booking-per-property rule
// as the stores' partial unique indexes.
func (r memBookings) TransitionStatus(_ context.Context, id uuid.UUID, expect, next domain.BookingStatus, endDate *time.Time) (*domain.Booking, error) {
	if r.s.beforeBookingWrite != nil {
		r.s.beforeBookingWrite()
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", id, domain.ErrNotFound)
	}
	if b.Status != expect {
		return nil, fmt.Errorf("booking %s is %s: %w", id, b.Status, domain.ErrConflict)
	}
	if next == domain.BookingApproved {
		for _, other := range r.s.bookings {
			if other.ID != id && other.PropertyID == b.PropertyID && other.Status == domain.BookingApproved {
				return nil, fmt.Errorf("booking %s: property %s already has an approved booking: %w", id, b.PropertyID, domain.ErrConflict)
			}
		}
	}
	b.Status = next
	if endDate != nil {
		b.EndDate = endDate
	}
	r.s.bookings[id] = b
	return &b, nil
}

func (r memPayments) Create(_ context.Context, p *domain.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.payments = append(r.s.payments, *p)
	return nil
}

func (r memPayments) List(_ context.Context, f domain.PaymentFilter) ([]domain.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Payment{}
	for _, p := range r.s.payments {
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.CustomerID != nil && p.CustomerID != *f.CustomerID {
			continue
		}
		if f.BookingID != nil && p.BookingID != *f.BookingID {
			continue
		}
		if f.BookingIDs != nil && !containsID(f.BookingIDs, p.BookingID) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r memCustomers) Create(_ context.Context, c *domain.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.customers {
		if existing.ID == c.ID || existing.Email == c.Email {
			return fmt.Errorf("customer %s <%s>: %w", c.ID, c.Email, domain.ErrConflict)
		}
	}
	r.s.customers[c.ID] = *c
	return nil
}

func (r memCustomers) GetByID(_ context.Context, id uuid.UUID) (*domain.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.customers[id]
	if !ok {
		return nil, fmt.Errorf("customer %s: %w", id, domain.ErrNotFound)
	}
	c.Favorites = append([]uuid.UUID(nil), c.Favorites...)
	return &c, nil
}

func (r memCustomers) ToggleFavorite(_ context.Context, customerID, propertyID uuid.UUID) (*domain.FavoriteSet, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.customers[customerID]
	if !ok {
		return nil, false, fmt.Errorf("customer %s: %w", customerID, domain.ErrNotFound)
	}

	next := make([]uuid.UUID, 0, len(c.Favorites)+1)
	removed := false
	for _, id := range c.Favorites {
		if id == propertyID {
			removed = true
			continue
		}
		next = append(next, id)
	}
	if !removed {
		next = append(next, propertyID)
	}
	c.Favorites = next
	r.s.customers[customerID] = c

	return &domain.FavoriteSet{CustomerID: customerID, PropertyIDs: append([]uuid.UUID(nil), next...)}, !removed, nil
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

type nopCache struct {
	mu          sync.Mutex
	invalidated []uuid.UUID
}

func (c *nopCache) Get(context.Context, uuid.UUID) (*domain.Property, int64, bool) {
	return nil, -1, false
}
func (c *nopCache) Set(context.Context, int64, *domain.Property) {}
func (c *nopCache) GetAvailable(context.Context) (*domain.PropertyPage, int64, bool) {
	return nil, -1, false
}
func (c *nopCache) SetAvailable(context.Context, int64, *domain.PropertyPage) {}
func (c *nopCache) Invalidate(_ context.Context, ids ...uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, ids...)
}

type recordingEvents struct {
	mu     sync.Mutex
	events []ports.PropertyAction
}

func (e *recordingEvents) PublishPropertyEvent(_ context.Context, action ports.PropertyAction, _ uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, action)
	return nil
}

type recordingReporter struct {
	mu      sync.Mutex
	seq     int
	signals []domain.Inconsistency
}

func (r *recordingReporter) Report(_ context.Context, sig domain.Inconsistency) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	sig.ID = fmt.Sprintf("%d-0", r.seq)
	r.signals = append(r.signals, sig)
	return nil
}

// Pending mirrors the stream: newest first, capped at limit.
func (r *recordingReporter) Pending(_ context.Context, limit int64) ([]domain.Inconsistency, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Inconsistency{}
	for i := len(r.signals) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		out = append(out, r.signals[i])
	}
	return out, int64(len(r.signals)), nil
}

func (r *recordingReporter) Ack(_ context.Context, ids ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	acked := make(map[string]bool, len(ids))
	for _, id := range ids {
		acked[id] = true
	}
	kept := r.signals[:0]
	for _, sig := range r.signals {
		if !acked[sig.ID] {
			kept = append(kept, sig)
		}
	}
	r.signals = kept
	return nil
}

func (r *recordingReporter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.signals)
}

type harness struct {
	store    *memStore
	cache    *nopCache
	events   *recordingEvents
	reporter *recordingReporter

	bookings       *services.BookingService
	payments       *services.PaymentService
	favorites      *services.FavoriteService
	customers      *services.CustomerService
	properties     *services.PropertyService
	reconciliation *services.ReconciliationService
}

func newHarness() *harness {
	h := &harness{
		store:    newMemStore(),
		cache:    &nopCache{},
		events:   &recordingEvents{},
		reporter: &recordingReporter{},
	}

	propertyRepo := memProperties{h.store}
	bookingRepo := memBookings{h.store}
	paymentRepo := memPayments{h.store}
	customerRepo := memCustomers{h.store}
	log := logger.Nop()

	propertySync := services.NewPropertySync(propertyRepo, h.cache, h.events, h.reporter, log)
	h.bookings = services.NewBookingService(propertyRepo, bookingRepo, propertySync, log)
	h.payments = services.NewPaymentService(propertyRepo, bookingRepo, paymentRepo, h.bookings, propertySync, log)
	h.favorites = services.NewFavoriteService(customerRepo, propertyRepo, log)
	h.customers = services.NewCustomerService(customerRepo, log)
	h.properties = services.NewPropertyService(propertyRepo, h.cache, propertySync, log)
	h.reconciliation = services.NewReconciliationService(propertyRepo, bookingRepo, paymentRepo, h.reporter, log)
	return h
}

func (h *harness) seedProperty(status domain.PropertyStatus) domain.Property {
	p := domain.Property{
		ID:      uuid.New(),
		Address: "12 Harbour Road",
		Price:   1500,
		Rooms:   3,
		Type:    domain.PropertyApartment,
		OwnerID: uuid.New(),
		Status:  status,
	}
	h.store.properties[p.ID] = p
	return p
}

func (h *harness) seedBooking(customerID, propertyID uuid.UUID, status domain.BookingStatus) domain.Booking {
	b := domain.Booking{
		ID:         uuid.New(),
		CustomerID: customerID,
		PropertyID: propertyID,
		BookedAt:   time.Now().UTC(),
		StartDate:  time.Now().UTC(),
		Status:     status,
	}
	h.store.bookings[b.ID] = b
	return b
}

func (h *harness) seedCustomer(favorites ...uuid.UUID) domain.Customer {
	c := domain.Customer{ID: uuid.New(), Name: "Ada", Email: "ada@example.com", Favorites: favorites}
	h.store.customers[c.ID] = c
	return c
}

func (h *harness) property(id uuid.UUID) domain.Property {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	return h.store.properties[id]
}

func (h *harness) booking(id uuid.UUID) domain.Booking {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	return h.store.bookings[id]
}

var staff = domain.Principal{ID: uuid.New(), Role: domain.RoleStaff}
