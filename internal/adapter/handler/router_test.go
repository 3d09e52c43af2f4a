package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/srgjo27/house_rental/internal/core/domain"
	"github.com/srgjo27/house_rental/internal/core/services"
	"github.com/srgjo27/house_rental/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type fakeBookings struct {
	booking *domain.Booking
	err     error
	status  string
	caller  domain.Principal
}

func (f *fakeBookings) CreateBooking(_ context.Context, customerID uuid.UUID, _ services.CreateBookingRequest) (*domain.Booking, error) {
	f.caller = domain.Principal{ID: customerID, Role: domain.RoleCustomer}
	return f.booking, f.err
}

func (f *fakeBookings) SetStatus(_ context.Context, _ string, status string, caller domain.Principal) (*domain.Booking, error) {
	f.status, f.caller = status, caller
	return f.booking, f.err
}

func (f *fakeBookings) EndBooking(context.Context, string, uuid.UUID) (*domain.Booking, error) {
	return f.booking, f.err
}

func (f *fakeBookings) GetBooking(context.Context, string, domain.Principal) (*domain.Booking, error) {
	return f.booking, f.err
}

func (f *fakeBookings) ListBookings(_ context.Context, caller domain.Principal, _ services.BookingQuery) ([]domain.Booking, error) {
	f.caller = caller
	return []domain.Booking{}, f.err
}

type fakePayments struct {
	payment *domain.Payment
	err     error
	manual  *services.ManualPaymentRequest
}

func (f *fakePayments) SettlePayment(context.Context, uuid.UUID, services.SettlePaymentRequest) (*domain.Payment, error) {
	return f.payment, f.err
}

func (f *fakePayments) RecordManualPayment(_ context.Context, _ string, _ uuid.UUID, req services.ManualPaymentRequest) (*domain.Payment, error) {
	f.manual = &req
	return f.payment, f.err
}

func (f *fakePayments) ListPayments(context.Context, domain.Principal) ([]domain.Payment, error) {
	return []domain.Payment{}, f.err
}

func (f *fakePayments) ListTenants(context.Context, domain.Principal) ([]domain.Tenancy, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []domain.Tenancy{{
		Booking:             domain.Booking{ID: uuid.New(), Status: domain.BookingApproved},
		Payments:            []domain.Payment{},
		LatestPaymentStatus: domain.PaymentUnpaid,
	}}, nil
}

type fakeCustomers struct {
	err    error
	caller domain.Principal
	req    services.RegisterCustomerRequest
}

func (f *fakeCustomers) RegisterCustomer(_ context.Context, caller domain.Principal, req services.RegisterCustomerRequest) (*domain.Customer, error) {
	f.caller, f.req = caller, req
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Customer{ID: caller.ID, Name: req.Name, Email: req.Email, Favorites: []uuid.UUID{}}, nil
}

func (f *fakeCustomers) GetCustomer(_ context.Context, customerID uuid.UUID) (*domain.Customer, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Customer{ID: customerID, Favorites: []uuid.UUID{}}, nil
}

type fakeFavorites struct {
	added bool
	err   error
}

func (f *fakeFavorites) ToggleFavorite(_ context.Context, customerID uuid.UUID, propertyID string) (*domain.FavoriteSet, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	set := &domain.FavoriteSet{CustomerID: customerID, PropertyIDs: []uuid.UUID{}}
	if f.added {
		set.PropertyIDs = append(set.PropertyIDs, uuid.MustParse(propertyID))
	}
	return set, f.added, nil
}

func (f *fakeFavorites) ListFavorites(context.Context, uuid.UUID) ([]domain.Property, error) {
	return []domain.Property{}, f.err
}

type fakeProperties struct {
	property    *domain.Property
	err         error
	maintenance *bool
	query       services.PropertyQuery
	update      *services.UpdatePropertyRequest
}

func (f *fakeProperties) CreateProperty(context.Context, domain.Principal, services.CreatePropertyRequest) (*domain.Property, error) {
	return f.property, f.err
}

func (f *fakeProperties) GetProperty(context.Context, string) (*domain.Property, error) {
	return f.property, f.err
}

func (f *fakeProperties) ListProperties(_ context.Context, q services.PropertyQuery) (*domain.PropertyPage, error) {
	f.query = q
	return &domain.PropertyPage{Houses: []domain.Property{*f.property}, Page: 1, Pages: 1, Total: 1}, f.err
}

func (f *fakeProperties) UpdateProperty(_ context.Context, _ string, _ domain.Principal, req services.UpdatePropertyRequest) (*domain.Property, error) {
	f.update = &req
	return f.property, f.err
}

func (f *fakeProperties) SetMaintenance(_ context.Context, _ string, on bool, _ domain.Principal) (*domain.Property, error) {
	f.maintenance = &on
	return f.property, f.err
}

func (f *fakeProperties) DeleteProperty(context.Context, string, domain.Principal) error {
	return f.err
}

type fakeReconciliation struct{}

func (fakeReconciliation) Scan(context.Context) (*services.ReconciliationReport, error) {
	return &services.ReconciliationReport{Drifts: []services.Drift{}, Signals: []domain.Inconsistency{}}, nil
}

type fixture struct {
	router     *gin.Engine
	bookings   *fakeBookings
	payments   *fakePayments
	favorites  *fakeFavorites
	customers  *fakeCustomers
	properties *fakeProperties
}

func newFixture() *fixture {
	gin.SetMode(gin.TestMode)

	f := &fixture{
		bookings:   &fakeBookings{},
		payments:   &fakePayments{},
		favorites:  &fakeFavorites{},
		customers:  &fakeCustomers{},
		properties: &fakeProperties{property: &domain.Property{ID: uuid.New(), Status: domain.PropertyAvailable}},
	}
	log := logger.Nop()
	f.router = NewRouter(Handlers{
		Bookings:       NewBookingHandler(f.bookings, log),
		Payments:       NewPaymentHandler(f.payments, log),
		Favorites:      NewFavoriteHandler(f.favorites, log),
		Customers:      NewCustomerHandler(f.customers, log),
		Properties:     NewPropertyHandler(f.properties, log),
		Reconciliation: NewReconciliationHandler(fakeReconciliation{}, log),
	}, testSecret)
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string, caller *domain.Principal) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	if caller != nil {
		token, err := NewToken(testSecret, *caller, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func principal(role domain.Role) *domain.Principal {
	return &domain.Principal{ID: uuid.New(), Role: role}
}

func TestHealth(t *testing.T) {
	f := newFixture()

	w := f.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}

func TestPublicHouseRoutesNeedNoToken(t *testing.T) {
	f := newFixture()

	w := f.do(t, http.MethodGet, "/api/houses?status=available", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Len(t, body["houses"], 1)
	assert.Equal(t, float64(1), body["total"])

	w = f.do(t, http.MethodGet, "/api/houses/"+f.properties.property.ID.String(), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuth(t *testing.T) {
	f := newFixture()

	t.Run("missing header", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/api/bookings", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewToken("other-secret", *principal(domain.RoleCustomer), time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := NewToken(testSecret, *principal(domain.RoleCustomer), -time.Minute)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("system role is never accepted from a token", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/api/bookings", "", principal(domain.RoleSystem))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("caller reaches the service", func(t *testing.T) {
		caller := principal(domain.RoleLandlord)
		w := f.do(t, http.MethodGet, "/api/bookings", "", caller)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, *caller, f.bookings.caller)
	})
}

func TestRoleGates(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		role   domain.Role
	}{
		{"landlord cannot book", http.MethodPost, "/api/bookings", `{"house_id":"x","start_date":"2026-01-01"}`, domain.RoleLandlord},
		{"customer cannot set status", http.MethodPut, "/api/bookings/" + uuid.NewString(), `{"booking_status":"approved"}`, domain.RoleCustomer},
		{"customer cannot mark paid", http.MethodPost, "/api/landlords/mark-paid/" + uuid.NewString(), "", domain.RoleCustomer},
		{"landlord has no favorites", http.MethodGet, "/api/customers/favorites", "", domain.RoleLandlord},
		{"staff cannot delete houses", http.MethodDelete, "/api/houses/" + uuid.NewString(), "", domain.RoleStaff},
		{"customer cannot create houses", http.MethodPost, "/api/houses", `{}`, domain.RoleCustomer},
		{"customer cannot reconcile", http.MethodGet, "/api/reconciliation", "", domain.RoleCustomer},
		{"customer cannot edit houses", http.MethodPut, "/api/houses/" + uuid.NewString(), `{}`, domain.RoleCustomer},
		{"customer cannot list tenants", http.MethodGet, "/api/landlords/tenants", "", domain.RoleCustomer},
		{"landlord cannot register customers", http.MethodPost, "/api/customers", `{}`, domain.RoleLandlord},
		{"staff has no customer profile", http.MethodGet, "/api/customers/me", "", domain.RoleStaff},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			w := f.do(t, tt.method, tt.path, tt.body, principal(tt.role))

			assert.Equal(t, http.StatusForbidden, w.Code)
			assert.Equal(t, string(domain.CodeUnauthorized), decode(t, w)["code"])
		})
	}
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{domain.NotFound("booking missing"), http.StatusNotFound},
		{domain.Unauthorized("not yours"), http.StatusForbidden},
		{domain.InvalidState("not pending"), http.StatusConflict},
		{domain.Conflict("lost the race"), http.StatusConflict},
		{domain.InvalidTransition(domain.BookingEnded, domain.BookingApproved), http.StatusUnprocessableEntity},
		{domain.Validation("bad status"), http.StatusBadRequest},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			f := newFixture()
			f.bookings.err = tt.err

			w := f.do(t, http.MethodPut, "/api/bookings/"+uuid.NewString(), `{"booking_status":"approved"}`, principal(domain.RoleStaff))

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestUnknownErrorIsNotLeaked(t *testing.T) {
	f := newFixture()
	f.bookings.err = errors.New("pq: password authentication failed")

	w := f.do(t, http.MethodGet, "/api/bookings/"+uuid.NewString(), "", principal(domain.RoleStaff))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", decode(t, w)["error"])
}

func TestSetStatusReturnsCommittedBookingOnInconsistency(t *testing.T) {
	f := newFixture()
	booking := &domain.Booking{ID: uuid.New(), PropertyID: uuid.New(), Status: domain.BookingApproved}
	f.bookings.booking = booking
	f.bookings.err = &domain.InconsistencyError{
		Operation:  "set booking status",
		BookingID:  booking.ID,
		PropertyID: booking.PropertyID,
		Cause:      errors.New("store unavailable"),
	}

	w := f.do(t, http.MethodPut, "/api/bookings/"+booking.ID.String(), `{"booking_status":"approved"}`, principal(domain.RoleAdmin))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, string(domain.CodeRecoverableInconsistency), body["code"])
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, booking.ID.String(), data["id"])
	assert.Equal(t, "approved", f.bookings.status)
}

func TestSetStatusRequiresBody(t *testing.T) {
	f := newFixture()

	w := f.do(t, http.MethodPut, "/api/bookings/"+uuid.NewString(), `{}`, principal(domain.RoleStaff))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, f.bookings.status)
}

func TestToggleFavorite(t *testing.T) {
	f := newFixture()
	f.favorites.added = true
	propertyID := uuid.New()

	w := f.do(t, http.MethodPost, "/api/customers/favorites/"+propertyID.String(), "", principal(domain.RoleCustomer))

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["added"])
	assert.Equal(t, []interface{}{propertyID.String()}, body["favorites"])
}

func TestMarkPaidAcceptsEmptyBody(t *testing.T) {
	f := newFixture()
	f.payments.payment = &domain.Payment{ID: uuid.New(), Status: domain.PaymentPaid}

	w := f.do(t, http.MethodPost, "/api/landlords/mark-paid/"+uuid.NewString(), "", principal(domain.RoleLandlord))

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, f.payments.manual)
	assert.Zero(t, f.payments.manual.Amount)
}

func TestMarkPaidRejectsMalformedBody(t *testing.T) {
	f := newFixture()

	w := f.do(t, http.MethodPost, "/api/landlords/mark-paid/"+uuid.NewString(), `{"amount":`, principal(domain.RoleLandlord))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, f.payments.manual)
}

func TestSetMaintenance(t *testing.T) {
	f := newFixture()

	w := f.do(t, http.MethodPut, "/api/houses/"+uuid.NewString()+"/maintenance", `{}`, principal(domain.RoleLandlord))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, f.properties.maintenance)

	w = f.do(t, http.MethodPut, "/api/houses/"+uuid.NewString()+"/maintenance", `{"maintenance":false}`, principal(domain.RoleLandlord))
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, f.properties.maintenance)
	assert.False(t, *f.properties.maintenance)
}

func TestDeleteProperty(t *testing.T) {
	f := newFixture()

	w := f.do(t, http.MethodDelete, "/api/houses/"+uuid.NewString(), "", principal(domain.RoleAdmin))

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestReconciliationScan(t *testing.T) {
	f := newFixture()

	w := f.do(t, http.MethodGet, "/api/reconciliation", "", principal(domain.RoleStaff))

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, []interface{}{}, body["drifts"])
}

func TestListPropertiesBindsSearch(t *testing.T) {
	f := newFixture()

	w := f.do(t, http.MethodGet, "/api/houses?address=canal&min_price=500&max_price=1500.5&rooms=2&house_type=villa&page=3&limit=20", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	q := f.properties.query
	assert.Equal(t, "canal", q.Address)
	require.NotNil(t, q.MinPrice)
	assert.Equal(t, 500.0, *q.MinPrice)
	require.NotNil(t, q.MaxPrice)
	assert.Equal(t, 1500.5, *q.MaxPrice)
	assert.Equal(t, 2, q.Rooms)
	assert.Equal(t, "villa", q.HouseType)
	assert.Equal(t, 3, q.Page)
	assert.Equal(t, 20, q.Limit)

	w = f.do(t, http.MethodGet, "/api/houses?rooms=many", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateProperty(t *testing.T) {
	f := newFixture()

	w := f.do(t, http.MethodPut, "/api/houses/"+uuid.NewString(), `{"price":1800}`, principal(domain.RoleLandlord))

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, f.properties.update)
	require.NotNil(t, f.properties.update.Price)
	assert.Equal(t, 1800.0, *f.properties.update.Price)
	assert.Nil(t, f.properties.update.Address)
}

func TestListTenants(t *testing.T) {
	f := newFixture()

	w := f.do(t, http.MethodGet, "/api/landlords/tenants", "", principal(domain.RoleLandlord))

	require.Equal(t, http.StatusOK, w.Code)
	var tenants []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tenants))
	require.Len(t, tenants, 1)
	assert.Equal(t, "unpaid", tenants[0]["latest_payment_status"])
	assert.Equal(t, "approved", tenants[0]["booking_status"])
	assert.Equal(t, []interface{}{}, tenants[0]["payments"])
}

func TestRegisterCustomer(t *testing.T) {
	f := newFixture()
	caller := principal(domain.RoleCustomer)

	w := f.do(t, http.MethodPost, "/api/customers", `{"name":"Ada","email":"ada@example.com"}`, caller)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, *caller, f.customers.caller)
	assert.Equal(t, "ada@example.com", f.customers.req.Email)
	assert.Equal(t, caller.ID.String(), decode(t, w)["id"])

	f.customers.err = domain.Conflict("customer already exists")
	w = f.do(t, http.MethodPost, "/api/customers", `{"name":"Ada","email":"ada@example.com"}`, caller)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(t, http.MethodPost, "/api/customers", `{"name":`, caller)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCustomerMe(t *testing.T) {
	f := newFixture()
	caller := principal(domain.RoleCustomer)

	w := f.do(t, http.MethodGet, "/api/customers/me", "", caller)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, caller.ID.String(), decode(t, w)["id"])

	f.customers.err = domain.NotFound("customer missing")
	w = f.do(t, http.MethodGet, "/api/customers/me", "", caller)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
