package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/srgjo27/house_rental/internal/core/domain"
)

type Handlers struct {
	Bookings       *BookingHandler
	Payments       *PaymentHandler
	Favorites      *FavoriteHandler
	Customers      *CustomerHandler
	Properties     *PropertyHandler
	Reconciliation *ReconciliationHandler
}

func NewRouter(h Handlers, jwtSecret string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AddAllowHeaders("Authorization")
	r.Use(cors.New(corsConfig))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	houses := api.Group("/houses")
	houses.GET("", h.Properties.ListProperties)
	houses.GET("/:id", h.Properties.GetProperty)

	auth := api.Group("", Auth(jwtSecret))

	authHouses := auth.Group("/houses")
	authHouses.POST("", RequireRole(domain.RoleLandlord, domain.RoleStaff, domain.RoleAdmin), h.Properties.CreateProperty)
	authHouses.PUT("/:id", RequireRole(domain.RoleLandlord, domain.RoleStaff, domain.RoleAdmin), h.Properties.UpdateProperty)
	authHouses.PUT("/:id/maintenance", h.Properties.SetMaintenance)
	authHouses.DELETE("/:id", RequireRole(domain.RoleAdmin), h.Properties.DeleteProperty)

	bookings := auth.Group("/bookings")
	bookings.POST("", RequireRole(domain.RoleCustomer), h.Bookings.CreateBooking)
	bookings.GET("", h.Bookings.ListBookings)
	bookings.GET("/:id", h.Bookings.GetBooking)
	bookings.PUT("/:id", RequireRole(domain.RoleStaff, domain.RoleAdmin), h.Bookings.SetStatus)
	bookings.PUT("/:id/end", RequireRole(domain.RoleCustomer), h.Bookings.EndBooking)

	payments := auth.Group("/payments")
	payments.POST("", RequireRole(domain.RoleCustomer), h.Payments.SettlePayment)
	payments.GET("", h.Payments.ListPayments)

	landlords := auth.Group("/landlords", RequireRole(domain.RoleLandlord))
	landlords.POST("/mark-paid/:bookingId", h.Payments.MarkPaid)
	landlords.GET("/tenants", h.Payments.ListTenants)

	customers := auth.Group("/customers")
	customers.POST("", RequireRole(domain.RoleCustomer, domain.RoleStaff, domain.RoleAdmin), h.Customers.RegisterCustomer)
	customers.GET("/me", RequireRole(domain.RoleCustomer), h.Customers.Me)

	favorites := customers.Group("/favorites", RequireRole(domain.RoleCustomer))
	favorites.POST("/:propertyId", h.Favorites.ToggleFavorite)
	favorites.GET("", h.Favorites.ListFavorites)

	auth.GET("/reconciliation", RequireRole(domain.RoleStaff, domain.RoleAdmin), h.Reconciliation.Scan)

	return r
}
