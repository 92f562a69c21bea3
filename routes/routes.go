package routes

import (
	"net/http"
	"strings"
	"time"

	"hotel-backoffice/config"
	"hotel-backoffice/controllers"
	"hotel-backoffice/middleware"
	"hotel-backoffice/models"
	"hotel-backoffice/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Controllers bundles every HTTP handler set the router mounts.
type Controllers struct {
	Auth         *controllers.AuthController
	Bookings     *controllers.BookingController
	Invoices     *controllers.InvoiceController
	Rooms        *controllers.RoomController
	RoomTypes    *controllers.RoomTypeController
	Housekeeping *controllers.HousekeepingController
	Maintenance  *controllers.MaintenanceController
	Feedback     *controllers.FeedbackController
	Users        *controllers.UserController
}

func corsConfig(origins []string) cors.Config {
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}
}

// SetupRouter mounts the API under /api behind the shared middleware chain.
func SetupRouter(cfg *config.Config, log zerolog.Logger, tokens middleware.TokenParser, ctl Controllers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(log))
	if cfg.Monitoring.MetricsEnabled {
		r.Use(middleware.Metrics())
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
	r.Use(cors.New(corsConfig(cfg.HTTP.CORSOrigins)))

	r.GET("/health", controllers.Health)

	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			utils.JSONError(c, http.StatusNotFound, "API endpoint not found")
			return
		}
		utils.JSONError(c, http.StatusNotFound, "not found")
	})

	authn := middleware.Authenticate(tokens)
	staff := middleware.Authorize(models.StaffRoles...)
	admin := middleware.Authorize(models.RoleAdmin)
	roomTypesCache := middleware.Cache(cache.New(cfg.Cache.RoomTypesTTL, 2*cfg.Cache.RoomTypesTTL), cfg.Cache.RoomTypesTTL)

	api := r.Group("/api")
	api.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	{
		api.GET("/health", controllers.Health)

		auth := api.Group("/auth")
		{
			auth.POST("/register", ctl.Auth.Register)
			auth.POST("/login", ctl.Auth.Login)
		}

		bookings := api.Group("/bookings")
		{
			bookings.GET("/availability", ctl.Bookings.CheckAvailability)
			bookings.GET("/export", authn, staff, ctl.Bookings.ExportBookings)
			bookings.GET("", authn, staff, ctl.Bookings.ListBookings)
			bookings.GET("/:id", authn, ctl.Bookings.GetBooking)
			bookings.POST("", authn, ctl.Bookings.CreateBooking)
			bookings.PUT("/:id", authn, staff, ctl.Bookings.UpdateBooking)
			bookings.PATCH("/:id/check-in", authn, staff, ctl.Bookings.CheckIn)
			bookings.PATCH("/:id/check-out", authn, staff, ctl.Bookings.CheckOut)
			bookings.DELETE("/:id", authn, admin, ctl.Bookings.DeleteBooking)
		}

		invoices := api.Group("/invoices", authn)
		{
			invoices.GET("", staff, ctl.Invoices.ListInvoices)
			invoices.GET("/:id", ctl.Invoices.GetInvoice)
			invoices.GET("/:id/print", ctl.Invoices.PrintInvoice)
			invoices.POST("", staff, ctl.Invoices.CreateInvoice)
			invoices.POST("/:id/email", staff, ctl.Invoices.EmailInvoice)
			invoices.PATCH("/:id/pay", staff, ctl.Invoices.MarkAsPaid)
		}

		rooms := api.Group("/rooms")
		{
			rooms.GET("/available", ctl.Rooms.ListAvailable)
			rooms.GET("", authn, staff, ctl.Rooms.ListRooms)
			rooms.GET("/:id", authn, ctl.Rooms.GetRoom)
			rooms.POST("", authn, admin, ctl.Rooms.CreateRoom)
			rooms.PUT("/:id", authn, admin, ctl.Rooms.UpdateRoom)
			rooms.PATCH("/:id/status", authn, staff, ctl.Rooms.UpdateRoomStatus)
			rooms.DELETE("/:id", authn, admin, ctl.Rooms.DeleteRoom)
		}

		// Public reads are cached. Writes run the cache middleware last so a success flushes it.
		roomTypes := api.Group("/room-types")
		{
			roomTypes.GET("", roomTypesCache, ctl.RoomTypes.ListRoomTypes)
			roomTypes.GET("/search/:query", roomTypesCache, ctl.RoomTypes.SearchRoomTypes)
			roomTypes.GET("/stats/count", authn, admin, ctl.RoomTypes.RoomTypeStats)
			roomTypes.GET("/:id", roomTypesCache, ctl.RoomTypes.GetRoomType)
			roomTypes.POST("", authn, admin, roomTypesCache, ctl.RoomTypes.CreateRoomType)
			roomTypes.PUT("/:id", authn, admin, roomTypesCache, ctl.RoomTypes.UpdateRoomType)
			roomTypes.DELETE("/:id", authn, admin, roomTypesCache, ctl.RoomTypes.DeleteRoomType)
		}

		housekeeping := api.Group("/housekeeping/tasks", authn)
		{
			cleaners := middleware.Authorize(models.RoleAdmin, models.RoleManager, models.RoleHousekeeping)
			housekeeping.GET("", cleaners, ctl.Housekeeping.ListTasks)
			housekeeping.GET("/:id", cleaners, ctl.Housekeeping.GetTask)
			housekeeping.POST("", staff, ctl.Housekeeping.CreateTask)
			housekeeping.PATCH("/:id/status", cleaners, ctl.Housekeeping.UpdateTaskStatus)
			housekeeping.DELETE("/:id", admin, ctl.Housekeeping.DeleteTask)
		}

		maintenance := api.Group("/maintenance", authn)
		{
			maintenance.GET("/tickets", staff, ctl.Maintenance.ListTickets)
			maintenance.GET("/tickets/:id", ctl.Maintenance.GetTicket)
			maintenance.GET("/room/:roomId/tickets", staff, ctl.Maintenance.ListRoomTickets)
			maintenance.POST("/tickets", ctl.Maintenance.CreateTicket)
			maintenance.PATCH("/tickets/:id/status", staff, ctl.Maintenance.UpdateTicketStatus)
			maintenance.DELETE("/tickets/:id", admin, ctl.Maintenance.DeleteTicket)
		}

		feedback := api.Group("/feedback")
		{
			feedback.GET("", ctl.Feedback.ListFeedback)
			feedback.GET("/stats", ctl.Feedback.FeedbackStats)
			feedback.GET("/:id", ctl.Feedback.GetFeedback)
			feedback.POST("", authn, ctl.Feedback.SubmitFeedback)
			feedback.DELETE("/:id", authn, admin, ctl.Feedback.DeleteFeedback)
		}

		users := api.Group("/users", authn)
		{
			users.GET("", admin, ctl.Users.ListUsers)
			users.POST("", admin, ctl.Users.CreateUser)
			users.GET("/:id", ctl.Users.GetUser)
			users.PUT("/:id", ctl.Users.UpdateUser)
			users.DELETE("/:id", admin, ctl.Users.DeleteUser)
		}
	}

	return r
}
