package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"podology-clinic-server/internal/config"
	"podology-clinic-server/internal/handlers"
	"podology-clinic-server/internal/middleware"
	"podology-clinic-server/internal/models"
)

// Handlers groups the HTTP handlers mounted under /api. Auth may be nil when
// staff authentication is disabled.
type Handlers struct {
	Auth          *handlers.AuthHandler
	Patients      *handlers.PatientHandler
	Anamnesis     *handlers.AnamnesisHandler
	Appointments  *handlers.AppointmentHandler
	Notifications *handlers.NotificationHandler
}

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, h Handlers, cfg *config.Config, metrics http.Handler) {
	api := router.Group("/api")

	if cfg.Auth.Enabled && h.Auth != nil {
		public := api.Group("/auth")
		{
			public.POST("/login", h.Auth.Login)
			public.POST("/refresh-token", h.Auth.RefreshToken)
		}
	}

	// No-op when AUTH_ENABLED is false.
	private := api.Group("")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		if cfg.Auth.Enabled && h.Auth != nil {
			authRoutes := private.Group("/auth")
			{
				authRoutes.POST("/logout", h.Auth.Logout)
				authRoutes.GET("/profile", h.Auth.GetProfile)
				authRoutes.POST("/register", middleware.RoleAuthMiddleware(cfg, models.RoleAdmin), h.Auth.Register)
			}
		}

		patientRoutes := private.Group("/patients")
		{
			patientRoutes.POST("", h.Patients.CreatePatient)
			patientRoutes.GET("", h.Patients.GetPatients)
			patientRoutes.GET("/:id", h.Patients.GetPatientByID)
			patientRoutes.PUT("/:id", h.Patients.UpdatePatient)
			patientRoutes.DELETE("/:id", h.Patients.DeletePatient)
		}
		private.GET("/search/patients", h.Patients.SearchPatients)

		anamnesisRoutes := private.Group("/anamnesis")
		{
			anamnesisRoutes.POST("", h.Anamnesis.CreateAnamnesis)
			anamnesisRoutes.GET("/:patientId", h.Anamnesis.GetAnamnesisForPatient)
			anamnesisRoutes.GET("/form/:id", h.Anamnesis.GetAnamnesisByID)
			anamnesisRoutes.PUT("/:id", h.Anamnesis.UpdateAnamnesis)
		}

		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.POST("", h.Appointments.CreateAppointment)
			appointmentRoutes.GET("", h.Appointments.GetAppointments)
			appointmentRoutes.GET("/:id", h.Appointments.GetAppointmentByID)
			appointmentRoutes.GET("/patient/:patientId", h.Appointments.GetAppointmentsForPatient)
			appointmentRoutes.PATCH("/:id/status", h.Appointments.UpdateAppointmentStatus)
			appointmentRoutes.DELETE("/:id", h.Appointments.DeleteAppointment)
		}

		notificationRoutes := private.Group("/notifications")
		{
			notificationRoutes.GET("", h.Notifications.GetNotifications)
			notificationRoutes.GET("/pending", h.Notifications.GetPendingNotifications)
			notificationRoutes.GET("/upcoming", h.Notifications.GetUpcomingNotifications)
			notificationRoutes.POST("/:id/mark-sent", h.Notifications.MarkNotificationSent)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})
	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics))
	}
}
