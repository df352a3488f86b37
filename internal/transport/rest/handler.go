package rest

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"healthfirst/config"
	"healthfirst/internal/service"
)

type Handler struct {
	services *service.Services
	logger   *zap.Logger
	config   *config.Config
}

func NewHandler(services *service.Services, logger *zap.Logger, config *config.Config) *Handler {
	return &Handler{
		services: services,
		logger:   logger,
		config:   config,
	}
}

func (h *Handler) InitRoutes(router *gin.Engine) {
	router.Use(h.loggerMiddleware())

	router.Use(h.errorMiddleware())

	router.Use(h.corsMiddleware())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/provider/login", h.loginProvider)
			auth.POST("/patient/login", h.loginPatient)
		}

		providers := api.Group("/providers")
		{
			providers.POST("/register", h.registerProvider)
			providers.GET("/", h.getProviders)
			providers.GET("/:id", h.getProviderByID)
			providers.GET("/:id/slots/available", h.getProviderAvailableSlots)
			providers.GET("/:id/availability", h.getProviderAvailability)

			authRoutes := providers.Group("/", h.authMiddleware())
			{
				providerRoutes := authRoutes.Group("/", h.providerMiddleware())
				{
					providerRoutes.POST("/:id/availability", h.createAvailability)
					providerRoutes.POST("/:id/license-document", h.uploadLicenseDocument)
				}

				authRoutes.PUT("/:id/verification", h.updateProviderVerification)
			}
		}

		patients := api.Group("/patients")
		{
			patients.POST("/register", h.registerPatient)

			authRoutes := patients.Group("/", h.authMiddleware())
			{
				authRoutes.GET("/me", h.patientMiddleware(), h.getCurrentPatient)
				authRoutes.PUT("/:id/verification", h.updatePatientVerification)
			}
		}

		availability := api.Group("/availability")
		availability.Use(h.authMiddleware())
		{
			availability.GET("/", h.getAvailabilityList)
			availability.PUT("/:id/status", h.providerMiddleware(), h.updateAvailabilityStatus)
			availability.DELETE("/:id", h.providerMiddleware(), h.deleteAvailability)
		}

		slots := api.Group("/slots")
		slots.Use(h.authMiddleware())
		{
			slots.GET("/", h.getSlots)
			slots.POST("/:id/book", h.patientMiddleware(), h.bookSlot)
			slots.PUT("/:id/cancel", h.cancelBooking)
			slots.PUT("/:id", h.providerMiddleware(), h.updateSlot)
			slots.DELETE("/:id", h.providerMiddleware(), h.deleteSlot)
		}

		bookings := api.Group("/bookings")
		bookings.Use(h.authMiddleware())
		{
			bookings.GET("/:reference", h.getBookingByReference)
		}

		appointments := api.Group("/appointments")
		appointments.Use(h.authMiddleware())
		{
			appointments.GET("/upcoming", h.getUpcomingAppointments)
		}

		search := api.Group("/search")
		{
			search.GET("/slots", h.searchAvailableSlots)
		}
	}
}
