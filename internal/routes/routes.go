package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barbershop-scheduler/internal/audit"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/config"
	apDomain "github.com/BruksfildServices01/barbershop-scheduler/internal/domain/appointment"
	catalogDomain "github.com/BruksfildServices01/barbershop-scheduler/internal/domain/catalog"
	settingsDomain "github.com/BruksfildServices01/barbershop-scheduler/internal/domain/settings"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/handlers"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/infra/storage"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/middleware"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/notify"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/tenant"
	ucAppointment "github.com/BruksfildServices01/barbershop-scheduler/internal/usecase/appointment"
	ucCatalog "github.com/BruksfildServices01/barbershop-scheduler/internal/usecase/catalog"
	ucExport "github.com/BruksfildServices01/barbershop-scheduler/internal/usecase/export"
	ucQueue "github.com/BruksfildServices01/barbershop-scheduler/internal/usecase/queue"
	ucSettings "github.com/BruksfildServices01/barbershop-scheduler/internal/usecase/settings"
)

// Deps são os singletons de infraestrutura montados no main.
type Deps struct {
	Config *config.Config
	Logger zerolog.Logger

	Appointments apDomain.Repository
	Catalog      catalogDomain.Repository
	Settings     settingsDomain.Repository
	AuditStore   audit.Store

	SettingsCache settingsDomain.Cache
	Notifier      notify.Publisher
	Objects       storage.ObjectStore
	Audit         *audit.Dispatcher
	Lanes         *tenant.Lanes

	Health map[string]handlers.Checker
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.CORSMiddleware(d.Config.CORSOrigins))

	// ======================================================
	// 🧠 USE CASES
	// ======================================================
	settingsProvider := ucSettings.NewProvider(d.Settings, d.SettingsCache, d.Lanes, d.Audit)
	catalog := ucCatalog.New(d.Catalog, d.Lanes, d.Audit)

	getAvailabilityUC := ucAppointment.NewGetAvailability(d.Appointments, settingsProvider)
	createAppointmentUC := ucAppointment.NewCreateAppointment(d.Appointments, settingsProvider, d.Lanes, d.Notifier, d.Audit)
	confirmAppointmentUC := ucAppointment.NewConfirmAppointment(d.Appointments, d.Lanes, d.Notifier, d.Audit)
	cancelAppointmentUC := ucAppointment.NewCancelAppointment(d.Appointments, settingsProvider, d.Lanes, d.Notifier, d.Audit)
	completeAppointmentUC := ucAppointment.NewCompleteAppointment(d.Appointments, settingsProvider, d.Lanes, d.Notifier, d.Audit)
	listAppointmentsByDateUC := ucAppointment.NewListAppointmentsByDate(d.Appointments)
	listAppointmentsByMonthUC := ucAppointment.NewListAppointmentsByMonth(d.Appointments)
	getByProtocolUC := ucAppointment.NewGetByProtocol(d.Appointments)

	listQueueUC := ucQueue.NewListQueue(d.Appointments)
	enqueueUC := ucQueue.NewEnqueue(d.Appointments, settingsProvider, d.Lanes, d.Notifier, d.Audit)
	callNextUC := ucQueue.NewCallNext(d.Appointments, settingsProvider, d.Lanes, d.Notifier, d.Audit)
	markOnWayUC := ucQueue.NewMarkOnWay(d.Appointments, settingsProvider, d.Lanes, d.Audit)
	positionUC := ucQueue.NewGetPosition(d.Appointments)
	rebuildUC := ucQueue.NewRebuild(d.Appointments, settingsProvider, d.Lanes, d.Notifier, d.Audit)

	exportUC := ucExport.NewExportDaySheet(d.Appointments, d.Objects, d.Audit)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	barbershopHandler := handlers.NewBarbershopHandler(d.Appointments, settingsProvider)
	catalogHandler := handlers.NewCatalogHandler(catalog)
	clientHandler := handlers.NewClientHandler(catalog)

	appointmentHandler := handlers.NewAppointmentHandler(
		d.Appointments,
		getAvailabilityUC,
		createAppointmentUC,
		confirmAppointmentUC,
		cancelAppointmentUC,
		completeAppointmentUC,
		markOnWayUC,
		listAppointmentsByDateUC,
		listAppointmentsByMonthUC,
	)

	queueHandler := handlers.NewQueueHandler(
		listQueueUC,
		enqueueUC,
		callNextUC,
		positionUC,
		rebuildUC,
	)

	publicHandler := handlers.NewPublicHandler(
		d.Appointments,
		catalog,
		getAvailabilityUC,
		createAppointmentUC,
		getByProtocolUC,
		markOnWayUC,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(d.AuditStore)
	exportHandler := handlers.NewExportHandler(exportUC)
	healthHandler := handlers.NewHealthHandler(d.Health)

	r.GET("/health", healthHandler.Get)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 API PÚBLICA
		// ------------------------------
		publicAPI := api.Group("/public/:slug")
		publicAPI.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: d.Config.PublicRateLimitRPS,
			BurstSize:         d.Config.PublicRateLimitBurst,
		}))
		publicAPI.Use(publicHandler.ResolveShop())
		{
			publicAPI.GET("/services", publicHandler.ListServices)
			publicAPI.GET("/professionals", publicHandler.ListProfessionals)
			publicAPI.GET("/availability", publicHandler.Availability)
			publicAPI.POST("/appointments", publicHandler.CreateAppointment)
			publicAPI.GET("/appointments/:protocol", publicHandler.GetByProtocol)
			publicAPI.POST("/appointments/:protocol/on-way", publicHandler.OnWay)
		}

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/me")
		secured.Use(middleware.AuthMiddleware(d.Config.JWTSecret))
		{
			secured.GET("/settings", barbershopHandler.GetSettings)
			secured.PATCH("/settings", barbershopHandler.UpdateSettings)

			secured.GET("/services", catalogHandler.ListServices)
			secured.POST("/services", catalogHandler.CreateService)
			secured.PATCH("/services/:id", catalogHandler.UpdateService)

			secured.GET("/professionals", catalogHandler.ListProfessionals)
			secured.POST("/professionals", catalogHandler.CreateProfessional)
			secured.PATCH("/professionals/:id/availability", catalogHandler.SetAvailability)
			secured.PUT("/professionals/:id/overrides/:date", catalogHandler.PutOverride)
			secured.DELETE("/professionals/:id/overrides/:date", catalogHandler.DeleteOverride)

			secured.GET("/blocked-slots", catalogHandler.ListBlockedSlots)
			secured.POST("/blocked-slots", catalogHandler.CreateBlockedSlot)
			secured.DELETE("/blocked-slots/:id", catalogHandler.DeleteBlockedSlot)

			secured.GET("/clients", clientHandler.List)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.GET("/availability", appointmentHandler.Availability)
			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/appointments", appointmentHandler.ListByDate)
			secured.GET("/appointments/month", appointmentHandler.ListByMonth)
			secured.PATCH("/appointments/:id/confirm", appointmentHandler.Confirm)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/appointments/:id/complete", appointmentHandler.Complete)
			secured.PATCH("/appointments/:id/on-way", appointmentHandler.OnWay)

			// ------------------------------
			// QUEUE
			// ------------------------------
			secured.GET("/queue", queueHandler.List)
			secured.POST("/queue", queueHandler.Enqueue)
			secured.POST("/queue/call-next", queueHandler.CallNext)
			secured.GET("/queue/position/:appointmentId", queueHandler.Position)
			secured.POST("/queue/rebuild", queueHandler.Rebuild)

			secured.POST("/agenda/export", exportHandler.DaySheet)
			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
