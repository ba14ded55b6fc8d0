package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/barbershop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/dto"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/middleware"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/barbershop-scheduler/internal/usecase/appointment"
	ucQueue "github.com/BruksfildServices01/barbershop-scheduler/internal/usecase/queue"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	repo domain.Repository

	availability *ucAppointment.GetAvailability
	create       *ucAppointment.CreateAppointment
	confirm      *ucAppointment.ConfirmAppointment
	cancel       *ucAppointment.CancelAppointment
	complete     *ucAppointment.CompleteAppointment
	onWay        *ucQueue.MarkOnWay
	listByDate   *ucAppointment.ListAppointmentsByDate
	listByMonth  *ucAppointment.ListAppointmentsByMonth
}

func NewAppointmentHandler(
	repo domain.Repository,
	availability *ucAppointment.GetAvailability,
	create *ucAppointment.CreateAppointment,
	confirm *ucAppointment.ConfirmAppointment,
	cancel *ucAppointment.CancelAppointment,
	complete *ucAppointment.CompleteAppointment,
	onWay *ucQueue.MarkOnWay,
	listByDate *ucAppointment.ListAppointmentsByDate,
	listByMonth *ucAppointment.ListAppointmentsByMonth,
) *AppointmentHandler {
	return &AppointmentHandler{
		repo:         repo,
		availability: availability,
		create:       create,
		confirm:      confirm,
		cancel:       cancel,
		complete:     complete,
		onWay:        onWay,
		listByDate:   listByDate,
		listByMonth:  listByMonth,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ProfessionalID uint   `json:"professional_id" binding:"required"`
	ServiceID      uint   `json:"service_id" binding:"required"`
	ClientName     string `json:"client_name" binding:"required"`
	ClientPhone    string `json:"client_phone" binding:"required"`
	Date           string `json:"date" binding:"required"` // YYYY-MM-DD
	Time           string `json:"time" binding:"required"` // HH:MM
	Notes          string `json:"notes"`
}

func (r CreateAppointmentRequest) input(barbershopID uint, actorID *uint) ucAppointment.CreateAppointmentInput {
	return ucAppointment.CreateAppointmentInput{
		BarbershopID: barbershopID,
		BarberID:     r.ProfessionalID,
		ServiceID:    r.ServiceID,
		ClientName:   r.ClientName,
		ClientPhone:  r.ClientPhone,
		Date:         r.Date,
		Time:         r.Time,
		Notes:        r.Notes,
		ActorID:      actorID,
	}
}

// ======================================================
// AVAILABILITY
// ======================================================

// availabilityFor é compartilhado entre o painel e a página pública.
func availabilityFor(
	c *gin.Context,
	uc *ucAppointment.GetAvailability,
	barbershopID uint,
	timezoneName string,
) {
	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Data obrigatória.")
		return
	}

	date, err := timezone.ParseDate(timezoneName, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	barberID, ok := uintQuery(c, "professional_id")
	if !ok {
		return
	}
	if barberID == 0 {
		httperr.BadRequest(c, "missing_professional", "Profissional obrigatório.")
		return
	}

	serviceID, ok := uintQuery(c, "service_id")
	if !ok {
		return
	}

	duration := 0
	if serviceID == 0 {
		duration, err = strconv.Atoi(c.Query("duration"))
		if err != nil {
			httperr.BadRequest(c, "invalid_duration", "Duração do serviço inválida.")
			return
		}
	}

	slots, err := uc.Execute(c.Request.Context(), domain.AvailabilityInput{
		BarbershopID: barbershopID,
		BarberID:     barberID,
		ServiceID:    serviceID,
		DurationMin:  duration,
		Date:         date,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(200, gin.H{
		"date":            dateStr,
		"professional_id": barberID,
		"slots":           slots,
	})
}

func (h *AppointmentHandler) Availability(c *gin.Context) {
	barbershopID := middleware.BarbershopID(c)

	shop, err := h.repo.GetBarbershopByID(c.Request.Context(), barbershopID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	availabilityFor(c, h.availability, shop.ID, shop.Timezone)
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	barbershopID := middleware.BarbershopID(c)

	var req CreateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.create.Execute(c.Request.Context(), req.input(barbershopID, middleware.ActorID(c)))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, res)
}

// ======================================================
// TRANSITIONS
// ======================================================

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	ap, err := h.confirm.Execute(c.Request.Context(), middleware.BarbershopID(c), middleware.ActorID(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.NewAppointmentList(*ap))
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), middleware.BarbershopID(c), middleware.ActorID(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.NewAppointmentList(*ap))
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	ap, err := h.complete.Execute(c.Request.Context(), middleware.BarbershopID(c), middleware.ActorID(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.NewAppointmentList(*ap))
}

func (h *AppointmentHandler) OnWay(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	ap, err := h.onWay.Execute(c.Request.Context(), middleware.BarbershopID(c), middleware.ActorID(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.NewAppointmentList(*ap))
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Data obrigatória.")
		return
	}

	barberID, ok := uintQuery(c, "professional_id")
	if !ok {
		return
	}

	apps, err := h.listByDate.Execute(c.Request.Context(), middleware.BarbershopID(c), barberID, dateStr)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, apps)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	yearStr := c.Query("year")
	monthStr := c.Query("month")

	if yearStr == "" || monthStr == "" {
		httperr.BadRequest(c, "missing_year_or_month", "Ano e mês são obrigatórios.")
		return
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_year", "Ano inválido.")
		return
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_month", "Mês inválido.")
		return
	}

	barberID, ok := uintQuery(c, "professional_id")
	if !ok {
		return
	}

	apps, err := h.listByMonth.Execute(c.Request.Context(), middleware.BarbershopID(c), barberID, year, month)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(200, gin.H{
		"year":         year,
		"month":        month,
		"appointments": apps,
	})
}
