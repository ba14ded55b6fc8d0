package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/barbershop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/dto"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/models"
	ucAppointment "github.com/BruksfildServices01/barbershop-scheduler/internal/usecase/appointment"
	ucCatalog "github.com/BruksfildServices01/barbershop-scheduler/internal/usecase/catalog"
	ucQueue "github.com/BruksfildServices01/barbershop-scheduler/internal/usecase/queue"
)

const contextShop = "publicShop"

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	repo    domain.Repository
	catalog *ucCatalog.Catalog

	availability *ucAppointment.GetAvailability
	create       *ucAppointment.CreateAppointment
	byProtocol   *ucAppointment.GetByProtocol
	onWay        *ucQueue.MarkOnWay
}

func NewPublicHandler(
	repo domain.Repository,
	catalog *ucCatalog.Catalog,
	availability *ucAppointment.GetAvailability,
	create *ucAppointment.CreateAppointment,
	byProtocol *ucAppointment.GetByProtocol,
	onWay *ucQueue.MarkOnWay,
) *PublicHandler {
	return &PublicHandler{
		repo:         repo,
		catalog:      catalog,
		availability: availability,
		create:       create,
		byProtocol:   byProtocol,
		onWay:        onWay,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicCreateAppointmentRequest struct {
	ProfessionalID uint   `json:"professional_id" binding:"required"`
	ServiceID      uint   `json:"service_id" binding:"required"`
	ClientName     string `json:"client_name" binding:"required"`
	ClientPhone    string `json:"client_phone" binding:"required"`
	Date           string `json:"date" binding:"required"` // YYYY-MM-DD
	Time           string `json:"time" binding:"required"` // HH:mm
	Notes          string `json:"notes"`
}

type publicShop struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Timezone string `json:"timezone"`
}

type publicProfessional struct {
	ID          uint     `json:"id"`
	Name        string   `json:"name"`
	Specialties []string `json:"specialties"`
	Rating      float64  `json:"rating"`
}

////////////////////////////////////////////////////////
// SHOP RESOLUTION
////////////////////////////////////////////////////////

// ResolveShop carrega a barbearia do :slug uma vez por request.
func (h *PublicHandler) ResolveShop() gin.HandlerFunc {
	return func(c *gin.Context) {
		shop, err := h.repo.GetBarbershopBySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			httperr.Respond(c, err)
			c.Abort()
			return
		}
		c.Set(contextShop, shop)
		c.Next()
	}
}

func shopFrom(c *gin.Context) *models.Barbershop {
	return c.MustGet(contextShop).(*models.Barbershop)
}

////////////////////////////////////////////////////////
// CATALOG
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	shop := shopFrom(c)

	services, err := h.catalog.ListServices(c.Request.Context(), shop.ID, true)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"barbershop": publicShop{
			Name:     shop.Name,
			Slug:     shop.Slug,
			Phone:    shop.Phone,
			Address:  shop.Address,
			Timezone: shop.Timezone,
		},
		"services": services,
	})
}

func (h *PublicHandler) ListProfessionals(c *gin.Context) {
	shop := shopFrom(c)

	barbers, err := h.catalog.ListProfessionals(c.Request.Context(), shop.ID, true)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	out := make([]publicProfessional, 0, len(barbers))
	for _, b := range barbers {
		out = append(out, publicProfessional{
			ID:          b.ID,
			Name:        b.Name,
			Specialties: b.Specialties,
			Rating:      b.Rating,
		})
	}

	httpresp.List(c, out)
}

////////////////////////////////////////////////////////
// AVAILABILITY (REUSO TOTAL DO USE CASE)
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	shop := shopFrom(c)
	availabilityFor(c, h.availability, shop.ID, shop.Timezone)
}

////////////////////////////////////////////////////////
// CREATE APPOINTMENT (PUBLIC → MESMO USE CASE DO PAINEL)
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	shop := shopFrom(c)

	var req PublicCreateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.create.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		BarbershopID: shop.ID,
		BarberID:     req.ProfessionalID,
		ServiceID:    req.ServiceID,
		ClientName:   req.ClientName,
		ClientPhone:  req.ClientPhone,
		Date:         req.Date,
		Time:         req.Time,
		Notes:        req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	resp := gin.H{
		"protocol":    res.Appointment.Protocol,
		"appointment": dto.NewAppointmentList(*res.Appointment),
	}
	if res.QueueEntry != nil {
		resp["queue"] = dto.NewQueueItem(*res.QueueEntry)
	}

	httpresp.Created(c, resp)
}

////////////////////////////////////////////////////////
// PROTOCOL
////////////////////////////////////////////////////////

func (h *PublicHandler) GetByProtocol(c *gin.Context) {
	shop := shopFrom(c)

	view, err := h.byProtocol.Execute(c.Request.Context(), shop.ID, c.Param("protocol"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, view)
}

func (h *PublicHandler) OnWay(c *gin.Context) {
	shop := shopFrom(c)
	ctx := c.Request.Context()

	ap, err := h.byProtocol.Resolve(ctx, shop.ID, c.Param("protocol"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	updated, err := h.onWay.Execute(ctx, shop.ID, nil, ap.ID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.NewAppointmentList(*updated))
}
