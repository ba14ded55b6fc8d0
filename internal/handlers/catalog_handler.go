package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/middleware"
	ucCatalog "github.com/BruksfildServices01/barbershop-scheduler/internal/usecase/catalog"
)

type CatalogHandler struct {
	catalog *ucCatalog.Catalog
}

func NewCatalogHandler(catalog *ucCatalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	DurationMin int     `json:"duration_min" binding:"required,min=1"`
	Price       float64 `json:"price"`
}

type CreateProfessionalRequest struct {
	Name        string   `json:"name" binding:"required"`
	Phone       string   `json:"phone"`
	Specialties []string `json:"specialties"`
}

type SetAvailabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}

type CreateBlockedSlotRequest struct {
	ProfessionalID uint   `json:"professional_id" binding:"required"`
	Date           string `json:"date" binding:"required"`
	StartTime      string `json:"start_time" binding:"required"`
	EndTime        string `json:"end_time" binding:"required"`
	Reason         string `json:"reason"`
}

type PutOverrideRequest struct {
	Times []string `json:"times"`
}

// --------- Services ---------

func (h *CatalogHandler) ListServices(c *gin.Context) {
	onlyVisible := c.Query("visible") == "true"

	services, err := h.catalog.ListServices(c.Request.Context(), middleware.BarbershopID(c), onlyVisible)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, services)
}

func (h *CatalogHandler) CreateService(c *gin.Context) {
	var req CreateServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	s, err := h.catalog.CreateService(
		c.Request.Context(),
		middleware.BarbershopID(c),
		middleware.ActorID(c),
		ucCatalog.ServiceInput{
			Name:        req.Name,
			Description: req.Description,
			Category:    req.Category,
			DurationMin: req.DurationMin,
			Price:       req.Price,
		},
	)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, s)
}

func (h *CatalogHandler) UpdateService(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req ucCatalog.ServicePatch
	if !bindJSON(c, &req) {
		return
	}

	s, err := h.catalog.UpdateService(
		c.Request.Context(),
		middleware.BarbershopID(c),
		middleware.ActorID(c),
		id,
		req,
	)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, s)
}

// --------- Professionals ---------

func (h *CatalogHandler) ListProfessionals(c *gin.Context) {
	onlyAvailable := c.Query("available") == "true"

	barbers, err := h.catalog.ListProfessionals(c.Request.Context(), middleware.BarbershopID(c), onlyAvailable)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, barbers)
}

func (h *CatalogHandler) CreateProfessional(c *gin.Context) {
	var req CreateProfessionalRequest
	if !bindJSON(c, &req) {
		return
	}

	b, err := h.catalog.CreateProfessional(
		c.Request.Context(),
		middleware.BarbershopID(c),
		middleware.ActorID(c),
		ucCatalog.ProfessionalInput{
			Name:        req.Name,
			Phone:       req.Phone,
			Specialties: req.Specialties,
		},
	)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, b)
}

func (h *CatalogHandler) SetAvailability(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req SetAvailabilityRequest
	if !bindJSON(c, &req) {
		return
	}

	b, err := h.catalog.SetAvailability(
		c.Request.Context(),
		middleware.BarbershopID(c),
		middleware.ActorID(c),
		id,
		*req.Available,
	)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

// --------- Blocked slots / overrides ---------

func (h *CatalogHandler) ListBlockedSlots(c *gin.Context) {
	blocks, err := h.catalog.ListBlockedSlots(c.Request.Context(), middleware.BarbershopID(c), c.Query("date"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, blocks)
}

func (h *CatalogHandler) CreateBlockedSlot(c *gin.Context) {
	var req CreateBlockedSlotRequest
	if !bindJSON(c, &req) {
		return
	}

	b, err := h.catalog.CreateBlockedSlot(
		c.Request.Context(),
		middleware.BarbershopID(c),
		middleware.ActorID(c),
		ucCatalog.BlockedSlotInput{
			BarberID:  req.ProfessionalID,
			Date:      req.Date,
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
			Reason:    req.Reason,
		},
	)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, b)
}

func (h *CatalogHandler) DeleteBlockedSlot(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := h.catalog.DeleteBlockedSlot(
		c.Request.Context(),
		middleware.BarbershopID(c),
		middleware.ActorID(c),
		id,
	); err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.NoContent(c)
}

func (h *CatalogHandler) PutOverride(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req PutOverrideRequest
	if !bindJSON(c, &req) {
		return
	}

	o, err := h.catalog.PutOverride(
		c.Request.Context(),
		middleware.BarbershopID(c),
		middleware.ActorID(c),
		id,
		c.Param("date"),
		req.Times,
	)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, o)
}

func (h *CatalogHandler) DeleteOverride(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := h.catalog.DeleteOverride(
		c.Request.Context(),
		middleware.BarbershopID(c),
		middleware.ActorID(c),
		id,
		c.Param("date"),
	); err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.NoContent(c)
}
