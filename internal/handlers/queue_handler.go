package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-scheduler/internal/dto"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/middleware"
	ucQueue "github.com/BruksfildServices01/barbershop-scheduler/internal/usecase/queue"
)

type QueueHandler struct {
	list     *ucQueue.ListQueue
	enqueue  *ucQueue.Enqueue
	callNext *ucQueue.CallNext
	position *ucQueue.GetPosition
	rebuild  *ucQueue.Rebuild
}

func NewQueueHandler(
	list *ucQueue.ListQueue,
	enqueue *ucQueue.Enqueue,
	callNext *ucQueue.CallNext,
	position *ucQueue.GetPosition,
	rebuild *ucQueue.Rebuild,
) *QueueHandler {
	return &QueueHandler{
		list:     list,
		enqueue:  enqueue,
		callNext: callNext,
		position: position,
		rebuild:  rebuild,
	}
}

type EnqueueRequest struct {
	AppointmentID uint `json:"appointment_id" binding:"required"`
}

func (h *QueueHandler) List(c *gin.Context) {
	items, err := h.list.Execute(c.Request.Context(), middleware.BarbershopID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, items)
}

func (h *QueueHandler) Enqueue(c *gin.Context) {
	var req EnqueueRequest
	if !bindJSON(c, &req) {
		return
	}

	entry, err := h.enqueue.Execute(
		c.Request.Context(),
		middleware.BarbershopID(c),
		middleware.ActorID(c),
		req.AppointmentID,
	)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, dto.NewQueueItem(*entry))
}

// CallNext devolve called=false quando não há ninguém aguardando.
func (h *QueueHandler) CallNext(c *gin.Context) {
	res, err := h.callNext.Execute(
		c.Request.Context(),
		middleware.BarbershopID(c),
		middleware.ActorID(c),
	)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if res == nil {
		c.JSON(200, gin.H{"called": false})
		return
	}

	item := dto.NewQueueItem(res.Entry)
	item.Protocol = res.Appointment.Protocol
	item.ClientName = res.Appointment.ClientName
	item.BarberID = res.Appointment.BarberID

	c.JSON(200, gin.H{
		"called":      true,
		"entry":       item,
		"appointment": dto.NewAppointmentList(res.Appointment),
	})
}

func (h *QueueHandler) Position(c *gin.Context) {
	id, ok := uintParam(c, "appointmentId")
	if !ok {
		return
	}

	pos, err := h.position.Execute(c.Request.Context(), middleware.BarbershopID(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, pos)
}

func (h *QueueHandler) Rebuild(c *gin.Context) {
	res, err := h.rebuild.Execute(
		c.Request.Context(),
		middleware.BarbershopID(c),
		middleware.ActorID(c),
	)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, res)
}
