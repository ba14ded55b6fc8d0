package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/middleware"
	ucExport "github.com/BruksfildServices01/barbershop-scheduler/internal/usecase/export"
)

type ExportHandler struct {
	daySheet *ucExport.ExportDaySheet
}

func NewExportHandler(daySheet *ucExport.ExportDaySheet) *ExportHandler {
	return &ExportHandler{daySheet: daySheet}
}

func (h *ExportHandler) DaySheet(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "Data obrigatória.")
		return
	}

	res, err := h.daySheet.Execute(
		c.Request.Context(),
		middleware.BarbershopID(c),
		middleware.ActorID(c),
		date,
	)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, res)
}
