package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/middleware"
	ucCatalog "github.com/BruksfildServices01/barbershop-scheduler/internal/usecase/catalog"
)

type ClientHandler struct {
	catalog *ucCatalog.Catalog
}

func NewClientHandler(catalog *ucCatalog.Catalog) *ClientHandler {
	return &ClientHandler{catalog: catalog}
}

// ======================================================
// LIST CLIENTS (PAINEL)
// ======================================================
func (h *ClientHandler) List(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	clients, err := h.catalog.ListClients(c.Request.Context(), middleware.BarbershopID(c), query)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, clients)
}
