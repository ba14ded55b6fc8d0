package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/barbershop-scheduler/internal/domain/appointment"
	settingsDomain "github.com/BruksfildServices01/barbershop-scheduler/internal/domain/settings"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/middleware"
	ucSettings "github.com/BruksfildServices01/barbershop-scheduler/internal/usecase/settings"
)

type BarbershopHandler struct {
	repo     domain.Repository
	settings *ucSettings.Provider
}

func NewBarbershopHandler(repo domain.Repository, settings *ucSettings.Provider) *BarbershopHandler {
	return &BarbershopHandler{repo: repo, settings: settings}
}

// GetSettings devolve a barbearia junto com a política em vigor.
func (h *BarbershopHandler) GetSettings(c *gin.Context) {
	barbershopID := middleware.BarbershopID(c)
	ctx := c.Request.Context()

	shop, err := h.repo.GetBarbershopByID(ctx, barbershopID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	st, err := h.settings.Get(ctx, barbershopID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"barbershop": shop,
		"settings":   st,
	})
}

func (h *BarbershopHandler) UpdateSettings(c *gin.Context) {
	var req settingsDomain.Patch
	if !bindJSON(c, &req) {
		return
	}

	st, err := h.settings.Update(
		c.Request.Context(),
		middleware.BarbershopID(c),
		middleware.ActorID(c),
		req,
	)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, st)
}
