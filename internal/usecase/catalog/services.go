package catalog

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/barbershop-scheduler/internal/audit"
	apDomain "github.com/BruksfildServices01/barbershop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/models"
)

type ServiceInput struct {
	Name        string
	Description string
	Category    string
	DurationMin int
	Price       float64
}

type ServicePatch struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty"`
	DurationMin *int     `json:"duration_min,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Visible     *bool    `json:"visible,omitempty"`
}

func validateService(s *models.Service) error {
	if strings.TrimSpace(s.Name) == "" {
		return httperr.ErrValidation("invalid_service_name")
	}
	if err := apDomain.ValidateDuration(s.DurationMin); err != nil {
		return err
	}
	if s.Price < 0 {
		return httperr.ErrValidation("invalid_price")
	}
	return nil
}

func (c *Catalog) ListServices(ctx context.Context, barbershopID uint, onlyVisible bool) ([]models.Service, error) {
	return c.repo.ListServices(ctx, barbershopID, onlyVisible)
}

func (c *Catalog) CreateService(
	ctx context.Context,
	barbershopID uint,
	actorID *uint,
	in ServiceInput,
) (*models.Service, error) {

	s := &models.Service{
		BarbershopID: barbershopID,
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		Category:     strings.ToLower(strings.TrimSpace(in.Category)),
		DurationMin:  in.DurationMin,
		Price:        in.Price,
		Visible:      true,
	}
	if err := validateService(s); err != nil {
		return nil, err
	}

	if err := c.repo.CreateService(ctx, s); err != nil {
		return nil, err
	}

	c.audit.Dispatch(audit.Event{
		BarbershopID: barbershopID,
		ActorID:      actorID,
		Action:       "service_created",
		Entity:       "service",
		EntityID:     &s.ID,
	})

	return s, nil
}

// UpdateService não altera agendamentos existentes: cada um guarda a
// duração do serviço no momento da reserva.
func (c *Catalog) UpdateService(
	ctx context.Context,
	barbershopID uint,
	actorID *uint,
	serviceID uint,
	p ServicePatch,
) (*models.Service, error) {

	s, err := c.repo.GetService(ctx, barbershopID, serviceID)
	if err != nil {
		return nil, err
	}

	if p.Name != nil {
		s.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		s.Description = *p.Description
	}
	if p.Category != nil {
		s.Category = strings.ToLower(strings.TrimSpace(*p.Category))
	}
	if p.DurationMin != nil {
		s.DurationMin = *p.DurationMin
	}
	if p.Price != nil {
		s.Price = *p.Price
	}
	if p.Visible != nil {
		s.Visible = *p.Visible
	}

	if err := validateService(s); err != nil {
		return nil, err
	}

	if err := c.repo.UpdateService(ctx, s); err != nil {
		return nil, err
	}

	c.audit.Dispatch(audit.Event{
		BarbershopID: barbershopID,
		ActorID:      actorID,
		Action:       "service_updated",
		Entity:       "service",
		EntityID:     &s.ID,
		Metadata:     p,
	})

	return s, nil
}
