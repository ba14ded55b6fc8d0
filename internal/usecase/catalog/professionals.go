package catalog

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/barbershop-scheduler/internal/audit"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/models"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/validators"
)

type ProfessionalInput struct {
	Name        string
	Phone       string
	Specialties []string
}

func (c *Catalog) ListProfessionals(ctx context.Context, barbershopID uint, onlyAvailable bool) ([]models.Barber, error) {
	return c.repo.ListBarbers(ctx, barbershopID, onlyAvailable)
}

func (c *Catalog) CreateProfessional(
	ctx context.Context,
	barbershopID uint,
	actorID *uint,
	in ProfessionalInput,
) (*models.Barber, error) {

	name, ok := validators.ClientName(in.Name)
	if !ok {
		return nil, httperr.ErrValidation("invalid_professional_name")
	}

	phone := ""
	if strings.TrimSpace(in.Phone) != "" {
		if phone, ok = validators.Phone(in.Phone); !ok {
			return nil, httperr.ErrValidation("invalid_professional_phone")
		}
	}

	specialties := make([]string, 0, len(in.Specialties))
	for _, s := range in.Specialties {
		if s = strings.TrimSpace(s); s != "" {
			specialties = append(specialties, s)
		}
	}

	b := &models.Barber{
		BarbershopID: barbershopID,
		Name:         name,
		Phone:        phone,
		Specialties:  specialties,
		Available:    true,
	}

	if err := c.repo.CreateBarber(ctx, b); err != nil {
		return nil, err
	}

	c.audit.Dispatch(audit.Event{
		BarbershopID: barbershopID,
		ActorID:      actorID,
		Action:       "professional_created",
		Entity:       "barber",
		EntityID:     &b.ID,
	})

	return b, nil
}

// SetAvailability liga/desliga o profissional para novos agendamentos.
// Agendamentos existentes não são afetados.
func (c *Catalog) SetAvailability(
	ctx context.Context,
	barbershopID uint,
	actorID *uint,
	barberID uint,
	available bool,
) (*models.Barber, error) {

	var b *models.Barber

	err := c.lanes.Do(ctx, barbershopID, func(ctx context.Context) error {
		var err error
		b, err = c.repo.GetBarber(ctx, barbershopID, barberID)
		if err != nil {
			return err
		}
		if b.Available == available {
			return nil
		}
		b.Available = available
		return c.repo.UpdateBarber(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	c.audit.Dispatch(audit.Event{
		BarbershopID: barbershopID,
		ActorID:      actorID,
		Action:       "professional_availability_changed",
		Entity:       "barber",
		EntityID:     &b.ID,
		Metadata:     map[string]any{"available": available},
	})

	return b, nil
}
