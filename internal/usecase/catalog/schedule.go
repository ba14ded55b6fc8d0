package catalog

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barbershop-scheduler/internal/audit"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/domain/settings"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/models"
)

func validDate(date string) bool {
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

// ======================================================
// Blocked slots
// ======================================================

type BlockedSlotInput struct {
	BarberID  uint
	Date      string
	StartTime string
	EndTime   string
	Reason    string
}

func (c *Catalog) ListBlockedSlots(ctx context.Context, barbershopID uint, date string) ([]models.BlockedSlot, error) {
	if date != "" && !validDate(date) {
		return nil, httperr.ErrValidation("invalid_date")
	}
	return c.repo.ListBlockedSlotsForShop(ctx, barbershopID, date)
}

func (c *Catalog) CreateBlockedSlot(
	ctx context.Context,
	barbershopID uint,
	actorID *uint,
	in BlockedSlotInput,
) (*models.BlockedSlot, error) {

	if !validDate(in.Date) {
		return nil, httperr.ErrValidation("invalid_date")
	}

	start, err := settings.ParseHM(in.StartTime)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_time")
	}
	end, err := settings.ParseHM(in.EndTime)
	if err != nil || end <= start {
		return nil, httperr.ErrValidation("invalid_time")
	}

	b := &models.BlockedSlot{
		BarbershopID: barbershopID,
		BarberID:     in.BarberID,
		Date:         in.Date,
		StartTime:    settings.FormatHM(start),
		EndTime:      settings.FormatHM(end),
		Reason:       in.Reason,
	}

	err = c.lanes.Do(ctx, barbershopID, func(ctx context.Context) error {
		if _, err := c.repo.GetBarber(ctx, barbershopID, in.BarberID); err != nil {
			return err
		}
		return c.repo.CreateBlockedSlot(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	c.audit.Dispatch(audit.Event{
		BarbershopID: barbershopID,
		ActorID:      actorID,
		Action:       "blocked_slot_created",
		Entity:       "blocked_slot",
		EntityID:     &b.ID,
	})

	return b, nil
}

func (c *Catalog) DeleteBlockedSlot(ctx context.Context, barbershopID uint, actorID *uint, id uint) error {
	err := c.lanes.Do(ctx, barbershopID, func(ctx context.Context) error {
		return c.repo.DeleteBlockedSlot(ctx, barbershopID, id)
	})
	if err != nil {
		return err
	}

	c.audit.Dispatch(audit.Event{
		BarbershopID: barbershopID,
		ActorID:      actorID,
		Action:       "blocked_slot_deleted",
		Entity:       "blocked_slot",
		EntityID:     &id,
	})
	return nil
}

// ======================================================
// Per-day overrides
// ======================================================

// PutOverride substitui a grade do dia do profissional pela lista dada.
// Os horários ficam na ordem recebida; duplicados são descartados.
func (c *Catalog) PutOverride(
	ctx context.Context,
	barbershopID uint,
	actorID *uint,
	barberID uint,
	date string,
	times []string,
) (*models.BarberAvailability, error) {

	if !validDate(date) {
		return nil, httperr.ErrValidation("invalid_date")
	}

	seen := make(map[int]bool, len(times))
	normalized := make([]string, 0, len(times))
	for _, t := range times {
		m, err := settings.ParseHM(t)
		if err != nil {
			return nil, httperr.ErrValidation("invalid_time")
		}
		if seen[m] {
			continue
		}
		seen[m] = true
		normalized = append(normalized, settings.FormatHM(m))
	}

	o := &models.BarberAvailability{
		BarbershopID: barbershopID,
		BarberID:     barberID,
		Date:         date,
		Times:        normalized,
	}

	err := c.lanes.Do(ctx, barbershopID, func(ctx context.Context) error {
		if _, err := c.repo.GetBarber(ctx, barbershopID, barberID); err != nil {
			return err
		}
		return c.repo.UpsertAvailabilityOverride(ctx, o)
	})
	if err != nil {
		return nil, err
	}

	c.audit.Dispatch(audit.Event{
		BarbershopID: barbershopID,
		ActorID:      actorID,
		Action:       "availability_override_set",
		Entity:       "barber",
		EntityID:     &barberID,
		Metadata:     map[string]any{"date": date, "times": normalized},
	})

	return o, nil
}

func (c *Catalog) DeleteOverride(
	ctx context.Context,
	barbershopID uint,
	actorID *uint,
	barberID uint,
	date string,
) error {

	if !validDate(date) {
		return httperr.ErrValidation("invalid_date")
	}

	err := c.lanes.Do(ctx, barbershopID, func(ctx context.Context) error {
		if _, err := c.repo.GetBarber(ctx, barbershopID, barberID); err != nil {
			return err
		}
		return c.repo.DeleteAvailabilityOverride(ctx, barberID, date)
	})
	if err != nil {
		return err
	}

	c.audit.Dispatch(audit.Event{
		BarbershopID: barbershopID,
		ActorID:      actorID,
		Action:       "availability_override_removed",
		Entity:       "barber",
		EntityID:     &barberID,
		Metadata:     map[string]any{"date": date},
	})
	return nil
}

// ======================================================
// Clients
// ======================================================

func (c *Catalog) ListClients(ctx context.Context, barbershopID uint, query string) ([]models.Client, error) {
	return c.repo.ListClients(ctx, barbershopID, query)
}
