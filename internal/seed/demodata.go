package seed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barbershop-scheduler/internal/domain/catalog"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/domain/settings"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/models"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/timezone"
)

const DemoSlug = "barbearia-demo"

type ShopStore interface {
	GetBarbershopBySlug(ctx context.Context, slug string) (*models.Barbershop, error)
	CreateBarbershop(ctx context.Context, shop *models.Barbershop) error
}

var (
	demoServices = []models.Service{
		{Name: "Corte", Category: "cabelo", DurationMin: 30, Price: 45},
		{Name: "Barba", Category: "barba", DurationMin: 30, Price: 35},
		{Name: "Corte + Barba", Category: "combo", DurationMin: 60, Price: 70},
		{Name: "Pezinho", Category: "cabelo", DurationMin: 15, Price: 15},
	}

	demoBarbers = []models.Barber{
		{Name: "Carlos Souza", Phone: "11987650001", Specialties: []string{"degradê", "navalha"}, Rating: 4.9},
		{Name: "Rafael Lima", Phone: "11987650002", Specialties: []string{"barba"}, Rating: 4.7},
		{Name: "Bruno Alves", Phone: "11987650003", Specialties: []string{"infantil"}, Rating: 4.6},
	}
)

// Demo cria a barbearia de demonstração. Idempotente: se o slug já existe,
// não faz nada e devolve a barbearia existente.
func Demo(
	ctx context.Context,
	shops ShopStore,
	settingsRepo settings.Repository,
	catalogRepo catalog.Repository,
	log zerolog.Logger,
) (*models.Barbershop, error) {

	existing, err := shops.GetBarbershopBySlug(ctx, DemoSlug)
	if err == nil {
		log.Info().Uint("barbershop_id", existing.ID).Msg("demo data already present")
		return existing, nil
	}
	if !httperr.Is(err, httperr.KindNotFound) {
		return nil, err
	}

	shop := &models.Barbershop{
		Name:     "Barbearia Demo",
		Slug:     DemoSlug,
		Phone:    "1133330000",
		Address:  "Rua Augusta, 100 - São Paulo",
		Timezone: timezone.DefaultTimezone,
	}
	if err := shops.CreateBarbershop(ctx, shop); err != nil {
		return nil, fmt.Errorf("create barbershop: %w", err)
	}

	st := settings.Defaults(shop.ID)
	st.QueueEnabled = true
	if err := settingsRepo.SaveSettings(ctx, st); err != nil {
		return nil, fmt.Errorf("save settings: %w", err)
	}

	for _, sv := range demoServices {
		sv.BarbershopID = shop.ID
		sv.Visible = true
		if err := catalogRepo.CreateService(ctx, &sv); err != nil {
			return nil, fmt.Errorf("create service %q: %w", sv.Name, err)
		}
	}

	for _, b := range demoBarbers {
		b.BarbershopID = shop.ID
		b.Available = true
		if err := catalogRepo.CreateBarber(ctx, &b); err != nil {
			return nil, fmt.Errorf("create barber %q: %w", b.Name, err)
		}
	}

	log.Info().
		Uint("barbershop_id", shop.ID).
		Str("slug", shop.Slug).
		Int("services", len(demoServices)).
		Int("professionals", len(demoBarbers)).
		Msg("demo data created")

	return shop, nil
}
