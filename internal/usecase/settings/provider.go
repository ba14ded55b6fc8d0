package settings

import (
	"context"

	"github.com/BruksfildServices01/barbershop-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/barbershop-scheduler/internal/domain/settings"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/models"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/tenant"
)

// Provider é a fonte única da ShopSettings: lê via cache e invalida o cache
// em toda atualização.
type Provider struct {
	repo  domain.Repository
	cache domain.Cache
	lanes *tenant.Lanes
	audit *audit.Dispatcher
}

func NewProvider(
	repo domain.Repository,
	cache domain.Cache,
	lanes *tenant.Lanes,
	audit *audit.Dispatcher,
) *Provider {
	return &Provider{
		repo:  repo,
		cache: cache,
		lanes: lanes,
		audit: audit,
	}
}

// Get devolve a configuração salva ou, se a barbearia nunca salvou, os defaults.
func (p *Provider) Get(ctx context.Context, barbershopID uint) (*models.ShopSettings, error) {
	if s, ok := p.cache.GetSettings(ctx, barbershopID); ok {
		return s, nil
	}

	s, err := p.load(ctx, barbershopID)
	if err != nil {
		return nil, err
	}

	p.cache.SetSettings(ctx, s)
	return s, nil
}

func (p *Provider) load(ctx context.Context, barbershopID uint) (*models.ShopSettings, error) {
	s, err := p.repo.GetSettings(ctx, barbershopID)
	if httperr.Is(err, httperr.KindNotFound) {
		return domain.Defaults(barbershopID), nil
	}
	return s, err
}

func (p *Provider) Update(
	ctx context.Context,
	barbershopID uint,
	actorID *uint,
	patch domain.Patch,
) (*models.ShopSettings, error) {

	var out *models.ShopSettings

	err := p.lanes.Do(ctx, barbershopID, func(ctx context.Context) error {
		s, err := p.load(ctx, barbershopID)
		if err != nil {
			return err
		}

		if err := domain.Apply(s, patch); err != nil {
			return err
		}

		if err := p.repo.SaveSettings(ctx, s); err != nil {
			return err
		}

		p.cache.InvalidateSettings(ctx, barbershopID)
		out = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.audit.Dispatch(audit.Event{
		BarbershopID: barbershopID,
		ActorID:      actorID,
		Action:       "settings_updated",
		Entity:       "settings",
		EntityID:     &out.ID,
		Metadata:     patch,
	})

	return out, nil
}

var _ domain.Source = (*Provider)(nil)
