package catalog

import (
	"github.com/BruksfildServices01/barbershop-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/barbershop-scheduler/internal/domain/catalog"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/tenant"
)

// Catalog reúne a administração do catálogo (serviços, profissionais) e dos
// dados que alteram a grade (bloqueios, overrides). Escritas que mexem na
// grade passam pela lane da barbearia para não cruzar com um agendamento
// em andamento.
type Catalog struct {
	repo  domain.Repository
	lanes *tenant.Lanes
	audit *audit.Dispatcher
}

func New(repo domain.Repository, lanes *tenant.Lanes, audit *audit.Dispatcher) *Catalog {
	return &Catalog{
		repo:  repo,
		lanes: lanes,
		audit: audit,
	}
}
