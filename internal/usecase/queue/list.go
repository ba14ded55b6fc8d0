package queue

import (
	"context"
	"sort"

	apdomain "github.com/BruksfildServices01/barbershop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/dto"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/models"
)

// ListQueue monta o painel da fila: aguardando (por posição) e depois
// chamados/a caminho.
type ListQueue struct {
	repo apdomain.Repository
}

func NewListQueue(repo apdomain.Repository) *ListQueue {
	return &ListQueue{repo: repo}
}

func (uc *ListQueue) Execute(ctx context.Context, barbershopID uint) ([]dto.QueueItemDTO, error) {
	entries, err := uc.repo.ListQueueEntries(ctx, barbershopID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.AppointmentID)
	}
	apps, err := uc.repo.ListAppointmentsByIDs(ctx, barbershopID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Appointment, len(apps))
	for _, ap := range apps {
		byID[ap.ID] = ap
	}

	waiting := make([]dto.QueueItemDTO, 0, len(entries))
	others := make([]dto.QueueItemDTO, 0)

	for _, e := range entries {
		item := dto.NewQueueItem(e)

		if ap, ok := byID[e.AppointmentID]; ok {
			item.Protocol = ap.Protocol
			item.ClientName = ap.ClientName
			item.BarberID = ap.BarberID
		}

		if e.Position > 0 {
			waiting = append(waiting, item)
		} else {
			others = append(others, item)
		}
	}

	sort.SliceStable(waiting, func(i, j int) bool {
		return waiting[i].Position < waiting[j].Position
	})
	return append(waiting, others...), nil
}
