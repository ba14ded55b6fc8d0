package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/BruksfildServices01/barbershop-scheduler/internal/models"
)

// Store persiste e lista a trilha de auditoria.
type Store interface {
	CreateAuditLog(ctx context.Context, l *models.AuditLog) error
	ListAuditLogs(ctx context.Context, f Filter) ([]models.AuditLog, int64, error)
}

// Filter da listagem paginada. To é exclusivo.
type Filter struct {
	BarbershopID uint
	Action       string
	Entity       string
	From         *time.Time
	To           *time.Time

	Page  int
	Limit int
}

func (f Filter) Offset() int {
	if f.Page <= 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

type Logger struct {
	store Store
}

func New(store Store) *Logger {
	return &Logger{store: store}
}

func (l *Logger) Log(ctx context.Context, ev Event) error {
	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	entry := models.AuditLog{
		BarbershopID: ev.BarbershopID,
		ActorID:      ev.ActorID,
		Action:       ev.Action,
		Entity:       ev.Entity,
		EntityID:     ev.EntityID,
		Metadata:     metaJSON,
	}

	return l.store.CreateAuditLog(ctx, &entry)
}
