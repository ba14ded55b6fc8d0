package queue

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barbershop-scheduler/internal/models"
)

type Repository interface {
	// ListQueueEntries returns every live entry (waiting, called, onway).
	ListQueueEntries(ctx context.Context, barbershopID uint) ([]models.QueueEntry, error)

	GetQueueEntryByAppointment(
		ctx context.Context,
		barbershopID uint,
		appointmentID uint,
	) (*models.QueueEntry, error)

	CreateQueueEntry(ctx context.Context, e *models.QueueEntry) error
	UpdateQueueEntry(ctx context.Context, e *models.QueueEntry) error
	DeleteQueueEntry(ctx context.Context, id uint) error

	// ClaimQueueEntry moves a waiting entry to called only if it is still
	// waiting; claimed=false means another caller got there first.
	ClaimQueueEntry(ctx context.Context, id uint, calledAt time.Time) (claimed bool, err error)
}
