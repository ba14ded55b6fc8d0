package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Sink entrega um evento a um canal concreto.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, ev Event) error
}

const (
	queueSize       = 256
	deliveryTimeout = 5 * time.Second
)

// Dispatcher desacopla a publicação da entrega: Publish nunca bloqueia e
// um sink lento ou fora do ar não afeta o fluxo de agendamento.
type Dispatcher struct {
	sinks []Sink
	log   zerolog.Logger
	queue chan Event

	closeOnce sync.Once
	done      chan struct{}
}

func NewDispatcher(log zerolog.Logger, sinks ...Sink) *Dispatcher {
	d := &Dispatcher{
		sinks: sinks,
		log:   log.With().Str("component", "notify").Logger(),
		queue: make(chan Event, queueSize),
		done:  make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		for _, s := range d.sinks {
			ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
			err := s.Deliver(ctx, ev)
			cancel()

			if err != nil {
				d.log.Error().Err(err).
					Str("sink", s.Name()).
					Str("kind", string(ev.Kind)).
					Str("event_id", ev.ID).
					Msg("notification delivery failed")
			}
		}
	}
}

func (d *Dispatcher) Publish(ev Event) {
	select {
	case d.queue <- ev:
	default:
		d.log.Warn().
			Str("kind", string(ev.Kind)).
			Uint("barbershop_id", ev.BarbershopID).
			Msg("notification queue full, dropping event")
	}
}

func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.queue)
	})
	<-d.done
}

var _ Publisher = (*Dispatcher)(nil)
