package tenant

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultIdleTimeout: uma lane sem trabalho por esse tempo encerra o worker.
const DefaultIdleTimeout = time.Minute

const laneBuffer = 64

type job struct {
	ctx  context.Context
	fn   func(ctx context.Context) error
	done chan error
}

type lane struct {
	jobs    chan job
	pending int
}

// Lanes executa as mutações de cada barbearia em série, na ordem de envio.
// Barbearias diferentes rodam em paralelo. Cada lane é um worker criado sob
// demanda e encerrado quando fica ociosa.
type Lanes struct {
	mu    sync.Mutex
	lanes map[uint]*lane
	idle  time.Duration
}

func NewLanes(idle time.Duration) *Lanes {
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	return &Lanes{
		lanes: make(map[uint]*lane),
		idle:  idle,
	}
}

// Do enfileira fn na lane da barbearia e espera o resultado. Se ctx for
// cancelado antes de fn começar, fn não roda e Do devolve ctx.Err().
func (l *Lanes) Do(ctx context.Context, barbershopID uint, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	j := job{ctx: ctx, fn: fn, done: make(chan error, 1)}

	ln := l.acquire(barbershopID)

	select {
	case ln.jobs <- j:
	case <-ctx.Done():
		l.release(ln)
		return ctx.Err()
	}

	select {
	case err := <-j.done:
		return err
	case <-ctx.Done():
		// fn pode já estar rodando; o resultado é descartado pelo worker.
		return ctx.Err()
	}
}

func (l *Lanes) acquire(barbershopID uint) *lane {
	l.mu.Lock()
	defer l.mu.Unlock()

	ln, ok := l.lanes[barbershopID]
	if !ok {
		ln = &lane{jobs: make(chan job, laneBuffer)}
		l.lanes[barbershopID] = ln
		go l.run(barbershopID, ln)
	}
	ln.pending++
	return ln
}

func (l *Lanes) release(ln *lane) {
	l.mu.Lock()
	ln.pending--
	l.mu.Unlock()
}

func (l *Lanes) run(barbershopID uint, ln *lane) {
	timer := time.NewTimer(l.idle)
	defer timer.Stop()

	for {
		select {
		case j := <-ln.jobs:
			j.done <- execute(j)
			l.release(ln)

			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(l.idle)

		case <-timer.C:
			l.mu.Lock()
			if ln.pending == 0 {
				delete(l.lanes, barbershopID)
				l.mu.Unlock()
				return
			}
			l.mu.Unlock()
			timer.Reset(l.idle)
		}
	}
}

func execute(j job) (err error) {
	if err := j.ctx.Err(); err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tenant lane panic: %v", r)
		}
	}()

	return j.fn(j.ctx)
}

// Active devolve quantas lanes estão vivas.
func (l *Lanes) Active() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.lanes)
}
