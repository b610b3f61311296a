package audit

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Trigger identifica quem pediu a atualização.
type Trigger string

const (
	TriggerTimer  Trigger = "timer"
	TriggerManual Trigger = "manual"
	TriggerMiss   Trigger = "miss"
	TriggerCLI    Trigger = "cli"
)

type Outcome string

const (
	OutcomeApplied   Outcome = "applied"
	OutcomeDiscarded Outcome = "discarded"
	OutcomeFailed    Outcome = "failed"
)

// Event descreve uma tentativa de busca na API.
type Event struct {
	FetchID    string
	Trigger    Trigger
	Outcome    Outcome
	Generation uint64
	Items      int
	Duration   time.Duration
	Err        error
}

type Recorder interface {
	Record(ctx context.Context, ev Event) error
}

type Dispatcher struct {
	recorder Recorder
	log      zerolog.Logger
	queue    chan Event
	done     chan struct{}
	once     sync.Once

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(recorder Recorder, log zerolog.Logger) *Dispatcher {
	d := &Dispatcher{
		recorder: recorder,
		log:      log,
		queue:    make(chan Event, 100),
		done:     make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := d.recorder.Record(ctx, ev); err != nil {
			d.log.Error().Err(err).Str("fetch_id", ev.FetchID).Msg("audit error")
		}
		cancel()
	}
}

// Dispatch never blocks a refresh: when the queue is full, or the
// dispatcher was already closed, the event is dropped.
func (d *Dispatcher) Dispatch(ev Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.Warn().Str("fetch_id", ev.FetchID).Msg("audit dispatcher closed, dropping event")
		return
	}

	select {
	case d.queue <- ev:
	default:
		d.log.Warn().Str("fetch_id", ev.FetchID).Msg("audit queue full, dropping event")
	}
}

// Close drains pending events.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.queue)
		d.mu.Unlock()
	})
	<-d.done
}
