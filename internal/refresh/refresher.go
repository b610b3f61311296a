package refresh

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/BruksfildServices01/fila-atendimento/internal/audit"
	"github.com/BruksfildServices01/fila-atendimento/internal/cache"
	"github.com/BruksfildServices01/fila-atendimento/internal/domain/queue"
	"github.com/BruksfildServices01/fila-atendimento/internal/mapper"
)

const DefaultInterval = 30 * time.Second

// ======================================================
// COLLABORATORS
// ======================================================

type EventSink interface {
	Dispatch(ev audit.Event)
}

type FetchObserver interface {
	ObserveFetch(outcome string, d time.Duration)
	SetQueueSize(n int)
}

type Notifier interface {
	QueueUpdated(snap queue.Snapshot) error
}

type Deps struct {
	Source   queue.Source
	Mapper   *mapper.Mapper
	Cache    *cache.QueryCache
	Clock    cache.Clock
	Events   EventSink
	Metrics  FetchObserver
	Notifier Notifier
	Log      zerolog.Logger
}

// Status é o estado da última atualização, para a página avisar sobre
// dados desatualizados.
type Status struct {
	Generation  uint64
	LastError   error
	LastErrorAt time.Time
	Loading     bool
}

func (s Status) Stale() bool {
	return s.LastError != nil
}

// ======================================================
// REFRESHER
// ======================================================

// Refresher keeps the cached queue snapshot current. Every fetch takes a
// new generation number; a fetch result is applied only if no newer
// generation was applied first, so overlapping timer and manual refreshes
// never move the queue backwards.
type Refresher struct {
	deps     Deps
	interval time.Duration

	nextGen  atomic.Uint64
	inFlight atomic.Int32
	group    singleflight.Group

	mu         sync.Mutex
	applied    uint64
	last       queue.Snapshot
	lastErr    error
	lastErrGen uint64
	lastErrAt  time.Time
}

func New(deps Deps, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if deps.Clock == nil {
		deps.Clock = cache.SystemClock{}
	}
	return &Refresher{deps: deps, interval: interval}
}

// Refresh fetches the queue once. It returns queue.ErrSuperseded when a
// newer fetch finished first, and a *queue.FetchError when the upstream
// call failed; in that case the previous snapshot stays in the cache.
func (r *Refresher) Refresh(ctx context.Context, trigger audit.Trigger) (queue.Snapshot, error) {
	gen := r.nextGen.Add(1)
	fetchID := uuid.NewString()
	log := r.deps.Log.With().
		Str("fetch_id", fetchID).
		Uint64("generation", gen).
		Str("trigger", string(trigger)).
		Logger()

	r.inFlight.Add(1)
	defer r.inFlight.Add(-1)

	start := r.deps.Clock.Now()
	raws, err := r.deps.Source.FetchPatients(ctx)
	elapsed := r.deps.Clock.Now().Sub(start)

	if err != nil {
		if !queue.IsFetchError(err) {
			err = &queue.FetchError{Kind: queue.FetchTransport, Err: err}
		}
		r.recordFailure(gen, err)
		log.Warn().Err(err).Dur("duration", elapsed).Msg("queue fetch failed")
		r.emit(audit.Event{FetchID: fetchID, Trigger: trigger, Outcome: audit.OutcomeFailed, Generation: gen, Duration: elapsed, Err: err})
		return queue.Snapshot{}, err
	}

	appointments, warnings := r.deps.Mapper.ToAppointments(raws)
	if len(warnings) > 0 {
		log.Warn().Int("warnings", len(warnings)).Msg("queue records with invalid fields")
	}
	for _, w := range warnings {
		log.Debug().Int64("protocol", w.Protocol).Msg(w.Message)
	}

	snap := queue.Snapshot{
		Generation:   gen,
		FetchedAt:    r.deps.Clock.Now(),
		Appointments: appointments,
	}

	applied, err := r.apply(context.WithoutCancel(ctx), snap)
	if err != nil {
		log.Error().Err(err).Msg("failed to store queue snapshot")
		r.emit(audit.Event{FetchID: fetchID, Trigger: trigger, Outcome: audit.OutcomeFailed, Generation: gen, Items: len(appointments), Duration: elapsed, Err: err})
		return queue.Snapshot{}, err
	}
	if !applied {
		log.Debug().Msg("queue fetch superseded, discarding")
		r.emit(audit.Event{FetchID: fetchID, Trigger: trigger, Outcome: audit.OutcomeDiscarded, Generation: gen, Items: len(appointments), Duration: elapsed})
		return queue.Snapshot{}, queue.ErrSuperseded
	}

	if r.deps.Metrics != nil {
		r.deps.Metrics.SetQueueSize(len(appointments))
	}
	if r.deps.Notifier != nil {
		if err := r.deps.Notifier.QueueUpdated(snap); err != nil {
			log.Warn().Err(err).Msg("queue update notification failed")
		}
	}

	log.Info().Int("items", len(appointments)).Dur("duration", elapsed).Msg("queue snapshot applied")
	r.emit(audit.Event{FetchID: fetchID, Trigger: trigger, Outcome: audit.OutcomeApplied, Generation: gen, Items: len(appointments), Duration: elapsed})
	return snap, nil
}

func (r *Refresher) apply(ctx context.Context, snap queue.Snapshot) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if snap.Generation < r.applied {
		return false, nil
	}

	if err := r.deps.Cache.PutSnapshot(ctx, snap); err != nil {
		return false, err
	}

	r.applied = snap.Generation
	r.last = snap
	if r.lastErrGen < snap.Generation {
		r.lastErr = nil
	}
	return true, nil
}

func (r *Refresher) recordFailure(gen uint64, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// falha mais antiga que o snapshot aplicado não deixa a fila desatualizada
	if gen < r.applied {
		return
	}
	r.lastErr = err
	r.lastErrGen = gen
	r.lastErrAt = r.deps.Clock.Now()
}

func (r *Refresher) emit(ev audit.Event) {
	if r.deps.Metrics != nil {
		r.deps.Metrics.ObserveFetch(string(ev.Outcome), ev.Duration)
	}
	if r.deps.Events != nil {
		r.deps.Events.Dispatch(ev)
	}
}

// Snapshot returns the cached queue, fetching it when the cache is empty
// or expired. Concurrent misses share a single fetch. When that fetch fails
// the last applied snapshot is returned and Status reports it as stale.
func (r *Refresher) Snapshot(ctx context.Context) (queue.Snapshot, error) {
	snap, ok, err := r.deps.Cache.Snapshot(ctx)
	if err != nil {
		r.deps.Log.Warn().Err(err).Msg("queue cache read failed")
	}
	if ok {
		return snap, nil
	}

	// a busca compartilhada não depende do contexto de quem chegou primeiro
	ch := r.group.DoChan("miss", func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.interval)
		defer cancel()
		return r.Refresh(fetchCtx, audit.TriggerMiss)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return queue.Snapshot{}, ctx.Err()
	case res = <-ch:
	}

	v, err := res.Val, res.Err
	if errors.Is(err, queue.ErrSuperseded) {
		// um fetch mais novo já gravou o cache
		snap, ok, cerr := r.deps.Cache.Snapshot(ctx)
		if cerr == nil && ok {
			return snap, nil
		}
		return queue.Snapshot{}, queue.ErrNoSnapshot
	}
	if err != nil {
		// cache expirou e a busca falhou: serve o último snapshot, marcado como desatualizado
		if last, ok := r.lastApplied(); ok {
			return last, nil
		}
		return queue.Snapshot{}, err
	}
	return v.(queue.Snapshot), nil
}

func (r *Refresher) lastApplied() (queue.Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.last.IsZero() {
		return queue.Snapshot{}, false
	}
	return r.last, true
}

func (r *Refresher) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	return Status{
		Generation:  r.applied,
		LastError:   r.lastErr,
		LastErrorAt: r.lastErrAt,
		Loading:     r.inFlight.Load() > 0,
	}
}

// Start runs Run in the background. The returned channel is closed once
// Run has returned, so callers can wait before closing the event sink.
func (r *Refresher) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.Run(ctx)
	}()
	return done
}

// Run refreshes immediately and then on every tick until ctx is done.
func (r *Refresher) Run(ctx context.Context) {
	r.tick(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

func (r *Refresher) tick(ctx context.Context) {
	fetchCtx, cancel := context.WithTimeout(ctx, r.interval)
	defer cancel()

	// erros já foram registrados em Refresh
	_, _ = r.Refresh(fetchCtx, audit.TriggerTimer)
}
