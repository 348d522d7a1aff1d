package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/leadbook/user-directory/internal/pkg/metrics"
	"github.com/leadbook/user-directory/internal/core/domain"
	"github.com/leadbook/user-directory/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	drainTimeout   = 5 * time.Second
)

// Dispatcher routes user events to a fixed set of workers using consistent
// hashing on the user id, so events for one user are recorded in order.
type Dispatcher struct {
	workers []chan domain.UserEvent
	service ports.AuditService
	log     zerolog.Logger
	wg      sync.WaitGroup
}

var _ ports.EventPublisher = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.AuditService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.UserEvent, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.UserEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. When ctx is cancelled each worker
// records what is still buffered and exits; Wait blocks until they are done.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker started by Start has exited.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Publish hands event to the worker responsible for its user. It never
// blocks: when that worker's buffer is full the event is dropped.
func (d *Dispatcher) Publish(event domain.UserEvent) {
	idx := d.shardIndex(event.UserID)
	select {
	case d.workers[idx] <- event:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.AuditEventsTotal.WithLabelValues(string(event.Type), "dropped").Inc()
		d.log.Warn().
			Str("type", string(event.Type)).
			Str("user_id", event.UserID).
			Int("worker_id", idx).
			Msg("audit queue full, event dropped")
	}
}

// shardIndex maps a user id deterministically to a worker index.
func (d *Dispatcher) shardIndex(userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.UserEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)

	for {
		select {
		case <-ctx.Done():
			d.drain(ctx, id, ch)
			return
		case event := <-ch:
			// select picks at random when both are ready.
			if ctx.Err() != nil {
				d.drain(ctx, id, ch, event)
				return
			}
			metrics.AuditQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			// Repository calls carry their own timeout; a stop must not abort
			// an insert already under way.
			d.record(context.WithoutCancel(ctx), id, event)
		}
	}
}

// drain records pending and then the events still buffered when the
// dispatcher stops, under a fresh context bounded by drainTimeout.
func (d *Dispatcher) drain(ctx context.Context, id int, ch <-chan domain.UserEvent, pending ...domain.UserEvent) {
	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), drainTimeout)
	defer cancel()

	for _, event := range pending {
		d.record(drainCtx, id, event)
	}
	for {
		select {
		case event := <-ch:
			d.record(drainCtx, id, event)
		default:
			metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(0)
			return
		}
	}
}

func (d *Dispatcher) record(ctx context.Context, id int, event domain.UserEvent) {
	if err := d.service.Record(ctx, event); err != nil {
		d.log.Error().Err(err).
			Str("type", string(event.Type)).
			Str("user_id", event.UserID).
			Int("worker_id", id).
			Msg("audit event recording failed")
	}
}
