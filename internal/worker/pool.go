package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueEmail   = "jobs:email"
	JobTypeEmail = "email"
)

// Job is the envelope stored in a Redis list.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// Handler processes one job payload. A returned error makes the job eligible
// for retry.
type Handler interface {
	Process(ctx context.Context, payload json.RawMessage) error
}

// Dispatcher enqueues jobs into Redis lists and runs the consumer pool.
// Without Redis jobs run inline in the caller's goroutine.
type Dispatcher struct {
	rdb         *redis.Client
	maxAttempts int
	handlers    map[string]Handler
	queues      map[string]string
	wg          sync.WaitGroup
}

func NewDispatcher(rdb *redis.Client, maxAttempts int) *Dispatcher {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return &Dispatcher{
		rdb:         rdb,
		maxAttempts: maxAttempts,
		handlers:    make(map[string]Handler),
		queues:      make(map[string]string),
	}
}

// Register binds a job type to its queue and handler. Call before Start.
func (d *Dispatcher) Register(jobType, queue string, h Handler) {
	d.handlers[jobType] = h
	d.queues[jobType] = queue
}

// EnqueueEmail schedules delivery of an e-mail job.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, job EmailJob) error {
	return d.enqueue(ctx, JobTypeEmail, job)
}

func (d *Dispatcher) enqueue(ctx context.Context, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if d.rdb == nil {
		return d.runInline(ctx, jobType, data)
	}
	queue, ok := d.queues[jobType]
	if !ok {
		return fmt.Errorf("worker: no queue registered for %q", jobType)
	}
	return d.push(ctx, queue, Job{Type: jobType, Payload: data})
}

func (d *Dispatcher) push(ctx context.Context, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

func (d *Dispatcher) runInline(ctx context.Context, jobType string, payload json.RawMessage) error {
	h, ok := d.handlers[jobType]
	if !ok {
		return fmt.Errorf("worker: no handler registered for %q", jobType)
	}
	var err error
	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		if err = h.Process(ctx, payload); err == nil {
			return nil
		}
		log.Warn().Err(err).Str("type", jobType).Int("attempt", attempt).Msg("inline job failed")
	}
	return err
}

// Start launches n consumers. They block on BRPOP and exit when ctx is done.
// It is a no-op without Redis.
func (d *Dispatcher) Start(ctx context.Context, n int) {
	if d.rdb == nil {
		log.Info().Msg("worker pool disabled: no redis, jobs run inline")
		return
	}
	if n <= 0 {
		n = 1
	}
	queues := d.queueList()
	for i := 0; i < n; i++ {
		d.wg.Add(1)
		go d.run(ctx, i, queues)
	}
	log.Info().Int("workers", n).Strs("queues", queues).Msg("worker pool started")
}

// Wait blocks until every consumer has returned.
func (d *Dispatcher) Wait() { d.wg.Wait() }

func (d *Dispatcher) queueList() []string {
	seen := make(map[string]bool)
	var out []string
	for _, q := range d.queues {
		if !seen[q] {
			seen[q] = true
			out = append(out, q)
		}
	}
	return out
}

func (d *Dispatcher) run(ctx context.Context, id int, queues []string) {
	defer d.wg.Done()
	for {
		if ctx.Err() != nil {
			log.Info().Int("worker", id).Msg("worker shutting down")
			return
		}
		result, err := d.rdb.BRPop(ctx, 5*time.Second, queues...).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				log.Error().Err(err).Int("worker", id).Msg("brpop failed")
				time.Sleep(time.Second)
			}
			continue
		}
		if len(result) < 2 {
			continue
		}
		d.process(ctx, result[0], result[1])
	}
}

// process runs one job; failures are re-queued until maxAttempts, then
// moved to the dead letter queue.
func (d *Dispatcher) process(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		SendToDLQ(ctx, d.rdb, queue, Job{Type: "unknown", Payload: json.RawMessage(`null`)}, "malformed job: "+err.Error())
		return
	}
	h, ok := d.handlers[job.Type]
	if !ok {
		SendToDLQ(ctx, d.rdb, queue, job, "no handler for job type")
		return
	}

	job.Attempts++
	err := h.Process(ctx, job.Payload)
	if err == nil {
		log.Info().Str("type", job.Type).Int("attempt", job.Attempts).Msg("job done")
		return
	}
	if job.Attempts >= d.maxAttempts {
		SendToDLQ(ctx, d.rdb, queue, job, err.Error())
		return
	}
	log.Warn().Err(err).Str("type", job.Type).Int("attempt", job.Attempts).Msg("job failed, requeued")
	if pushErr := d.push(ctx, queue, job); pushErr != nil {
		log.Error().Err(pushErr).Str("queue", queue).Msg("requeue failed")
	}
}
