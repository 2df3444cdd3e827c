package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/registryhq/identity-service/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

type channel int

const (
	channelEmail channel = iota
	channelSMS
)

type message struct {
	channel channel
	to      string
	subject string
	body    string
}

// Dispatcher delivers notifications asynchronously through a fixed set of
// workers, sharded by recipient so messages to one recipient keep their
// order. Relationship invites fan out through here; request handlers never
// wait on external delivery.
type Dispatcher struct {
	workers  []chan message
	notifier ports.Notifier
	log      zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, notifier ports.Notifier, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan message, numWorkers),
		notifier: notifier,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan message, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// EnqueueEmail queues an email for delivery. Non-blocking up to the
// channel buffer capacity.
func (d *Dispatcher) EnqueueEmail(to, subject, body string) {
	d.enqueue(message{channel: channelEmail, to: to, subject: subject, body: body})
}

// EnqueueSMS queues an SMS for delivery.
func (d *Dispatcher) EnqueueSMS(to, body string) {
	d.enqueue(message{channel: channelSMS, to: to, body: body})
}

func (d *Dispatcher) enqueue(msg message) {
	d.workers[d.shardIndex(msg.to)] <- msg
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(to string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(to))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var err error
			switch msg.channel {
			case channelEmail:
				err = d.notifier.SendEmail(ctx, msg.to, msg.subject, msg.body)
			case channelSMS:
				err = d.notifier.SendSMS(ctx, msg.to, msg.body)
			}
			if err != nil {
				d.log.Error().Err(err).
					Str("to", msg.to).
					Int("worker_id", id).
					Msg("notification delivery failed")
			}
		}
	}
}
