package notify

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/mpapenbr/racesim/log"
)

// Broadcast fans score indicators out to subscribers.
// A subscriber that does not take an indicator within the send timeout
// misses it; the simulation is never blocked by a slow subscriber for
// longer than that.
type Broadcast struct {
	name           string
	source         chan Indicator
	listeners      []chan Indicator
	addListener    chan chan Indicator
	removeListener chan (<-chan Indicator)
	ctx            context.Context
	cancel         context.CancelFunc
	done           chan struct{}
	sendTimeout    time.Duration
	mu             sync.Mutex // guards the counters
	numRcv         int64
	numSnd         int64
	numSkip        int64
	l              *log.Logger
}

type BroadcastOption func(b *Broadcast)

func WithSendTimeout(d time.Duration) BroadcastOption {
	return func(b *Broadcast) {
		b.sendTimeout = d
	}
}

func WithBroadcastLogger(l *log.Logger) BroadcastOption {
	return func(b *Broadcast) {
		b.l = l
	}
}

func NewBroadcast(name string, opts ...BroadcastOption) *Broadcast {
	ctx, cancel := context.WithCancel(context.Background())
	b := &Broadcast{
		name:           name,
		source:         make(chan Indicator, 16),
		addListener:    make(chan chan Indicator),
		removeListener: make(chan (<-chan Indicator)),
		ctx:            ctx,
		cancel:         cancel,
		done:           make(chan struct{}),
		sendTimeout:    50 * time.Millisecond,
		l:              log.Default().Named("broadcast"),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.setupMetrics()
	go b.serve()
	return b
}

// ShowScoreIndicator hands the indicator to the broadcast loop. After Close
// indicators are dropped.
func (b *Broadcast) ShowScoreIndicator(amount int, x, y float64) {
	select {
	case <-b.ctx.Done():
	case b.source <- Indicator{Amount: amount, X: x, Y: y}:
	}
}

func (b *Broadcast) Subscribe() <-chan Indicator {
	ch := make(chan Indicator, 8)
	select {
	case <-b.ctx.Done():
		close(ch)
	case b.addListener <- ch:
	}
	return ch
}

func (b *Broadcast) CancelSubscription(ch <-chan Indicator) {
	select {
	case <-b.ctx.Done():
	case b.removeListener <- ch:
	}
}

// Close stops the broadcast and closes all subscriptions.
func (b *Broadcast) Close() {
	b.cancel()
	<-b.done
	rcv, snd, skip := b.counts()
	b.l.Debug("broadcast closed",
		log.String("name", b.name),
		log.Int64("rcv", rcv), log.Int64("snd", snd), log.Int64("skip", skip))
}

func (b *Broadcast) counts() (rcv, snd, skip int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.numRcv, b.numSnd, b.numSkip
}

func (b *Broadcast) setupMetrics() {
	meter := otel.GetMeterProvider().Meter("racesim.broadcast")
	attrs := metric.WithAttributes(attribute.String("name", b.name))
	for _, d := range []struct {
		name  string
		desc  string
		value func() int64
	}{
		{
			"racesim.broadcast.rcv", "Number of received indicators",
			func() int64 { rcv, _, _ := b.counts(); return rcv },
		},
		{
			"racesim.broadcast.snd", "Number of sent indicators",
			func() int64 { _, snd, _ := b.counts(); return snd },
		},
		{
			"racesim.broadcast.skip", "Number of skipped indicators",
			func() int64 { _, _, skip := b.counts(); return skip },
		},
	} {
		if _, err := meter.Int64ObservableGauge(d.name,
			metric.WithDescription(d.desc),
			metric.WithUnit("{count}"),
			metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
				o.Observe(d.value(), attrs)
				return nil
			})); err != nil {
			b.l.Error("failed to register metric",
				log.String("metric", d.name),
				log.ErrorField(err))
		}
	}
}

//nolint:cyclop // by design
func (b *Broadcast) serve() {
	defer func() {
		for _, listener := range b.listeners {
			close(listener)
		}
		close(b.done)
	}()
	for {
		select {
		case <-b.ctx.Done():
			return
		case ch := <-b.addListener:
			b.listeners = append(b.listeners, ch)
		case ch := <-b.removeListener:
			for i, listener := range b.listeners {
				if listener == ch {
					b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
					close(listener)
					break
				}
			}
		case msg := <-b.source:
			sent, skipped := int64(0), int64(0)
			for _, listener := range b.listeners {
				select {
				case listener <- msg:
					sent++
				case <-time.After(b.sendTimeout):
					skipped++
				}
			}
			b.mu.Lock()
			b.numRcv++
			b.numSnd += sent
			b.numSkip += skipped
			b.mu.Unlock()
		}
	}
}
