// Package notify contains receivers for score indicators.
// Every sink satisfies racer.World and never fails the caller.
package notify

import (
	"sync"

	"github.com/mpapenbr/racesim/log"
)

type (
	// Sink receives score indicators.
	Sink interface {
		ShowScoreIndicator(amount int, x, y float64)
	}

	// Indicator is a recorded score indicator.
	Indicator struct {
		Amount int
		X, Y   float64
	}

	// Multi forwards indicators to all of its sinks.
	Multi []Sink

	// LogSink writes indicators to a logger.
	LogSink struct {
		l *log.Logger
	}

	// Collector keeps all indicators in memory.
	Collector struct {
		mu         sync.Mutex
		indicators []Indicator
	}
)

func (m Multi) ShowScoreIndicator(amount int, x, y float64) {
	for _, s := range m {
		s.ShowScoreIndicator(amount, x, y)
	}
}

func NewLogSink(l *log.Logger) *LogSink {
	return &LogSink{l: l}
}

func (s *LogSink) ShowScoreIndicator(amount int, x, y float64) {
	s.l.Info("score",
		log.Int("amount", amount),
		log.Float64("x", x),
		log.Float64("y", y))
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) ShowScoreIndicator(amount int, x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.indicators = append(c.indicators, Indicator{Amount: amount, X: x, Y: y})
}

// Indicators returns a copy of the collected indicators.
func (c *Collector) Indicators() []Indicator {
	c.mu.Lock()
	defer c.mu.Unlock()
	ret := make([]Indicator, len(c.indicators))
	copy(ret, c.indicators)
	return ret
}
