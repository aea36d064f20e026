package notify

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/ohler55/ojg/oj"

	"github.com/mpapenbr/racesim/log"
	"github.com/mpapenbr/racesim/pkg/utils"
)

type (
	// Publisher sends data to a subject. *nats.Conn satisfies it.
	Publisher interface {
		Publish(subj string, data []byte) error
	}

	// NatsSink publishes score indicators as JSON to racesim.<raceKey>.score
	NatsSink struct {
		pub     Publisher
		raceKey string
		subject string
		now     func() time.Time
		l       *log.Logger
	}
	NatsOption func(*NatsSink)
)

func WithClock(now func() time.Time) NatsOption {
	return func(s *NatsSink) {
		s.now = now
	}
}

func WithNatsLogger(l *log.Logger) NatsOption {
	return func(s *NatsSink) {
		s.l = l
	}
}

func NewNatsSink(pub Publisher, raceKey string, opts ...NatsOption) *NatsSink {
	ret := &NatsSink{
		pub:     pub,
		raceKey: raceKey,
		subject: ScoreSubject(raceKey),
		now:     time.Now,
		l:       log.Default().Named("nats"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func ScoreSubject(raceKey string) string {
	return fmt.Sprintf("racesim.%s.score", raceKey)
}

func (s *NatsSink) ShowScoreIndicator(amount int, x, y float64) {
	data := map[string]any{
		"race":   s.raceKey,
		"amount": amount,
		"x":      x,
		"y":      y,
		"ts":     s.now().UnixMilli(),
	}
	if err := s.pub.Publish(s.subject, []byte(oj.JSON(data))); err != nil {
		s.l.Warn("could not publish score indicator",
			log.String("subject", s.subject),
			log.ErrorField(err))
	}
}

// Connect waits for the NATS server to accept tcp connections and connects.
func Connect(url string, timeout time.Duration) (*nats.Conn, error) {
	addr, err := utils.HostPort(url, "4222")
	if err != nil {
		return nil, err
	}
	if err := utils.WaitForTCP(addr, timeout); err != nil {
		return nil, err
	}
	conn, err := nats.Connect(url, nats.Name("rsim"))
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return conn, nil
}
