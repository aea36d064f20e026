package notify

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/racesim/log"
	"github.com/mpapenbr/racesim/pkg/racer"
)

var (
	_ racer.World   = Multi(nil)
	_ racer.World   = (*LogSink)(nil)
	_ racer.World   = (*Collector)(nil)
	_ racer.World   = (*NatsSink)(nil)
	_ racer.World   = (*AudioSink)(nil)
	_ racer.World   = (*Broadcast)(nil)
	_ beep.Streamer = (*Chime)(nil)
)

type message struct {
	subject string
	data    []byte
}

type fakePublisher struct {
	msgs []message
	err  error
}

func (p *fakePublisher) Publish(subj string, data []byte) error {
	p.msgs = append(p.msgs, message{subj, data})
	return p.err
}

func TestMulti(t *testing.T) {
	a, b := NewCollector(), NewCollector()
	m := Multi{a, b}
	m.ShowScoreIndicator(100, 1, 2)
	m.ShowScoreIndicator(100, 3, 4)

	want := []Indicator{{100, 1, 2}, {100, 3, 4}}
	assert.Equal(t, want, a.Indicators())
	assert.Equal(t, want, b.Indicators())
}

func TestLogSink(t *testing.T) {
	s := NewLogSink(log.New(io.Discard, log.DebugLevel))
	assert.NotPanics(t, func() { s.ShowScoreIndicator(100, 1, 2) })
}

func TestNatsSink(t *testing.T) {
	pub := &fakePublisher{}
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewNatsSink(pub, "race-1", WithClock(func() time.Time { return ts }))

	s.ShowScoreIndicator(100, 1.5, 2)

	require.Len(t, pub.msgs, 1)
	assert.Equal(t, "racesim.race-1.score", pub.msgs[0].subject)
	doc, err := oj.Parse(pub.msgs[0].data)
	require.NoError(t, err)
	get := func(path string) any {
		res := jp.MustParseString(path).Get(doc)
		require.Len(t, res, 1, path)
		return res[0]
	}
	assert.Equal(t, "race-1", get("$.race"))
	assert.Equal(t, int64(100), get("$.amount"))
	assert.Equal(t, 1.5, get("$.x"))
	assert.Equal(t, ts.UnixMilli(), get("$.ts"))
}

func TestNatsSink_PublishErrorDoesNotFail(t *testing.T) {
	pub := &fakePublisher{err: errors.New("connection closed")}
	s := NewNatsSink(pub, "race-1", WithNatsLogger(log.New(io.Discard, log.DebugLevel)))
	assert.NotPanics(t, func() {
		s.ShowScoreIndicator(100, 1, 2)
		s.ShowScoreIndicator(100, 1, 2)
	})
	assert.Len(t, pub.msgs, 2)
}

func TestAudioSink_SilentWithoutSpeaker(t *testing.T) {
	a := NewAudioSink()
	assert.NotPanics(t, func() { a.ShowScoreIndicator(100, 1, 2) })
	a.Close()
}

func TestChime(t *testing.T) {
	c := NewChime(sampleRate, 880)
	buf := make([][2]float64, 512)
	total := 0
	for {
		n, ok := c.Stream(buf)
		if !ok {
			break
		}
		for i := range n {
			assert.LessOrEqual(t, buf[i][0], 0.25)
			assert.GreaterOrEqual(t, buf[i][0], -0.25)
		}
		total += n
	}
	assert.Equal(t, sampleRate.N(200*time.Millisecond), total)
	assert.NoError(t, c.Err())
}

func receive(t *testing.T, ch <-chan Indicator) Indicator {
	t.Helper()
	select {
	case ind, ok := <-ch:
		require.True(t, ok, "subscription closed")
		return ind
	case <-time.After(time.Second):
		t.Fatal("no indicator received")
	}
	return Indicator{}
}

func TestBroadcast(t *testing.T) {
	b := NewBroadcast("test", WithBroadcastLogger(log.New(io.Discard, log.DebugLevel)))
	a, c := b.Subscribe(), b.Subscribe()

	b.ShowScoreIndicator(100, 1, 2)
	assert.Equal(t, Indicator{100, 1, 2}, receive(t, a))
	assert.Equal(t, Indicator{100, 1, 2}, receive(t, c))

	b.CancelSubscription(a)
	_, ok := <-a
	assert.False(t, ok)

	b.ShowScoreIndicator(100, 3, 4)
	assert.Equal(t, Indicator{100, 3, 4}, receive(t, c))

	b.Close()
	_, ok = <-c
	assert.False(t, ok)
	assert.NotPanics(t, func() { b.ShowScoreIndicator(100, 5, 6) })
	_, ok = <-b.Subscribe()
	assert.False(t, ok)

	rcv, snd, skip := b.counts()
	assert.Equal(t, int64(2), rcv)
	assert.Equal(t, int64(3), snd)
	assert.Zero(t, skip)
}

func TestBroadcast_SkipsSlowSubscriber(t *testing.T) {
	b := NewBroadcast("slow",
		WithSendTimeout(time.Millisecond),
		WithBroadcastLogger(log.New(io.Discard, log.DebugLevel)))
	slow := b.Subscribe()
	for range cap(slow) + 2 {
		b.ShowScoreIndicator(100, 0, 0)
	}
	require.Eventually(t, func() bool {
		rcv, _, _ := b.counts()
		return rcv == int64(cap(slow)+2)
	}, time.Second, time.Millisecond)
	b.Close()

	received := 0
	for range slow {
		received++
	}
	rcv, snd, skip := b.counts()
	assert.Equal(t, int64(cap(slow)+2), rcv)
	assert.Equal(t, int64(received), snd)
	assert.Equal(t, int64(2), skip)
}
