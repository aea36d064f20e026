package notify

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// AudioSink plays a short chime for every score indicator.
type AudioSink struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

func NewAudioSink() *AudioSink {
	return &AudioSink{mixer: &beep.Mixer{}}
}

// Initialize opens the speaker. Without a working audio device the sink
// stays silent.
func (a *AudioSink) Initialize() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(a.mixer)
	a.initialized = true
	return nil
}

func (a *AudioSink) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.initialized {
		return
	}
	speaker.Clear()
	a.initialized = false
}

func (a *AudioSink) ShowScoreIndicator(amount int, x, y float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.initialized {
		return
	}
	// the speaker goroutine reads the mixer
	speaker.Lock()
	a.mixer.Add(NewChime(sampleRate, chimeFrequency(amount)))
	speaker.Unlock()
}

// larger scores get higher chimes
func chimeFrequency(amount int) float64 {
	return 660 + math.Min(float64(amount), 500)
}

// Chime is a decaying sine tone lasting 200ms.
type Chime struct {
	sr     beep.SampleRate
	freq   float64
	pos    int
	length int
}

func NewChime(sr beep.SampleRate, freq float64) *Chime {
	return &Chime{sr: sr, freq: freq, length: sr.N(200 * time.Millisecond)}
}

func (c *Chime) Stream(samples [][2]float64) (n int, ok bool) {
	if c.pos >= c.length {
		return 0, false
	}
	for i := range samples {
		if c.pos >= c.length {
			return i, true
		}
		t := float64(c.pos) / float64(c.sr)
		envelope := 1 - float64(c.pos)/float64(c.length)
		sample := 0.25 * envelope * math.Sin(2*math.Pi*c.freq*t)
		samples[i][0] = sample
		samples[i][1] = sample
		c.pos++
	}
	return len(samples), true
}

func (c *Chime) Err() error {
	return nil
}
