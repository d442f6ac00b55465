// Package audio turns what the receivers hear into sound: one sine voice per
// lane, mixed and played through the default output device.
package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(48000)

// Sonifier owns the speaker and one Tone per lane.
type Sonifier struct {
	mu          sync.Mutex
	tones       []*Tone
	mixer       *beep.Mixer
	initialized bool
}

func NewSonifier(lanes int) *Sonifier {
	s := &Sonifier{mixer: &beep.Mixer{}}
	for range lanes {
		tone := NewTone(sampleRate)
		s.tones = append(s.tones, tone)
		s.mixer.Add(tone)
	}
	return s
}

// Init opens the output device and starts playing the mixer.
func (s *Sonifier) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(s.mixer)
	s.initialized = true
	return nil
}

// SetVoice sets the pitch and gain of a lane's tone. Unknown lanes are
// ignored.
func (s *Sonifier) SetVoice(lane int, hz, gain float64) {
	if lane < 0 || lane >= len(s.tones) {
		return
	}
	s.tones[lane].Set(hz, gain)
}

// Lanes is the number of voices.
func (s *Sonifier) Lanes() int {
	return len(s.tones)
}

// Stream mixes every voice into samples. The speaker calls it once Init
// succeeded; it is exported for offline rendering.
func (s *Sonifier) Stream(samples [][2]float64) (int, bool) {
	return s.mixer.Stream(samples)
}

func (s *Sonifier) Err() error {
	return nil
}

// Close silences the voices and releases the output device.
func (s *Sonifier) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tone := range s.tones {
		tone.Set(0, 0)
	}
	if !s.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	s.initialized = false
}
