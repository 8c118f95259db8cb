package main

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// stingSound plays a short tone when the wasp kills. A zero value is
// silent, so the viewer works without an audio device.
type stingSound struct {
	ready bool
}

// init opens the speaker.
func (s *stingSound) init() error {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return err
	}
	s.ready = true
	return nil
}

// play sounds one sting per kill, pitched up for multi-kills.
func (s *stingSound) play(kills int) {
	if !s.ready || kills <= 0 {
		return
	}
	freq := 660.0 + 110.0*float64(min(kills, 4)-1)
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(sampleRate.N(80*time.Millisecond), sine))
}

func (s *stingSound) close() {
	if s.ready {
		speaker.Close()
		s.ready = false
	}
}
