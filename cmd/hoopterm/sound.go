package main

import (
	"log"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// soundboard plays short tones for shot results. A machine without audio
// just stays silent.
type soundboard struct {
	mu      sync.Mutex
	mixer   *beep.Mixer
	enabled bool
}

func newSoundboard(mute bool) *soundboard {
	sb := &soundboard{mixer: &beep.Mixer{}}
	if mute {
		return sb
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		log.Printf("[AUDIO] Speaker unavailable, sound disabled: %v", err)
		return sb
	}
	speaker.Play(sb.mixer)
	sb.enabled = true
	return sb
}

// swish is a quick rising pair of notes.
func (sb *soundboard) swish() {
	sb.play(tone(660, 80*time.Millisecond), tone(990, 140*time.Millisecond))
}

// clank is a single low note.
func (sb *soundboard) clank() {
	sb.play(tone(150, 200*time.Millisecond))
}

// buzzer ends the game.
func (sb *soundboard) buzzer() {
	sb.play(tone(220, 150*time.Millisecond), tone(165, 350*time.Millisecond))
}

func (sb *soundboard) play(parts ...beep.Streamer) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	if !sb.enabled {
		return
	}
	streams := make([]beep.Streamer, 0, len(parts))
	for _, p := range parts {
		if p != nil {
			streams = append(streams, p)
		}
	}
	if len(streams) == 0 {
		return
	}
	speaker.Lock()
	sb.mixer.Add(beep.Seq(streams...))
	speaker.Unlock()
}

func (sb *soundboard) close() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	if !sb.enabled {
		return
	}
	speaker.Lock()
	sb.mixer.Clear()
	speaker.Unlock()
	sb.enabled = false
}

func tone(freq float64, d time.Duration) beep.Streamer {
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		log.Printf("[AUDIO] Tone %.0fHz: %v", freq, err)
		return nil
	}
	return beep.Take(sampleRate.N(d), sine)
}
