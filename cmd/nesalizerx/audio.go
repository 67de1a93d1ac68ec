package main

import (
	"github.com/hajimehoshi/ebiten/v2/audio"

	ring "github.com/usrshare/nesalizerX/internal/audio"
)

const (
	// sampleRate is the audio output sample rate (Hz).
	sampleRate = 44100
)

// AudioPlayer streams the emulation core's mono samples to the audio
// device through the shared ring buffer.
type AudioPlayer struct {
	player *audio.Player
}

// NewAudioPlayer creates an audio player reading from the ring.
func NewAudioPlayer(r *ring.Ring) (*AudioPlayer, error) {
	ctx := audio.CurrentContext()
	if ctx == nil {
		ctx = audio.NewContext(sampleRate)
	}

	player, err := ctx.NewPlayer(&ringStream{ring: r})
	if err != nil {
		return nil, err
	}
	return &AudioPlayer{player: player}, nil
}

// Start starts audio playback.
func (ap *AudioPlayer) Start() {
	ap.player.Play()
}

// Stop pauses audio playback.
func (ap *AudioPlayer) Stop() {
	ap.player.Pause()
}

// ringStream adapts the sample ring to the io.Reader the audio player
// pulls from. The device wants interleaved stereo 16-bit little-endian;
// the core produces mono, duplicated here onto both channels. The ring
// zero-fills on underrun, so Read always delivers a full, playable
// buffer and never blocks the device goroutine.
type ringStream struct {
	ring    *ring.Ring
	scratch []int16
}

func (s *ringStream) Read(buf []byte) (int, error) {
	frames := len(buf) / 4 // 2 channels x 2 bytes
	if frames == 0 {
		return 0, nil
	}
	if cap(s.scratch) < frames {
		s.scratch = make([]int16, frames)
	}
	mono := s.scratch[:frames]
	s.ring.Read(mono)

	for i, sample := range mono {
		lo, hi := byte(sample), byte(sample>>8)
		buf[i*4] = lo
		buf[i*4+1] = hi
		buf[i*4+2] = lo
		buf[i*4+3] = hi
	}
	return frames * 4, nil
}
