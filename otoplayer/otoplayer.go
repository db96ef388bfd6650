// Package otoplayer is an invaders.SamplePlayer built on oto. Each trigger gets
// its own oto player reading from the pre-decoded sample so overlapping sounds
// mix the way the discrete circuits did. The number of voices is capped and
// triggers past the cap are refused with invaders.ErrBusy.
package otoplayer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"sync"

	"github.com/ebitengine/oto/v3"
	"github.com/jmchacon/i8080arcade/discrete"
	"github.com/jmchacon/i8080arcade/invaders"
)

var _ = invaders.SamplePlayer(&Player{})

const (
	// DefaultRate is the output sample rate used if Def doesn't give one.
	DefaultRate = 44100
	// DefaultVoices matches the SDL_mixer default of 8 channels.
	DefaultVoices = 8
)

// voice is the part of *oto.Player used here.
type voice interface {
	Play()
	IsPlaying() bool
	Close() error
}

// Player plays samples by discrete sound channel.
type Player struct {
	mu       sync.Mutex
	samples  [discrete.Channels][]byte
	voices   []voice
	max      int
	newVoice func(io.Reader) voice
	debug    bool
}

// Def defines a Player.
type Def struct {
	// Dir is where sample files are found.
	Dir string
	// Files names the sample per channel. All empty means invaders.SampleFiles.
	Files [discrete.Channels]string
	// Rate is the output sample rate. Defaults to DefaultRate.
	Rate int
	// Voices is the most samples played at once. Defaults to DefaultVoices.
	Voices int
	// Debug if true logs voice reaping and refusals.
	Debug bool
}

// Init decodes all samples and opens the audio device. Only one oto context
// may exist per process so only call this once.
func Init(def *Def) (*Player, error) {
	p, err := load(def)
	if err != nil {
		return nil, err
	}
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   rate(def),
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, fmt.Errorf("can't open audio: %v", err)
	}
	<-ready
	p.newVoice = func(r io.Reader) voice {
		return ctx.NewPlayer(r)
	}
	return p, nil
}

func rate(def *Def) int {
	if def.Rate > 0 {
		return def.Rate
	}
	return DefaultRate
}

// load does everything but touch the audio device.
func load(def *Def) (*Player, error) {
	if def == nil {
		return nil, errors.New("nil Def")
	}
	p := &Player{
		max:   def.Voices,
		debug: def.Debug,
	}
	if p.max <= 0 {
		p.max = DefaultVoices
	}
	files := def.Files
	if files == [discrete.Channels]string{} {
		files = invaders.SampleFiles
	}
	for ch, name := range files {
		if name == "" {
			continue
		}
		var err error
		if p.samples[ch], err = LoadFile(filepath.Join(def.Dir, name), rate(def)); err != nil {
			return nil, fmt.Errorf("can't load sample for channel %d: %v", ch, err)
		}
	}
	return p, nil
}

// reap closes finished voices. Must hold p.mu.
func (p *Player) reap() {
	live := p.voices[:0]
	for _, v := range p.voices {
		if v.IsPlaying() {
			live = append(live, v)
			continue
		}
		if err := v.Close(); err != nil && p.debug {
			log.Printf("can't close voice: %v", err)
		}
	}
	for i := len(live); i < len(p.voices); i++ {
		p.voices[i] = nil
	}
	p.voices = live
}

// Play implements invaders.SamplePlayer. It never blocks on the device.
func (p *Player) Play(ch int) error {
	if ch < 0 || ch >= discrete.Channels || len(p.samples[ch]) == 0 {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reap()
	if len(p.voices) >= p.max {
		if p.debug {
			log.Printf("refusing channel %d, %d voices playing", ch, len(p.voices))
		}
		return fmt.Errorf("%d voices playing: %w", len(p.voices), invaders.ErrBusy)
	}
	v := p.newVoice(bytes.NewReader(p.samples[ch]))
	v.Play()
	p.voices = append(p.voices, v)
	return nil
}

// Playing returns the number of voices still sounding.
func (p *Player) Playing() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reap()
	return len(p.voices)
}

// Close stops and releases every voice.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var first error
	for _, v := range p.voices {
		if err := v.Close(); err != nil && first == nil {
			first = err
		}
	}
	p.voices = nil
	return first
}
