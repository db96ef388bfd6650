package invaders

import (
	"errors"

	"github.com/jmchacon/i8080arcade/discrete"
)

// ErrBusy is returned (possibly wrapped) by a SamplePlayer which has no free voice.
var ErrBusy = errors.New("sample player busy")

// SamplePlayer plays pre-loaded samples by channel. Play must not block and
// is best effort: a player out of voices returns an error and the trigger is
// dropped.
type SamplePlayer interface {
	// Play starts channel ch (0-15) once. Channels without a sample are ignored.
	Play(ch int) error
}

// SampleFiles maps each discrete sound channel to the sample played for it.
// Empty entries have no sound (not wired, or not an audio circuit).
// The order matches the port bits so don't reorder.
var SampleFiles = [discrete.Channels]string{
	discrete.UFO:        "ufo_highpitch.wav",
	discrete.Shot:       "shoot.wav",
	discrete.PlayerDie:  "explosion.wav",
	discrete.InvaderDie: "invaderkilled.wav",
	discrete.Fleet1:     "fastinvader1.wav",
	discrete.Fleet2:     "fastinvader2.wav",
	discrete.Fleet3:     "fastinvader3.wav",
	discrete.Fleet4:     "fastinvader4.wav",
	discrete.UFOHit:     "ufo_lowpitch.wav",
}
