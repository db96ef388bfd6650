package otoplayer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
)

// LoadFile decodes a .wav or .mp3 file into 16 bit signed little endian mono PCM
// at rate samples per second.
func LoadFile(path string, rate int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(path, f, rate)
}

// Decode is LoadFile on an open stream. The name is only used for its extension.
// Multi channel sources keep the first (left) channel.
func Decode(name string, r io.ReadSeeker, rate int) ([]byte, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("invalid rate %d", rate)
	}
	var pcm []int16
	var from int
	var err error
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".wav":
		pcm, from, err = decodeWAV(r)
	case ".mp3":
		pcm, from, err = decodeMP3(r)
	default:
		return nil, fmt.Errorf("%s: unsupported sample type %q", name, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return encode(resample(pcm, from, rate)), nil
}

func decodeWAV(r io.ReadSeeker) ([]int16, int, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, 0, errors.New("wav: not a valid wav file")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("wav: %w", err)
	}
	chans := int(dec.NumChans)
	if chans < 1 {
		return nil, 0, fmt.Errorf("wav: %d channels", chans)
	}
	out := make([]int16, 0, len(buf.Data)/chans)
	for i := 0; i < len(buf.Data); i += chans {
		s, err := to16(buf.Data[i], int(dec.BitDepth))
		if err != nil {
			return nil, 0, fmt.Errorf("wav: %w", err)
		}
		out = append(out, s)
	}
	return out, int(dec.SampleRate), nil
}

// to16 scales a decoded sample to 16 bits. 8 bit WAV data is unsigned.
func to16(v int, depth int) (int16, error) {
	switch depth {
	case 8:
		return int16((v - 128) << 8), nil
	case 16:
		return int16(v), nil
	case 24:
		return int16(v >> 8), nil
	case 32:
		return int16(v >> 16), nil
	}
	return 0, fmt.Errorf("unsupported bit depth %d", depth)
}

// decodeMP3 relies on go-mp3 always producing 16 bit little endian stereo.
func decodeMP3(r io.Reader) ([]int16, int, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, 0, fmt.Errorf("mp3: %w", err)
	}
	data, err := io.ReadAll(dec)
	if err != nil {
		return nil, 0, fmt.Errorf("mp3: %w", err)
	}
	out := make([]int16, 0, len(data)/4)
	for i := 0; i+4 <= len(data); i += 4 {
		out = append(out, int16(binary.LittleEndian.Uint16(data[i:])))
	}
	return out, dec.SampleRate(), nil
}

// resample converts between rates by picking the nearest earlier sample.
// The samples are short effects so this is good enough.
func resample(in []int16, from, to int) []int16 {
	if from == to || from <= 0 {
		return in
	}
	n := int(int64(len(in)) * int64(to) / int64(from))
	out := make([]int16, n)
	for i := range out {
		out[i] = in[int64(i)*int64(from)/int64(to)]
	}
	return out
}

func encode(pcm []int16) []byte {
	out := make([]byte, len(pcm)*2)
	for i, s := range pcm {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}
