// This file is part of ChipShop.
//
// ChipShop is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// ChipShop is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with ChipShop.  If not, see <https://www.gnu.org/licenses/>.

// Package soundload prepares the sound chip's sample memory from ordinary
// audio files. WAV and MP3 sources are decoded to mono PCM, encoded to the
// chip's native nibble format and written into a Memory implementation
// ready for playback.
package soundload

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"

	"github.com/chipshop/chipshop/curated"
	"github.com/chipshop/chipshop/environment"
	"github.com/chipshop/chipshop/hardware/y8950/adpcm"
	"github.com/chipshop/chipshop/logger"
)

// tag string used in calls to Log().
const soundloadLogTag = "soundload"

// Sound describes what Load() placed in sample memory.
type Sound struct {
	// sample rate of the source file in Hz
	SampleRate int

	// number of encoded bytes written to memory, starting at address zero
	NumBytes int
}

// DeltaN returns the delta-N register value that plays the sound at its
// original pitch for the given chip sample rate.
func (snd *Sound) DeltaN(chipRate int) uint16 {
	dn := snd.SampleRate * 0x10000 / chipRate
	if dn > 0xffff {
		dn = 0xffff
	}
	return uint16(dn)
}

// StopUnits returns the value for the stop address register pair: the
// number of complete sample memory units the encoded sound occupies, less
// one.
func (snd *Sound) StopUnits() uint16 {
	units := (snd.NumBytes + 31) / 32
	if units == 0 {
		units = 1
	}
	return uint16(units - 1)
}

// Load decodes the named audio file, encodes it and writes the result into
// sample memory from address zero.
func Load(env *environment.Environment, filename string, mem adpcm.Memory) (*Sound, error) {
	samples, rate, err := decode(env, filename)
	if err != nil {
		return nil, curated.Errorf("soundload: %v", err)
	}

	encoded := adpcm.Encode(samples)
	for i, b := range encoded {
		mem.Write(uint32(i), b)
	}

	logger.Logf(env, soundloadLogTag, "%d samples at %dHz encoded to %d bytes", len(samples), rate, len(encoded))

	return &Sound{
		SampleRate: rate,
		NumBytes:   len(encoded),
	}, nil
}

func decode(env *environment.Environment, filename string) ([]int16, int, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".wav":
		return decodeWAV(env, f)
	case ".mp3":
		return decodeMP3(env, f)
	}

	return nil, 0, curated.Errorf("unsupported file type: %v", filepath.Ext(filename))
}

func decodeWAV(env *environment.Environment, f *os.File) ([]int16, int, error) {
	dec := wav.NewDecoder(f)
	if dec == nil {
		return nil, 0, curated.Errorf("wav: %v", "error decoding")
	}

	if !dec.IsValidFile() {
		return nil, 0, curated.Errorf("wav: %v", "not a valid wav file")
	}

	logger.Log(env, soundloadLogTag, "loading from wav file")

	// load all data at once
	var buf *audio.IntBuffer
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, curated.Errorf("wav: %v", err)
	}

	// copy first channel only of the data stream, widening to 16 bit where
	// the source is narrower
	numChans := int(dec.NumChans)
	shift := 16 - int(dec.BitDepth)

	samples := make([]int16, 0, len(buf.Data)/numChans)
	for i := 0; i < len(buf.Data); i += numChans {
		v := buf.Data[i]
		if shift > 0 {
			v <<= shift
		} else if shift < 0 {
			v >>= -shift
		}
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		samples = append(samples, int16(v))
	}

	return samples, int(dec.SampleRate), nil
}

func decodeMP3(env *environment.Environment, f *os.File) ([]int16, int, error) {
	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, 0, curated.Errorf("mp3: %v", err)
	}

	logger.Log(env, soundloadLogTag, "loading from mp3 file")

	samples := make([]int16, 0, 1024)

	// the decoded stream is always 16bit little endian stereo. index
	// increment of 4 because we only want the left channel
	err = nil
	chunk := make([]byte, 4096)
	for err != io.EOF {
		var chunkLen int
		chunkLen, err = dec.Read(chunk)
		if err != nil && err != io.EOF {
			return nil, 0, curated.Errorf("mp3: %v", err)
		}

		for i := 0; i+1 < chunkLen; i += 4 {
			samples = append(samples, int16(uint16(chunk[i])|uint16(chunk[i+1])<<8))
		}
	}

	return samples, dec.SampleRate(), nil
}
