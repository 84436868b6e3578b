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

// Package sdlaudio plays the sample stream through SDL. It implements the
// playback.Mixer interface so it attaches to the Pump like any other
// consumer.
package sdlaudio

import (
	"fmt"
	"time"

	"github.com/chipshop/chipshop/curated"
	"github.com/veandco/go-sdl2/sdl"
)

// the buffer length is important to get right. we don't want it too long
// because it adds lag between a register write and the audible result; we
// don't want it too short because flushing the buffer to the device is
// comparatively expensive. the value below was arrived at by trial and
// error and is not critical.
const bufferLength = 1024

// Audio outputs sound using SDL.
type Audio struct {
	id   sdl.AudioDeviceID
	spec sdl.AudioSpec

	rate int

	// two buffers, swapped on every flush. the idle one is used to paper
	// over underruns by repeating the most recent audio. see repeatAudio()
	buffer   *[]int16
	other    *[]int16
	bufferA  []int16
	bufferB  []int16
	bufferCt int

	isBufferEmpty chan bool
}

// NewAudio is the preferred method of initialisation for the Audio type.
// The sample rate should be the chip's output rate.
func NewAudio(sampleRate int) (*Audio, error) {
	aud := &Audio{
		rate:          sampleRate,
		isBufferEmpty: make(chan bool),
	}

	aud.bufferA = make([]int16, bufferLength)
	aud.bufferB = make([]int16, bufferLength)
	aud.buffer = &aud.bufferA
	aud.other = &aud.bufferB

	spec := &sdl.AudioSpec{
		Freq:     int32(sampleRate),
		Format:   sdl.AUDIO_S16LSB,
		Channels: 1,
		Samples:  uint16(bufferLength),
	}

	var err error
	var actualSpec sdl.AudioSpec

	aud.id, err = sdl.OpenAudioDevice("", false, spec, &actualSpec, 0)
	if err != nil {
		return nil, curated.Errorf("sdlaudio: %v", err)
	}
	aud.spec = actualSpec

	// prod the stream with repeated audio whenever a buffer's worth of time
	// has passed without a flush
	go func() {
		rate := float64(bufferLength) / float64(sampleRate)
		dur, _ := time.ParseDuration(fmt.Sprintf("%fs", rate))
		tck := time.NewTicker(dur)
		for range tck.C {
			aud.isBufferEmpty <- true
		}
	}()

	sdl.PauseAudioDevice(aud.id, false)

	return aud, nil
}

// SetAudio implements the playback.Mixer interface.
func (aud *Audio) SetAudio(sample int16) error {
	select {
	case <-aud.isBufferEmpty:
		_ = aud.repeatAudio()
	default:
	}

	(*aud.buffer)[aud.bufferCt] = sample
	aud.bufferCt++

	if aud.bufferCt >= len(*aud.buffer) {
		return aud.flushAudio()
	}

	return nil
}

func (aud *Audio) flushAudio() error {
	sdl.ClearQueuedAudio(aud.id)
	if err := sdl.QueueAudio(aud.id, asBytes(*aud.buffer)); err != nil {
		return curated.Errorf("sdlaudio: %v", err)
	}

	aud.bufferCt = 0
	aud.other = aud.buffer
	if aud.buffer == &aud.bufferA {
		aud.buffer = &aud.bufferB
	} else {
		aud.buffer = &aud.bufferA
	}

	return nil
}

func (aud *Audio) repeatAudio() error {
	return sdl.QueueAudio(aud.id, asBytes(*aud.other))
}

// EndMixing implements the playback.Mixer interface.
func (aud *Audio) EndMixing() error {
	defer sdl.CloseAudioDevice(aud.id)
	return aud.flushAudio()
}

// asBytes converts the sample buffer to the little endian byte stream that
// QueueAudio expects.
func asBytes(samples []int16) []uint8 {
	b := make([]uint8, len(samples)*2)
	for i, s := range samples {
		b[i*2] = uint8(s)
		b[i*2+1] = uint8(uint16(s) >> 8)
	}
	return b
}
