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

// Package wavwriter writes the sample stream to disk as a WAV file. Note
// that audio data is buffered in memory in its entirety and written to disk
// on program end. It is therefore probably only suitable for testing
// purposes.
package wavwriter

import (
	"os"

	"github.com/chipshop/chipshop/curated"
	"github.com/chipshop/chipshop/logger"
	"github.com/youpy/go-wav"
)

// WavWriter implements the playback.Mixer interface.
type WavWriter struct {
	filename   string
	sampleRate int
	buffer     []wav.Sample
}

// New is the preferred method of initialisation for the WavWriter type. The
// sample rate should be the chip's output rate at the time of recording.
func New(filename string, sampleRate int) *WavWriter {
	return &WavWriter{
		filename:   filename,
		sampleRate: sampleRate,
		buffer:     make([]wav.Sample, 0),
	}
}

// SetAudio implements the playback.Mixer interface.
func (aw *WavWriter) SetAudio(sample int16) error {
	w := wav.Sample{}
	w.Values[0] = int(sample)
	aw.buffer = append(aw.buffer, w)
	return nil
}

// EndMixing implements the playback.Mixer interface. This is where the file
// is actually written.
func (aw *WavWriter) EndMixing() (rerr error) {
	f, err := os.Create(aw.filename)
	if err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}
	defer func() {
		err := f.Close()
		if err != nil {
			rerr = curated.Errorf("wavwriter: %v", err)
		}
	}()

	enc := wav.NewWriter(f, uint32(len(aw.buffer)), 1, uint32(aw.sampleRate), 16)
	if enc == nil {
		return curated.Errorf("wavwriter: %v", "bad parameters for wav encoding")
	}

	logger.Log(logger.Allow, "wavwriter", "writing audio to "+aw.filename)

	if err := enc.WriteSamples(aw.buffer); err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}

	return nil
}
