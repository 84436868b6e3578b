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

// Package digest folds the sample stream into a rolling SHA-1 value.
// Two runs of the emulation that produce identical streams produce
// identical digests, which is the basis of regression comparison without
// storing the streams themselves.
package digest

import (
	"crypto/sha1"
	"fmt"

	"github.com/chipshop/chipshop/curated"
)

// the buffer length is not critical but it must hold at least one previous
// digest in front of the accumulating sample bytes.
const audioBufferLength = 2048 + sha1.Size

// the previous digest value sits at the front of the buffer so that every
// flush folds the stream's history into the new value.
const audioBufferStart = sha1.Size

// Audio is a playback.Mixer that reduces the stream to a digest.
type Audio struct {
	digest   [sha1.Size]byte
	buffer   []uint8
	bufferCt int
}

// NewAudio is the preferred method of initialisation for the Audio type.
func NewAudio() *Audio {
	dig := &Audio{
		buffer: make([]uint8, audioBufferLength),
	}
	dig.bufferCt = audioBufferStart
	return dig
}

func (dig *Audio) String() string {
	return fmt.Sprintf("%x", dig.digest)
}

// ResetDigest resets the current digest value to 0.
func (dig *Audio) ResetDigest() {
	for i := range dig.digest {
		dig.digest[i] = 0
	}
	for i := range dig.buffer {
		dig.buffer[i] = 0
	}
	dig.bufferCt = audioBufferStart
}

// SetAudio implements the playback.Mixer interface.
func (dig *Audio) SetAudio(sample int16) error {
	dig.buffer[dig.bufferCt] = uint8(sample)
	dig.buffer[dig.bufferCt+1] = uint8(uint16(sample) >> 8)
	dig.bufferCt += 2

	if dig.bufferCt >= audioBufferLength {
		return dig.flush()
	}

	return nil
}

func (dig *Audio) flush() error {
	dig.digest = sha1.Sum(dig.buffer[:dig.bufferCt])
	n := copy(dig.buffer, dig.digest[:])
	if n != len(dig.digest) {
		return curated.Errorf("digest: audio: %v", "digest error during flush")
	}
	dig.bufferCt = audioBufferStart
	return nil
}

// EndMixing implements the playback.Mixer interface. Any buffered samples
// are folded into the final digest value.
func (dig *Audio) EndMixing() error {
	if dig.bufferCt > audioBufferStart {
		return dig.flush()
	}
	return nil
}
