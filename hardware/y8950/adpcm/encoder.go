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

package adpcm

// Encode converts 16-bit PCM samples into ADPCM-B nibbles, two to a byte,
// high nibble first. The encoder tracks the decoder's state exactly so the
// output is the closest nibble sequence the decoder can reproduce.
//
// Odd length input is padded with a trailing silent nibble.
func Encode(samples []int16) []uint8 {
	encoded := make([]uint8, (len(samples)+1)/2)

	var accumulator int32
	var step int32 = stepMin

	for i, sample := range samples {
		// choose the nibble whose decoded delta comes closest to the
		// distance between the predictor and the target sample
		diff := int32(sample) - accumulator

		var nibble uint8
		if diff < 0 {
			nibble = 0x08
			diff = -diff
		}

		// invert the decoder's delta = (2*magnitude + 1) * step / 8
		magnitude := (diff*8/step - 1) / 2
		if magnitude > 7 {
			magnitude = 7
		} else if magnitude < 0 {
			magnitude = 0
		}
		nibble |= uint8(magnitude)

		// run the decoder update so the predictor stays in lock step
		delta := (2*int32(magnitude) + 1) * step / 8
		if nibble&0x08 != 0 {
			delta = -delta
		}
		accumulator += delta
		if accumulator > 32767 {
			accumulator = 32767
		} else if accumulator < -32768 {
			accumulator = -32768
		}

		step = step * stepScale[magnitude] / 64
		if step < stepMin {
			step = stepMin
		} else if step > stepMax {
			step = stepMax
		}

		if i&1 == 0 {
			encoded[i>>1] = nibble << 4
		} else {
			encoded[i>>1] |= nibble
		}
	}

	return encoded
}
