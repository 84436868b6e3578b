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

package opl

import "math"

// The silicon computes sine and envelope scaling in the log domain: a
// quarter sine table holding -log2(sin) and an exponent table to convert
// the summed attenuation back to linear. Both tables are generated at
// startup rather than transcribed from a ROM dump.

// logSinTable: attenuation of the first quarter of the sine wave, in
// 1/256th of a power of two.
var logSinTable [256]int32

// linearTable: 2^(-i/256) scaled to a 13 bit magnitude.
var linearTable [256]int32

func init() {
	for i := 0; i < 256; i++ {
		logSinTable[i] = int32(math.Round(-math.Log2(math.Sin((float64(i)+0.5)*math.Pi/512)) * 256))
		linearTable[i] = int32(math.Round(math.Pow(2, -float64(i)/256) * 4096))
	}
}

// sinOutput converts a 10 bit phase index and a log domain attenuation to a
// linear sample. The table covers a quarter wave; the index folds and the
// top bit supplies the sign.
func sinOutput(index int32, attenuation int32) int32 {
	i := index & 0xff
	if index&0x100 != 0 {
		i = 0xff - i
	}

	level := logSinTable[i] + attenuation
	shift := level >> 8
	if shift > 31 {
		return 0
	}

	magnitude := linearTable[level&0xff] >> uint(shift)
	if index&0x200 != 0 {
		return -magnitude
	}
	return magnitude
}

// multX2 is the frequency multiplier table, scaled by two so that the half
// multiple is representable.
var multX2 = [16]uint32{1, 2, 4, 6, 8, 10, 12, 14, 16, 18, 20, 20, 24, 24, 30, 30}

// phaseIncrement returns the per-sample advance of the 20 bit phase
// accumulator for the given frequency settings.
func phaseIncrement(fnum uint32, block uint8, mult uint8) uint32 {
	base := (fnum << block) >> 1
	return (base * multX2[mult] >> 1) & 0xfffff
}

// kslRow approximates the key scale level curve across the top four bits of
// the f-number: 32 units per doubling.
var kslRow = [16]int32{0, 0, 32, 51, 64, 74, 83, 90, 96, 101, 106, 111, 115, 118, 122, 125}

// kslShift selects the depth of key scaling. The swap of the middle two
// entries reproduces a quirk of the original chip family.
var kslShift = [4]int32{31, 1, 2, 0}

// kslAttenuation returns the key scale level attenuation in envelope steps.
func kslAttenuation(ksl uint8, fnum uint16, block uint8) int32 {
	base := kslRow[fnum>>6] + 32*int32(block) - 224
	if base < 0 {
		return 0
	}
	return base >> uint(kslShift[ksl&0x03])
}
