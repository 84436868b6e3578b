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

package y8950

import "math/bits"

// RoundTripFP returns the result of converting value to the floating point
// representation used between the chip and its DAC, and back again. The
// format is a 10 bit mantissa with a 3 bit exponent so the round trip zeroes
// the low bits of larger values. This is an artefact of the real hardware,
// not a rounding convenience.
//
// Values beyond the signed 16 bit range are clamped.
func RoundTripFP(value int32) int16 {
	// handle overflows first
	if value < -32768 {
		return -32768
	}
	if value > 32767 {
		return 32767
	}

	// we need to count the number of leading sign bits after the sign. for
	// negative values this is done by inverting before the count
	scan := uint32(value ^ (value >> 31))

	// the exponent is related to the number of leading zero bits starting
	// from bit 14
	exponent := 7 - bits.LeadingZeros32(scan<<17)

	// the smallest exponent value allowed is 1
	if exponent < 1 {
		exponent = 1
	}

	// apply the shift back and forth to zero out the bits that are lost
	exponent -= 1
	return int16((value >> exponent) << exponent)
}
