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

package y8950_test

import (
	"testing"

	"github.com/chipshop/chipshop/hardware/y8950"
	"github.com/chipshop/chipshop/test"
)

func TestRoundTripFPSmallValues(t *testing.T) {
	// values representable with the minimum exponent pass through unchanged
	for _, v := range []int32{0, 1, -1, 255, -255, 511, -512} {
		test.Equate(t, y8950.RoundTripFP(v), int16(v))
	}
}

func TestRoundTripFPQuantisation(t *testing.T) {
	// larger values lose their low bits
	test.Equate(t, y8950.RoundTripFP(0x4001), 0x4000)
	test.Equate(t, y8950.RoundTripFP(0x403f), 0x4000)
	test.Equate(t, y8950.RoundTripFP(0x4040), 0x4040)
	test.Equate(t, y8950.RoundTripFP(-0x4001), -0x4040)

	// just below an exponent boundary the step size is smaller
	test.Equate(t, y8950.RoundTripFP(0x3fff), 0x3fe0)
}

func TestRoundTripFPIdempotent(t *testing.T) {
	// a value that has been through the round trip once is representable, so
	// going through again must not change it
	for _, v := range []int32{0, 100, -100, 0x4001, -0x4001, 0x7abc, -0x7abc, 32767, -32768} {
		once := y8950.RoundTripFP(v)
		test.Equate(t, y8950.RoundTripFP(int32(once)), once)
	}
}

func TestRoundTripFPClamping(t *testing.T) {
	test.Equate(t, y8950.RoundTripFP(32768), 32767)
	test.Equate(t, y8950.RoundTripFP(1000000), 32767)
	test.Equate(t, y8950.RoundTripFP(-32769), -32768)
	test.Equate(t, y8950.RoundTripFP(-1000000), -32768)

	// in-range boundary values are not clamped but do pass through the
	// quantiser like any other value
	test.Equate(t, y8950.RoundTripFP(32767), 32704)
	test.Equate(t, y8950.RoundTripFP(-32768), -32768)
}
