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

package soundload_test

import (
	"testing"

	"github.com/chipshop/chipshop/soundload"
	"github.com/chipshop/chipshop/test"
)

func TestDeltaN(t *testing.T) {
	snd := soundload.Sound{SampleRate: 11025}
	test.Equate(t, snd.DeltaN(44100), uint16(16384))

	snd.SampleRate = 22050
	test.Equate(t, snd.DeltaN(44100), uint16(32768))

	// sources at or above the chip rate clamp to the register maximum
	snd.SampleRate = 44100
	test.Equate(t, snd.DeltaN(44100), uint16(0xffff))

	snd.SampleRate = 88200
	test.Equate(t, snd.DeltaN(44100), uint16(0xffff))
}

func TestStopUnits(t *testing.T) {
	snd := soundload.Sound{NumBytes: 1}
	test.Equate(t, snd.StopUnits(), uint16(0))

	snd.NumBytes = 32
	test.Equate(t, snd.StopUnits(), uint16(0))

	snd.NumBytes = 33
	test.Equate(t, snd.StopUnits(), uint16(1))

	snd.NumBytes = 1024
	test.Equate(t, snd.StopUnits(), uint16(31))
}
