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

import (
	"math"
	"testing"

	"github.com/chipshop/chipshop/environment"
	"github.com/chipshop/chipshop/test"
)

// newTestEngine prepares an engine backed by RAM loaded with the given
// sample data. delta-N is set so that one nibble decodes every two clocks.
func newTestEngine(data []uint8) (*Engine, *RAM) {
	env := environment.NewEnvironment("test")
	ram := NewRAM(0x10000)
	for i, b := range data {
		ram.Write(uint32(i), b)
	}

	eng := NewEngine(env, ram)

	// start at zero, stop after one 32 byte unit, limit at the top of RAM
	eng.Write(regStartL, 0x00)
	eng.Write(regStartH, 0x00)
	eng.Write(regStopL, 0x00)
	eng.Write(regStopH, 0x00)
	eng.Write(regLimitL, 0xff)
	eng.Write(regLimitH, 0x07)
	eng.Write(regDeltaNL, 0x00)
	eng.Write(regDeltaNH, 0x80)
	eng.Write(regLevel, 0xff)

	return eng, ram
}

func startPlayback(eng *Engine) {
	eng.Write(regControl1, CtrlStart|CtrlExternal)
}

// clockNibble advances the engine far enough to decode exactly one nibble.
func clockNibble(eng *Engine) {
	eng.Clock()
	eng.Clock()
}

func TestDecodeKnownSequence(t *testing.T) {
	eng, _ := newTestEngine([]uint8{0x08, 0x77})
	startPlayback(eng)

	// nibble 0: smallest positive delta from the minimum step
	clockNibble(eng)
	test.Equate(t, eng.accumulator, int32(15))
	test.Equate(t, eng.step, int32(stepMin))

	// nibble 8: the mirror image, back to zero
	clockNibble(eng)
	test.Equate(t, eng.accumulator, int32(0))

	// nibble 7: largest delta, step scales up by 153/64
	clockNibble(eng)
	test.Equate(t, eng.accumulator, int32(238))
	test.Equate(t, eng.step, int32(303))

	clockNibble(eng)
	test.Equate(t, eng.accumulator, int32(238+568))
	test.Equate(t, eng.step, int32(724))
}

func TestDeltaNRate(t *testing.T) {
	eng, _ := newTestEngine([]uint8{0x70})

	// a quarter rate delta-N needs four clocks per nibble
	eng.Write(regDeltaNL, 0x00)
	eng.Write(regDeltaNH, 0x40)
	startPlayback(eng)

	eng.Clock()
	eng.Clock()
	eng.Clock()
	test.Equate(t, eng.accumulator, int32(0))
	eng.Clock()
	test.Equate(t, eng.accumulator, int32(238))
}

func TestOutputLevel(t *testing.T) {
	eng, _ := newTestEngine([]uint8{0x77})
	startPlayback(eng)
	clockNibble(eng)
	test.Equate(t, eng.accumulator, int32(238))

	// near unity
	test.Equate(t, eng.Output(), int32(238*0xff>>8))

	// half volume
	eng.Write(regLevel, 0x80)
	test.Equate(t, eng.Output(), int32(119))

	// mute
	eng.Write(regLevel, 0x00)
	test.Equate(t, eng.Output(), int32(0))
}

func TestStatusLifecycle(t *testing.T) {
	eng, _ := newTestEngine([]uint8{0x11, 0x99})

	test.Equate(t, eng.Status(), StatusBRDY)

	startPlayback(eng)
	test.Equate(t, eng.Status()&StatusPlaying, StatusPlaying)
	test.Equate(t, eng.Status()&StatusEOS, 0)

	// the sample is one 32 byte unit long: 64 nibbles
	for i := 0; i < 64; i++ {
		clockNibble(eng)
	}

	test.Equate(t, eng.Status()&StatusPlaying, 0)
	test.Equate(t, eng.Status()&StatusEOS, StatusEOS)

	// further clocks are inert and the DAC holds the last value
	held := eng.Output()
	clockNibble(eng)
	test.Equate(t, eng.Output(), held)

	// the reset bit clears everything
	eng.Write(regControl1, CtrlReset)
	test.Equate(t, eng.Status(), StatusBRDY)
	test.Equate(t, eng.Output(), int32(0))
}

func TestRepeat(t *testing.T) {
	eng, _ := newTestEngine([]uint8{0x77, 0x77})
	eng.Write(regControl1, CtrlStart|CtrlExternal|CtrlRepeat)

	// well past the 64 nibble sample length
	for i := 0; i < 200; i++ {
		clockNibble(eng)
	}

	// still playing, never flagged the end
	test.Equate(t, eng.Status()&StatusPlaying, StatusPlaying)
	test.Equate(t, eng.Status()&StatusEOS, 0)
}

func TestRepeatReproduces(t *testing.T) {
	eng, _ := newTestEngine([]uint8{0x12, 0x34, 0x56})
	eng.Write(regControl1, CtrlStart|CtrlExternal|CtrlRepeat)

	// record the first pass through the 64 nibble loop
	first := make([]int32, 64)
	for i := range first {
		clockNibble(eng)
		first[i] = eng.accumulator
	}

	// the second pass must decode identically
	for i := range first {
		clockNibble(eng)
		test.Equate(t, eng.accumulator, first[i])
	}
}

func TestCPUUploadAndReadback(t *testing.T) {
	eng, ram := newTestEngine(nil)

	// upload through the data register
	eng.Write(regControl1, CtrlExternal|CtrlRecord)
	payload := []uint8{0xde, 0xad, 0xbe, 0xef}
	for _, b := range payload {
		eng.Write(regData, b)
		test.Equate(t, eng.Status()&StatusBRDY, StatusBRDY)
	}

	// the bytes landed in sample memory from the start address
	for i, b := range payload {
		test.Equate(t, ram.Read(uint32(i)), b)
	}

	// read them back through the register interface
	eng.Write(regControl1, CtrlExternal)
	for _, b := range payload {
		test.Equate(t, eng.Read(regStartL), b)
	}

	// the status image is readable at the out-of-file register number
	test.Equate(t, eng.Read(RegStatus), eng.Status())
}

func TestUploadEndAndWrap(t *testing.T) {
	eng, ram := newTestEngine(nil)

	// stop at the end of the first 32 byte unit, limit likewise
	eng.Write(regLimitL, 0x00)
	eng.Write(regLimitH, 0x00)
	eng.Write(regControl1, CtrlExternal|CtrlRecord)

	for i := 0; i < 33; i++ {
		eng.Write(regData, uint8(i))
	}

	// passing the stop address raised the end flag
	test.Equate(t, eng.Status()&StatusEOS, StatusEOS)

	// the 33rd byte wrapped at the limit back to address zero
	test.Equate(t, ram.Read(0), 32)
	test.Equate(t, ram.Read(31), 31)
}

func TestDataPortOutsideMode(t *testing.T) {
	eng, ram := newTestEngine(nil)

	// without record mode the data write is discarded
	eng.Write(regData, 0xaa)
	test.Equate(t, ram.Read(0), 0)

	// without readback mode the data read returns zero
	ram.Write(0, 0xbb)
	test.Equate(t, eng.Read(regStartL), 0)
}

func TestEncoderRoundTrip(t *testing.T) {
	// a couple of cycles of a sine wave
	samples := make([]int16, 200)
	for i := range samples {
		samples[i] = int16(10000 * math.Sin(float64(i)*2*math.Pi/100))
	}

	encoded := Encode(samples)
	test.Equate(t, len(encoded), 100)

	eng, _ := newTestEngine(encoded)

	// four 32 byte units covers the 100 encoded bytes
	eng.Write(regStopL, 0x03)
	startPlayback(eng)

	// after the initial attack the decoder must track the waveform closely
	for i := range samples {
		clockNibble(eng)
		if i < 16 {
			continue
		}
		diff := int32(samples[i]) - eng.accumulator
		if diff < 0 {
			diff = -diff
		}
		if diff > 2500 {
			t.Fatalf("decoded sample %d diverges: wanted %d got %d", i, samples[i], eng.accumulator)
		}
	}
}
