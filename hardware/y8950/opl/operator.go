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

// envelope generator states.
const (
	egAttack = iota
	egDecay
	egSustain
	egRelease
)

// envelope attenuation runs from 0 (loudest) to egSilent.
const egSilent = 511

// operator is one half of a channel's voice: either the modulator or the
// carrier, depending on the connection bit.
type operator struct {
	// flag register fields
	am   bool // tremolo enable
	vib  bool // vibrato enable
	egt  bool // sustaining voice (hold at the sustain level while keyed)
	ksr  bool // full key scale rate
	mult uint8

	ksl uint8
	tl  uint8

	ar uint8
	dr uint8
	sl uint8
	rr uint8

	// phase accumulator, 20 bits. the top 10 bits index the sine table
	phase uint32

	// envelope state
	egState int
	egLevel int32
	keyOn   bool

	// previous two outputs, for modulator feedback
	prevOut [2]int32
}

// channel is one of the nine FM voices: a modulator/carrier operator pair
// plus the shared frequency and connection settings.
type channel struct {
	mod operator
	car operator

	fnum  uint16 // 10 bits
	block uint8
	keyOn bool

	feedback uint8
	additive bool // connection bit: true sums the operators, false chains them
}

// keyScale returns the rate scaling offset for the channel's frequency,
// before the operator's KSR bit is applied.
func (ch *channel) keyScale() uint8 {
	return ch.block<<1 | uint8(ch.fnum>>9)&0x01
}

// sustainLevel converts the 4 bit SL field to envelope steps. The maximum
// setting means "all the way down".
func (op *operator) sustainLevel() int32 {
	if op.sl == 15 {
		return egSilent
	}
	return int32(op.sl) << 4
}

func (op *operator) triggerKeyOn(instantAttack bool) {
	if op.keyOn {
		return
	}
	op.keyOn = true
	op.phase = 0
	if instantAttack {
		op.egLevel = 0
		op.egState = egDecay
		return
	}
	op.egState = egAttack
}

func (op *operator) triggerKeyOff() {
	if !op.keyOn {
		return
	}
	op.keyOn = false
	op.egState = egRelease
}

// rateOffset applies the operator's KSR bit to the channel's key scale
// value.
func (op *operator) rateOffset(keyScale uint8) uint8 {
	if op.ksr {
		return keyScale
	}
	return keyScale >> 2
}
