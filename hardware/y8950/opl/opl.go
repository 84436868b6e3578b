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

// Package opl implements the FM half of the Y8950: nine channels of two
// operator FM synthesis with the classic log-sin/exponent table method, an
// ADSR envelope per operator, tremolo, vibrato and the two interval timers.
//
// The engine deals only in its own register space; the parent package
// routes port traffic to it. One Clock() call advances every operator by
// one sample.
//
// The rhythm section (register 0xbd bit 5) and the composite sine speech
// mode are not modelled. Key scale level uses a generated approximation of
// the silicon's curve rather than a table transcription.
package opl

import (
	"fmt"
	"strings"

	"github.com/chipshop/chipshop/environment"
	"github.com/chipshop/chipshop/logger"
)

// NumChannels is the number of FM voices.
const NumChannels = 9

// status flag bits, in the same encoding the parent chip uses.
const (
	StatusTimer2 = 0x20
	StatusTimer1 = 0x40
	StatusIRQ    = 0x80
)

// timer control register bits.
const (
	ctrlStartTimer1 = 0x01
	ctrlStartTimer2 = 0x02
	ctrlMaskTimer2  = 0x20
	ctrlMaskTimer1  = 0x40
	ctrlIRQReset    = 0x80
)

// timer is one of the two interval timers. The counter runs upwards and
// overflows at 256, so a larger period means a shorter interval.
type timer struct {
	period  uint8
	counter uint16
	running bool
	masked  bool
}

// tick advances the timer by one of its own cycles and reports overflow.
func (t *timer) tick() bool {
	if !t.running {
		return false
	}
	t.counter++
	if t.counter >= 256-uint16(t.period) {
		t.counter = 0
		return true
	}
	return false
}

// Engine is the FM synthesis engine and its two timers.
type Engine struct {
	env *environment.Environment

	ch [NumChannels]channel

	timer1 timer
	timer2 timer

	// the timers run at 1/4 and 1/16 of the sample clock
	timer1Div uint8
	timer2Div uint8

	// status flags in the chip encoding. the parent chip reconciles these
	// with the ADPCM engine's flags through SetResetStatus
	flags   uint8
	irqMask uint8

	// global counters for the envelope generator and the low frequency
	// oscillator behind tremolo and vibrato
	egCounter  uint32
	lfoCounter uint32

	deepTremolo bool
	deepVibrato bool

	rhythmWarned bool

	output int32
}

// NewEngine is the preferred method of initialisation for the Engine type.
func NewEngine(env *environment.Environment) *Engine {
	eng := &Engine{
		env: env,
	}
	eng.Reset()
	return eng
}

// Reset the engine to its power-on state. All voices fall silent and the
// timers stop.
func (eng *Engine) Reset() {
	for i := range eng.ch {
		eng.ch[i] = channel{}
		eng.ch[i].mod.egState = egRelease
		eng.ch[i].mod.egLevel = egSilent
		eng.ch[i].car.egState = egRelease
		eng.ch[i].car.egLevel = egSilent
	}
	eng.timer1 = timer{}
	eng.timer2 = timer{}
	eng.timer1Div = 0
	eng.timer2Div = 0
	eng.flags = 0
	eng.egCounter = 0
	eng.lfoCounter = 0
	eng.deepTremolo = false
	eng.deepVibrato = false
	eng.output = 0
}

// Plumb a new environment into the Engine.
func (eng *Engine) Plumb(env *environment.Environment) {
	eng.env = env
}

func (eng *Engine) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("flags: %#02x", eng.flags))
	for i := range eng.ch {
		if eng.ch[i].keyOn {
			s.WriteString(fmt.Sprintf("  ch%d", i))
		}
	}
	return s.String()
}

// SetIRQMask tells the engine which status flags may raise the IRQ bit.
func (eng *Engine) SetIRQMask(mask uint8) {
	eng.irqMask = mask
}

// SetResetStatus sets and resets status flags directly. The parent chip
// uses this to keep the engine's flags consistent with the combined status
// of the whole device.
func (eng *Engine) SetResetStatus(set uint8, reset uint8) {
	eng.flags = (eng.flags | set) &^ reset
}

// Status returns the engine's status byte. The IRQ bit is derived from the
// unmasked flags on every call.
func (eng *Engine) Status() uint8 {
	s := eng.flags & 0x7f
	if eng.flags&eng.irqMask != 0 {
		s |= StatusIRQ
	}
	return s
}

// Write a value to one of the engine's registers.
func (eng *Engine) Write(reg uint8, data uint8) {
	switch {
	case reg == 0x01:
		// test register. nothing useful to model

	case reg == 0x02:
		eng.timer1.period = data

	case reg == 0x03:
		eng.timer2.period = data

	case reg == 0x04:
		eng.writeTimerControl(data)

	case reg == 0x08:
		// composite sine mode and note select. stored nowhere: neither
		// affects the modelled voice path
		if data&0x80 != 0 {
			logger.Logf(eng.env, "opl", "composite sine mode is not supported")
		}

	case reg >= 0x20 && reg <= 0x35:
		if op := eng.slotOperator(reg - 0x20); op != nil {
			op.am = data&0x80 != 0
			op.vib = data&0x40 != 0
			op.egt = data&0x20 != 0
			op.ksr = data&0x10 != 0
			op.mult = data & 0x0f
		}

	case reg >= 0x40 && reg <= 0x55:
		if op := eng.slotOperator(reg - 0x40); op != nil {
			op.ksl = data >> 6
			op.tl = data & 0x3f
		}

	case reg >= 0x60 && reg <= 0x75:
		if op := eng.slotOperator(reg - 0x60); op != nil {
			op.ar = data >> 4
			op.dr = data & 0x0f
		}

	case reg >= 0x80 && reg <= 0x95:
		if op := eng.slotOperator(reg - 0x80); op != nil {
			op.sl = data >> 4
			op.rr = data & 0x0f
		}

	case reg >= 0xa0 && reg <= 0xa8:
		ch := &eng.ch[reg-0xa0]
		ch.fnum = ch.fnum&0x300 | uint16(data)

	case reg >= 0xb0 && reg <= 0xb8:
		eng.writeKeyOnBlock(&eng.ch[reg-0xb0], data)

	case reg == 0xbd:
		eng.deepTremolo = data&0x80 != 0
		eng.deepVibrato = data&0x40 != 0
		if data&0x20 != 0 && !eng.rhythmWarned {
			eng.rhythmWarned = true
			logger.Logf(eng.env, "opl", "rhythm mode is not supported")
		}

	case reg >= 0xc0 && reg <= 0xc8:
		ch := &eng.ch[reg-0xc0]
		ch.additive = data&0x01 != 0
		ch.feedback = (data >> 1) & 0x07
	}
}

func (eng *Engine) writeTimerControl(data uint8) {
	if data&ctrlIRQReset != 0 {
		// the reset bit clears the timer flags and nothing else. the other
		// bits of the write are ignored
		eng.flags &^= StatusTimer1 | StatusTimer2
		return
	}

	eng.timer1.masked = data&ctrlMaskTimer1 != 0
	eng.timer2.masked = data&ctrlMaskTimer2 != 0
	if eng.timer1.masked {
		eng.flags &^= StatusTimer1
	}
	if eng.timer2.masked {
		eng.flags &^= StatusTimer2
	}

	start1 := data&ctrlStartTimer1 != 0
	if start1 != eng.timer1.running {
		eng.timer1.running = start1
		eng.timer1.counter = 0
	}
	start2 := data&ctrlStartTimer2 != 0
	if start2 != eng.timer2.running {
		eng.timer2.running = start2
		eng.timer2.counter = 0
	}
}

func (eng *Engine) writeKeyOnBlock(ch *channel, data uint8) {
	ch.fnum = ch.fnum&0x0ff | uint16(data&0x03)<<8
	ch.block = (data >> 2) & 0x07

	keyOn := data&0x20 != 0
	if keyOn == ch.keyOn {
		return
	}
	ch.keyOn = keyOn

	if keyOn {
		ks := ch.keyScale()
		ch.mod.triggerKeyOn(eng.effectiveRate(ch.mod.ar, ch.mod.rateOffset(ks)) >= 60)
		ch.car.triggerKeyOn(eng.effectiveRate(ch.car.ar, ch.car.rateOffset(ks)) >= 60)
	} else {
		ch.mod.triggerKeyOff()
		ch.car.triggerKeyOff()
	}
}

// slotOperator resolves an operator register offset (0x00 to 0x15) to the
// operator it addresses. Offsets 6, 7, 14 and 15 within each group of eight
// are unused on the real chip and resolve to nil.
func (eng *Engine) slotOperator(offset uint8) *operator {
	group := offset >> 3
	within := offset & 0x07
	if group > 2 {
		return nil
	}
	switch {
	case within < 3:
		return &eng.ch[int(group)*3+int(within)].mod
	case within < 6:
		return &eng.ch[int(group)*3+int(within)-3].car
	}
	return nil
}

// effectiveRate combines a 4 bit rate register with the key scale offset.
func (eng *Engine) effectiveRate(rate uint8, offset uint8) int32 {
	if rate == 0 {
		return 0
	}
	er := int32(rate)<<2 + int32(offset)
	if er > 63 {
		er = 63
	}
	return er
}

// egIncrement returns how many envelope steps to take this sample for the
// given effective rate: zero most samples for slow rates, several per
// sample for the fastest.
func (eng *Engine) egIncrement(er int32) int32 {
	if er == 0 {
		return 0
	}
	shift := 13 - er>>2
	if shift > 0 {
		if eng.egCounter&(1<<uint(shift)-1) != 0 {
			return 0
		}
		return 1
	}
	return 1 << uint(-shift)
}

// stepEnvelope advances one operator's ADSR state by one sample.
func (eng *Engine) stepEnvelope(op *operator, keyScale uint8) {
	rof := op.rateOffset(keyScale)

	switch op.egState {
	case egAttack:
		inc := eng.egIncrement(eng.effectiveRate(op.ar, rof))
		for ; inc > 0; inc-- {
			op.egLevel -= op.egLevel>>2 + 1
		}
		if op.egLevel <= 0 {
			op.egLevel = 0
			op.egState = egDecay
		}

	case egDecay:
		op.egLevel += eng.egIncrement(eng.effectiveRate(op.dr, rof))
		if op.egLevel >= op.sustainLevel() {
			op.egLevel = op.sustainLevel()
			op.egState = egSustain
		}

	case egSustain:
		// a sustaining voice holds here until key-off. a percussive voice
		// keeps falling at the release rate
		if !op.egt {
			op.egLevel += eng.egIncrement(eng.effectiveRate(op.rr, rof))
			if op.egLevel > egSilent {
				op.egLevel = egSilent
			}
		}

	case egRelease:
		op.egLevel += eng.egIncrement(eng.effectiveRate(op.rr, rof))
		if op.egLevel > egSilent {
			op.egLevel = egSilent
		}
	}
}

// tremolo returns the current tremolo attenuation in envelope steps: a slow
// triangle wave, shallow unless the deep bit is set.
func (eng *Engine) tremolo() int32 {
	pos := int32(eng.lfoCounter>>6) & 0x3f
	if pos >= 32 {
		pos = 63 - pos
	}
	att := pos * 27 >> 5
	if !eng.deepTremolo {
		att >>= 2
	}
	return att
}

// vibrato depth pattern over the eight steps of the LFO cycle.
var vibTable = [8]int32{0, 1, 2, 1, 0, -1, -2, -1}

// vibrato returns the current f-number adjustment for a vibrato enabled
// operator.
func (eng *Engine) vibrato(fnum uint16) int32 {
	step := int32(eng.lfoCounter>>10) & 0x07
	delta := int32(fnum>>7) * vibTable[step]
	if !eng.deepVibrato {
		delta >>= 1
	}
	return delta
}

// Clock advances the whole engine by one sample: timers, envelope and LFO
// counters, then every operator of every channel.
func (eng *Engine) Clock() {
	eng.clockTimers()

	eng.egCounter++
	eng.lfoCounter++

	var sum int32
	for i := range eng.ch {
		sum += eng.clockChannel(&eng.ch[i])
	}
	eng.output = sum
}

func (eng *Engine) clockTimers() {
	eng.timer1Div++
	if eng.timer1Div >= 4 {
		eng.timer1Div = 0
		if eng.timer1.tick() && !eng.timer1.masked {
			eng.flags |= StatusTimer1
		}
	}

	eng.timer2Div++
	if eng.timer2Div >= 16 {
		eng.timer2Div = 0
		if eng.timer2.tick() && !eng.timer2.masked {
			eng.flags |= StatusTimer2
		}
	}
}

func (eng *Engine) clockChannel(ch *channel) int32 {
	// the modulator feeds back on itself through the average of its last
	// two outputs
	var feedback int32
	if ch.feedback != 0 {
		feedback = (ch.mod.prevOut[0] + ch.mod.prevOut[1]) >> uint(10-ch.feedback)
	}

	modOut := eng.clockOperator(&ch.mod, ch, feedback)
	ch.mod.prevOut[1] = ch.mod.prevOut[0]
	ch.mod.prevOut[0] = modOut

	if ch.additive {
		return modOut + eng.clockOperator(&ch.car, ch, 0)
	}
	return eng.clockOperator(&ch.car, ch, modOut)
}

// clockOperator advances one operator's phase and envelope and returns its
// output sample. phaseMod is added to the sine index: the feedback value
// for a modulator, the modulator's output for a chained carrier.
func (eng *Engine) clockOperator(op *operator, ch *channel, phaseMod int32) int32 {
	fnum := int32(ch.fnum)
	if op.vib {
		fnum += eng.vibrato(ch.fnum)
		if fnum < 0 {
			fnum = 0
		}
	}
	op.phase = (op.phase + phaseIncrement(uint32(fnum), ch.block, op.mult)) & 0xfffff

	eng.stepEnvelope(op, ch.keyScale())

	att := op.egLevel + int32(op.tl)<<2 + kslAttenuation(op.ksl, ch.fnum, ch.block)
	if op.am {
		att += eng.tremolo()
	}

	index := (int32(op.phase>>10) + phaseMod) & 0x3ff
	return sinOutput(index, att<<3)
}

// Output returns the sum of all channel outputs for the current clock.
func (eng *Engine) Output() int32 {
	return eng.output
}
