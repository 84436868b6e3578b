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

// Package adpcm implements the ADPCM-B playback engine that sits behind the
// Y8950's register ports. The engine deals only in its own register numbers;
// the parent package translates port addresses before calling in.
//
// Samples are stored as 4-bit nibbles, two to a byte, high nibble first. The
// decoder reconstructs 16-bit PCM by applying signed deltas scaled by an
// adaptive step size. Output is the last decoded value scaled by the level
// register - the engine does not interpolate between samples.
//
// The analogue conversion registers of the real chip (chip addresses 0x13
// and 0x14) are not modelled. Recording from an analogue source is likewise
// not modelled; the record path exists only as CPU upload to sample memory.
package adpcm

import (
	"fmt"
	"strings"

	"github.com/chipshop/chipshop/environment"
	"github.com/chipshop/chipshop/logger"
)

// Status bits returned by Status().
const (
	StatusEOS     = 0x01
	StatusBRDY    = 0x02
	StatusPlaying = 0x04
)

// NumRegisters is the size of the engine's register file.
const NumRegisters = 0x11

// register file layout.
const (
	regControl1  = 0x00
	regControl2  = 0x01
	regStartL    = 0x02
	regStartH    = 0x03
	regStopL     = 0x04
	regStopH     = 0x05
	regPrescaleL = 0x06
	regPrescaleH = 0x07
	regData      = 0x08
	regDeltaNL   = 0x09
	regDeltaNH   = 0x0a
	regLevel     = 0x0b
	regLimitL    = 0x0e
	regLimitH    = 0x0f
)

// RegStatus is the out-of-file register number the parent chip uses to read
// the status image through the data port.
const RegStatus = 0x13

// RegData is the register number for CPU access to sample memory. Exported
// for the benefit of code that uploads samples through the register
// interface rather than writing to the Memory directly.
const RegData = regData

// control 1 register bits.
const (
	CtrlStart    = 0x80
	CtrlRecord   = 0x40
	CtrlExternal = 0x20
	CtrlRepeat   = 0x10
	CtrlReset    = 0x01
)

// the adaptive step scale. indexed by the magnitude bits of the nibble,
// applied as a 6.6 fixed point multiplier.
var stepScale = [8]int32{57, 57, 57, 57, 77, 102, 128, 153}

// bounds on the adaptive step.
const (
	stepMin = 127
	stepMax = 24576
)

// start, stop and limit registers address sample memory in 32 byte units.
const addressShift = 5

// Engine is the ADPCM-B decoder and its register file.
type Engine struct {
	env *environment.Environment
	mem Memory

	regs [NumRegisters]uint8

	status uint8

	// decoder state
	curAddress  uint32
	curByte     uint8
	highNibble  bool
	position    uint32
	accumulator int32
	step        int32
	playing     bool
}

// NewEngine is the preferred method of initialisation for the Engine type.
// A nil Memory is allowed; playback then decodes silence.
func NewEngine(env *environment.Environment, mem Memory) *Engine {
	eng := &Engine{
		env: env,
		mem: mem,
	}
	eng.Reset()
	return eng
}

// Reset the engine to its power-on state.
func (eng *Engine) Reset() {
	for i := range eng.regs {
		eng.regs[i] = 0
	}
	eng.resetDecoder()
	eng.playing = false
	eng.status = StatusBRDY
}

// Plumb a new environment into the Engine.
func (eng *Engine) Plumb(env *environment.Environment) {
	eng.env = env
}

func (eng *Engine) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("addr: %#06x", eng.curAddress))
	s.WriteString(fmt.Sprintf("  acc: %d", eng.accumulator))
	s.WriteString(fmt.Sprintf("  step: %d", eng.step))
	if eng.playing {
		s.WriteString("  [playing]")
	}
	return s.String()
}

// register accessors. start, stop and limit are stored in sample memory
// units and converted to byte addresses on use.

func (eng *Engine) startAddress() uint32 {
	return (uint32(eng.regs[regStartH])<<8 | uint32(eng.regs[regStartL])) << addressShift
}

// stopAddress is the address of the last byte of the sample, inclusive.
func (eng *Engine) stopAddress() uint32 {
	return ((uint32(eng.regs[regStopH])<<8|uint32(eng.regs[regStopL]))+1)<<addressShift - 1
}

// limitAddress is the last usable byte of sample memory, inclusive. the
// current address wraps to zero beyond it.
func (eng *Engine) limitAddress() uint32 {
	return ((uint32(eng.regs[regLimitH])<<8|uint32(eng.regs[regLimitL]))+1)<<addressShift - 1
}

func (eng *Engine) deltaN() uint32 {
	return uint32(eng.regs[regDeltaNH])<<8 | uint32(eng.regs[regDeltaNL])
}

func (eng *Engine) level() int32 {
	return int32(eng.regs[regLevel])
}

// Status returns the engine's status byte.
func (eng *Engine) Status() uint8 {
	return eng.status
}

// Write a value to one of the engine's registers.
func (eng *Engine) Write(reg uint8, data uint8) {
	if int(reg) >= NumRegisters {
		logger.Logf(eng.env, "adpcm", "write to unknown register %#02x", reg)
		return
	}

	eng.regs[reg] = data

	switch reg {
	case regControl1:
		eng.writeControl1(data)

	case regData:
		eng.writeData(data)
	}
}

func (eng *Engine) writeControl1(data uint8) {
	if data&CtrlReset != 0 {
		eng.resetDecoder()
		eng.playing = false
		eng.status = StatusBRDY
		return
	}

	if data&CtrlStart != 0 && data&CtrlExternal != 0 && data&CtrlRecord == 0 {
		// begin playback from sample memory
		eng.resetDecoder()
		eng.curAddress = eng.startAddress()
		eng.playing = true
		eng.status = (eng.status &^ StatusEOS) | StatusPlaying | StatusBRDY
		return
	}

	// any other combination stops playback. with the external bit set the
	// current address is positioned for CPU access to sample memory, both
	// for upload (record bit set) and readback
	eng.playing = false
	eng.status &^= StatusPlaying
	if data&CtrlExternal != 0 {
		eng.curAddress = eng.startAddress()
		eng.highNibble = false
		eng.status |= StatusBRDY
	}

	if data&CtrlStart != 0 && data&CtrlExternal == 0 {
		logger.Logf(eng.env, "adpcm", "playback through the CPU data port is not supported")
	}
}

// writeData handles a CPU upload byte. only meaningful when the control
// register has selected external memory access with the record bit.
func (eng *Engine) writeData(data uint8) {
	ctrl := eng.regs[regControl1]
	if ctrl&CtrlRecord == 0 || ctrl&CtrlExternal == 0 {
		logger.Logf(eng.env, "adpcm", "data write outside of record mode")
		return
	}

	if eng.mem != nil {
		eng.mem.Write(eng.curAddress, data)
	}
	eng.advanceCPUAddress()

	// memory access is instantaneous in this emulation so the buffer is
	// always ready for the next byte
	eng.status |= StatusBRDY
}

// Read one of the engine's readable registers. The parent chip presents two
// of them through the data port: the CPU data register and the status image
// (RegStatus).
func (eng *Engine) Read(reg uint8) uint8 {
	switch reg {
	case regStartL:
		// readback of sample memory arrives on the register that shares a
		// port address with the data path
		return eng.readData()

	case RegStatus:
		return eng.status
	}

	logger.Logf(eng.env, "adpcm", "read from unreadable register %#02x", reg)
	return 0
}

func (eng *Engine) readData() uint8 {
	ctrl := eng.regs[regControl1]
	if ctrl&CtrlExternal == 0 || ctrl&CtrlRecord != 0 || eng.playing {
		logger.Logf(eng.env, "adpcm", "data read outside of readback mode")
		return 0
	}

	var data uint8
	if eng.mem != nil {
		data = eng.mem.Read(eng.curAddress)
	}
	eng.advanceCPUAddress()
	return data
}

// advanceCPUAddress steps the current address during CPU upload or readback,
// honouring the stop and limit registers.
func (eng *Engine) advanceCPUAddress() {
	if eng.curAddress == eng.stopAddress() {
		eng.status |= StatusEOS
	}
	eng.curAddress++
	if eng.curAddress > eng.limitAddress() {
		eng.curAddress = 0
	}
}

// Clock the engine forward by one cycle. Delta-N controls how far the
// nibble position advances per cycle; a new nibble is decoded each time the
// position counter overflows.
func (eng *Engine) Clock() {
	if !eng.playing {
		return
	}

	eng.position += eng.deltaN()
	if eng.position < 0x10000 {
		return
	}
	eng.position &= 0xffff

	var nibble uint8
	if !eng.highNibble {
		if eng.mem != nil {
			eng.curByte = eng.mem.Read(eng.curAddress)
		} else {
			eng.curByte = 0
		}
		nibble = eng.curByte >> 4
		eng.highNibble = true
	} else {
		nibble = eng.curByte & 0x0f
		eng.highNibble = false
	}

	// decode before advancing. the end of the sample must not disturb the
	// decode of the sample's own final nibble
	eng.decode(nibble)

	if !eng.highNibble {
		eng.advancePlaybackAddress()
	}
}

// advancePlaybackAddress steps to the next sample byte, handling the end of
// the sample and the limit wrap.
func (eng *Engine) advancePlaybackAddress() {
	if eng.curAddress == eng.stopAddress() {
		if eng.regs[regControl1]&CtrlRepeat != 0 {
			// loop without raising the end flag. the decoder restarts from
			// scratch so the sample reproduces identically
			eng.resetDecoder()
			eng.curAddress = eng.startAddress()
			return
		}

		eng.playing = false
		eng.status = (eng.status &^ StatusPlaying) | StatusEOS
		return
	}

	eng.curAddress++
	if eng.curAddress > eng.limitAddress() {
		eng.curAddress = 0
	}
}

// decode applies one nibble to the accumulator and adapts the step size.
func (eng *Engine) decode(nibble uint8) {
	delta := (2*int32(nibble&0x07) + 1) * eng.step / 8
	if nibble&0x08 != 0 {
		delta = -delta
	}

	acc := eng.accumulator + delta
	if acc > 32767 {
		acc = 32767
	} else if acc < -32768 {
		acc = -32768
	}
	eng.accumulator = acc

	step := eng.step * stepScale[nibble&0x07] / 64
	if step < stepMin {
		step = stepMin
	} else if step > stepMax {
		step = stepMax
	}
	eng.step = step
}

// Output returns the current output sample. The DAC holds the last decoded
// value after playback ends, scaled by the level register (0xff is near
// unity, 0x00 is mute).
func (eng *Engine) Output() int32 {
	return eng.accumulator * eng.level() >> 8
}

func (eng *Engine) resetDecoder() {
	eng.curAddress = 0
	eng.curByte = 0
	eng.highNibble = false
	eng.position = 0
	eng.accumulator = 0
	eng.step = stepMin
}
