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

import (
	"fmt"
	"strings"

	"github.com/chipshop/chipshop/environment"
	"github.com/chipshop/chipshop/logger"
)

// FM is the contract the chip requires of its FM synthesis engine. The
// engine owns its register file and all channel and operator state - the
// chip only routes bytes to it and reconciles status.
type FM interface {
	// Write a value to one of the engine's registers
	Write(reg uint8, data uint8)

	// Clock the engine forward by one operator group
	Clock()

	// Output returns the sum of all channel outputs for the current clock
	Output() int32

	// Status returns the engine's status byte
	Status() uint8

	// SetIRQMask tells the engine which status bits may raise the IRQ line
	SetIRQMask(mask uint8)

	// SetResetStatus sets and resets status bits so that the engine's view
	// of status agrees with the chip's combined view
	SetResetStatus(set uint8, reset uint8)

	// Reset the engine to its power-on state
	Reset()
}

// ADPCM is the contract the chip requires of its ADPCM-B playback engine.
// Register numbers are in the engine's own space - the chip translates from
// port addresses before calling.
type ADPCM interface {
	// Write a value to one of the engine's registers
	Write(reg uint8, data uint8)

	// Read one of the engine's readable registers
	Read(reg uint8) uint8

	// Clock the engine forward by one cycle
	Clock()

	// Output returns the engine's output for the current clock
	Output() int32

	// Status returns the engine's status byte, using the ADPCMStatus* bits
	Status() uint8

	// Reset the engine to its power-on state
	Reset()
}

// KeyboardBus is the pass-through connection to whatever keyboard hardware
// is wired to the chip's keyboard scan pins.
type KeyboardBus interface {
	KeyboardRead() uint8
	KeyboardWrite(data uint8)
}

// IOBus is the pass-through connection to the chip's general purpose I/O
// pins. Writes are masked by the I/O direction register before they arrive.
type IOBus interface {
	IORead() uint8
	IOWrite(data uint8)
}

// Streamer implementations buffer the chip's audio output. Update() must
// bring the buffered stream up to date with the current instant, by calling
// ProduceSample() for every sample owed, before returning. The chip calls
// Update() before any register write that could affect the sound.
type Streamer interface {
	Update()
	SetSampleRate(rate int)
}

// the sample rate divider: a fixed prescale of 4 multiplied by the 18
// operators the FM engine steps through per sample.
const (
	defaultPrescale = 4
	numOperators    = 18
)

// Chip is the Y8950. It multiplexes the FM engine, the ADPCM engine and the
// auxiliary latches behind the two register ports and combines both engines
// into one mono audio stream.
type Chip struct {
	env *environment.Environment

	fm    FM
	adpcm ADPCM

	// input clock in Hz. the sample rate is derived from this
	clock int

	// the address latch. selects the destination of the next data port
	// write and the source of the next data port read
	address uint8

	// direction bits for the general purpose I/O port. only writes to pins
	// configured as outputs are forwarded
	ioDDR uint8

	// the inverted image of the last IRQ control write. a set bit means the
	// corresponding status bit is visible
	irqMask uint8

	kbd    KeyboardBus
	io     IOBus
	stream Streamer
}

// NewChip is the preferred method of initialisation for the Chip type. The
// two engines must not be nil. The chip assumes exclusive ownership of them -
// nothing else should write to the engines once they are attached.
func NewChip(env *environment.Environment, fm FM, adpcm ADPCM, clock int) *Chip {
	ch := &Chip{
		env:   env,
		fm:    fm,
		adpcm: adpcm,
		clock: clock,
	}

	// all IRQs are enabled until the IRQ control register says otherwise
	ch.irqMask = AllIRQs
	ch.fm.SetIRQMask(AllIRQs)

	ch.Reset()

	return ch
}

// Reset the chip and both engines to their power-on state.
func (ch *Chip) Reset() {
	ch.fm.Reset()
	ch.adpcm.Reset()
	ch.combineStatus()
}

// Plumb a new environment into the Chip.
func (ch *Chip) Plumb(env *environment.Environment) {
	ch.env = env
}

func (ch *Chip) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("address: %#02x", ch.address))
	s.WriteString(fmt.Sprintf("  irq mask: %#02x", ch.irqMask))
	s.WriteString(fmt.Sprintf("  io ddr: %#01x", ch.ioDDR))
	return s.String()
}

// AttachKeyboard connects the chip's keyboard scan pins.
func (ch *Chip) AttachKeyboard(kbd KeyboardBus) {
	ch.kbd = kbd
}

// AttachIO connects the chip's general purpose I/O pins.
func (ch *Chip) AttachIO(io IOBus) {
	ch.io = io
}

// AttachStreamer connects the audio stream buffer. The streamer is told the
// current sample rate immediately.
func (ch *Chip) AttachStreamer(stream Streamer) {
	ch.stream = stream
	if ch.stream != nil {
		ch.stream.SetSampleRate(ch.SampleRate())
	}
}

// SampleRate returns the output sample rate in Hz for the current input
// clock.
func (ch *Chip) SampleRate() int {
	return ch.clock / (defaultPrescale * numOperators)
}

// WriteAddressPort latches a register address. Always succeeds - the silicon
// performs no validation.
func (ch *Chip) WriteAddressPort(data uint8) {
	ch.address = data
}

// WriteDataPort writes a value to the register selected by the address
// latch. The pending audio stream is caught up to the current instant first
// so that the write lands on the correct sample boundary.
func (ch *Chip) WriteDataPort(data uint8) {
	// force an update
	if ch.stream != nil {
		ch.stream.Update()
	}

	switch routeWrite(ch.address) {
	case targetIRQControl:
		ch.irqMask = ^data & AllIRQs
		ch.fm.SetIRQMask(ch.irqMask)
		ch.fm.Write(ch.address, data)
		ch.combineStatus()

	case targetKeyboardOut:
		if ch.kbd != nil {
			ch.kbd.KeyboardWrite(data)
		}

	case targetSplit:
		// the low nibble belongs to the ADPCM engine and the top two bits to
		// the FM engine
		ch.adpcm.Write(ch.address-AddrADPCMBase, data&0x0f)
		ch.fm.Write(ch.address, data&0xc0)

	case targetADPCM:
		ch.adpcm.Write(ch.address-AddrADPCMBase, data)

	case targetIODirection:
		ch.ioDDR = data & 0x0f

	case targetIOData:
		if ch.io != nil {
			ch.io.IOWrite(data & ch.ioDDR)
		}

	case targetFM:
		ch.fm.Write(ch.address, data)
	}
}

// ReadStatusPort returns the combined status of both engines, masked by the
// IRQ enable register. The value is recomputed on every call and the result
// is fed back to the FM engine, so reading the port is not entirely free of
// side effects - exactly like the real chip.
func (ch *Chip) ReadStatusPort() uint8 {
	return ch.combineStatus()
}

// ReadDataPort reads from the register selected by the address latch. Only a
// handful of addresses are readable; anything else is logged and answered
// with 0xff.
func (ch *Chip) ReadDataPort() uint8 {
	switch ch.address {
	case AddrKeyboardIn:
		if ch.kbd != nil {
			return ch.kbd.KeyboardRead()
		}
		return 0

	case AddrADPCMData, AddrADPCMStatus:
		return ch.adpcm.Read(ch.address - AddrADPCMBase)

	case AddrIOData:
		if ch.io != nil {
			return ch.io.IORead()
		}
		return 0
	}

	logger.Logf(ch.env, "y8950", "unexpected read from data port (address %#02x)", ch.address)
	return 0xff
}

// ProduceSample clocks both engines forward and returns one mono sample.
// Both engines contribute to a single accumulator which is then passed
// through the DAC's floating point round trip.
func (ch *Chip) ProduceSample() int16 {
	ch.fm.Clock()
	ch.adpcm.Clock()

	sum := ch.fm.Output()
	sum += ch.adpcm.Output()

	return RoundTripFP(sum)
}

// OnClockChanged updates the input clock and informs the streamer of the new
// sample rate.
func (ch *Chip) OnClockChanged(clock int) {
	ch.clock = clock
	if ch.stream != nil {
		ch.stream.SetSampleRate(ch.SampleRate())
	}
}

// OnROMBankChanged flushes the stream. Call when the backing store for the
// ADPCM engine's sample memory is re-banked.
func (ch *Chip) OnROMBankChanged() {
	if ch.stream != nil {
		ch.stream.Update()
	}
}

// combineStatus ORs the status flags of the two engines, masks them with the
// IRQ enable register and pushes the combined value back into the FM engine
// so its flag-and-reset behaviour stays consistent with the combined view.
func (ch *Chip) combineStatus() uint8 {
	status := ch.fm.Status()

	as := ch.adpcm.Status()
	if as&ADPCMStatusEOS != 0 {
		status |= StatusADPCMEOS
	}
	if as&ADPCMStatusBRDY != 0 {
		status |= StatusADPCMBRDY
	}
	if as&ADPCMStatusPlaying != 0 {
		status |= StatusADPCMPlaying
	}

	status &= ch.irqMask

	ch.fm.SetResetStatus(status, ^status)

	return status
}
