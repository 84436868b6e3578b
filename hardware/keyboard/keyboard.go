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

package keyboard

import (
	"fmt"
	"hash/crc32"
	"strings"

	"github.com/chipshop/chipshop/curated"
	"github.com/chipshop/chipshop/environment"
	"github.com/chipshop/chipshop/hardware/keyboard/trace"
	"github.com/chipshop/chipshop/logger"
)

// LineBus is the host side of the two-wire link. Implementations receive the
// keyboard's drive state of the clock and data lines. Notification is
// edge-triggered - the functions are called only when the line level actually
// changes.
type LineBus interface {
	WriteClock(level bool)
	WriteData(level bool)
}

// Matrix implementations supply the physical key state for each of the ten
// matrix rows. The returned byte is active low - a zero bit means the key at
// that column is pressed. The value is sampled freshly on every call.
type Matrix interface {
	Row(row int) uint8
}

// Modifiers implementations supply the state of the modifier keys that are
// wired directly to the MPU port rather than through the matrix. The returned
// byte is active low and uses the Mod* bit values.
type Modifiers interface {
	Modifiers() uint8
}

// The modifier keys wired directly to the MPU input port.
const (
	ModShift   = 0x04
	ModCapsLock = 0x08
	ModOption  = 0x10
	ModCommand = 0x20
)

// size of the MPU program. the image is opaque to the emulation - only its
// observable effect on the pins is modelled.
const FirmwareSize = 0x0400

// rowDriveReset is the reset state of the row drive mask. active low, so no
// rows are selected.
const rowDriveReset = 0x03ff

// NumRows is the number of rows in the key matrix.
const NumRows = 10

// Keyboard is the keyboard matrix controller. It models the observable pin
// behaviour of the MPU inside the M0110A keyboard: row drive out, column read
// in, and the two-wire serial link to the host.
//
// The emulation is of the pins, not of the MPU program. The program itself is
// treated as opaque configuration (see AttachFirmware).
type Keyboard struct {
	env *environment.Environment

	rows Matrix
	mod  Modifiers
	bus  LineBus

	// current bit pattern driving the matrix rows. active low
	rowDrive uint16

	// drive state of the two-wire link. all lines idle high
	clockOut trace.Trace
	dataOut  trace.Trace
	dataIn   trace.Trace

	// host requests to change the data line are queued and applied at the
	// next call to Service(). see OnHostDataEdge()
	pushed chan bool

	firmware []byte
}

// the host data queue is serviced frequently. a modest buffer is plenty.
const pushedQueueLen = 64

// NewKeyboard is the preferred method of initialisation for the Keyboard
// type. The matrix argument must not be nil. The mod and bus arguments may be
// nil, in which case the modifier keys read as released and line changes are
// not propagated anywhere.
func NewKeyboard(env *environment.Environment, rows Matrix, mod Modifiers, bus LineBus) *Keyboard {
	key := &Keyboard{
		env:    env,
		rows:   rows,
		mod:    mod,
		bus:    bus,
		pushed: make(chan bool, pushedQueueLen),
	}
	key.Reset()
	return key
}

// Reset the keyboard to its power-on state. Row drive deselects every row and
// all lines of the two-wire link return to idle-high.
func (key *Keyboard) Reset() {
	key.rowDrive = rowDriveReset
	key.clockOut = trace.NewTrace()
	key.dataOut = trace.NewTrace()
	key.dataIn = trace.NewTrace()

	// drain any undelivered host events
	for {
		select {
		case <-key.pushed:
		default:
			return
		}
	}
}

// Snapshot creates a copy of the Keyboard in its current state.
func (key *Keyboard) Snapshot() *Keyboard {
	n := *key
	return &n
}

// Plumb a new environment into the Keyboard.
func (key *Keyboard) Plumb(env *environment.Environment) {
	key.env = env
}

func (key *Keyboard) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("row drive: %#03x", key.rowDrive))
	s.WriteString(fmt.Sprintf("  clock: %v", lineState(key.clockOut.Hi())))
	s.WriteString(fmt.Sprintf("  data: %v", lineState(key.dataOut.Hi())))
	s.WriteString(fmt.Sprintf("  data in: %v", lineState(key.dataIn.Hi())))
	return s.String()
}

func lineState(hi bool) string {
	if hi {
		return "hi"
	}
	return "lo"
}

// AttachFirmware stores the MPU program image. The image is never
// interpreted, it is carried as configuration so that the emulated keyboard
// is a complete description of the original part.
func (key *Keyboard) AttachFirmware(data []byte) error {
	if len(data) != FirmwareSize {
		return curated.Errorf("keyboard: firmware: wrong size (%d bytes)", len(data))
	}
	key.firmware = make([]byte, FirmwareSize)
	copy(key.firmware, data)
	logger.Logf(key.env, "keyboard", "firmware attached (crc %08x)", crc32.ChecksumIEEE(key.firmware))
	return nil
}

// WriteRowDriveLow sets bits 0 to 7 of the row drive mask. This is the
// simulated firmware's write to MPU port 1.
func (key *Keyboard) WriteRowDriveLow(data uint8) {
	key.rowDrive = (key.rowDrive & 0x0300) | uint16(data)
}

// WriteRowDriveHighAndControl sets bits 8 and 9 of the row drive mask from
// bits 0 and 1 of the argument. Bit 6 is the requested level of the clock
// line and bit 7 the requested level of the data line. A line that changes
// level is propagated to the host immediately; the clock line is evaluated
// before the data line. This is the simulated firmware's write to MPU port 2.
func (key *Keyboard) WriteRowDriveHighAndControl(data uint8) {
	key.rowDrive = (key.rowDrive & 0x00ff) | (uint16(data&0x03) << 8)

	key.clockOut.Tick(data&0x40 == 0x40)
	if key.clockOut.Changed() {
		if key.clockOut.Hi() {
			logger.Logf(key.env, "keyboard", "host clock out 0 -> 1 data=%d", key.linkDataBit())
		} else {
			logger.Log(key.env, "keyboard", "host clock out 1 -> 0")
		}
		if key.bus != nil {
			key.bus.WriteClock(key.clockOut.Hi())
		}
	}

	key.dataOut.Tick(data&0x80 == 0x80)
	if key.dataOut.Changed() {
		logger.Logf(key.env, "keyboard", "host data out %d -> %d", bit(!key.dataOut.Hi()), bit(key.dataOut.Hi()))
		if key.bus != nil {
			key.bus.WriteData(key.dataOut.Hi())
		}
	}
}

// the value of the data line as seen by the host. both sides drive the line
// so it reads high only when neither side is pulling it low.
func (key *Keyboard) linkDataBit() uint8 {
	if key.dataOut.Hi() && key.dataIn.Hi() {
		return 1
	}
	return 0
}

func bit(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// ReadColumns returns the combined key state of every selected row. Row
// selection is active low. Key state is active low so rows are combined with
// AND - a pressed key in any selected row pulls its column bit low. With no
// rows selected the result is 0xff.
func (key *Keyboard) ReadColumns() uint8 {
	result := uint8(0xff)
	for i := 0; i < NumRows; i++ {
		if key.rowDrive&(1<<i) == 0 {
			result &= key.rows.Row(i)
		}
	}
	logger.Logf(key.env, "keyboard", "read matrix: row drive = %03x, result = %02x", key.rowDrive, result)
	return result
}

// ReadControlPort returns the image of the MPU's port 2 input pins: the
// modifier keys (active low) and, in bit 7, the host's drive of the data line
// as returned by ReadHostDataLine(). Unused pins read high.
func (key *Keyboard) ReadControlPort() uint8 {
	mod := uint8(ModShift | ModCapsLock | ModOption | ModCommand)
	if key.mod != nil {
		mod = key.mod.Modifiers() & (ModShift | ModCapsLock | ModOption | ModCommand)
	}
	return 0x43 | mod | (key.ReadHostDataLine() << 7)
}

// ReadHostDataLine returns the synchronized host drive of the data line. The
// value is inverted, matching the polarity convention of the port the line is
// wired to.
func (key *Keyboard) ReadHostDataLine() uint8 {
	return bit(key.dataIn.Hi()) ^ 0x01
}

// OnHostDataEdge is how the host requests a change to the data line. The host
// runs on its own timeline so the request is not applied immediately - it is
// queued and applied by Service() in strict submission order.
func (key *Keyboard) OnHostDataEdge(level bool) {
	select {
	case key.pushed <- level:
	default:
		logger.Log(key.env, "keyboard", "host data queue full; dropping event")
	}
}

// Service applies queued host data-line changes. It should be called at a
// synchronization point in the emulation's timeline - between instruction
// boundaries of the driving machine is ideal. Events are applied in the order
// they were submitted.
func (key *Keyboard) Service() {
	for {
		select {
		case level := <-key.pushed:
			key.dataIn.Tick(level)
			if key.dataIn.Changed() {
				logger.Logf(key.env, "keyboard", "host data in %d -> %d", bit(!key.dataIn.Hi()), bit(key.dataIn.Hi()))
			}
		default:
			return
		}
	}
}
