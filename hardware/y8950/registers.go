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

// The special register addresses decoded by the chip itself. Every other
// address belongs to the FM engine.
const (
	AddrIRQControl  = 0x04
	AddrKeyboardIn  = 0x05
	AddrKeyboardOut = 0x06
	AddrADPCMBase   = 0x07
	AddrSplit       = 0x08
	AddrADPCMData   = 0x09
	AddrIODirection = 0x18
	AddrIOData      = 0x19
	AddrADPCMStatus = 0x1a
)

// Status port bits. The ADPCM bits are the chip's encoding - the engine's own
// status encoding is translated by the chip (see combineStatus).
const (
	StatusADPCMPlaying = 0x01
	StatusADPCMBRDY    = 0x08
	StatusADPCMEOS     = 0x10
	StatusTimerB       = 0x20
	StatusTimerA       = 0x40
	StatusIRQ          = 0x80
)

// AllIRQs is the set of status bits that can be disabled through the IRQ
// control register.
const AllIRQs = StatusADPCMBRDY | StatusADPCMEOS | StatusTimerA | StatusTimerB

// Status bits returned by ADPCM.Status(). These are the engine's own
// encoding, as distinct from the chip's combined status encoding above.
const (
	ADPCMStatusEOS     = 0x01
	ADPCMStatusBRDY    = 0x02
	ADPCMStatusPlaying = 0x04
)

// destination of a data port write.
type writeTarget int

const (
	targetFM writeTarget = iota
	targetADPCM
	targetIRQControl
	targetKeyboardOut
	targetSplit
	targetIODirection
	targetIOData
)

// writeRouting is the data port write decode table for addresses below 0x20.
// Addresses of 0x20 and above always route to the FM engine. The table is
// what the silicon decodes - note that 0x09 and 0x13/0x14 are *not* part of
// the ADPCM block on the write side, even though 0x09 is an ADPCM address on
// the read side.
var writeRouting = [0x20]writeTarget{
	0x04: targetIRQControl,
	0x06: targetKeyboardOut,
	0x07: targetADPCM,
	0x08: targetSplit,
	0x0a: targetADPCM,
	0x0b: targetADPCM,
	0x0c: targetADPCM,
	0x0d: targetADPCM,
	0x0e: targetADPCM,
	0x0f: targetADPCM,
	0x10: targetADPCM,
	0x11: targetADPCM,
	0x12: targetADPCM,
	0x15: targetADPCM,
	0x16: targetADPCM,
	0x17: targetADPCM,
	0x18: targetIODirection,
	0x19: targetIOData,
}

// routeWrite returns the destination of a data port write for the given
// address latch value.
func routeWrite(address uint8) writeTarget {
	if address >= 0x20 {
		return targetFM
	}
	return writeRouting[address]
}
