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

// Memory is the sample storage attached to the engine. The engine makes no
// assumption about what backs it - ROM, DRAM or something synthesised on the
// fly. Writes to read-only implementations can simply be ignored.
type Memory interface {
	Read(address uint32) uint8
	Write(address uint32, data uint8)
}

// RAM is the simplest possible Memory implementation. Addresses wrap at the
// size of the allocation.
type RAM struct {
	data []uint8
}

// NewRAM is the preferred method of initialisation for the RAM type. Size is
// rounded up to a power of two so that address wrapping is a mask.
func NewRAM(size uint32) *RAM {
	allocation := uint32(1)
	for allocation < size {
		allocation <<= 1
	}
	return &RAM{
		data: make([]uint8, allocation),
	}
}

// Size returns the usable size of the RAM in bytes.
func (ram *RAM) Size() uint32 {
	return uint32(len(ram.data))
}

// Read implements the Memory interface.
func (ram *RAM) Read(address uint32) uint8 {
	return ram.data[address&uint32(len(ram.data)-1)]
}

// Write implements the Memory interface.
func (ram *RAM) Write(address uint32, data uint8) {
	ram.data[address&uint32(len(ram.data)-1)] = data
}
