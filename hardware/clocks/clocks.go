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

// Package clocks defines the constant crystal values of the emulated
// hardware.
package clocks

const (
	// the ceramic resonator driving the MPU inside the keyboard. Hz.
	KeyboardResonator = 6000000

	// the standard NTSC colourburst derived master clock of the sound chip.
	// Hz. machines in PAL territories used the same crystal for the sound
	// section.
	SoundChip = 3579545
)
