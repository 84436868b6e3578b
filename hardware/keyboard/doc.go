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

// Package keyboard emulates the Apple M0110A keyboard at the pin level. The
// M0110A is the Macintosh Plus keyboard with the integrated keypad - it
// behaves like an M0120 keypad with an M0110 keyboard plugged into it.
//
// The keyboard is driven by a small MPU that scans a 10x8 key matrix and
// talks to the host over a two-wire (clock and data) half-duplex serial link.
// The MPU program is not interpreted by this package. Instead the package
// models the program's observable effect on the MPU pins: a row drive mask
// written through two ports; a column read that combines the key state of
// every driven row; and edge-triggered updates of the two link lines.
//
// The emulation is based entirely on examination of the MPU program and
// observation of real hardware. There may be additional hardware in the
// keyboard that is not emulated (e.g. a watchdog timer).
//
// The host and the keyboard run on logically concurrent timelines. Host
// requests to change the data line therefore arrive through OnHostDataEdge()
// and take effect only at the next call to Service(), preserving submission
// order. This is the only point of the emulation where ordering needs care -
// everything else is synchronous state mutation.
package keyboard
