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

// NumColumns is the number of columns in the key matrix.
const NumColumns = 8

// Key identifies the logical key at a matrix position.
//
// The Shifted field marks the keypad keys that the keyboard reports as if the
// shift key were held. The translation of that quirk into scan codes is the
// business of the layer above - the matrix itself stays raw.
type Key struct {
	Name    string
	Shifted bool
}

// NoKey marks an unused matrix position.
var NoKey = Key{}

// Layout is the key matrix of the M0110A. The first index is the row (driven
// by the row drive mask) and the second index is the column (the bit position
// in the value returned by ReadColumns).
//
// This keyboard integrates the keypad with the main keyboard, which is why
// keypad and arrow keys share rows with the typewriter keys. The layout was
// only ever produced in this one arrangement.
var Layout = [NumRows][NumColumns]Key{
	{NoKey, {Name: "Keypad *", Shifted: true}, {Name: "Keypad 8"}, {Name: "P"}, {Name: "D"}, {Name: "W"}, {Name: "2"}, {Name: "V"}},
	{{Name: "\\"}, {Name: "Keypad /", Shifted: true}, {Name: "Keypad 9"}, {Name: "["}, {Name: "F"}, {Name: "E"}, {Name: "3"}, {Name: "B"}},
	{{Name: "Left"}, {Name: "Keypad =", Shifted: true}, {Name: "Keypad -"}, {Name: "]"}, {Name: "G"}, {Name: "R"}, {Name: "4"}, {Name: "N"}},
	{{Name: "Right"}, {Name: "Keypad Clear"}, {Name: "Up"}, {Name: "'"}, {Name: "H"}, {Name: "T"}, {Name: "5"}, {Name: "M"}},
	{{Name: "Down"}, {Name: "Backspace"}, {Name: "Keypad 1"}, {Name: "Return"}, {Name: "J"}, {Name: "Y"}, {Name: "6"}, {Name: ","}},
	{{Name: "Keypad 0"}, {Name: "="}, {Name: "Keypad 2"}, {Name: "Keypad 4"}, {Name: "K"}, {Name: "U"}, {Name: "7"}, {Name: "."}},
	{{Name: "Keypad ."}, {Name: "-"}, {Name: "Keypad 3"}, {Name: "Keypad 5"}, {Name: "L"}, {Name: "I"}, {Name: "8"}, {Name: "/"}},
	{{Name: "Keypad Enter"}, {Name: "0"}, {Name: "Keypad +", Shifted: true}, {Name: "Keypad 6"}, {Name: ";"}, {Name: "O"}, {Name: "9"}, NoKey},
	{NoKey, {Name: "Z"}, NoKey, {Name: "Space"}, {Name: "A"}, {Name: "Tab"}, {Name: "`"}, {Name: "X"}},
	{NoKey, NoKey, {Name: "Keypad 7"}, NoKey, {Name: "S"}, {Name: "Q"}, {Name: "1"}, {Name: "C"}},
}

// Locate returns the matrix position of the named key. The boolean return
// value is false if the name does not appear in the layout.
func Locate(name string) (row int, column int, ok bool) {
	for r := 0; r < NumRows; r++ {
		for c := 0; c < NumColumns; c++ {
			if Layout[r][c].Name == name {
				return r, c, true
			}
		}
	}
	return 0, 0, false
}
