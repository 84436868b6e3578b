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

package termkeys

// the shifted forms of the punctuation keys, mapped back to the character on
// the unshifted keycap.
var shiftedPunctuation = map[byte]byte{
	'!': '1', '@': '2', '#': '3', '$': '4', '%': '5',
	'^': '6', '&': '7', '*': '8', '(': '9', ')': '0',
	'_': '-', '+': '=', '{': '[', '}': ']', ':': ';',
	'"': '\'', '<': ',', '>': '.', '?': '/', '|': '\\',
	'~': '`',
}

// translate maps a terminal character to the name of a key in the matrix
// layout. the second return value indicates that the shift modifier is needed
// to produce the character. the final return value is false if the character
// has no place in the matrix.
func translate(c byte) (string, bool, bool) {
	switch {
	case c >= 'a' && c <= 'z':
		return string(c - 'a' + 'A'), false, true
	case c >= 'A' && c <= 'Z':
		return string(c), true, true
	case c >= '0' && c <= '9':
		return string(c), false, true
	}

	switch c {
	case ' ':
		return "Space", false, true
	case '\r', '\n':
		return "Return", false, true
	case '\t':
		return "Tab", false, true
	case 0x08, 0x7f:
		return "Backspace", false, true
	}

	if base, ok := shiftedPunctuation[c]; ok {
		return string(base), true, true
	}

	switch c {
	case '-', '=', '[', ']', ';', '\'', ',', '.', '/', '\\', '`':
		return string(c), false, true
	}

	return "", false, false
}
