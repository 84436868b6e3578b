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

package keyboard_test

import (
	"testing"

	"github.com/chipshop/chipshop/hardware/keyboard"
	"github.com/chipshop/chipshop/test"
)

func TestLayoutPositions(t *testing.T) {
	// spot checks against the documented matrix
	row, col, ok := keyboard.Locate("P")
	test.Equate(t, ok, true)
	test.Equate(t, row, 0)
	test.Equate(t, col, 3)

	row, col, ok = keyboard.Locate("Space")
	test.Equate(t, ok, true)
	test.Equate(t, row, 8)
	test.Equate(t, col, 3)

	row, col, ok = keyboard.Locate("Keypad 7")
	test.Equate(t, ok, true)
	test.Equate(t, row, 9)
	test.Equate(t, col, 2)

	row, col, ok = keyboard.Locate("Keypad Enter")
	test.Equate(t, ok, true)
	test.Equate(t, row, 7)
	test.Equate(t, col, 0)

	_, _, ok = keyboard.Locate("Escape")
	test.Equate(t, ok, false)
}

func TestLayoutShiftedKeys(t *testing.T) {
	// the keyboard simulates holding shift for the keypad * / = + keys
	shifted := map[string]bool{
		"Keypad *": true,
		"Keypad /": true,
		"Keypad =": true,
		"Keypad +": true,
	}

	for r := 0; r < keyboard.NumRows; r++ {
		for c := 0; c < keyboard.NumColumns; c++ {
			k := keyboard.Layout[r][c]
			if k == keyboard.NoKey {
				continue
			}
			if k.Shifted != shifted[k.Name] {
				t.Errorf("key %q at (%d,%d): shifted = %v", k.Name, r, c, k.Shifted)
			}
		}
	}
}

func TestLayoutUnusedPositions(t *testing.T) {
	// the documented matrix has exactly these unused positions
	unused := [][2]int{
		{0, 0}, {7, 7}, {8, 0}, {8, 2}, {9, 0}, {9, 1}, {9, 3},
	}

	ct := 0
	for r := 0; r < keyboard.NumRows; r++ {
		for c := 0; c < keyboard.NumColumns; c++ {
			if keyboard.Layout[r][c] == keyboard.NoKey {
				ct++
			}
		}
	}
	test.Equate(t, ct, len(unused))

	for _, p := range unused {
		if keyboard.Layout[p[0]][p[1]] != keyboard.NoKey {
			t.Errorf("expected unused position at (%d,%d)", p[0], p[1])
		}
	}
}

func TestLayoutNoDuplicates(t *testing.T) {
	seen := make(map[string]bool)
	for r := 0; r < keyboard.NumRows; r++ {
		for c := 0; c < keyboard.NumColumns; c++ {
			k := keyboard.Layout[r][c]
			if k == keyboard.NoKey {
				continue
			}
			if seen[k.Name] {
				t.Errorf("key %q appears more than once", k.Name)
			}
			seen[k.Name] = true
		}
	}
}
