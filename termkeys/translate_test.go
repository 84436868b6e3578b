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

import (
	"testing"

	"github.com/chipshop/chipshop/hardware/keyboard"
	"github.com/chipshop/chipshop/test"
)

func TestTranslate(t *testing.T) {
	name, shifted, ok := translate('a')
	test.Equate(t, name, "A")
	test.Equate(t, shifted, false)
	test.Equate(t, ok, true)

	name, shifted, ok = translate('A')
	test.Equate(t, name, "A")
	test.Equate(t, shifted, true)
	test.Equate(t, ok, true)

	name, shifted, ok = translate('5')
	test.Equate(t, name, "5")
	test.Equate(t, shifted, false)
	test.Equate(t, ok, true)

	name, shifted, ok = translate('%')
	test.Equate(t, name, "5")
	test.Equate(t, shifted, true)
	test.Equate(t, ok, true)

	name, _, ok = translate(' ')
	test.Equate(t, name, "Space")
	test.Equate(t, ok, true)

	name, _, ok = translate(0x7f)
	test.Equate(t, name, "Backspace")
	test.Equate(t, ok, true)

	_, _, ok = translate(0x1b)
	test.Equate(t, ok, false)
}

// every name translate can produce must exist in the matrix layout.
func TestTranslateNamesLocate(t *testing.T) {
	for c := byte(0x08); c < 0x7f; c++ {
		name, _, ok := translate(c)
		if !ok {
			continue
		}
		_, _, found := keyboard.Locate(name)
		if !found {
			t.Errorf("translate(%q) names %q which is not in the layout", c, name)
		}
	}
}
