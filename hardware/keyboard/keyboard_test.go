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

	"github.com/chipshop/chipshop/environment"
	"github.com/chipshop/chipshop/hardware/keyboard"
	"github.com/chipshop/chipshop/test"
)

// mockMatrix supplies a fixed snapshot for every row.
type mockMatrix struct {
	rows [keyboard.NumRows]uint8
}

func newMockMatrix() *mockMatrix {
	m := &mockMatrix{}
	for i := range m.rows {
		m.rows[i] = 0xff
	}
	return m
}

func (m *mockMatrix) Row(row int) uint8 {
	return m.rows[row]
}

// mockLineBus records line change notifications in the order they arrive.
type mockLineBus struct {
	clockEvents []bool
	dataEvents  []bool
}

func (b *mockLineBus) WriteClock(level bool) {
	b.clockEvents = append(b.clockEvents, level)
}

func (b *mockLineBus) WriteData(level bool) {
	b.dataEvents = append(b.dataEvents, level)
}

func newTestKeyboard() (*keyboard.Keyboard, *mockMatrix, *mockLineBus) {
	env := environment.NewEnvironment("test")
	m := newMockMatrix()
	bus := &mockLineBus{}
	return keyboard.NewKeyboard(env, m, nil, bus), m, bus
}

func TestReadColumnsNoRowsSelected(t *testing.T) {
	key, m, _ := newTestKeyboard()

	// reset state selects no rows. even with keys held the columns read idle
	m.rows[3] = 0x00
	test.Equate(t, key.ReadColumns(), 0xff)
}

func TestReadColumnsSingleRow(t *testing.T) {
	key, m, _ := newTestKeyboard()

	m.rows[0] = 0xa5
	m.rows[1] = 0x3c

	// select row 0 only (active low)
	key.WriteRowDriveLow(0xfe)
	key.WriteRowDriveHighAndControl(0xc3)
	test.Equate(t, key.ReadColumns(), 0xa5)

	// select row 1 only
	key.WriteRowDriveLow(0xfd)
	test.Equate(t, key.ReadColumns(), 0x3c)
}

func TestReadColumnsMultiRowAND(t *testing.T) {
	key, m, _ := newTestKeyboard()

	m.rows[2] = 0xf0
	m.rows[5] = 0x9f

	// select rows 2 and 5
	key.WriteRowDriveLow(0xff &^ 0x24)
	key.WriteRowDriveHighAndControl(0xc3)
	test.Equate(t, key.ReadColumns(), 0xf0&0x9f)
}

func TestReadColumnsHighRows(t *testing.T) {
	key, m, _ := newTestKeyboard()

	m.rows[8] = 0x7f
	m.rows[9] = 0xfb

	// rows 8 and 9 are selected through bits 0 and 1 of the control port
	key.WriteRowDriveLow(0xff)
	key.WriteRowDriveHighAndControl(0xc0)
	test.Equate(t, key.ReadColumns(), 0x7f&0xfb)

	// deselect row 9
	key.WriteRowDriveHighAndControl(0xc2)
	test.Equate(t, key.ReadColumns(), 0x7f)
}

func TestEdgeTriggering(t *testing.T) {
	key, _, bus := newTestKeyboard()

	// both lines idle high after reset. writing the idle levels changes
	// nothing and emits nothing
	key.WriteRowDriveHighAndControl(0xc3)
	test.Equate(t, len(bus.clockEvents), 0)
	test.Equate(t, len(bus.dataEvents), 0)

	// drop only the data line. one data event, no clock event
	key.WriteRowDriveHighAndControl(0x43)
	test.Equate(t, len(bus.clockEvents), 0)
	test.Equate(t, len(bus.dataEvents), 1)
	test.Equate(t, bus.dataEvents[0], false)

	// drop the clock line too. one clock event, no further data event
	key.WriteRowDriveHighAndControl(0x03)
	test.Equate(t, len(bus.clockEvents), 1)
	test.Equate(t, len(bus.dataEvents), 1)
	test.Equate(t, bus.clockEvents[0], false)

	// raise both. one event each
	key.WriteRowDriveHighAndControl(0xc3)
	test.Equate(t, len(bus.clockEvents), 2)
	test.Equate(t, len(bus.dataEvents), 2)
	test.Equate(t, bus.clockEvents[1], true)
	test.Equate(t, bus.dataEvents[1], true)
}

func TestHostDataDeferredApply(t *testing.T) {
	key, _, _ := newTestKeyboard()

	// idle high, reported inverted
	test.Equate(t, key.ReadHostDataLine(), 0)

	// an edge from the host is not visible until the next service point
	key.OnHostDataEdge(false)
	test.Equate(t, key.ReadHostDataLine(), 0)

	key.Service()
	test.Equate(t, key.ReadHostDataLine(), 1)
}

func TestHostDataOrdering(t *testing.T) {
	key, _, _ := newTestKeyboard()

	// two edges submitted before the synchronization point are applied in
	// submission order. the line must end up at the level of the second edge
	key.OnHostDataEdge(false)
	key.OnHostDataEdge(true)
	test.Equate(t, key.ReadHostDataLine(), 0)

	key.Service()
	test.Equate(t, key.ReadHostDataLine(), 0)

	// and the other way around
	key.OnHostDataEdge(true)
	key.OnHostDataEdge(false)
	key.Service()
	test.Equate(t, key.ReadHostDataLine(), 1)
}

func TestControlPort(t *testing.T) {
	key, _, _ := newTestKeyboard()

	// no modifier collaborator: modifiers read released (high), unused pins
	// high, host data bit reflects the inverted idle-high line (0)
	test.Equate(t, key.ReadControlPort(), 0x7f)

	key.OnHostDataEdge(false)
	key.Service()
	test.Equate(t, key.ReadControlPort(), 0xff)
}

func TestReset(t *testing.T) {
	key, m, _ := newTestKeyboard()

	m.rows[0] = 0x00
	key.WriteRowDriveLow(0x00)
	key.WriteRowDriveHighAndControl(0x00)
	key.OnHostDataEdge(false)

	key.Reset()

	// no rows selected, queue drained, lines idle
	test.Equate(t, key.ReadColumns(), 0xff)
	key.Service()
	test.Equate(t, key.ReadHostDataLine(), 0)
}

func TestFirmware(t *testing.T) {
	key, _, _ := newTestKeyboard()

	err := key.AttachFirmware(make([]byte, 0x0400))
	test.ExpectedSuccess(t, err)

	err = key.AttachFirmware(make([]byte, 0x0200))
	test.ExpectedFailure(t, err)
}
