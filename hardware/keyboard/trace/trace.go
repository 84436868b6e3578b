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

// Package trace records the state of an electrical line.
package trace

// Trace records the state of an electrical line, whether it is high or low,
// and also whether the immediately previous state is high or low.
//
// Moving from one state to the other is done with Tick(bool) where a boolean
// value of true indicates a high voltage state.
//
// The function Falling() returns true if the line voltage has moved from a
// high state to a low state; and Rising() returns true if the opposite is
// true.
//
// Deriving conditions from two traces is convenient. For example, given two
// traces A and B, a condition for event E might be:
//
//	 if A.Hi() && B.Rising() {
//			E()
//	 }
type Trace struct {
	from bool
	to   bool
}

// NewTrace is the preferred method of initialisation for the Trace type. The
// line starts in the idle-high state.
func NewTrace() Trace {
	return Trace{
		from: true,
		to:   true,
	}
}

// Changed returns true if the most recent Tick() altered the line state.
func (tr *Trace) Changed() bool {
	return tr.from != tr.to
}

// Falling returns true if the line has moved from a high to a low state.
func (tr *Trace) Falling() bool {
	return tr.from && !tr.to
}

// Rising returns true if the line has moved from a low to a high state.
func (tr *Trace) Rising() bool {
	return !tr.from && tr.to
}

// Hi returns true if the line is in a high state.
func (tr *Trace) Hi() bool {
	return tr.to
}

// Lo returns true if the line is in a low state.
func (tr *Trace) Lo() bool {
	return !tr.to
}

// Tick advances the line to the state indicated by v.
func (tr *Trace) Tick(v bool) {
	tr.from = tr.to
	tr.to = v
}
