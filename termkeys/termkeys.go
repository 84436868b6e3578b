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

// Package termkeys drives the keyboard matrix from an ordinary terminal. It
// puts the terminal into cbreak mode and translates incoming characters into
// matrix key presses.
//
// A terminal delivers key-down events only, so every translated key is held
// in the matrix for a short time and then released. Shifted characters are
// translated into the base key plus the shift modifier.
package termkeys

import (
	"os"
	"sync"
	"time"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"

	"github.com/chipshop/chipshop/curated"
	"github.com/chipshop/chipshop/environment"
	"github.com/chipshop/chipshop/hardware/keyboard"
	"github.com/chipshop/chipshop/logger"
)

// how long a translated key stays pressed in the matrix.
const holdDuration = 120 * time.Millisecond

// matrix position of a held key.
type position struct {
	row    int
	column int
}

// Keys translates terminal input into key matrix state. It implements the
// keyboard.Matrix and keyboard.Modifiers interfaces.
type Keys struct {
	input *os.File

	canAttr    unix.Termios
	cbreakAttr unix.Termios

	crit struct {
		sync.Mutex
		held       map[position]time.Time
		shiftUntil time.Time
	}

	quit chan bool
	ack  chan bool
}

// NewKeys is the preferred method of initialisation for the Keys type. The
// terminal is left in cbreak mode until Close() is called.
func NewKeys(env *environment.Environment, input *os.File) (*Keys, error) {
	ky := &Keys{
		input: input,
		quit:  make(chan bool),
		ack:   make(chan bool),
	}
	ky.crit.held = make(map[position]time.Time)

	if err := termios.Tcgetattr(input.Fd(), &ky.canAttr); err != nil {
		return nil, curated.Errorf("termkeys: %v", err)
	}

	ky.cbreakAttr = ky.canAttr
	termios.Cfmakecbreak(&ky.cbreakAttr)

	// read with a timeout so the read loop can notice the quit signal
	ky.cbreakAttr.Cc[unix.VMIN] = 0
	ky.cbreakAttr.Cc[unix.VTIME] = 1

	if err := termios.Tcsetattr(input.Fd(), termios.TCIFLUSH, &ky.cbreakAttr); err != nil {
		return nil, curated.Errorf("termkeys: %v", err)
	}

	go ky.readLoop(env)

	return ky, nil
}

// Close restores the terminal and stops the read loop.
func (ky *Keys) Close() {
	ky.quit <- true
	<-ky.ack
	_ = termios.Tcsetattr(ky.input.Fd(), termios.TCIFLUSH, &ky.canAttr)
}

func (ky *Keys) readLoop(env *environment.Environment) {
	defer func() {
		ky.ack <- true
	}()

	buf := make([]byte, 8)
	for {
		select {
		case <-ky.quit:
			return
		default:
		}

		n, err := ky.input.Read(buf)
		if err != nil {
			logger.Logf(env, "termkeys", "read loop ended: %v", err)
			<-ky.quit
			return
		}

		for i := 0; i < n; i++ {
			// arrow keys arrive as three byte escape sequences
			if buf[i] == 0x1b && i+2 < n && buf[i+1] == '[' {
				switch buf[i+2] {
				case 'A':
					ky.press("Up", false)
				case 'B':
					ky.press("Down", false)
				case 'C':
					ky.press("Right", false)
				case 'D':
					ky.press("Left", false)
				}
				i += 2
				continue
			}

			name, shifted, ok := translate(buf[i])
			if ok {
				ky.press(name, shifted)
			}
		}
	}
}

// press marks the named key as held, with the shift modifier if required.
func (ky *Keys) press(name string, shifted bool) {
	row, col, ok := keyboard.Locate(name)
	if !ok {
		return
	}

	ky.crit.Lock()
	defer ky.crit.Unlock()

	until := time.Now().Add(holdDuration)
	ky.crit.held[position{row: row, column: col}] = until
	if shifted {
		ky.crit.shiftUntil = until
	}
}

// Row implements the keyboard.Matrix interface. The returned byte is active
// low.
func (ky *Keys) Row(row int) uint8 {
	ky.crit.Lock()
	defer ky.crit.Unlock()

	now := time.Now()
	v := uint8(0xff)
	for pos, until := range ky.crit.held {
		if now.After(until) {
			delete(ky.crit.held, pos)
			continue
		}
		if pos.row == row {
			v &^= 1 << uint(pos.column)
		}
	}

	return v
}

// Modifiers implements the keyboard.Modifiers interface. The returned byte is
// active low.
func (ky *Keys) Modifiers() uint8 {
	ky.crit.Lock()
	defer ky.crit.Unlock()

	v := uint8(0xff)
	if time.Now().Before(ky.crit.shiftUntil) {
		v &^= keyboard.ModShift
	}

	return v
}
