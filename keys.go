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

package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/chipshop/chipshop/environment"
	"github.com/chipshop/chipshop/hardware/keyboard"
	"github.com/chipshop/chipshop/logger"
	"github.com/chipshop/chipshop/modalflag"
	"github.com/chipshop/chipshop/termkeys"
)

// keys runs the keyboard demonstration: terminal input is fed into the key
// matrix and a firmware-style scan of the matrix reports what the keyboard
// sees. interrupt to quit.
func keys(md *modalflag.Modes) error {
	md.NewMode()

	firmware := md.AddString("firmware", "", "MPU program image to attach")
	log := md.AddBool("log", false, "echo debugging log to stdout")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *log {
		logger.SetEcho(os.Stdout, true)
	} else {
		logger.SetEcho(nil, false)
	}

	env := environment.NewEnvironment(environment.MainEmulation)

	input, err := termkeys.NewKeys(env, os.Stdin)
	if err != nil {
		return err
	}
	defer input.Close()

	kb := keyboard.NewKeyboard(env, input, input, nil)

	if *firmware != "" {
		data, err := os.ReadFile(*firmware)
		if err != nil {
			return err
		}
		if err := kb.AttachFirmware(data); err != nil {
			return err
		}
	}

	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)

	fmt.Println("type on the keyboard. ctrl-c to quit")

	prev := ""
	for {
		select {
		case <-intChan:
			fmt.Println("\r")
			return nil
		default:
		}

		kb.Service()

		cur := scanMatrix(kb)
		if cur != prev {
			if cur != "" {
				fmt.Printf("\r\n%s", cur)
			}
			prev = cur
		}

		time.Sleep(10 * time.Millisecond)
	}
}

// scanMatrix drives each row of the matrix in turn, the way the MPU program
// does, and names every key found pressed.
func scanMatrix(kb *keyboard.Keyboard) string {
	pressed := []string{}

	for row := 0; row < keyboard.NumRows; row++ {
		// row drive is active low. clock and data lines stay idle high
		drive := uint16(0x03ff) &^ (1 << uint(row))
		kb.WriteRowDriveLow(uint8(drive))
		kb.WriteRowDriveHighAndControl(uint8(drive>>8) | 0xc0)

		columns := kb.ReadColumns()
		for col := 0; col < keyboard.NumColumns; col++ {
			if columns&(1<<uint(col)) == 0 {
				k := keyboard.Layout[row][col]
				if k.Name != "" {
					pressed = append(pressed, k.Name)
				}
			}
		}
	}

	mod := kb.ReadControlPort()
	if mod&keyboard.ModShift == 0 {
		pressed = append(pressed, "Shift")
	}
	if mod&keyboard.ModCommand == 0 {
		pressed = append(pressed, "Command")
	}
	if mod&keyboard.ModOption == 0 {
		pressed = append(pressed, "Option")
	}

	return strings.Join(pressed, " ")
}
