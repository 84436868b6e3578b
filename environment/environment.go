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

// Package environment provides context for an emulated device. Particularly
// useful when more than one instance of a device is running at once, for
// example a main instance and a throwaway instance used for testing or
// thumbnailing, and we want to be able to tell them apart in the log.
package environment

// Label is used to name the environment
type Label string

// MainEmulation is the label of the main emulation in the system. Secondary
// instances should use something more descriptive.
const MainEmulation = Label("")

// Environment is used to provide context for an emulated device
type Environment struct {
	Label Label

	// whether log entries from this instance should reach the central logger.
	// secondary instances will usually want to set this to false
	Logging bool
}

// NewEnvironment is the preferred method of initialisation for the
// Environment type
func NewEnvironment(label Label) *Environment {
	return &Environment{
		Label:   label,
		Logging: true,
	}
}

// IsEmulation checks the emulation label and returns true if it matches
func (env *Environment) IsEmulation(label Label) bool {
	return env.Label == label
}

// AllowLogging implements the logger.Permission interface
func (env *Environment) AllowLogging() bool {
	return env.Logging
}
