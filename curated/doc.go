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

// Package curated is a helper package for the plain Go language error type.
// Curated errors implement the error interface.
//
// Curated errors are created with the Errorf() function. Like Errorf() in the
// fmt package it takes a formatting pattern and placeholder values, but the
// unformatted pattern is kept and acts as the identity of the error:
//
//	e := curated.Errorf("keyboard: %v", err)
//
//	if curated.Is(e, "keyboard: %v") {
//		...
//	}
//
// The Has() function is similar to Is() but checks for the pattern anywhere
// in the error chain rather than only at the head. IsAny() answers whether
// the error was created by this package at all - a useful shorthand for
// distinguishing expected error conditions from unexpected ones.
//
// The Error() function normalises the message chain such that duplicate
// adjacent parts are removed. Wrapping an error with the same prefix at every
// level of a call chain therefore produces a readable single-prefix message.
//
// For the purposes of this package a chain is composed of parts separated by
// the sub-string ': ', as suggested on p239 of "The Go Programming Language"
// (Donovan, Kernighan).
//
// Sentinel patterns should be stored as const strings, suitably named, and
// tested for with Is() or Has().
package curated
