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

package digest_test

import (
	"testing"

	"github.com/chipshop/chipshop/digest"
	"github.com/chipshop/chipshop/test"
)

func feed(t *testing.T, dig *digest.Audio, samples []int16) {
	t.Helper()
	for _, s := range samples {
		test.ExpectedSuccess(t, dig.SetAudio(s))
	}
	test.ExpectedSuccess(t, dig.EndMixing())
}

func TestDeterminism(t *testing.T) {
	samples := make([]int16, 10000)
	for i := range samples {
		samples[i] = int16(i*7 - 5000)
	}

	a := digest.NewAudio()
	b := digest.NewAudio()
	feed(t, a, samples)
	feed(t, b, samples)

	test.Equate(t, a.String(), b.String())
}

func TestDifferentStreamsDiffer(t *testing.T) {
	samples := make([]int16, 10000)
	for i := range samples {
		samples[i] = int16(i)
	}

	a := digest.NewAudio()
	feed(t, a, samples)

	samples[9999]++
	b := digest.NewAudio()
	feed(t, b, samples)

	if a.String() == b.String() {
		t.Fatalf("different streams produced the same digest")
	}
}

func TestOrderMatters(t *testing.T) {
	// the rolling digest must be sensitive to sample order across flush
	// boundaries, not just content
	a := digest.NewAudio()
	b := digest.NewAudio()

	samples := make([]int16, 10000)
	for i := range samples {
		samples[i] = int16(i % 256)
	}
	feed(t, a, samples)

	for i, j := 0, len(samples)-1; i < j; i, j = i+1, j-1 {
		samples[i], samples[j] = samples[j], samples[i]
	}
	feed(t, b, samples)

	if a.String() == b.String() {
		t.Fatalf("reversed stream produced the same digest")
	}
}

func TestResetDigest(t *testing.T) {
	a := digest.NewAudio()
	feed(t, a, []int16{1, 2, 3})

	a.ResetDigest()
	b := digest.NewAudio()

	test.Equate(t, a.String(), b.String())

	// and the two accumulate identically after the reset
	feed(t, a, []int16{4, 5, 6})
	feed(t, b, []int16{4, 5, 6})
	test.Equate(t, a.String(), b.String())
}
